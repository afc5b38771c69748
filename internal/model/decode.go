package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnmarshalJSON decodes a record leniently: numeric fields accept numbers,
// numeric strings and booleans, and any value of the wrong shape decodes as
// zero instead of failing the whole record.
func (r *ProductionRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ProductionRecord{
		ID:              looseString(raw["id"]),
		Date:            looseString(raw["date"]),
		StartTime:       looseString(raw["startTime"]),
		OrderNo:         looseString(raw["orderNo"]),
		Customer:        looseString(raw["customer"]),
		ProductName:     looseString(raw["productName"]),
		Product:         looseString(raw["product"]),
		BoxNo:           looseString(raw["boxNo"]),
		Shift:           looseString(raw["shift"]),
		Operator:        looseString(raw["operator"]),
		TargetQty:       looseFloat(raw["targetQty"]),
		GoodQty:         looseFloat(raw["goodQty"]),
		DefectQty:       looseFloat(raw["defectQty"]),
		RunTime:         looseOptional(raw["runTime"]),
		RunTimeMinutes:  looseOptional(raw["runTimeMinutes"]),
		StopTime:        looseOptional(raw["stopTime"]),
		StopTimeMinutes: looseOptional(raw["stopTimeMinutes"]),
		StopCount:       looseFloat(raw["stopCount"]),
		AvgSpeed:        looseFloat(raw["avgSpeed"]),
		OEE:             looseFloat(raw["oee"]),
		PrepTime:        looseFloat(raw["prepTime"]),
		FinishedAt:      looseString(raw["finishedAt"]),
		StopReasons:     looseStopEvents(raw["stopReasons"]),
	}
	return nil
}

// UnmarshalJSON decodes a stop event, rendering non-string values as text.
func (e *StopEvent) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = StopEvent{
		Code:     looseString(raw["code"]),
		Reason:   looseString(raw["reason"]),
		Time:     looseString(raw["time"]),
		Duration: looseString(raw["duration"]),
	}
	return nil
}

func looseStopEvents(raw json.RawMessage) []StopEvent {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	events := make([]StopEvent, 0, len(items))
	for _, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		var ev StopEvent
		if trimmed[0] == '{' {
			if err := json.Unmarshal(trimmed, &ev); err != nil {
				ev = StopEvent{}
			}
		}
		events = append(events, ev)
	}
	return events
}

func looseString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		// Numbers and booleans keep their literal text.
		return string(trimmed)
	}
}

func looseFloat(raw json.RawMessage) float64 {
	v, _ := looseNumber(raw)
	return v
}

func looseOptional(raw json.RawMessage) *float64 {
	v, ok := looseNumber(raw)
	if !ok {
		return nil
	}
	return &v
}

// looseNumber reports ok=false for absent, null, blank or non-numeric values.
func looseNumber(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, false
	}
	var text string
	switch trimmed[0] {
	case '"':
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(text)
	case 't':
		return 1, true
	case 'f':
		return 0, true
	case 'n', '{', '[':
		return 0, false
	default:
		text = string(trimmed)
	}
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
