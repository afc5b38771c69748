// Package importer loads production records from dashboard JSON exports.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/verte-zerg/boxline/internal/model"
)

// historyKey is the storage key the dashboard saves its production log under.
const historyKey = "productionHistory"

// LoadRecords reads records from a JSON file.
func LoadRecords(path string) ([]model.ProductionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only import file.
			_ = cerr
		}
	}()
	return DecodeRecords(file)
}

// DecodeRecords decodes either a bare JSON array of records or an object
// holding the array under "productionHistory". Records without an id get a
// fresh UUID.
func DecodeRecords(r io.Reader) ([]model.ProductionRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("import file is empty")
	}

	if data[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
		raw, ok := wrapper[historyKey]
		if !ok {
			return nil, fmt.Errorf("object has no %q array", historyKey)
		}
		data = raw
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	records := make([]model.ProductionRecord, 0, len(elems))
	for i, elem := range elems {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			continue
		}
		var rec model.ProductionRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	AssignIDs(records)
	return records, nil
}

// AssignIDs fills empty record ids with random UUIDs in place.
func AssignIDs(records []model.ProductionRecord) {
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
	}
}
