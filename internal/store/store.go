// Package store handles SQLite persistence of the production log.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/verte-zerg/boxline/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for production records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			order_no TEXT NOT NULL,
			customer TEXT NOT NULL,
			product_name TEXT NOT NULL,
			product TEXT NOT NULL,
			box_no TEXT NOT NULL,
			shift TEXT NOT NULL,
			operator TEXT NOT NULL,
			target_qty REAL NOT NULL,
			good_qty REAL NOT NULL,
			defect_qty REAL NOT NULL,
			run_time REAL,
			run_time_minutes REAL,
			stop_time REAL,
			stop_time_minutes REAL,
			stop_count REAL NOT NULL,
			avg_speed REAL NOT NULL,
			oee REAL NOT NULL,
			prep_time REAL NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS stop_events (
			record_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			code TEXT NOT NULL,
			reason TEXT NOT NULL,
			time TEXT NOT NULL,
			duration TEXT NOT NULL,
			PRIMARY KEY (record_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRecords inserts records, replacing any stored record with the same id
// together with its stop events. It returns the number of records written.
func (s *Store) SaveRecords(ctx context.Context, records []model.ProductionRecord) (n int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, rec := range records {
		if _, err = tx.ExecContext(ctx, `DELETE FROM stop_events WHERE record_id = ?`, rec.ID); err != nil {
			return 0, err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, rec.ID); err != nil {
			return 0, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (id, date, start_time, order_no, customer, product_name, product, box_no, shift, operator,
				target_qty, good_qty, defect_qty, run_time, run_time_minutes, stop_time, stop_time_minutes,
				stop_count, avg_speed, oee, prep_time, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Date, rec.StartTime, rec.OrderNo, rec.Customer, rec.ProductName, rec.Product, rec.BoxNo, rec.Shift, rec.Operator,
			rec.TargetQty, rec.GoodQty, rec.DefectQty,
			nullFloat(rec.RunTime), nullFloat(rec.RunTimeMinutes), nullFloat(rec.StopTime), nullFloat(rec.StopTimeMinutes),
			rec.StopCount, rec.AvgSpeed, rec.OEE, rec.PrepTime, rec.FinishedAt,
		)
		if err != nil {
			return 0, err
		}
		for i, ev := range rec.StopReasons {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO stop_events (record_id, position, code, reason, time, duration) VALUES (?, ?, ?, ?, ?, ?)`,
				rec.ID, i, ev.Code, ev.Reason, ev.Time, ev.Duration)
			if err != nil {
				return 0, err
			}
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// ListRecords returns every stored record in insertion order.
func (s *Store) ListRecords(ctx context.Context) ([]model.ProductionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, start_time, order_no, customer, product_name, product, box_no, shift, operator,
			target_qty, good_qty, defect_qty, run_time, run_time_minutes, stop_time, stop_time_minutes,
			stop_count, avg_speed, oee, prep_time, finished_at
		 FROM records
		 ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.ProductionRecord
	index := map[string]int{}
	for rows.Next() {
		var rec model.ProductionRecord
		var runTime, runTimeMinutes, stopTime, stopTimeMinutes sql.NullFloat64
		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.StartTime, &rec.OrderNo, &rec.Customer, &rec.ProductName, &rec.Product, &rec.BoxNo, &rec.Shift, &rec.Operator,
			&rec.TargetQty, &rec.GoodQty, &rec.DefectQty, &runTime, &runTimeMinutes, &stopTime, &stopTimeMinutes,
			&rec.StopCount, &rec.AvgSpeed, &rec.OEE, &rec.PrepTime, &rec.FinishedAt,
		); err != nil {
			return nil, err
		}
		rec.RunTime = floatPtr(runTime)
		rec.RunTimeMinutes = floatPtr(runTimeMinutes)
		rec.StopTime = floatPtr(stopTime)
		rec.StopTimeMinutes = floatPtr(stopTimeMinutes)
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachStopEvents(ctx, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) attachStopEvents(ctx context.Context, records []model.ProductionRecord, index map[string]int) error {
	if len(records) == 0 {
		return nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, code, reason, time, duration FROM stop_events ORDER BY record_id, position`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var recordID string
		var ev model.StopEvent
		if err := rows.Scan(&recordID, &ev.Code, &ev.Reason, &ev.Time, &ev.Duration); err != nil {
			return err
		}
		idx, ok := index[recordID]
		if !ok {
			continue
		}
		records[idx].StopReasons = append(records[idx].StopReasons, ev)
	}
	return rows.Err()
}

// CountRecords returns the number of stored records.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteRecord removes a record and its stop events.
func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM stop_events WHERE record_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	return err
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
