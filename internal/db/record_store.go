package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
)

// DecodedRecord is the stored outcome of one segment.
type DecodedRecord struct {
	RunID      string
	StartFrame int
	EndFrame   int
	// RecordedAt is nil when the segment did not parse.
	RecordedAt    *time.Time
	Latitude      decimal.NullDecimal
	Longitude     decimal.NullDecimal
	Quality       float64
	LowConfidence bool
	RawText       string
	ParseError    string
}

// RecordStore provides persistence for decoded records.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

// InsertResults stores every result of a run in one transaction.
func (s *RecordStore) InsertResults(runID string, results []l4records.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert records: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO decoded_records (
			run_id, start_frame, end_frame, recorded_at, latitude, longitude,
			quality, low_confidence, raw_text, parse_error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert records: %w", err)
	}
	defer stmt.Close()

	for _, res := range results {
		var recordedAt sql.NullString
		var lat, lon decimal.NullDecimal
		if res.Data != nil {
			recordedAt = sql.NullString{String: res.Data.Time.UTC().Format(time.RFC3339), Valid: true}
			lat, lon = res.Data.Latitude, res.Data.Longitude
		}
		var parseErr string
		if res.Err != nil {
			parseErr = res.Err.Error()
		}
		_, err := stmt.Exec(
			runID, res.Start, res.End, recordedAt, lat, lon,
			res.Quality, res.LowConfidence, nullString(res.Text), nullString(parseErr),
		)
		if err != nil {
			return fmt.Errorf("insert record at frame %d: %w", res.Start, err)
		}
	}
	return tx.Commit()
}

// ListByRun returns the records of a run ordered by start frame.
func (s *RecordStore) ListByRun(runID string) ([]*DecodedRecord, error) {
	rows, err := s.db.Query(`
		SELECT run_id, start_frame, end_frame, recorded_at, latitude, longitude,
		       quality, low_confidence, raw_text, parse_error
		FROM decoded_records
		WHERE run_id = ?
		ORDER BY start_frame`, runID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*DecodedRecord
	for rows.Next() {
		r := &DecodedRecord{}
		var recordedAt, rawText, parseErr sql.NullString
		err := rows.Scan(
			&r.RunID, &r.StartFrame, &r.EndFrame, &recordedAt, &r.Latitude, &r.Longitude,
			&r.Quality, &r.LowConfidence, &rawText, &parseErr,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if recordedAt.Valid {
			ts, err := time.Parse(time.RFC3339, recordedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse recorded_at %q: %w", recordedAt.String, err)
			}
			r.RecordedAt = &ts
		}
		r.RawText = rawText.String
		r.ParseError = parseErr.String
		records = append(records, r)
	}
	return records, rows.Err()
}
