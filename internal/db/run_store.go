package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
)

// DecodeRun is one stored invocation of the decoder over a video.
type DecodeRun struct {
	RunID          string
	SourcePath     string
	FrameCount     int
	SegmentCount   int
	VerticalOffset int
	Parity         bool
	CandidateScore float64
	ToolVersion    string
	CreatedAt      time.Time
	DurationMs     int64
}

// NewDecodeRun converts a finished run into its stored form.
func NewDecodeRun(run *l4records.Run, toolVersion string) *DecodeRun {
	r := &DecodeRun{
		SourcePath:     run.Source,
		FrameCount:     run.Frames,
		SegmentCount:   len(run.Results),
		VerticalOffset: run.Candidate.DY,
		Parity:         run.Candidate.Parity,
		ToolVersion:    toolVersion,
		CreatedAt:      run.StartedAt,
		DurationMs:     run.Duration.Milliseconds(),
	}
	if run.ID != uuid.Nil {
		r.RunID = run.ID.String()
	}
	for _, cs := range run.CandidateScores {
		if cs.Candidate == run.Candidate {
			r.CandidateScore = cs.MeanScore
		}
	}
	return r
}

// RunStore provides persistence for decode runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert stores run. If run.RunID is empty, a new UUID is generated; a
// zero CreatedAt becomes the current time.
func (s *RunStore) Insert(run *DecodeRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO decode_runs (
			run_id, source_path, frame_count, segment_count,
			vertical_offset, parity, candidate_score, tool_version,
			created_at, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SourcePath, run.FrameCount, run.SegmentCount,
		run.VerticalOffset, run.Parity, run.CandidateScore, nullString(run.ToolVersion),
		run.CreatedAt.UTC().Format(time.RFC3339Nano), run.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("insert decode run: %w", err)
	}
	return nil
}

const runColumns = `run_id, source_path, frame_count, segment_count,
	vertical_offset, parity, candidate_score, tool_version,
	created_at, duration_ms`

// Get returns the run with runID, or sql.ErrNoRows.
func (s *RunStore) Get(runID string) (*DecodeRun, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM decode_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get decode run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first, at most limit of them.
func (s *RunStore) List(limit int) ([]*DecodeRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM decode_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list decode runs: %w", err)
	}
	defer rows.Close()

	var runs []*DecodeRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decode run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Delete removes a run and, through the foreign key, its records.
func (s *RunStore) Delete(runID string) error {
	res, err := s.db.Exec(`DELETE FROM decode_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete decode run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*DecodeRun, error) {
	r := &DecodeRun{}
	var toolVersion sql.NullString
	var createdAt string
	err := row.Scan(
		&r.RunID, &r.SourcePath, &r.FrameCount, &r.SegmentCount,
		&r.VerticalOffset, &r.Parity, &r.CandidateScore, &toolVersion,
		&createdAt, &r.DurationMs,
	)
	if err != nil {
		return nil, err
	}
	if toolVersion.Valid {
		r.ToolVersion = toolVersion.String
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
