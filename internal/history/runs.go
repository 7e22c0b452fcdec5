package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"subrecon/internal/reconcile"
)

// ErrRunNotFound is returned when no run matches an identifier.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when a run id prefix matches several runs.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

// Run is one recorded reconciliation.
type Run struct {
	ID           string
	CreatedAt    time.Time
	TextSource   string
	TimingSource string
	Output       string
	Params       reconcile.Params
	Summary      reconcile.Summary
	Candidates   int
	Discarded    int
	Duration     time.Duration
}

const runColumns = "id, created_at, text_source, timing_source, output_path, params_json, matched_rank, matched_gap, matched_spread, fallbacks, candidates, discarded, duration_ms"

// RecordRun stores a run and its mappings in one transaction. An empty
// run.ID is replaced with a fresh UUID; the stored id is returned.
func (s *Store) RecordRun(ctx context.Context, run Run, mappings []reconcile.Mapping) (string, error) {
	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		return insertRun(ctx, tx, run, string(paramsJSON), mappings)
	})
	if err != nil {
		return "", fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

func insertRun(ctx context.Context, tx *sql.Tx, run Run, paramsJSON string, mappings []reconcile.Mapping) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.TextSource,
		run.TimingSource,
		nullableString(run.Output),
		paramsJSON,
		run.Summary.Rank,
		run.Summary.Gap,
		run.Summary.Spread,
		run.Summary.Fallback,
		run.Candidates,
		run.Discarded,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO mappings (run_id, text_idx, time_idx, start_seconds, end_seconds, origin) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare mapping insert: %w", err)
	}
	defer stmt.Close()
	for _, m := range mappings {
		var timeIdx any
		if m.Timed() {
			timeIdx = m.TimeIdx
		}
		if _, err := stmt.ExecContext(ctx, run.ID, m.TextIdx, timeIdx, m.Start, m.End, string(m.Origin)); err != nil {
			return fmt.Errorf("insert mapping %d: %w", m.TextIdx, err)
		}
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by its full id or a unique id prefix.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRunNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("get run by prefix: %w", err)
	}
	defer rows.Close()
	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, id)
	}
}

// Mappings returns a run's mappings ordered by text index.
func (s *Store) Mappings(ctx context.Context, runID string) ([]reconcile.Mapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text_idx, time_idx, start_seconds, end_seconds, origin FROM mappings WHERE run_id = ? ORDER BY text_idx`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []reconcile.Mapping
	for rows.Next() {
		var (
			m       reconcile.Mapping
			timeIdx sql.NullInt64
			origin  string
		)
		if err := rows.Scan(&m.TextIdx, &timeIdx, &m.Start, &m.End, &origin); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		m.TimeIdx = reconcile.NoTiming
		if timeIdx.Valid {
			m.TimeIdx = int(timeIdx.Int64)
		}
		m.Origin = reconcile.Origin(origin)
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// DeleteRun removes a run and its mappings.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		createdRaw string
		output     sql.NullString
		paramsRaw  string
		durationMS int64
	)
	if err := scanner.Scan(
		&run.ID,
		&createdRaw,
		&run.TextSource,
		&run.TimingSource,
		&output,
		&paramsRaw,
		&run.Summary.Rank,
		&run.Summary.Gap,
		&run.Summary.Spread,
		&run.Summary.Fallback,
		&run.Candidates,
		&run.Discarded,
		&durationMS,
	); err != nil {
		return nil, err
	}
	run.Output = output.String
	run.Duration = time.Duration(durationMS) * time.Millisecond
	if created, err := parseTimeString(createdRaw); err == nil {
		run.CreatedAt = created
	}
	if err := json.Unmarshal([]byte(paramsRaw), &run.Params); err != nil {
		return nil, fmt.Errorf("decode params for run %s: %w", run.ID, err)
	}
	return &run, nil
}
