// File path: internal/store/queries.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ykosuru/cobolscan/internal/cobol"
)

// ErrNotFound reports a missing run.
var ErrNotFound = errors.New("run not found")

// SaveResult persists one analysis result and returns its run ID.
func (s *Store) SaveResult(ctx context.Context, res *cobol.Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	runID := uuid.NewString()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, program, source_path, procedure_count, data_item_count, warning_count)
                 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, res.Program, res.SourcePath, len(res.Procedures), len(res.DataItems), len(res.Warnings))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	for _, p := range res.Procedures {
		detectors := make([]string, 0, len(p.Detectors))
		for _, d := range p.Detectors {
			detectors = append(detectors, string(d))
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO procedures (run_id, name, start_line, end_line, score, detectors, reasoning)
                         VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, p.Name, p.StartLine, p.EndLine, p.Score,
			strings.Join(detectors, ","), strings.Join(p.Reasoning, "; "))
		if err != nil {
			return "", fmt.Errorf("insert procedure %s: %w", p.Name, err)
		}
	}
	for _, item := range res.DataItems {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO data_items (run_id, level, name, section, picture, kind, line)
                         VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, item.Level, item.Name, string(item.Section), item.Picture, string(item.Kind), item.Line)
		if err != nil {
			return "", fmt.Errorf("insert data item %s: %w", item.Name, err)
		}
	}
	for target, inbound := range res.PerformEdges {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO perform_edges (run_id, target, inbound) VALUES (?, ?, ?)`,
			runID, target, inbound); err != nil {
			return "", fmt.Errorf("insert perform edge %s: %w", target, err)
		}
	}
	for _, message := range res.Warnings {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO warnings (run_id, message) VALUES (?, ?)`, runID, message); err != nil {
			return "", fmt.Errorf("insert warning: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return runID, nil
}

// ListRuns returns persisted runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	var runs []Run
	err := s.db.SelectContext(ctx, &runs,
		`SELECT id, program, source_path, procedure_count, data_item_count, warning_count, created_at
                 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// RunByID loads a run and its persisted artifacts.
func (s *Store) RunByID(ctx context.Context, id string) (*RunDetail, error) {
	var run Run
	err := s.db.GetContext(ctx, &run,
		`SELECT id, program, source_path, procedure_count, data_item_count, warning_count, created_at
                 FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	detail := &RunDetail{Run: run}
	if err := s.db.SelectContext(ctx, &detail.Procedures,
		`SELECT id, run_id, name, start_line, COALESCE(end_line, 0) AS end_line, score,
                        COALESCE(detectors, '') AS detectors, COALESCE(reasoning, '') AS reasoning
                 FROM procedures WHERE run_id = ? ORDER BY start_line`, id); err != nil {
		return nil, fmt.Errorf("load procedures: %w", err)
	}
	if err := s.db.SelectContext(ctx, &detail.DataItems,
		`SELECT id, run_id, level, name, section, COALESCE(picture, '') AS picture,
                        COALESCE(kind, '') AS kind, line
                 FROM data_items WHERE run_id = ? ORDER BY line`, id); err != nil {
		return nil, fmt.Errorf("load data items: %w", err)
	}
	if err := s.db.SelectContext(ctx, &detail.Edges,
		`SELECT run_id, target, inbound FROM perform_edges WHERE run_id = ? ORDER BY target`, id); err != nil {
		return nil, fmt.Errorf("load perform edges: %w", err)
	}
	var warnings []WarningRow
	if err := s.db.SelectContext(ctx, &warnings,
		`SELECT run_id, message FROM warnings WHERE run_id = ?`, id); err != nil {
		return nil, fmt.Errorf("load warnings: %w", err)
	}
	for _, w := range warnings {
		detail.Warnings = append(detail.Warnings, w.Message)
	}
	return detail, nil
}
