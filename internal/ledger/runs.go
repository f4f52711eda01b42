package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned by Get for an unknown run ID
var ErrRunNotFound = errors.New("merge run not found")

// Run is one recorded merge
type Run struct {
	ID               string    `json:"id" yaml:"id"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
	BasePath         string    `json:"base_path" yaml:"base_path"`
	OverridePath     string    `json:"override_path" yaml:"override_path"`
	OutputPath       string    `json:"output_path" yaml:"output_path"`
	BaseEncoding     string    `json:"base_encoding" yaml:"base_encoding"`
	OverrideEncoding string    `json:"override_encoding" yaml:"override_encoding"`
	Total            int       `json:"total" yaml:"total"`
	Updated          int       `json:"updated" yaml:"updated"`
	Added            int       `json:"added" yaml:"added"`
	Replaced         int       `json:"replaced" yaml:"replaced"`
	Unchanged        int       `json:"unchanged" yaml:"unchanged"`
	Retained         int       `json:"retained" yaml:"retained"`
	Digest           string    `json:"digest" yaml:"digest"`
	DryRun           bool      `json:"dry_run" yaml:"dry_run"`
}

// timeLayout is fixed-width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const runColumns = `id, created_at, base_path, override_path, output_path,
	base_encoding, override_encoding, total, updated, added, replaced,
	unchanged, retained, digest, dry_run`

// Record inserts run. A missing ID or timestamp is filled in.
func (l *Ledger) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := l.ExecContext(ctx, `
		INSERT INTO merge_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout),
		run.BasePath, run.OverridePath, run.OutputPath,
		run.BaseEncoding, run.OverrideEncoding,
		run.Total, run.Updated, run.Added, run.Replaced, run.Unchanged, run.Retained,
		run.Digest, run.DryRun,
	)
	if err != nil {
		return fmt.Errorf("failed to record merge run: %w", err)
	}
	return nil
}

// List returns recorded runs, newest first. limit <= 0 returns all.
func (l *Ledger) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM merge_runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list merge runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list merge runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given ID
func (l *Ledger) Get(ctx context.Context, id string) (*Run, error) {
	row := l.QueryRowContext(ctx, `SELECT `+runColumns+` FROM merge_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var createdAt string
	err := s.Scan(
		&run.ID, &createdAt,
		&run.BasePath, &run.OverridePath, &run.OutputPath,
		&run.BaseEncoding, &run.OverrideEncoding,
		&run.Total, &run.Updated, &run.Added, &run.Replaced, &run.Unchanged, &run.Retained,
		&run.Digest, &run.DryRun,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan merge run: %w", err)
	}

	run.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run timestamp %q: %w", createdAt, err)
	}
	return &run, nil
}
