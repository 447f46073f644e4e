package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PhaseSQLite struct {
	db *sql.DB
}

func NewPhaseSQLite(db *sql.DB) *PhaseSQLite {
	return &PhaseSQLite{db: db}
}

const (
	upsertPhaseOrderSQL = `
		INSERT INTO phase_orders (name, phases, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			phases=excluded.phases,
			updated_at=excluded.updated_at
	`

	selectPhaseOrderSQL = `SELECT phases FROM phase_orders WHERE name=?`
)

func marshalPhases(phases []string) (string, error) {
	if phases == nil {
		phases = []string{}
	}
	b, err := json.Marshal(phases)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalPhases(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var phases []string
	if err := json.Unmarshal([]byte(s), &phases); err != nil {
		return nil, err
	}
	return phases, nil
}

// Save replaces the stored phase order of one wash machine.
func (r *PhaseSQLite) Save(ctx context.Context, name string, phases []string) error {
	phasesJSON, err := marshalPhases(phases)
	if err != nil {
		return fmt.Errorf("marshal phases of %q: %w", name, err)
	}
	if _, err := r.db.ExecContext(ctx, upsertPhaseOrderSQL, name, phasesJSON, time.Now().UTC()); err != nil {
		return fmt.Errorf("save phases of %q: %w", name, err)
	}
	return nil
}

// Load returns the stored phase order, or nil when none was saved.
func (r *PhaseSQLite) Load(ctx context.Context, name string) ([]string, error) {
	var phasesJSON string
	if err := r.db.QueryRowContext(ctx, selectPhaseOrderSQL, name).Scan(&phasesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load phases of %q: %w", name, err)
	}
	phases, err := unmarshalPhases(phasesJSON)
	if err != nil {
		return nil, fmt.Errorf("decode phases of %q: %w", name, err)
	}
	return phases, nil
}
