package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fire_gateway/internal/models"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000

	insertMeasurementSQL = `
		INSERT INTO measurements (timestamp, temperature, gas, flame, state)
		VALUES (?, ?, ?, ?, ?)
	`

	selectLatestMeasurementSQL = `
		SELECT id, timestamp, temperature, gas, flame, state
		FROM measurements
		ORDER BY id DESC
		LIMIT 1
	`

	selectMeasurementsSQL = `SELECT id, timestamp, temperature, gas, flame, state FROM measurements`
)

// MeasurementSQLite is the append-only measurement table. Every call holds
// mu for the duration of its statement only, so a Latest issued right after
// an Insert always observes that insert.
type MeasurementSQLite struct {
	db *sql.DB
	mu sync.Mutex
}

func NewMeasurementSQLite(db *sql.DB) *MeasurementSQLite {
	return &MeasurementSQLite{db: db}
}

var _ MeasurementRepo = (*MeasurementSQLite)(nil)

// Insert appends m and returns the id assigned by the store. m.ID is ignored.
func (r *MeasurementSQLite) Insert(ctx context.Context, m models.Measurement) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, insertMeasurementSQL,
		m.Timestamp,
		nullFloat(m.Temperature),
		nullFloat(m.Gas),
		nullFloat(m.Flame),
		nullString(m.State),
	)
	if err != nil {
		return 0, fmt.Errorf("insert measurement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// Latest returns the row with the highest id, or nil when the table is empty.
func (r *MeasurementSQLite) Latest(ctx context.Context) (*models.Measurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := scanMeasurement(r.db.QueryRowContext(ctx, selectLatestMeasurementSQL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest measurement: %w", err)
	}
	return &m, nil
}

// List returns rows whose timestamp lies in [from, to], newest first. Zero
// bounds are open; limit is clamped to (0, MaxListLimit].
func (r *MeasurementSQLite) List(ctx context.Context, from, to time.Time, limit int) ([]models.Measurement, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, from.Unix())
	}
	if !to.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, to.Unix())
	}

	q := selectMeasurementsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, clampLimit(limit))

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer rows.Close()

	out := make([]models.Measurement, 0, 16)
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeasurement(row rowScanner) (models.Measurement, error) {
	var (
		m                models.Measurement
		temp, gas, flame sql.NullFloat64
		state            sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Timestamp, &temp, &gas, &flame, &state); err != nil {
		return models.Measurement{}, err
	}
	m.Temperature = floatPtr(temp)
	m.Gas = floatPtr(gas)
	m.Flame = floatPtr(flame)
	if state.Valid {
		s := state.String
		m.State = &s
	}
	return m, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
