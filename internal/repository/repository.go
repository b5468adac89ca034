package repository

import (
	"context"
	"database/sql"
	"time"

	"fire_gateway/internal/models"
)

// MeasurementRepo is the durable, append-only measurement store.
type MeasurementRepo interface {
	Insert(ctx context.Context, m models.Measurement) (int64, error)
	Latest(ctx context.Context) (*models.Measurement, error)
	List(ctx context.Context, from, to time.Time, limit int) ([]models.Measurement, error)
}

type Repository struct {
	Measurements MeasurementRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Measurements: NewMeasurementSQLite(db),
	}
}
