package service

import (
	"context"
	"time"

	"fire_gateway/internal/models"
	"fire_gateway/internal/repository"
)

type MonitoringService struct {
	repo   repository.MeasurementRepo
	marker string
}

func NewMonitoringService(repo repository.MeasurementRepo, marker string) *MonitoringService {
	if marker == "" {
		marker = models.DefaultFireMarker
	}
	return &MonitoringService{repo: repo, marker: marker}
}

// Latest returns the newest stored measurement, or nil when nothing is stored.
func (s *MonitoringService) Latest(ctx context.Context) (*models.MeasurementView, error) {
	m, err := s.repo.Latest(ctx)
	if err != nil || m == nil {
		return nil, err
	}
	v := models.NewMeasurementView(*m, s.marker)
	return &v, nil
}

// List returns stored measurements in the filter's range, newest first.
func (s *MonitoringService) List(ctx context.Context, f MeasurementFilter) ([]models.MeasurementView, error) {
	from, to := normalizeToUTC(f.From), normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, ErrInvalidTimeRange
	}

	rows, err := s.repo.List(ctx, from, to, f.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.MeasurementView, 0, len(rows))
	for _, m := range rows {
		out = append(out, models.NewMeasurementView(m, s.marker))
	}
	return out, nil
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
