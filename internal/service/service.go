package service

import (
	"context"
	"time"

	"fire_gateway/internal/logger"
	"fire_gateway/internal/models"
	"fire_gateway/internal/repository"
)

// Relay persists an inbound telemetry message and forwards the latest row.
type Relay interface {
	Handle(ctx context.Context, payload []byte) error
}

// Poller mirrors remote control variables to local actuators.
// Stop Run via context cancellation.
type Poller interface {
	Tick(ctx context.Context) []PollResult
	Run(ctx context.Context, interval time.Duration)
}

// Monitoring exposes read-only access to stored measurements.
type Monitoring interface {
	Latest(ctx context.Context) (*models.MeasurementView, error)
	List(ctx context.Context, f MeasurementFilter) ([]models.MeasurementView, error)
}

// Service aggregates all sub-services.
type Service struct {
	Relay
	Poller
	Monitoring
}

// Deps are the collaborators outside the repository layer.
type Deps struct {
	Sink       TelemetrySink
	Querier    VariableQuerier
	Actuators  ActuatorPublisher
	Variables  []ControlVariable
	FireMarker string
	Log        *logger.Logger
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	return &Service{
		Relay:      NewRelayService(repos.Measurements, deps.Sink, deps.FireMarker),
		Poller:     NewPollerService(deps.Querier, deps.Actuators, deps.Variables, deps.Log),
		Monitoring: NewMonitoringService(repos.Measurements, deps.FireMarker),
	}
}
