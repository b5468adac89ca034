package service

import (
	"context"
	"time"

	"fire_gateway/internal/logger"
	"fire_gateway/internal/models"
)

const DefaultPollInterval = 1 * time.Second

// ControlVariable maps a remote variable to the local actuator topic that
// mirrors it.
type ControlVariable struct {
	Name  string
	Topic string
}

// DefaultControlVariables are the LED and alarm of the sensor node.
var DefaultControlVariables = []ControlVariable{
	{Name: "led", Topic: "esp32/led"},
	{Name: "alarma", Topic: "esp32/alarma"},
}

// VariableQuerier fetches the last value of a remote variable.
type VariableQuerier interface {
	LastValue(ctx context.Context, name string) (float64, error)
}

// ActuatorPublisher publishes to the local broker.
type ActuatorPublisher interface {
	Publish(topic string, payload []byte) error
}

// PollResult is the outcome for one variable in one tick.
type PollResult struct {
	Variable  ControlVariable
	Value     float64
	Payload   string // ON/OFF, empty when nothing was published
	Published bool
	Err       error
}

// PollerService mirrors remote control variables onto actuator topics.
type PollerService struct {
	querier   VariableQuerier
	publisher ActuatorPublisher
	variables []ControlVariable
	log       *logger.Logger
}

func NewPollerService(q VariableQuerier, p ActuatorPublisher, vars []ControlVariable, log *logger.Logger) *PollerService {
	if len(vars) == 0 {
		vars = DefaultControlVariables
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PollerService{querier: q, publisher: p, variables: vars, log: log}
}

// Tick queries every variable once and publishes the mapped state. A failed
// query skips that variable for this tick only; nothing is repeated from a
// previous tick.
func (s *PollerService) Tick(ctx context.Context) []PollResult {
	results := make([]PollResult, 0, len(s.variables))
	for _, v := range s.variables {
		res := PollResult{Variable: v}

		value, err := s.querier.LastValue(ctx, v.Name)
		if err != nil {
			res.Err = err
			s.log.Warnw("control_query_failed", "variable", v.Name, "err", err)
			results = append(results, res)
			continue
		}
		res.Value = value
		res.Payload = models.ActuatorState(value)

		if err := s.publisher.Publish(v.Topic, []byte(res.Payload)); err != nil {
			res.Err = err
			s.log.Warnw("actuator_publish_failed", "variable", v.Name, "topic", v.Topic, "err", err)
		} else {
			res.Published = true
			s.log.Debugw("actuator_updated", "variable", v.Name, "value", value, "state", res.Payload)
		}
		results = append(results, res)
	}
	return results
}

// Run ticks once immediately and then every interval until ctx is canceled.
func (s *PollerService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	s.log.Infow("control_poller_started", "interval", interval.String(), "variables", len(s.variables))

	s.Tick(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("control_poller_stopped")
			return
		case <-t.C:
			s.Tick(ctx)
		}
	}
}
