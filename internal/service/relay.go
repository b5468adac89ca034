package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fire_gateway/internal/models"
	"fire_gateway/internal/repository"
)

// TelemetrySink receives the relayed record.
type TelemetrySink interface {
	Send(ctx context.Context, rec models.OutboundRecord) error
}

// RelayService stores every inbound reading and forwards the newest stored
// row to the cloud.
type RelayService struct {
	repo   repository.MeasurementRepo
	sink   TelemetrySink
	marker string
	now    func() time.Time
}

func NewRelayService(repo repository.MeasurementRepo, sink TelemetrySink, marker string) *RelayService {
	if marker == "" {
		marker = models.DefaultFireMarker
	}
	return &RelayService{repo: repo, sink: sink, marker: marker, now: time.Now}
}

// telemetryPayload is the sensor node's message. Every key is optional.
type telemetryPayload struct {
	Temperature *float64    `json:"temperatura"`
	Gas         *float64    `json:"gas"`
	State       *string     `json:"estado"`
	Flame       *flexNumber `json:"llama"`
}

// flexNumber accepts a JSON number or boolean.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true":
		*f = 1
		return nil
	case "false":
		*f = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("llama: expected number or boolean, got %s", b)
	}
	*f = flexNumber(v)
	return nil
}

func decodeTelemetry(raw []byte) (telemetryPayload, error) {
	var p telemetryPayload
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return p, errors.New("payload is not a JSON object")
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return p, err
	}
	return p, nil
}

func (p telemetryPayload) measurement(ts time.Time) models.Measurement {
	m := models.Measurement{
		Timestamp:   ts.Unix(),
		Temperature: p.Temperature,
		Gas:         p.Gas,
		State:       p.State,
	}
	if p.Flame != nil {
		v := float64(*p.Flame)
		m.Flame = &v
	}
	return m
}

// Handle processes one inbound message:
//
//	decode -> stamp receipt time -> insert -> read latest -> send
//
// A failed insert does not stop the relay of whatever the store already
// holds. The returned error joins every failure class that occurred.
func (s *RelayService) Handle(ctx context.Context, raw []byte) error {
	p, err := decodeTelemetry(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	var insertErr error
	if _, err := s.repo.Insert(ctx, p.measurement(s.now())); err != nil {
		insertErr = fmt.Errorf("%w: insert: %w", ErrStorage, err)
	}

	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return errors.Join(insertErr, fmt.Errorf("%w: read latest: %w", ErrStorage, err))
	}
	if latest == nil {
		return insertErr
	}

	rec := models.NewOutboundRecord(*latest, s.marker)
	if err := s.sink.Send(ctx, rec); err != nil {
		return errors.Join(insertErr, fmt.Errorf("%w: measurement %d: %w", ErrRelay, latest.ID, err))
	}
	return insertErr
}
