package handlers

import (
	"context"
	"errors"
	"time"

	"fire_gateway/internal/service"
)

const relayTimeout = 30 * time.Second

// OnTelemetry is the MQTT callback for the sensor topic. Every failure is
// logged here and swallowed so the subscription keeps running.
func (h *Handler) OnTelemetry(topic string, payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
	defer cancel()

	err := h.services.Relay.Handle(ctx, payload)
	if err == nil {
		h.log.Debugw("telemetry_relayed", "topic", topic)
		return nil
	}

	if errors.Is(err, service.ErrMalformedPayload) {
		h.log.Warnw("telemetry_malformed", "topic", topic, "payload", string(payload), "err", err)
		return nil
	}
	if errors.Is(err, service.ErrStorage) {
		h.log.Errorw("measurement_store_failed", "topic", topic, "data_loss", true, "err", err)
	}
	if errors.Is(err, service.ErrRelay) {
		h.log.Errorw("relay_publish_failed", "topic", topic, "err", err)
	}
	return nil
}
