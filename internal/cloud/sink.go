package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fire_gateway/internal/logger"
	"fire_gateway/internal/models"
	"fire_gateway/internal/transport/mqtt"

	"github.com/google/uuid"
)

const devicesTopicPrefix = "/v1.6/devices/"

// SinkConfig configures the cloud broker the relay publishes to.
type SinkConfig struct {
	Broker       string // tcp://industrial.api.ubidots.com:1883
	Token        string // sent as the MQTT username
	DeviceLabel  string
	ClientPrefix string
	Timeout      time.Duration
}

// Topic is the device topic records are published on.
func (c SinkConfig) Topic() string {
	return devicesTopicPrefix + c.DeviceLabel
}

// Conn is one short-lived broker connection.
type Conn interface {
	Publish(topic string, payload []byte) error
	Disconnect()
}

// DialFunc opens a broker connection.
type DialFunc func(cfg mqtt.Config) (Conn, error)

// Sink publishes relay records to the cloud broker, one connection per send.
type Sink struct {
	cfg  SinkConfig
	dial DialFunc
	log  *logger.Logger
}

// NewSink builds a Sink that dials with the MQTT transport. Pass a non-nil
// dial to substitute the connection (tests, pooled clients).
func NewSink(cfg SinkConfig, dial DialFunc, log *logger.Logger) *Sink {
	if log == nil {
		log = logger.Nop()
	}
	if dial == nil {
		dial = func(c mqtt.Config) (Conn, error) {
			client, err := mqtt.Connect(c, log)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}
	if cfg.ClientPrefix == "" {
		cfg.ClientPrefix = "fire-gateway"
	}
	return &Sink{cfg: cfg, dial: dial, log: log}
}

// Send publishes rec once. There is no retry; the connection is always
// released before returning.
func (s *Sink) Send(ctx context.Context, rec models.OutboundRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	conn, err := s.dial(mqtt.Config{
		Broker:   s.cfg.Broker,
		ClientID: s.cfg.ClientPrefix + "-" + uuid.NewString(),
		Username: s.cfg.Token,
		Timeout:  s.cfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("dial cloud broker: %w", err)
	}
	defer conn.Disconnect()

	if err := conn.Publish(s.cfg.Topic(), payload); err != nil {
		return err
	}
	s.log.Debugw("relay_sent", "topic", s.cfg.Topic(), "payload", string(payload))
	return nil
}
