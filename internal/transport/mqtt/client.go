package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"fire_gateway/internal/logger"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultKeepAlive  = 60 * time.Second
	disconnectQuiesce = 250 // ms
)

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("mqtt: operation timed out")

// Config describes one broker connection.
type Config struct {
	Broker    string // tcp://host:port
	ClientID  string
	Username  string
	Password  string
	QoS       byte
	Timeout   time.Duration // connect, subscribe and publish acknowledgement
	KeepAlive time.Duration
}

// MessageHandler processes one inbound message. A returned error is logged
// and the message is dropped.
type MessageHandler func(topic string, payload []byte) error

// Client is a paho client that remembers its subscriptions and restores
// them after every (re)connect.
type Client struct {
	client paho.Client
	cfg    Config
	log    *logger.Logger

	mu   sync.Mutex
	subs map[string]MessageHandler
}

// Connect dials the broker and blocks until connected or cfg.Timeout.
func Connect(cfg Config, log *logger.Logger) (*Client, error) {
	cfg = withDefaults(cfg)
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{
		cfg:  cfg,
		log:  log.With("broker", cfg.Broker, "client_id", cfg.ClientID),
		subs: make(map[string]MessageHandler),
	}
	c.client = paho.NewClient(newClientOptions(cfg, c.onConnect, c.onConnectionLost))

	token := c.client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}
	return c, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = defaultKeepAlive
	}
	return cfg
}

func newClientOptions(cfg Config, onConnect paho.OnConnectHandler, onLost paho.ConnectionLostHandler) *paho.ClientOptions {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetConnectTimeout(cfg.Timeout)
	opts.SetKeepAlive(cfg.KeepAlive)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	// handlers run one at a time, in arrival order
	opts.SetOrderMatters(true)
	opts.SetOnConnectHandler(onConnect)
	opts.SetConnectionLostHandler(onLost)
	return opts
}

// Subscribe registers handler for topic. The subscription is re-applied on
// every reconnect.
func (c *Client) Subscribe(topic string, handler MessageHandler) error {
	c.mu.Lock()
	c.subs[topic] = handler
	c.mu.Unlock()

	return c.subscribe(topic, handler)
}

func (c *Client) subscribe(topic string, handler MessageHandler) error {
	token := c.client.Subscribe(topic, c.cfg.QoS, c.dispatch(handler))
	if !token.WaitTimeout(c.cfg.Timeout) {
		return fmt.Errorf("subscribe to %s: %w", topic, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	return nil
}

// dispatch adapts a MessageHandler to paho's callback.
func (c *Client) dispatch(handler MessageHandler) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.log.Warnw("mqtt_handler_failed", "topic", msg.Topic(), "err", err)
		}
	}
}

func (c *Client) onConnect(_ paho.Client) {
	c.log.Infow("mqtt_connected")

	c.mu.Lock()
	subs := make(map[string]MessageHandler, len(c.subs))
	for topic, h := range c.subs {
		subs[topic] = h
	}
	c.mu.Unlock()

	// paho invokes this handler on its own goroutine; waiting on the
	// subscribe tokens here is safe.
	for topic, h := range subs {
		if err := c.subscribe(topic, h); err != nil {
			c.log.Errorw("mqtt_resubscribe_failed", "topic", topic, "err", err)
		}
	}
}

func (c *Client) onConnectionLost(_ paho.Client, err error) {
	c.log.Warnw("mqtt_connection_lost", "err", err)
}

// Publish sends payload to topic and waits for the broker's acknowledgement
// (for QoS > 0) or for the write to complete.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, c.cfg.QoS, false, payload)
	if !token.WaitTimeout(c.cfg.Timeout) {
		return fmt.Errorf("publish to %s: %w", topic, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Disconnect closes the connection after letting in-flight work drain.
func (c *Client) Disconnect() {
	c.client.Disconnect(disconnectQuiesce)
}

// IsConnected reports the connection state.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}
