package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "FIREGW"

// Config is the full startup configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	DB      DBConfig      `mapstructure:"db"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
	Topics  TopicsConfig  `mapstructure:"topics"`
	Cloud   CloudConfig   `mapstructure:"cloud"`
	Control ControlConfig `mapstructure:"control"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type HTTPConfig struct {
	Port     string `mapstructure:"port"`
	APIToken string `mapstructure:"api_token"` // empty disables API auth
}

// MQTTConfig is the local sensor-network broker.
type MQTTConfig struct {
	Broker   string        `mapstructure:"broker"`
	ClientID string        `mapstructure:"client_id"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	QoS      byte          `mapstructure:"qos"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type TopicsConfig struct {
	Telemetry string `mapstructure:"telemetry"`
}

// CloudConfig is the dashboard service: an MQTT broker for the relay and a
// REST API for control variables, both authenticated with Token.
type CloudConfig struct {
	Broker       string        `mapstructure:"broker"`
	APIBase      string        `mapstructure:"api_base"`
	DeviceLabel  string        `mapstructure:"device_label"`
	Token        string        `mapstructure:"token"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	FireMarker   string        `mapstructure:"fire_marker"`
}

type ControlConfig struct {
	Interval  time.Duration    `mapstructure:"interval"`
	Variables []VariableConfig `mapstructure:"variables"`
}

type VariableConfig struct {
	Name  string `mapstructure:"name"`
	Topic string `mapstructure:"topic"`
}

// SetDefaults registers every key so env overrides apply to all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "incendios.db")
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.api_token", "")

	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "fire-gateway")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.qos", 0)
	v.SetDefault("mqtt.timeout", "10s")

	v.SetDefault("topics.telemetry", "fire/data")

	v.SetDefault("cloud.broker", "tcp://industrial.api.ubidots.com:1883")
	v.SetDefault("cloud.api_base", "https://industrial.api.ubidots.com/api/v1.6/devices")
	v.SetDefault("cloud.device_label", "raspberry_gateway")
	v.SetDefault("cloud.token", "")
	v.SetDefault("cloud.query_timeout", "5s")
	v.SetDefault("cloud.fire_marker", "INCENDIO")

	v.SetDefault("control.interval", "1s")
	v.SetDefault("control.variables", []map[string]string{
		{"name": "led", "topic": "esp32/led"},
		{"name": "alarma", "topic": "esp32/alarma"},
	})
}

// Load reads the config file (if any) plus FIREGW_* environment variables
// into a Config. A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configs the gateway cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if c.MQTT.Broker == "" {
		errs = append(errs, errors.New("mqtt.broker is required"))
	}
	if c.Topics.Telemetry == "" {
		errs = append(errs, errors.New("topics.telemetry is required"))
	}
	if c.MQTT.QoS > 2 {
		errs = append(errs, fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.MQTT.QoS))
	}
	if c.Control.Interval <= 0 {
		errs = append(errs, errors.New("control.interval must be positive"))
	}
	for i, v := range c.Control.Variables {
		if v.Name == "" || v.Topic == "" {
			errs = append(errs, fmt.Errorf("control.variables[%d]: name and topic are required", i))
		}
	}
	return errors.Join(errs...)
}
