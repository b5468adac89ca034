package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	v.AddConfigPath(t.TempDir())
	v.SetConfigName("config")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "incendios.db", cfg.DB.Path)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "fire/data", cfg.Topics.Telemetry)
	assert.Equal(t, 10*time.Second, cfg.MQTT.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Cloud.QueryTimeout)
	assert.Equal(t, time.Second, cfg.Control.Interval)
	assert.Equal(t, "INCENDIO", cfg.Cloud.FireMarker)

	vars := cfg.ControlVariables()
	require.Len(t, vars, 2)
	assert.Equal(t, "led", vars[0].Name)
	assert.Equal(t, "esp32/led", vars[0].Topic)
	assert.Equal(t, "alarma", vars[1].Name)
	assert.Equal(t, "esp32/alarma", vars[1].Topic)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := `
db:
  path: /tmp/x.db
mqtt:
  broker: tcp://broker:1883
  qos: 1
control:
  interval: 3s
  variables:
    - name: sirena
      topic: esp32/sirena
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600))
	t.Setenv("FIREGW_CLOUD_TOKEN", "BBFF-secret")
	t.Setenv("FIREGW_HTTP_PORT", "9090")

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.DB.Path)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, 3*time.Second, cfg.Control.Interval)
	assert.Equal(t, "BBFF-secret", cfg.Cloud.Token)
	assert.Equal(t, "9090", cfg.HTTP.Port)

	vars := cfg.ControlVariables()
	require.Len(t, vars, 1)
	assert.Equal(t, "sirena", vars[0].Name)

	sink := cfg.Sink()
	assert.Equal(t, "BBFF-secret", sink.Token)
	assert.Equal(t, "/v1.6/devices/raspberry_gateway", sink.Topic())

	lb := cfg.LocalBroker()
	assert.Equal(t, "tcp://broker:1883", lb.Broker)
	assert.Equal(t, "fire-gateway", lb.ClientID)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("db: [unclosed"), 0o600))

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")

	_, err := Load(v)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		DB:      DBConfig{Path: "x.db"},
		MQTT:    MQTTConfig{Broker: "tcp://b:1883", QoS: 3},
		Topics:  TopicsConfig{Telemetry: "fire/data"},
		Control: ControlConfig{Interval: 0, Variables: []VariableConfig{{Name: "led"}}},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mqtt.qos")
	assert.Contains(t, err.Error(), "control.interval")
	assert.Contains(t, err.Error(), "control.variables[0]")

	cfg.MQTT.QoS = 1
	cfg.Control.Interval = time.Second
	cfg.Control.Variables[0].Topic = "esp32/led"
	assert.NoError(t, cfg.Validate())
}
