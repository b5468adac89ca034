package config

import (
	"fire_gateway/internal/cloud"
	"fire_gateway/internal/service"
	"fire_gateway/internal/transport/mqtt"
)

// LocalBroker is the transport config for the sensor-network broker.
func (c *Config) LocalBroker() mqtt.Config {
	return mqtt.Config{
		Broker:   c.MQTT.Broker,
		ClientID: c.MQTT.ClientID,
		Username: c.MQTT.Username,
		Password: c.MQTT.Password,
		QoS:      c.MQTT.QoS,
		Timeout:  c.MQTT.Timeout,
	}
}

func (c *Config) Sink() cloud.SinkConfig {
	return cloud.SinkConfig{
		Broker:       c.Cloud.Broker,
		Token:        c.Cloud.Token,
		DeviceLabel:  c.Cloud.DeviceLabel,
		ClientPrefix: c.MQTT.ClientID,
		Timeout:      c.MQTT.Timeout,
	}
}

func (c *Config) Variables() cloud.VariableConfig {
	return cloud.VariableConfig{
		APIBase:     c.Cloud.APIBase,
		DeviceLabel: c.Cloud.DeviceLabel,
		Token:       c.Cloud.Token,
		Timeout:     c.Cloud.QueryTimeout,
	}
}

// ControlVariables falls back to the led/alarma pair when none are configured.
func (c *Config) ControlVariables() []service.ControlVariable {
	if len(c.Control.Variables) == 0 {
		return append([]service.ControlVariable(nil), service.DefaultControlVariables...)
	}
	out := make([]service.ControlVariable, 0, len(c.Control.Variables))
	for _, v := range c.Control.Variables {
		out = append(out, service.ControlVariable{Name: v.Name, Topic: v.Topic})
	}
	return out
}
