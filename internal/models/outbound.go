package models

// Actuator payloads.
const (
	ActuatorOn  = "ON"
	ActuatorOff = "OFF"
)

// OutboundRecord is the body relayed to the cloud device. The keys are the
// variable labels on the dashboard side.
type OutboundRecord struct {
	Temperature *float64 `json:"temperatura"`
	Gas         *float64 `json:"gas"`
	Timestamp   int64    `json:"timestamp"`
	Flame       *float64 `json:"llama"`
	State       *string  `json:"estado"`
	Fire        float64  `json:"incendio"` // 1.0 when the state carries the fire marker
}

// NewOutboundRecord builds the relay body for m.
func NewOutboundRecord(m Measurement, marker string) OutboundRecord {
	rec := OutboundRecord{
		Temperature: m.Temperature,
		Gas:         m.Gas,
		Timestamp:   m.Timestamp,
		Flame:       m.Flame,
		State:       m.State,
	}
	if ClassifyState(m.State, marker).FireDetected() {
		rec.Fire = 1.0
	}
	return rec
}

// ActuatorState maps a remote control value to the actuator payload.
// Only an exact 1.0 switches the actuator on.
func ActuatorState(v float64) string {
	if v == 1.0 {
		return ActuatorOn
	}
	return ActuatorOff
}
