package models

// Measurement is one persisted telemetry row. Nil fields were absent in the
// inbound payload.
type Measurement struct {
	ID          int64    `json:"id"`
	Timestamp   int64    `json:"timestamp"`             // epoch seconds, stamped at receipt
	Temperature *float64 `json:"temperature,omitempty"` // °C
	Gas         *float64 `json:"gas,omitempty"`
	Flame       *float64 `json:"flame,omitempty"` // 1 = flame seen
	State       *string  `json:"state,omitempty"` // free-form label from the sensor node
}

// MeasurementView is a Measurement decorated with its derived status.
type MeasurementView struct {
	Measurement
	Status       Status `json:"status"`
	FireDetected bool   `json:"fire_detected"`
}

// NewMeasurementView derives the status of m using marker.
func NewMeasurementView(m Measurement, marker string) MeasurementView {
	st := ClassifyState(m.State, marker)
	return MeasurementView{
		Measurement:  m,
		Status:       st,
		FireDetected: st.FireDetected(),
	}
}
