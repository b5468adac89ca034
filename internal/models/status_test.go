package models

import (
	"encoding/json"
	"testing"
)

func strPtr(s string) *string   { return &s }
func fltPtr(f float64) *float64 { return &f }

func TestClassifyState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		state  *string
		marker string
		want   Status
	}{
		{name: "nil state", state: nil, want: StatusUnknown},
		{name: "exact marker", state: strPtr("INCENDIO"), want: StatusFire},
		{name: "marker as substring", state: strPtr("INCENDIO_DETECTADO"), want: StatusFire},
		{name: "normal", state: strPtr("NORMAL"), want: StatusNormal},
		{name: "case-sensitive", state: strPtr("incendio"), want: StatusNormal},
		{name: "custom marker", state: strPtr("FIRE!"), marker: "FIRE", want: StatusFire},
		{name: "custom marker misses default", state: strPtr("INCENDIO"), marker: "FIRE", want: StatusNormal},
		{name: "empty state", state: strPtr(""), want: StatusNormal},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyState(tc.state, tc.marker); got != tc.want {
				t.Fatalf("ClassifyState() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewOutboundRecord_FireFlag(t *testing.T) {
	t.Parallel()

	m := Measurement{
		ID:          3,
		Timestamp:   1700000000,
		Temperature: fltPtr(42.5),
		Gas:         fltPtr(300),
		Flame:       fltPtr(1),
		State:       strPtr("INCENDIO"),
	}
	rec := NewOutboundRecord(m, DefaultFireMarker)
	if rec.Fire != 1.0 {
		t.Fatalf("Fire = %v, want 1.0", rec.Fire)
	}

	m.State = strPtr("NORMAL")
	if rec := NewOutboundRecord(m, DefaultFireMarker); rec.Fire != 0.0 {
		t.Fatalf("Fire = %v, want 0.0", rec.Fire)
	}
}

func TestOutboundRecord_JSONKeys(t *testing.T) {
	t.Parallel()

	rec := NewOutboundRecord(Measurement{
		Timestamp:   1700000000,
		Temperature: fltPtr(42.5),
		Gas:         fltPtr(300),
		Flame:       fltPtr(1),
		State:       strPtr("INCENDIO"),
	}, "")

	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]any{
		"temperatura": 42.5,
		"gas":         300.0,
		"timestamp":   1700000000.0,
		"llama":       1.0,
		"estado":      "INCENDIO",
		"incendio":    1.0,
	}
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestOutboundRecord_NullFields(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(NewOutboundRecord(Measurement{Timestamp: 1}, ""))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	const want = `{"temperatura":null,"gas":null,"timestamp":1,"llama":null,"estado":null,"incendio":0}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestActuatorState(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		1.0:  ActuatorOn,
		0.0:  ActuatorOff,
		2.0:  ActuatorOff,
		0.99: ActuatorOff,
		-1:   ActuatorOff,
	}
	for in, want := range cases {
		if got := ActuatorState(in); got != want {
			t.Errorf("ActuatorState(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestMeasurementView_StatusJSON(t *testing.T) {
	t.Parallel()

	v := NewMeasurementView(Measurement{ID: 1, State: strPtr("INCENDIO_DETECTADO")}, "")
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got struct {
		ID           int64  `json:"id"`
		State        string `json:"state"`
		Status       string `json:"status"`
		FireDetected bool   `json:"fire_detected"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != 1 || got.Status != "FIRE" || !got.FireDetected || got.State != "INCENDIO_DETECTADO" {
		t.Fatalf("unexpected view: %+v (%s)", got, b)
	}
}
