package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"fire_gateway/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, "")

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

func dialWS(t *testing.T, r http.Handler, query url.Values) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return env.Type, env.Data
}

func TestWebSocket_StreamsOnlyNewMeasurements(t *testing.T) {
	mon := &mockMonitoring{}
	r := newTestRouter(&service.Service{Monitoring: mon}, "")

	conn := dialWS(t, r, url.Values{"interval_ms": {"20"}})

	if typ, _ := readEnvelope(t, conn); typ != "empty" {
		t.Fatalf("initial message type = %q, want empty", typ)
	}

	mon.setLatest(view(1, "NORMAL"))
	typ, data := readEnvelope(t, conn)
	if typ != "measurement" {
		t.Fatalf("type = %q, want measurement", typ)
	}
	var m struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	_ = json.Unmarshal(data, &m)
	if m.ID != 1 || m.Status != "NORMAL" {
		t.Fatalf("unexpected measurement: %s", data)
	}

	// unchanged latest row is not resent; the next message is the new row
	mon.setLatest(view(2, "INCENDIO"))
	typ, data = readEnvelope(t, conn)
	_ = json.Unmarshal(data, &m)
	if typ != "measurement" || m.ID != 2 || m.Status != "FIRE" {
		t.Fatalf("expected measurement 2, got %s %s", typ, data)
	}
}

func TestWebSocket_StoreErrorIsReported(t *testing.T) {
	mon := &mockMonitoring{latestErr: errors.New("db down")}
	r := newTestRouter(&service.Service{Monitoring: mon}, "")

	conn := dialWS(t, r, url.Values{"interval_ms": {"20"}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Type != "error" || env.Error != errGetLatest {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestWebSocket_RequiresToken(t *testing.T) {
	r := newTestRouter(&service.Service{Monitoring: &mockMonitoring{}}, "s3cret")
	srv := httptest.NewServer(r)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	_, resp, err := dialer.Dial(u.String(), nil)
	if err == nil {
		t.Fatalf("expected handshake failure without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}

	u.RawQuery = url.Values{"token": {"s3cret"}}.Encode()
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial with token: %v", err)
	}
	_ = conn.Close()
}
