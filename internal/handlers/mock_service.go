package handlers

import (
	"context"
	"net/http"
	"sync"

	"fire_gateway/internal/models"
	"fire_gateway/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockRelay struct {
	err      error
	payloads [][]byte
}

func (m *mockRelay) Handle(ctx context.Context, payload []byte) error {
	m.payloads = append(m.payloads, payload)
	return m.err
}

type mockMonitoring struct {
	mu        sync.Mutex
	latest    *models.MeasurementView
	latestErr error
	list      []models.MeasurementView
	listErr   error
	lastQuery service.MeasurementFilter
}

func (m *mockMonitoring) Latest(ctx context.Context) (*models.MeasurementView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest, m.latestErr
}

func (m *mockMonitoring) List(ctx context.Context, f service.MeasurementFilter) ([]models.MeasurementView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = f
	return m.list, m.listErr
}

func (m *mockMonitoring) setLatest(v *models.MeasurementView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = v
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, apiToken string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, apiToken)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func view(id int64, state string) *models.MeasurementView {
	v := models.NewMeasurementView(models.Measurement{ID: id, Timestamp: 1700000000 + id, State: &state}, "")
	return &v
}
