package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fire_gateway/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetLatest       = "failed to load latest measurement"
	errListMeasurement = "failed to list measurements"
	errNoMeasurement   = "no measurements stored yet"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Latest measurement
// @Description  Newest stored row with its derived fire status
// @Tags         measurements
// @Produce      json
// @Success      200  {object}  models.MeasurementView
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/measurements/latest [get]
// @Security     BearerAuth
func (h *Handler) latestMeasurement(c *gin.Context) {
	m, err := h.services.Monitoring.Latest(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetLatest, "measurement_latest_failed", err)
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoMeasurement})
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      List measurements
// @Description  Stored rows, newest first. from/to are RFC3339 and inclusive.
// @Tags         measurements
// @Produce      json
// @Param        from   query  string  false  "lower bound (RFC3339)"
// @Param        to     query  string  false  "upper bound (RFC3339)"
// @Param        limit  query  int     false  "max rows (default 100, max 1000)"
// @Success      200  {array}   models.MeasurementView
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/measurements [get]
// @Security     BearerAuth
func (h *Handler) listMeasurements(c *gin.Context) {
	f, err := parseMeasurementFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.services.Monitoring.List(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListMeasurement, "measurement_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func parseMeasurementFilter(c *gin.Context) (service.MeasurementFilter, error) {
	var f service.MeasurementFilter

	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, errors.New("invalid from: expected RFC3339")
		}
		f.From = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, errors.New("invalid to: expected RFC3339")
		}
		f.To = t
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return f, errors.New("invalid limit: expected a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}
