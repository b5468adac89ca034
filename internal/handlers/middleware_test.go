package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fire_gateway/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(apiToken string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{}, nil, apiToken)
	r.GET("/secure", h.apiTokenMiddleware, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAPITokenMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		target string
		header string
		code   int
		errMsg string
	}{
		{name: "missing header", target: "/secure", code: http.StatusUnauthorized, errMsg: "missing Authorization header"},
		{name: "invalid scheme", target: "/secure", header: "Token abc", code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		{name: "bearer without token", target: "/secure", header: "Bearer", code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		{name: "wrong token", target: "/secure", header: "Bearer nope", code: http.StatusUnauthorized, errMsg: "invalid token"},
		{name: "valid header", target: "/secure", header: "Bearer s3cret", code: http.StatusOK},
		{name: "valid query token", target: "/secure?token=s3cret", code: http.StatusOK},
		{name: "wrong query token", target: "/secure?token=x", code: http.StatusUnauthorized, errMsg: "invalid token"},
		{name: "header wins over query", target: "/secure?token=s3cret", header: "Bearer nope", code: http.StatusUnauthorized, errMsg: "invalid token"},
	}

	r := newMiddlewareOnlyRouter("s3cret")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.code {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.code, w.Body.String())
			}
			if tc.errMsg == "" {
				return
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body["error"] != tc.errMsg {
				t.Fatalf("error=%q, want %q", body["error"], tc.errMsg)
			}
		})
	}
}

func TestAPITokenMiddleware_DisabledWithoutToken(t *testing.T) {
	r := newMiddlewareOnlyRouter("")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("open API: want 200, got %d", w.Code)
	}
}
