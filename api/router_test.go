package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/qrgen/constant"
	"github.com/stretchr/testify/assert"
)

func TestNewRouter(t *testing.T) {
	// Arrange
	handler := &Handler{}

	// Act
	router := NewRouter(handler, "user", "pass")

	// Assert
	assert.NotNil(t, router)
	assert.Equal(t, handler, router.handler)
	assert.IsType(t, &chi.Mux{}, router.router)
}

func TestRouter_Healthcheck(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, constant.RouteHealthcheck, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constant.MsgHealthy, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(constant.HeaderRequestID))
}

func TestRouter_RegisteredRoutes(t *testing.T) {
	srv := newTestServer(t)

	want := map[string]bool{}
	for _, route := range []string{
		http.MethodPost + " " + constant.RouteClassify,
		http.MethodGet + " " + constant.RouteQRCode,
		http.MethodPost + " " + constant.RouteQRCode,
		http.MethodPost + " " + constant.RouteWiFiQRCode,
		http.MethodPost + " " + constant.RouteVCardQRCode,
		http.MethodGet + " " + constant.RouteHistory,
		http.MethodGet + " " + constant.RouteHistoryEntry,
		http.MethodDelete + " " + constant.RouteHistory,
		http.MethodGet + " " + constant.RouteHealthcheck,
	} {
		want[route] = true
	}

	got := map[string]bool{}
	err := chi.Walk(srv.router.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got[method+" "+route] = true
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, constant.RouteHistory, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
