package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prasetyowira/qrgen/constant"
	appLogger "github.com/prasetyowira/qrgen/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	// Arrange
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appLogger.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	// Act
	RequestLogger()(next).ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusTeapot, w.Code)
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(constant.HeaderRequestID))
}

func TestRequestLogger_KeepsValidIncomingID(t *testing.T) {
	id := uuid.New().String()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, id, appLogger.RequestID(r.Context()))
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constant.HeaderRequestID, id)
	w := httptest.NewRecorder()

	RequestLogger()(next).ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(constant.HeaderRequestID))
}

func TestRequestLogger_ReplacesInvalidIncomingID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constant.HeaderRequestID, "not-a-uuid\nspoof")
	w := httptest.NewRecorder()

	RequestLogger()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

	assert.NotEqual(t, "not-a-uuid\nspoof", w.Header().Get(constant.HeaderRequestID))
}

func TestRequestLogger_LogsCompletionLevel(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	appLogger.Use(zap.New(core))
	t.Cleanup(func() { appLogger.Use(nil) })

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad"))
	})

	// Act
	RequestLogger()(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/qr", nil))

	// Assert
	completed := logs.FilterMessage(constant.MsgRequestCompleted).All()
	require.Len(t, completed, 1)
	assert.Equal(t, zapcore.WarnLevel, completed[0].Level)
	fields := completed[0].ContextMap()
	assert.EqualValues(t, http.StatusBadRequest, fields[constant.DataStatus])
	assert.EqualValues(t, 3, fields[constant.DataSize])
	assert.NotEmpty(t, fields[constant.LogRequestIDKey])
}
