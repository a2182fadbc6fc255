package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/history"
	"github.com/prasetyowira/qrgen/domain/payload"
	"github.com/prasetyowira/qrgen/domain/qr"
	"github.com/prasetyowira/qrgen/infrastructure/cache"
	appLogger "github.com/prasetyowira/qrgen/infrastructure/logger"
	"github.com/prasetyowira/qrgen/infrastructure/output"
)

// Handler contains service dependencies for API handlers
type Handler struct {
	service *qr.Service
	history *history.Log
	cache   *cache.LRU
}

// StyleOptions are the optional rendering overrides shared by generate requests
type StyleOptions struct {
	Foreground string  `json:"fg,omitempty"`
	Background string  `json:"bg,omitempty"`
	Level      string  `json:"level,omitempty" validate:"omitempty,oneof=L M Q H l m q h"`
	ModuleSize int     `json:"module_size,omitempty" validate:"omitempty,min=1,max=100"`
	Logo       []byte  `json:"logo,omitempty"`
	LogoRatio  float64 `json:"logo_ratio,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// ClassifyRequest is the request object for the classify endpoint
type ClassifyRequest struct {
	Input string `json:"input" validate:"required"`
}

// GenerateRequest is the request object for free-text generation
type GenerateRequest struct {
	Input string `json:"input" validate:"required"`
	StyleOptions
}

// WiFiRequest is the request object for WiFi generation
type WiFiRequest struct {
	SSID     string `json:"ssid" validate:"required"`
	Password string `json:"password"`
	StyleOptions
}

// VCardRequest is the request object for vCard generation
type VCardRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	StyleOptions
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewHandler creates a new API handler
func NewHandler(service *qr.Service, log *history.Log, previews *cache.LRU) *Handler {
	return &Handler{
		service: service,
		history: log,
		cache:   previews,
	}
}

// Classify reports the detected type and payload for an input
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[ClassifyRequest](w, r)
	if err != nil {
		h.writeError(w, r, constant.CtxClassify, err)
		return
	}

	WriteJSON(w, h.service.Classify(r.Context(), req.Input), http.StatusOK)
}

// GenerateQRCode renders free text after classification
func (h *Handler) GenerateQRCode(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[GenerateRequest](w, r)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateQR, err)
		return
	}
	style, logo, err := h.styleFrom(req.StyleOptions)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateQR, err)
		return
	}

	result, err := h.service.GenerateText(r.Context(), req.Input, style, logo)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateQR, err)
		return
	}
	h.writeResult(w, r, result)
}

// GenerateWiFiQRCode renders a WiFi network configuration
func (h *Handler) GenerateWiFiQRCode(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[WiFiRequest](w, r)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateWiFi, err)
		return
	}
	style, logo, err := h.styleFrom(req.StyleOptions)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateWiFi, err)
		return
	}

	result, err := h.service.GenerateWiFi(r.Context(), req.SSID, req.Password, style, logo)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateWiFi, err)
		return
	}
	h.writeResult(w, r, result)
}

// GenerateVCardQRCode renders a contact card
func (h *Handler) GenerateVCardQRCode(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[VCardRequest](w, r)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateVCard, err)
		return
	}
	style, logo, err := h.styleFrom(req.StyleOptions)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateVCard, err)
		return
	}

	result, err := h.service.GenerateVCard(r.Context(), req.Name, req.Phone, req.Email, style, logo)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateVCard, err)
		return
	}
	h.writeResult(w, r, result)
}

// PreviewQRCode renders ?data= without recording history. Responses are cached
// per (colors, size, level, data).
func (h *Handler) PreviewQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	opts := StyleOptions{
		Foreground: q.Get("fg"),
		Background: q.Get("bg"),
		Level:      q.Get("level"),
	}
	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > 100 {
			h.writeError(w, r, constant.CtxPreviewQR, payload.NewValidationError("size", "size must be an integer between 1 and 100"))
			return
		}
		opts.ModuleSize = size
	}
	style, _, err := h.styleFrom(opts)
	if err != nil {
		h.writeError(w, r, constant.CtxPreviewQR, err)
		return
	}

	data := q.Get("data")
	key := fmt.Sprintf("%s|%s|%d|%s|%s", qr.HexColor(style.Foreground), qr.HexColor(style.Background), style.ModuleSize, style.Level, data)
	if png, ok := h.cache.Get(key); ok {
		res := h.service.Classify(ctx, data)
		appLogger.CtxDebug(ctx, "Serving cached preview", appLogger.LoggerInfo{
			ContextFunction: constant.CtxPreviewQR,
			Data: map[string]interface{}{
				constant.DataCacheHit: true,
				constant.DataSize:     len(png),
			},
		})
		w.Header().Set(constant.HeaderCache, "HIT")
		setPayloadHeaders(w, res.Payload, res.Kind)
		writePNG(w, png)
		return
	}

	result, err := h.service.Preview(ctx, data, style)
	if err != nil {
		h.writeError(w, r, constant.CtxPreviewQR, err)
		return
	}
	png, err := encodePNG(result)
	if err != nil {
		h.writeError(w, r, constant.CtxPreviewQR, err)
		return
	}
	h.cache.Set(key, png)

	w.Header().Set(constant.HeaderCache, "MISS")
	setPayloadHeaders(w, result.Payload, result.Kind)
	w.Header().Set(constant.HeaderQRVersion, strconv.Itoa(result.Version))
	writePNG(w, png)
}

// GetHistory lists the recent generations, newest first
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, h.history.Entries(r.Context()), http.StatusOK)
}

// GetHistoryEntry returns one history entry by position (0 is newest)
func (h *Handler) GetHistoryEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, r, constant.CtxGetHistory, payload.NewValidationError("index", "index must be an integer"))
		return
	}

	entry, err := h.history.Get(ctx, index)
	if err != nil {
		appLogger.CtxInfo(ctx, constant.MsgHistoryNotFound, appLogger.LoggerInfo{
			ContextFunction: constant.CtxGetHistory,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPINotFound,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataIndex: index,
			},
		})
		WriteJSONError(w, constant.MsgHistoryNotFound, http.StatusNotFound)
		return
	}
	WriteJSON(w, entry, http.StatusOK)
}

// ClearHistory removes every history entry
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(r.Context()); err != nil {
		h.writeError(w, r, constant.CtxClearHist, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) styleFrom(opts StyleOptions) (qr.Style, *qr.LogoSpec, error) {
	style := h.service.Style()

	var err error
	if style.Foreground, err = qr.ParseColorOr(opts.Foreground, style.Foreground); err != nil {
		return style, nil, err
	}
	if style.Background, err = qr.ParseColorOr(opts.Background, style.Background); err != nil {
		return style, nil, err
	}
	if opts.Level != "" {
		if style.Level, err = qr.ParseLevel(opts.Level); err != nil {
			return style, nil, err
		}
	}
	if opts.ModuleSize > 0 {
		style.ModuleSize = opts.ModuleSize
	}

	var logo *qr.LogoSpec
	if len(opts.Logo) > 0 {
		logo = &qr.LogoSpec{Data: opts.Logo, SizeRatio: opts.LogoRatio}
	}
	return style, logo, nil
}

func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, result *qr.Result) {
	png, err := encodePNG(result)
	if err != nil {
		h.writeError(w, r, constant.CtxGenerateQR, err)
		return
	}

	setPayloadHeaders(w, result.Payload, result.Kind)
	w.Header().Set(constant.HeaderQRVersion, strconv.Itoa(result.Version))
	if result.LogoErr != nil {
		w.Header().Set(constant.HeaderLogoError, result.LogoErr.Error())
	}
	if result.HistoryErr != nil {
		w.Header().Set(constant.HeaderHistError, result.HistoryErr.Error())
	}
	writePNG(w, png)
}

// writeError maps domain errors onto status codes
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	var (
		verr *payload.ValidationError
		derr *DecodeError
		eerr *qr.EncodingError
	)

	status, code, message := http.StatusInternalServerError, constant.ErrCodeAPIServiceError, constant.MsgGenerationFailed
	switch {
	case errors.As(err, &verr):
		status, code, message = http.StatusBadRequest, validationCode(verr), verr.Error()
	case errors.As(err, &derr):
		status, code, message = http.StatusBadRequest, constant.ErrCodeAPIDecodeRequest, derr.Error()
	case errors.As(err, &eerr):
		status, code, message = http.StatusUnprocessableEntity, constant.ErrCodeAPIServiceError, eerr.Error()
	}

	logFunc := appLogger.CtxWarn
	if status >= http.StatusInternalServerError {
		logFunc = appLogger.CtxError
	}
	logFunc(r.Context(), constant.MsgInvalidRequest, appLogger.LoggerInfo{
		ContextFunction: fn,
		Error: &appLogger.CustomError{
			Code:    code,
			Message: err.Error(),
			Type:    constant.ErrTypeAPI,
		},
		Data: map[string]interface{}{
			constant.DataStatus: status,
		},
	})

	WriteJSONError(w, message, status)
}

// validationCode narrows API003 for the style fields the service parses.
func validationCode(verr *payload.ValidationError) string {
	switch verr.Field {
	case "color":
		return constant.ErrCodeInvalidColor
	case "level":
		return constant.ErrCodeInvalidLevel
	}
	return constant.ErrCodeAPIValidation
}

func encodePNG(result *qr.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := output.EncodePNG(&buf, result.Image); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setPayloadHeaders(w http.ResponseWriter, data string, kind payload.Kind) {
	w.Header().Set(constant.HeaderQRType, string(kind))
	w.Header().Set(constant.HeaderQRPayload, url.QueryEscape(data))
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		appLogger.CtxError(context.Background(), "Failed to encode response", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIEncodeResponse,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
	}
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}
