package qr

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/classifier"
	"github.com/prasetyowira/qrgen/domain/payload"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
)

// Service runs the classify → encode → compose pipeline
type Service struct {
	encoder  Encoder
	composer Composer
	history  Recorder
	style    Style
	now      func() time.Time
}

// NewService creates a new QR service. history may be nil.
func NewService(encoder Encoder, composer Composer, history Recorder, style Style) *Service {
	logger.Debug("Creating QR service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService: "qr",
			constant.DataLevel:   style.Level.String(),
			constant.DataSize:    style.ModuleSize,
		},
	})

	return &Service{
		encoder:  encoder,
		composer: composer,
		history:  history,
		style:    style,
		now:      time.Now,
	}
}

// Style returns the service default style.
func (s *Service) Style() Style {
	return s.style
}

// Classify exposes the classifier with request logging.
func (s *Service) Classify(ctx context.Context, raw string) classifier.Result {
	res := classifier.Classify(raw)
	logger.CtxDebug(ctx, "Input classified", logger.LoggerInfo{
		ContextFunction: constant.CtxClassify,
		Data: map[string]interface{}{
			constant.DataKind:    string(res.Kind),
			constant.DataPayload: res.Payload,
		},
	})
	return res
}

// GenerateText classifies raw and renders the resulting payload.
func (s *Service) GenerateText(ctx context.Context, raw string, style Style, logo *LogoSpec) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, s.rejected(ctx, constant.CtxGenerateText, constant.ErrCodeEmptyInput,
			payload.NewValidationError("input", constant.ErrEmptyInput))
	}

	res := s.Classify(ctx, raw)
	return s.Generate(ctx, Request{Payload: res.Payload, Kind: res.Kind, Style: style, Logo: logo})
}

// GenerateWiFi builds a WiFi payload and renders it.
func (s *Service) GenerateWiFi(ctx context.Context, ssid, password string, style Style, logo *LogoSpec) (*Result, error) {
	data, err := payload.BuildWiFi(ssid, password)
	if err != nil {
		return nil, s.rejected(ctx, constant.CtxGenerateWiFi, constant.ErrCodeEmptySSID, err)
	}
	return s.Generate(ctx, Request{Payload: data, Kind: payload.KindWiFi, Style: style, Logo: logo})
}

// GenerateVCard builds a vCard payload and renders it.
func (s *Service) GenerateVCard(ctx context.Context, name, phone, email string, style Style, logo *LogoSpec) (*Result, error) {
	data, err := payload.BuildVCard(name, phone, email)
	if err != nil {
		return nil, s.rejected(ctx, constant.CtxGenerateVCard, constant.ErrCodeEmptyName, err)
	}
	return s.Generate(ctx, Request{Payload: data, Kind: payload.KindVCard, Style: style, Logo: logo})
}

// Generate encodes and renders req, then records it in history.
// Logo and history failures degrade the result instead of failing it.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	result, err := s.render(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.history != nil {
		if err := s.history.Record(ctx, result.Payload, string(result.Kind)); err != nil {
			result.HistoryErr = err
		}
	}

	logger.CtxInfo(ctx, "QR code generated", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataKind:    string(result.Kind),
			constant.DataVersion: result.Version,
			constant.DataLevel:   result.Level.String(),
			constant.DataLogo:    req.Logo != nil && result.LogoErr == nil,
		},
	})

	return result, nil
}

// Preview classifies raw and renders it with style, without a logo and
// without touching history.
func (s *Service) Preview(ctx context.Context, raw string, style Style) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, s.rejected(ctx, constant.CtxPreviewQR, constant.ErrCodeEmptyInput,
			payload.NewValidationError("input", constant.ErrEmptyInput))
	}

	res := s.Classify(ctx, raw)
	return s.render(ctx, Request{Payload: res.Payload, Kind: res.Kind, Style: style})
}

func (s *Service) render(ctx context.Context, req Request) (*Result, error) {
	logger.CtxDebug(ctx, "Generating QR code", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataPayload: req.Payload,
			constant.DataKind:    string(req.Kind),
			constant.DataLevel:   req.Style.Level.String(),
			constant.DataLogo:    req.Logo.Source(),
		},
	})

	if req.Payload == "" {
		return nil, s.rejected(ctx, constant.CtxGenerate, constant.ErrCodeEmptyInput,
			payload.NewValidationError("input", constant.ErrEmptyInput))
	}
	if req.Kind == "" {
		req.Kind = payload.KindText
	}
	style := req.Style
	if style.ModuleSize <= 0 {
		style.ModuleSize = s.style.ModuleSize
	}

	matrix, err := s.encoder.Encode(ctx, req.Payload, style.Level)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to encode payload", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEncodeFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeEncoding,
			},
			Data: map[string]interface{}{
				constant.DataSize: len(req.Payload),
			},
		})
		return nil, err
	}

	rendering := s.composer.Render(ctx, matrix, style, req.Logo)

	return &Result{
		Image:     rendering.Image,
		Payload:   req.Payload,
		Kind:      req.Kind,
		Timestamp: s.now(),
		Version:   matrix.Version,
		Level:     matrix.Level,
		LogoErr:   rendering.LogoErr,
	}, nil
}

func (s *Service) rejected(ctx context.Context, fn, code string, err error) error {
	var verr *payload.ValidationError
	if errors.As(err, &verr) {
		logger.CtxWarn(ctx, "Request rejected", logger.LoggerInfo{
			ContextFunction: fn,
			Error: &logger.CustomError{
				Code:    code,
				Message: verr.Error(),
				Type:    constant.ErrTypeValidation,
			},
		})
	}
	return err
}
