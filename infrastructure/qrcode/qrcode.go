package qrcode

import (
	"context"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/qr"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
	"github.com/skip2/go-qrcode"
)

// QuietZone is the border skip2/go-qrcode adds around every symbol, in modules.
const QuietZone = 4

var recoveryLevels = map[qr.Level]qrcode.RecoveryLevel{
	qr.LevelL: qrcode.Low,
	qr.LevelM: qrcode.Medium,
	qr.LevelQ: qrcode.High,
	qr.LevelH: qrcode.Highest,
}

// Encoder handles QR code symbol generation
type Encoder struct{}

// NewEncoder creates a new QR code encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode builds the smallest symbol holding data at level. When data does not
// fit at level, weaker levels are tried in turn; the matrix reports the level used.
func (e *Encoder) Encode(ctx context.Context, data string, level qr.Level) (qr.Matrix, error) {
	q, used, err := e.symbol(ctx, data, level)
	if err != nil {
		return qr.Matrix{}, err
	}

	return qr.Matrix{
		Modules:   q.Bitmap(),
		Version:   q.VersionNumber,
		Level:     used,
		QuietZone: QuietZone,
	}, nil
}

// Terminal renders data as half-block text for console preview.
func (e *Encoder) Terminal(ctx context.Context, data string, level qr.Level) (string, error) {
	q, _, err := e.symbol(ctx, data, level)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}

func (e *Encoder) symbol(ctx context.Context, data string, level qr.Level) (*qrcode.QRCode, qr.Level, error) {
	current := level
	for {
		q, err := qrcode.New(data, recoveryLevels[current])
		if err == nil {
			if current != level {
				logger.CtxWarn(ctx, "Payload too long for requested level, downgraded", logger.LoggerInfo{
					ContextFunction: constant.CtxEncoder,
					Error: &logger.CustomError{
						Code:    constant.ErrCodeLevelDowngrade,
						Message: "requested " + level.String() + ", used " + current.String(),
						Type:    constant.ErrTypeEncoding,
					},
					Data: map[string]interface{}{
						constant.DataSize:    len(data),
						constant.DataVersion: q.VersionNumber,
					},
				})
			}
			return q, current, nil
		}

		lower, ok := current.Lower()
		if !ok {
			return nil, current, &qr.EncodingError{Length: len(data), Level: current, Err: err}
		}
		current = lower
	}
}
