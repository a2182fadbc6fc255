package qr

import (
	"fmt"

	"github.com/prasetyowira/qrgen/constant"
)

// EncodingError means the payload does not fit any symbol version, even at level L.
type EncodingError struct {
	Length int
	Level  Level
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d bytes, level %s): %v", constant.ErrPayloadTooLong, e.Length, e.Level, e.Err)
	}
	return fmt.Sprintf("%s (%d bytes, level %s)", constant.ErrPayloadTooLong, e.Length, e.Level)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// LogoCompositionError is never fatal: the symbol is still rendered without a logo.
type LogoCompositionError struct {
	Source string
	Err    error
}

func (e *LogoCompositionError) Error() string {
	return fmt.Sprintf("logo %s: %v", e.Source, e.Err)
}

func (e *LogoCompositionError) Unwrap() error { return e.Err }
