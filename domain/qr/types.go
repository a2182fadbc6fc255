package qr

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/payload"
)

// Level is the QR error-correction tier.
type Level int

const (
	LevelL Level = iota
	LevelM
	LevelQ
	LevelH
)

// ParseLevel accepts L, M, Q, H (any case) and the long names low, medium, quartile, high.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LOW":
		return LevelL, nil
	case "M", "MEDIUM":
		return LevelM, nil
	case "Q", "QUARTILE":
		return LevelQ, nil
	case "H", "HIGH", "HIGHEST":
		return LevelH, nil
	}
	return LevelH, payload.NewValidationError("level", fmt.Sprintf("%s %q", constant.ErrInvalidLevel, s))
}

func (l Level) String() string {
	switch l {
	case LevelL:
		return "L"
	case LevelM:
		return "M"
	case LevelQ:
		return "Q"
	default:
		return "H"
	}
}

// Lower returns the next weaker level, or false at L.
func (l Level) Lower() (Level, bool) {
	if l <= LevelL {
		return LevelL, false
	}
	return l - 1, true
}

// Matrix is an encoded symbol. Modules includes the quiet zone; true is dark.
type Matrix struct {
	Modules   [][]bool
	Version   int
	Level     Level
	QuietZone int
}

// Size is the side length in modules, quiet zone included.
func (m Matrix) Size() int {
	return len(m.Modules)
}

const (
	DefaultModuleSize = 10
	DefaultLogoRatio  = 0.25
	MinLogoRatio      = 0.10
	MaxLogoRatio      = 0.40
)

// LogoSpec describes an image to stamp in the middle of the symbol.
// Data wins over Path when both are set.
type LogoSpec struct {
	Path      string
	Data      []byte
	SizeRatio float64
}

// Source names the logo for logs and errors.
func (l *LogoSpec) Source() string {
	if l == nil {
		return ""
	}
	if len(l.Data) > 0 {
		return fmt.Sprintf("<%d bytes>", len(l.Data))
	}
	return l.Path
}

// Ratio is SizeRatio clamped to [MinLogoRatio, MaxLogoRatio]; zero means the default.
func (l *LogoSpec) Ratio() float64 {
	if l == nil || l.SizeRatio == 0 {
		return DefaultLogoRatio
	}
	return ClampRatio(l.SizeRatio)
}

// ClampRatio bounds r to the supported logo size range.
func ClampRatio(r float64) float64 {
	if r < MinLogoRatio {
		return MinLogoRatio
	}
	if r > MaxLogoRatio {
		return MaxLogoRatio
	}
	return r
}

// Style carries the rendering parameters shared by every request of a caller.
type Style struct {
	Level      Level
	Foreground color.RGBA
	Background color.RGBA
	ModuleSize int
}

// DefaultStyle is black on white, level H, 10 px per module.
func DefaultStyle() Style {
	return Style{
		Level:      LevelH,
		Foreground: color.RGBA{A: 0xff},
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		ModuleSize: DefaultModuleSize,
	}
}

// Request is one generation job. It is passed by value.
type Request struct {
	Payload string
	Kind    payload.Kind
	Style   Style
	Logo    *LogoSpec
}

// Result is handed to the caller, who owns Image from then on.
// LogoErr and HistoryErr report degraded but successful generations.
type Result struct {
	Image      image.Image
	Payload    string
	Kind       payload.Kind
	Timestamp  time.Time
	Version    int
	Level      Level
	LogoErr    error
	HistoryErr error
}

// Rendering is the composer's output. Image is always usable; LogoErr is set
// when the logo was requested but could not be applied.
type Rendering struct {
	Image   image.Image
	LogoErr error
}

// Encoder turns a payload into a symbol matrix, picking the smallest version that fits.
type Encoder interface {
	Encode(ctx context.Context, data string, level Level) (Matrix, error)
}

// Composer rasterizes a matrix.
type Composer interface {
	Render(ctx context.Context, m Matrix, style Style, logo *LogoSpec) Rendering
}

// Sink stores a named image, e.g. a file in an output directory.
type Sink interface {
	Save(ctx context.Context, name string, img image.Image) error
}

// Recorder receives every successful single generation.
type Recorder interface {
	Record(ctx context.Context, data, kind string) error
}
