// Package render rasterizes QR matrices and stamps logos on them.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/qr"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
)

var errNoLogoSource = errors.New("no logo path or data")

// Composer implements qr.Composer.
type Composer struct{}

// NewComposer creates a new composer
func NewComposer() *Composer {
	return &Composer{}
}

// Render draws m with style colors, then overlays logo if one is given.
// A logo that cannot be read or decoded leaves the symbol untouched and is
// reported through Rendering.LogoErr.
//
// Error-correction headroom for the covered modules is the caller's concern:
// a logo ratio of 0.25 at level H usually scans, larger logos or weaker
// levels may not.
func (c *Composer) Render(ctx context.Context, m qr.Matrix, style qr.Style, logo *qr.LogoSpec) qr.Rendering {
	dc := drawModules(m, style)
	if logo == nil {
		return qr.Rendering{Image: dc.Image()}
	}

	if err := stampLogo(dc, logo); err != nil {
		logErr := &qr.LogoCompositionError{Source: logo.Source(), Err: err}
		code := constant.ErrCodeLogoDecode
		if errors.Is(err, fs.ErrNotExist) {
			code = constant.ErrCodeLogoMissing
		}
		logger.CtxWarn(ctx, constant.MsgLogoCompositionSkipped, logger.LoggerInfo{
			ContextFunction: constant.CtxComposer,
			Error: &logger.CustomError{
				Code:    code,
				Message: logErr.Error(),
				Type:    constant.ErrTypeComposition,
			},
			Data: map[string]interface{}{
				constant.DataLogo: logo.Source(),
			},
		})
		return qr.Rendering{Image: dc.Image(), LogoErr: logErr}
	}

	logger.CtxDebug(ctx, "Logo composited", logger.LoggerInfo{
		ContextFunction: constant.CtxComposer,
		Data: map[string]interface{}{
			constant.DataLogo:  logo.Source(),
			constant.DataRatio: logo.Ratio(),
		},
	})
	return qr.Rendering{Image: dc.Image()}
}

func drawModules(m qr.Matrix, style qr.Style) *gg.Context {
	scale := style.ModuleSize
	if scale <= 0 {
		scale = qr.DefaultModuleSize
	}
	side := m.Size() * scale

	dc := gg.NewContext(side, side)
	dc.SetColor(style.Background)
	dc.Clear()

	dc.SetColor(style.Foreground)
	for y, row := range m.Modules {
		for x, dark := range row {
			if dark {
				dc.DrawRectangle(float64(x*scale), float64(y*scale), float64(scale), float64(scale))
			}
		}
	}
	dc.Fill()
	return dc
}

// stampLogo fits the logo inside a square of ratio × the shorter image side,
// clips it to the inscribed ellipse and draws it at the exact center.
func stampLogo(dc *gg.Context, spec *qr.LogoSpec) error {
	src, err := loadLogo(spec)
	if err != nil {
		return err
	}

	box := int(float64(min(dc.Width(), dc.Height())) * spec.Ratio())
	if box < 1 {
		return fmt.Errorf("logo box too small for %dx%d image", dc.Width(), dc.Height())
	}

	w, h := fitWithin(src.Bounds().Dx(), src.Bounds().Dy(), box)
	if w < 1 || h < 1 {
		return fmt.Errorf("logo has empty bounds")
	}
	resized := imaging.Resize(src, w, h, imaging.Lanczos)

	x := (dc.Width() - w) / 2
	y := (dc.Height() - h) / 2

	dc.DrawEllipse(float64(x)+float64(w)/2, float64(y)+float64(h)/2, float64(w)/2, float64(h)/2)
	dc.Clip()
	dc.DrawImage(resized, x, y)
	dc.ResetClip()
	return nil
}

func loadLogo(spec *qr.LogoSpec) (image.Image, error) {
	switch {
	case len(spec.Data) > 0:
		return imaging.Decode(bytes.NewReader(spec.Data), imaging.AutoOrientation(true))
	case spec.Path != "":
		return imaging.Open(spec.Path, imaging.AutoOrientation(true))
	default:
		return nil, errNoLogoSource
	}
}

// fitWithin scales w×h to fit a box×box square, preserving aspect ratio.
// Smaller logos are scaled up.
func fitWithin(w, h, box int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w >= h {
		return box, max(1, int(math.Round(float64(h)*float64(box)/float64(w))))
	}
	return max(1, int(math.Round(float64(w)*float64(box)/float64(h)))), box
}
