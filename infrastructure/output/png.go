// Package output writes rendered symbols to disk.
package output

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
)

// EncodePNG writes img to w as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}

// WritePNGFile writes img to path atomically: the PNG is written to a
// temporary file in the same directory and renamed into place.
func WritePNGFile(path string, img image.Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	bw := bufio.NewWriter(tmp)
	if err := EncodePNG(bw, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush png: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod png: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename png: %w", err)
	}
	return nil
}

// DirSink saves named images as PNG files inside Dir. It implements qr.Sink.
type DirSink struct {
	Dir string
}

// NewDirSink creates dir if needed and returns a sink writing into it.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirSink{Dir: dir}, nil
}

// Save writes img to Dir/name.
func (s *DirSink) Save(ctx context.Context, name string, img image.Image) error {
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := WritePNGFile(path, img); err != nil {
		logger.CtxError(ctx, "Failed to save image", logger.LoggerInfo{
			ContextFunction: constant.CtxOutput,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeSaveImage,
				Message: err.Error(),
				Type:    constant.ErrTypeBatch,
			},
			Data: map[string]interface{}{
				constant.DataFilename: path,
			},
		})
		return err
	}

	logger.CtxDebug(ctx, "Image saved", logger.LoggerInfo{
		ContextFunction: constant.CtxOutput,
		Data: map[string]interface{}{
			constant.DataFilename: path,
		},
	})
	return nil
}
