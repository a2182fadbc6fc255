package qr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prasetyowira/qrgen/domain/payload"
)

const defaultFilename = "qrcode.png"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// DefaultFilename suggests a file name for a saved symbol: qrcode_<host>.png
// for website payloads, qrcode.png for everything else.
func DefaultFilename(data string, kind payload.Kind) string {
	if kind != payload.KindWebsite {
		return defaultFilename
	}

	host := data
	for _, scheme := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, scheme)
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = unsafeFilenameChars.ReplaceAllString(host, "_")
	if host == "" {
		return defaultFilename
	}
	return "qrcode_" + host + ".png"
}

// BatchFilename names the n-th (1-based) batch output.
func BatchFilename(n int) string {
	return fmt.Sprintf("qr_batch_%02d.png", n)
}
