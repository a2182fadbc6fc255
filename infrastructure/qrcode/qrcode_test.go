package qrcode

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prasetyowira/qrgen/domain/qr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_SmallPayloadUsesVersionOne(t *testing.T) {
	// Arrange
	enc := NewEncoder()

	// Act
	m, err := enc.Encode(context.Background(), "hi", qr.LevelH)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, m.Version)
	assert.Equal(t, qr.LevelH, m.Level)
	assert.Equal(t, QuietZone, m.QuietZone)
	assert.Equal(t, 21+2*QuietZone, m.Size())
	for _, row := range m.Modules {
		assert.Len(t, row, m.Size())
	}
}

func TestEncode_QuietZoneIsLight(t *testing.T) {
	m, err := NewEncoder().Encode(context.Background(), "https://example.com", qr.LevelH)
	require.NoError(t, err)

	n := m.Size()
	for i := 0; i < n; i++ {
		for b := 0; b < QuietZone; b++ {
			assert.False(t, m.Modules[b][i])
			assert.False(t, m.Modules[n-1-b][i])
			assert.False(t, m.Modules[i][b])
			assert.False(t, m.Modules[i][n-1-b])
		}
	}
	// top-left finder pattern corner is dark
	assert.True(t, m.Modules[QuietZone][QuietZone])
}

func TestEncode_VersionGrowsWithPayload(t *testing.T) {
	enc := NewEncoder()

	small, err := enc.Encode(context.Background(), "short", qr.LevelH)
	require.NoError(t, err)
	large, err := enc.Encode(context.Background(), strings.Repeat("a", 500), qr.LevelH)
	require.NoError(t, err)

	assert.Greater(t, large.Version, small.Version)
	assert.Equal(t, 17+4*large.Version+2*QuietZone, large.Size())
}

func TestEncode_DowngradesLevelWhenTooLong(t *testing.T) {
	// 2000 bytes exceeds the level H byte capacity (1273) but fits at L (2953)
	m, err := NewEncoder().Encode(context.Background(), strings.Repeat("x", 2000), qr.LevelH)

	require.NoError(t, err)
	assert.Less(t, int(m.Level), int(qr.LevelH))
	assert.LessOrEqual(t, m.Version, 40)
}

func TestEncode_TooLongForAnyLevel(t *testing.T) {
	_, err := NewEncoder().Encode(context.Background(), strings.Repeat("x", 3000), qr.LevelH)

	var encErr *qr.EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 3000, encErr.Length)
	assert.Equal(t, qr.LevelL, encErr.Level)
}

func TestTerminal(t *testing.T) {
	out, err := NewEncoder().Terminal(context.Background(), "hello", qr.LevelM)

	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "\n")
}
