package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/prasetyowira/qrgen/domain/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes qrgen with a private history file.
func runCLI(t *testing.T, historyPath string, stdin string, args ...string) cliResult {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--history-backend", "json", "--history-path", historyPath}, args...))

	err := cmd.Execute()
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func decodeFile(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	result, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return result.GetText()
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "qrgen", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Version)
	for _, flag := range []string{"log-level", "history-backend", "history-path"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"generate", "wifi", "vcard", "batch", "history", "detect", "version"}, names)
}

func TestGenerateCmd(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	hist := filepath.Join(dir, "history.json")
	out := filepath.Join(dir, "site.png")

	// Act
	res := runCLI(t, hist, "", "generate", "example.com", "-o", out, "--module-size", "5")

	// Assert
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Saved "+out)
	assert.Contains(t, res.stdout, "website")
	assert.Equal(t, "https://example.com", decodeFile(t, out))

	listed := runCLI(t, hist, "", "history", "--json")
	require.NoError(t, listed.err)
	var entries []history.Entry
	require.NoError(t, json.Unmarshal([]byte(listed.stdout), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "https://example.com", entries[0].Data)
}

func TestGenerateCmd_JoinsArgsAndAddsExtension(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "note")

	res := runCLI(t, filepath.Join(dir, "h.json"), "", "generate", "hello", "there", "-o", out)

	require.NoError(t, res.err)
	assert.Equal(t, "hello there", decodeFile(t, out+".png"))
}

func TestGenerateCmd_Print(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, filepath.Join(dir, "h.json"), "", "generate", "hi", "-o", filepath.Join(dir, "hi.png"), "--print")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "█")
}

func TestGenerateCmd_MissingLogoWarns(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "x.png")

	res := runCLI(t, filepath.Join(dir, "h.json"), "", "generate", "example.com", "-o", out, "--logo", filepath.Join(dir, "none.png"))

	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "logo skipped")
	assert.Equal(t, "https://example.com", decodeFile(t, out))
}

func TestGenerateCmd_InvalidFlags(t *testing.T) {
	dir := t.TempDir()
	hist := filepath.Join(dir, "h.json")

	assert.Error(t, runCLI(t, hist, "", "generate", "x", "--level", "Z").err)
	assert.Error(t, runCLI(t, hist, "", "generate", "x", "--fg", "nope").err)
	assert.Error(t, runCLI(t, hist, "", "generate", "x", "--module-size", "500").err)
	assert.Error(t, runCLI(t, hist, "", "generate").err)
	assert.Error(t, runCLI(t, hist, "", "generate", "   ").err)
}

func TestWiFiCmd(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "wifi.png")

	res := runCLI(t, filepath.Join(dir, "h.json"), "", "wifi", "--ssid", "HomeNet", "--password", "s3cret", "-o", out)

	require.NoError(t, res.err)
	assert.Equal(t, "WIFI:S:HomeNet;T:WPA;P:s3cret;;", decodeFile(t, out))
}

func TestWiFiCmd_RequiresSSID(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, filepath.Join(dir, "h.json"), "", "wifi", "--password", "x")

	assert.Error(t, res.err)
}

func TestVCardCmd(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "card.png")

	res := runCLI(t, filepath.Join(dir, "h.json"), "", "vcard", "--name", "Jane Doe", "--email", "jane@example.com", "-o", out)

	require.NoError(t, res.err)
	assert.Equal(t, "BEGIN:VCARD\nVERSION:3.0\nFN:Jane Doe\nTEL:\nEMAIL:jane@example.com\nEND:VCARD", decodeFile(t, out))
}

func TestBatchCmd_Stdin(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	hist := filepath.Join(dir, "h.json")

	// Act
	res := runCLI(t, hist, "example.com\n\n  \nuser@example.com\n", "batch", "--dir", outDir)

	// Assert
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Generated 2 of 2")
	assert.Equal(t, "https://example.com", decodeFile(t, filepath.Join(outDir, "qr_batch_01.png")))
	assert.Equal(t, "mailto:user@example.com", decodeFile(t, filepath.Join(outDir, "qr_batch_02.png")))

	listed := runCLI(t, hist, "", "history")
	require.NoError(t, listed.err)
	assert.Contains(t, listed.stdout, "No history")
}

func TestBatchCmd_FileWithFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "inputs.txt")
	require.NoError(t, os.WriteFile(input, []byte("first.com\n"+strings.Repeat("z", 8000)+"\nthird.com\n"), 0o644))

	res := runCLI(t, filepath.Join(dir, "h.json"), "", "batch", input, "--dir", dir)

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Generated 2 of 3")
	assert.Contains(t, res.stderr, "item 2")
	assert.FileExists(t, filepath.Join(dir, "qr_batch_01.png"))
	assert.NoFileExists(t, filepath.Join(dir, "qr_batch_02.png"))
	assert.FileExists(t, filepath.Join(dir, "qr_batch_03.png"))
}

func TestBatchCmd_EmptyInput(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, filepath.Join(dir, "h.json"), "\n \n", "batch", "--dir", dir)

	assert.Error(t, res.err)
}

func TestHistoryCmd_ShowRegenerateClear(t *testing.T) {
	dir := t.TempDir()
	hist := filepath.Join(dir, "h.json")
	require.NoError(t, runCLI(t, hist, "", "generate", "+1 555 123 4567", "-o", filepath.Join(dir, "a.png")).err)
	require.NoError(t, runCLI(t, hist, "", "generate", "@gopher", "-o", filepath.Join(dir, "b.png")).err)

	table := runCLI(t, hist, "", "history")
	require.NoError(t, table.err)
	assert.Contains(t, strings.ToUpper(table.stdout), "TIMESTAMP")
	assert.Contains(t, table.stdout, "social")
	assert.Contains(t, table.stdout, "phone")

	again := filepath.Join(dir, "again.png")
	shown := runCLI(t, hist, "", "history", "show", "1", "--regenerate", "-o", again)
	require.NoError(t, shown.err)
	assert.Contains(t, shown.stdout, "tel:+15551234567")
	assert.Equal(t, "tel:+15551234567", decodeFile(t, again))

	assert.Error(t, runCLI(t, hist, "", "history", "show", "9").err)
	assert.Error(t, runCLI(t, hist, "", "history", "show", "x").err)

	cleared := runCLI(t, hist, "", "history", "clear")
	require.NoError(t, cleared.err)
	assert.Contains(t, runCLI(t, hist, "", "history").stdout, "No history")
}

func TestDetectCmd(t *testing.T) {
	dir := t.TempDir()

	samples := runCLI(t, filepath.Join(dir, "h.json"), "", "detect")
	custom := runCLI(t, filepath.Join(dir, "h.json"), "", "detect", "user@example.com", "hello")
	rules := runCLI(t, filepath.Join(dir, "h.json"), "", "detect", "--rules")

	require.NoError(t, samples.err)
	assert.Contains(t, samples.stdout, "'ac.ke' -> website: https://ac.ke\n")
	assert.Len(t, strings.Split(strings.TrimSpace(samples.stdout), "\n"), len(sampleInputs))

	require.NoError(t, custom.err)
	assert.Equal(t, "'user@example.com' -> email: mailto:user@example.com\n'hello' -> text: hello\n", custom.stdout)

	require.NoError(t, rules.err)
	assert.True(t, strings.HasPrefix(rules.stdout, "1. domain\n"))
}

func TestVersionCmd(t *testing.T) {
	res := runCLI(t, filepath.Join(t.TempDir(), "h.json"), "", "version")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "qrgen version ")
	assert.NotEmpty(t, getCommit())
}
