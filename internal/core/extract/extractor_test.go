package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subramaniyam22/Analyzer/internal/core"
)

// testOCR implements OCRClient for testing.
type testOCR struct {
	text        string
	shouldError bool
	calls       int
}

func (o *testOCR) ImageText(ctx context.Context, img []byte) (string, error) {
	o.calls++
	if o.shouldError {
		return "", errors.New("ocr error")
	}
	return o.text, nil
}

func TestExtractImageUsesOCR(t *testing.T) {
	ocr := &testOCR{text: "recognized text"}
	e := New(ocr)

	res, err := e.Extract(context.Background(), []byte{0x89, 0x50}, "image/png", "scan.png")
	require.NoError(t, err)

	assert.Equal(t, "recognized text", res.Text)
	assert.True(t, res.UsedOCR)
	assert.Equal(t, 1, ocr.calls)
}

func TestExtractImageOCRFailure(t *testing.T) {
	e := New(&testOCR{shouldError: true})

	_, err := e.Extract(context.Background(), []byte{0x01}, "image/png", "scan.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtractionFailed))
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := New(&testOCR{})

	_, err := e.Extract(context.Background(), []byte("data"), "application/zip", "archive.zip")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "archive.zip")
}

func TestNeedsOCRThreshold(t *testing.T) {
	assert.True(t, needsOCR(""))
	assert.True(t, needsOCR(strings.Repeat(" ", 500)))
	assert.True(t, needsOCR(strings.Repeat("x", minTextLayerLen-1)))
	assert.False(t, needsOCR(strings.Repeat("x", minTextLayerLen)))

	// Surrounding whitespace does not count toward the threshold.
	padded := "  \n" + strings.Repeat("x", minTextLayerLen-1) + "\n  "
	assert.True(t, needsOCR(padded))

	// The threshold counts characters, not bytes. 60 two-byte runes are
	// 120 bytes but still a scan-thin layer.
	assert.True(t, needsOCR(strings.Repeat("é", minTextLayerLen-40)))
	assert.False(t, needsOCR(strings.Repeat("é", minTextLayerLen)))
	assert.True(t, needsOCR(strings.Repeat("漢", minTextLayerLen-1)))
}
