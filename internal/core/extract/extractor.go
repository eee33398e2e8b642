package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/subramaniyam22/Analyzer/internal/core"
)

// Result is the transient outcome of extraction, consumed immediately by
// the chunker. UsedOCR is a confidence signal: OCR text is best-effort.
type Result struct {
	Text    string
	UsedOCR bool
}

// Extractor converts raw file bytes into plain text. It dispatches on the
// filename extension across a fixed allow-list; anything else comes back
// as core.ErrUnsupportedFormat so the job still reaches a terminal state.
type Extractor struct {
	ocr OCRClient
}

func New(ocr OCRClient) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extract converts data into plain text. contentType is accepted for
// logging parity with the upload record but plays no role in dispatch.
func (e *Extractor) Extract(ctx context.Context, data []byte, contentType, filename string) (*Result, error) {
	switch KindForFilename(filename) {
	case KindPDF:
		return e.fromPDF(ctx, data)
	case KindWord:
		return fromWord(data, filename)
	case KindSpreadsheet:
		return fromSpreadsheet(data)
	case KindImage:
		return e.fromImage(ctx, data)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filename)
	}
}

func (e *Extractor) fromImage(ctx context.Context, data []byte) (*Result, error) {
	text, err := e.ocr.ImageText(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}
	return &Result{Text: text, UsedOCR: true}, nil
}

// minTextLayerLen is the threshold under which a PDF's embedded text layer
// is considered absent (a scan) and the whole document goes through OCR.
const minTextLayerLen = 100

// needsOCR reports whether the extracted text layer is too thin to trust.
// The threshold counts characters, not bytes, so multibyte text is not
// over-counted.
func needsOCR(textLayer string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(textLayer)) < minTextLayerLen
}
