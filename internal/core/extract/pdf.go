package extract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/subramaniyam22/Analyzer/internal/core"
)

// fromPDF extracts the embedded text layer page by page. If the combined
// layer is under minTextLayerLen characters the document is treated as
// scan-only: every page is re-rendered to an image and recognized with
// OCR, and the text-layer result is discarded entirely, not merged.
func (e *Extractor) fromPDF(ctx context.Context, data []byte) (*Result, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", core.ErrExtractionFailed, err)
	}
	defer doc.Close()

	var layer bytes.Buffer
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return nil, fmt.Errorf("%w: pdf page %d text: %v", core.ErrExtractionFailed, page, err)
		}
		layer.WriteString(text)
	}

	if !needsOCR(layer.String()) {
		return &Result{Text: layer.String()}, nil
	}

	var recognized bytes.Buffer
	for page := 0; page < doc.NumPage(); page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.Image(page)
		if err != nil {
			return nil, fmt.Errorf("%w: render pdf page %d: %v", core.ErrExtractionFailed, page, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("%w: encode pdf page %d: %v", core.ErrExtractionFailed, page, err)
		}

		text, err := e.ocr.ImageText(ctx, buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("%w: ocr pdf page %d: %v", core.ErrExtractionFailed, page, err)
		}
		recognized.WriteString(text)
	}

	return &Result{Text: recognized.String(), UsedOCR: true}, nil
}
