package extract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// OCRClient recognizes text in a raster image. It may fail on corrupt
// image data; accuracy is best-effort.
type OCRClient interface {
	ImageText(ctx context.Context, img []byte) (string, error)
}

// TesseractOCR runs OCR through the local tesseract installation.
type TesseractOCR struct{}

func NewTesseractOCR() *TesseractOCR {
	return &TesseractOCR{}
}

// ImageText recognizes text in the given image bytes. A fresh client per
// call: gosseract clients are not safe for concurrent use.
func (t *TesseractOCR) ImageText(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("tesseract set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognize: %w", err)
	}
	return text, nil
}

var _ OCRClient = (*TesseractOCR)(nil)
