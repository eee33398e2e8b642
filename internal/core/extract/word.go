package extract

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"

	"github.com/subramaniyam22/Analyzer/internal/core"
)

// fromWord extracts paragraph text from .docx/.doc files in document
// order, one paragraph per line.
func fromWord(data []byte, filename string) (*Result, error) {
	mimeType := docconv.MimeTypeByExtension(filename)

	res, err := docconv.Convert(bytes.NewReader(data), mimeType, false)
	if err != nil {
		return nil, fmt.Errorf("%w: convert %s: %v", core.ErrExtractionFailed, mimeType, err)
	}

	return &Result{Text: res.Body}, nil
}
