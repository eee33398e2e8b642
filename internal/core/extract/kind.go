package extract

import (
	"path/filepath"
	"strings"
)

// Kind is the closed set of document formats the extractor handles.
// Resolved once from the filename extension; the declared MIME type is
// ignored because browsers routinely lie about it.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPDF
	KindWord
	KindSpreadsheet
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindWord:
		return "word"
	case KindSpreadsheet:
		return "spreadsheet"
	case KindImage:
		return "image"
	default:
		return "unsupported"
	}
}

// KindForFilename resolves the document kind from the filename extension,
// case-insensitively.
func KindForFilename(filename string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF
	case ".docx", ".doc":
		return KindWord
	case ".xlsx", ".xls":
		return KindSpreadsheet
	case ".png", ".jpg", ".jpeg", ".webp":
		return KindImage
	default:
		return KindUnsupported
	}
}
