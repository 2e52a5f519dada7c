// Package extract turns uploaded files into plain text. Per-format parsing is
// delegated to third-party libraries; this package only dispatches by file
// suffix and normalizes the output into a single string.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies the extraction strategy for a file.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPDF
	KindText
	KindDocx
	KindPptx
	KindCSV
	KindXLSX
	KindImage
)

// ErrUnsupportedFileType marks a suffix no strategy handles. Handlers report
// it inline rather than as a server error.
var ErrUnsupportedFileType = errors.New("unsupported file type")

type extractFunc func(path string) (string, error)

var strategies = map[Kind]extractFunc{
	KindPDF:   extractPDF,
	KindText:  extractText,
	KindDocx:  extractDocx,
	KindPptx:  extractPptx,
	KindCSV:   extractCSV,
	KindXLSX:  extractXLSX,
	KindImage: extractImage,
}

// KindOf maps a filename to its extraction strategy, case-insensitively.
func KindOf(filename string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF
	case ".txt":
		return KindText
	case ".docx":
		return KindDocx
	case ".pptx":
		return KindPptx
	case ".csv":
		return KindCSV
	case ".xlsx":
		return KindXLSX
	case ".png", ".jpg", ".jpeg", ".tiff", ".bmp":
		return KindImage
	default:
		return KindUnsupported
	}
}

// Extract produces plain text for the stored file. Unknown suffixes return
// ErrUnsupportedFileType; a panicking format parser surfaces as an ordinary
// error.
func Extract(path, filename string) (text string, err error) {
	strategy, ok := strategies[KindOf(filename)]
	if !ok {
		return "", ErrUnsupportedFileType
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panicked: %v", r)
		}
	}()
	return strategy(path)
}
