package intake

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ParsedDocument is the raw output of a parser: the full extracted text
// plus the per-page slices when the format has pages.
type ParsedDocument struct {
	Text  string   `json:"text"`
	Pages []string `json:"pages"`
}

// Parser converts raw document bytes into extracted text.
type Parser interface {
	Parse(r io.Reader, filename string) (*ParsedDocument, error)
}

// SupportedExtensions lists file extensions the intake layer can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// singlePage wraps an unpaginated text into a one-page document.
func singlePage(text string) *ParsedDocument {
	text = strings.TrimSpace(text)
	return &ParsedDocument{
		Text:  text,
		Pages: []string{text},
	}
}
