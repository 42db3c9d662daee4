package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/credlens/credlens/internal/model"
)

// TextFromFile returns the checkable text content of an uploaded file.
// Plain text, markdown and HTML are supported; anything else (including PDF
// bytes, whose forensic handling lives in an external analyzer) is an
// invalid input for the fact-checker. HTML is reduced to its visible text.
func TextFromFile(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file %q", model.ErrInvalidInput, name)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %q is not valid text", model.ErrInvalidInput, name)
		}
		return string(data), nil
	case ".html", ".htm":
		doc, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("%w: %q is not parseable HTML", model.ErrInvalidInput, name)
		}
		return visibleText(doc), nil
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", model.ErrInvalidInput, name)
	}
}

// FromFile extracts claims from an uploaded file
func (e *ClaimExtractor) FromFile(name string, data []byte) (model.ClaimSet, error) {
	content, err := TextFromFile(name, data)
	if err != nil {
		return model.ClaimSet{}, err
	}
	return e.FromText(content), nil
}
