package rag

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// ExtractPDFPages extracts the text of a PDF and splits it into pages
// on blank-line boundaries. Pages that yield no text are dropped.
func ExtractPDFPages(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var full strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		full.WriteString(text)
		full.WriteString("\n\n")
	}

	parts := blankLineRe.Split(full.String(), -1)
	pages := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}
	return pages, nil
}

// IsPDF reports whether the upload should take the PDF extraction path,
// by MIME type or filename extension.
func IsPDF(fileName, mimeType string) bool {
	return mimeType == "application/pdf" || strings.HasSuffix(strings.ToLower(fileName), ".pdf")
}
