package prd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"github.com/memvault/memory-vault/internal/model"
)

// MinDocumentChars is the minimum trimmed length of extracted text for an
// upload to be accepted.
const MinDocumentChars = 100

// ErrUnsupportedFileType is returned for extensions other than pdf, docx,
// md/markdown and txt.
var ErrUnsupportedFileType = fmt.Errorf("%w: unsupported file type", model.ErrValidation)

// ExtractText pulls plain text out of an uploaded document based on its file
// extension. Parser failures surface as extraction errors.
func ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	switch ext {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	case "md", "markdown", "txt":
		return string(data), nil
	default:
		return "", ErrUnsupportedFileType
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to extract text from file: %w", err)
	}
	body, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from file: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return "", fmt.Errorf("failed to extract text from file: %w", err)
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to extract text from file: %w", err)
	}
	var sb strings.Builder
	for _, it := range doc.Document.Body.Items {
		switch it.(type) {
		case *docx.Paragraph, *docx.Table:
			fmt.Fprintln(&sb, it)
		}
	}
	return sb.String(), nil
}
