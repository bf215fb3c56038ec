package reports

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/fumiama/go-docx"
)

// ImportResult is what a parsed contact document yields: deduplicated contact
// candidates plus a short text preview for the dashboard.
type ImportResult struct {
	Emails  []string `json:"emails"`
	Phones  []string `json:"phones"`
	Preview string   `json:"preview"`
}

const previewLimit = 500

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// Brazilian numbers: optional +55, optional 2-digit area code in
	// parentheses or bare, 4-5 digit prefix, separator, 4 digit suffix.
	phonePattern = regexp.MustCompile(`(?:\+?55[\s\-.]?)?(?:\(?\d{2}\)?[\s\-.]?)?\d{4,5}[\s\-.]?\d{4}`)
)

// WordReportReader parses uploaded .docx documents into contact candidates.
type WordReportReader struct {
	logger *logging.ChanneledLogger
}

// NewWordReportReader creates a new report reader.
func NewWordReportReader(logger *logging.ChanneledLogger) *WordReportReader {
	return &WordReportReader{logger: logger}
}

// ValidateDocxSignature rejects content that is not a ZIP container before any
// parsing happens. A .docx file is a ZIP archive, so the first bytes must be
// "PK" followed by one of the known header markers.
func ValidateDocxSignature(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("file too small to be a valid document")
	}
	if data[0] != 0x50 || data[1] != 0x4B {
		return fmt.Errorf("file is not a valid Word document")
	}
	switch data[2] {
	case 0x03, 0x05, 0x07:
	default:
		return fmt.Errorf("file is not a valid Word document")
	}
	switch data[3] {
	case 0x04, 0x06, 0x08:
	default:
		return fmt.Errorf("file is not a valid Word document")
	}
	return nil
}

// ParseContacts validates the document signature, extracts its plain text and
// pulls out email addresses and Brazilian phone numbers, deduplicated in
// order of first appearance.
func (r *WordReportReader) ParseContacts(data []byte) (*ImportResult, error) {
	if err := ValidateDocxSignature(data); err != nil {
		return nil, err
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		r.logger.System().Error("Failed to parse uploaded document", "error", err.Error())
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var text strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			text.WriteString(fmt.Sprint(item))
			text.WriteString("\n")
		}
	}

	content := text.String()
	result := &ImportResult{
		Emails:  dedupe(emailPattern.FindAllString(content, -1)),
		Phones:  dedupe(phonePattern.FindAllString(content, -1)),
		Preview: preview(content),
	}

	r.logger.System().Info("Contact document parsed",
		"emails", len(result.Emails),
		"phones", len(result.Phones))
	return result, nil
}

// dedupe keeps the first occurrence of each value, preserving order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// preview truncates on a rune boundary; accented Portuguese text must never be
// cut mid-sequence.
func preview(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= previewLimit {
		return content
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
