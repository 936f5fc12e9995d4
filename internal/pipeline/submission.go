package pipeline

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/adityaanikam/AI-agent-project/internal/records"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Submission is one unit of work handed to the pipeline.
// FormatOverride, when set, selects the analyzer regardless of the detected format.
type Submission struct {
	Raw            []byte
	Text           string
	Filename       string
	ContentType    string
	FormatOverride records.Format
	ArchiveKey     string
}

// NewSubmission decodes raw into a Submission.
func NewSubmission(raw []byte, filename, contentType string, override records.Format) Submission {
	return Submission{
		Raw:            raw,
		Text:           DecodeContent(raw),
		Filename:       filename,
		ContentType:    contentType,
		FormatOverride: override,
	}
}

// ParseOverride validates a requested format override. Empty means none.
// unknown is rejected since it cannot select an analyzer.
func ParseOverride(s string) (records.Format, error) {
	if s == "" {
		return "", nil
	}
	f, ok := records.ParseFormat(s)
	if !ok || f == records.FormatUnknown {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return f, nil
}

// Metadata describes the submission for the record's input_metadata.
func (s Submission) Metadata() map[string]any {
	md := map[string]any{
		"filename":     s.Filename,
		"size":         len(s.Raw),
		"content_type": s.ContentType,
	}
	if s.FormatOverride != "" {
		md["format_override"] = string(s.FormatOverride)
	}
	if s.ArchiveKey != "" {
		md["archive_key"] = s.ArchiveKey
	}
	return md
}

// DecodeContent returns data as text. Valid UTF-8 is used as is, minus any
// byte order mark; anything else is read as ISO 8859-1.
func DecodeContent(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(decoded)
}
