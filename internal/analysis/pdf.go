package analysis

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

var (
	// showText matches literal string operands of the Tj and ' operators.
	showText = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*(?:Tj|')`)
	// showTextArray matches TJ arrays.
	showTextArray = regexp.MustCompile(`\[((?:\\.|[^\]])*)\]\s*TJ`)
	arrayString   = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)
	// lineBreak matches operators that start a new text line.
	lineBreak = regexp.MustCompile(`\bT\*|\bT[dD]\b|\bET\b`)
)

// ExtractPDF returns the page count and the text shown by the content
// streams of every page. Only literal strings are decoded; text drawn
// with hex strings or custom encodings is skipped.
func ExtractPDF(data []byte) (string, int, error) {
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return "", 0, fmt.Errorf("page count: %w", err)
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), nil)
	if err != nil {
		return "", 0, fmt.Errorf("parse: %w", err)
	}

	var b strings.Builder
	for page := 1; page <= pages; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", page, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", page, err)
		}
		b.WriteString(contentText(string(content)))
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()), pages, nil
}

// contentText pulls shown strings out of a page content stream in order.
func contentText(stream string) string {
	var b strings.Builder
	for _, line := range lineBreak.Split(stream, -1) {
		var parts []string
		for _, m := range showText.FindAllStringSubmatch(line, -1) {
			parts = append(parts, unescape(m[1]))
		}
		for _, m := range showTextArray.FindAllStringSubmatch(line, -1) {
			for _, s := range arrayString.FindAllStringSubmatch(m[1], -1) {
				parts = append(parts, unescape(s[1]))
			}
		}
		if len(parts) > 0 {
			b.WriteString(strings.Join(parts, ""))
			b.WriteString("\n")
		}
	}
	return b.String()
}

var escapes = strings.NewReplacer(
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`\(`, "(",
	`\)`, ")",
	`\\`, `\`,
)

func unescape(s string) string {
	return escapes.Replace(s)
}
