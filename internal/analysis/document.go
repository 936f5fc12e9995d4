package analysis

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
)

// rawTextLimit bounds the extracted text kept in the output.
const rawTextLimit = 5000

// ComplianceCategory is a named group of compliance keywords.
type ComplianceCategory struct {
	Name     string
	Keywords []string
}

// ComplianceCategories are checked in order against document text.
var ComplianceCategories = []ComplianceCategory{
	{"GDPR", []string{"gdpr", "data protection", "privacy"}},
	{"FDA", []string{"fda", "food and drug", "medical device"}},
	{"HIPAA", []string{"hipaa", "health insurance", "protected health"}},
	{"PCI", []string{"pci", "payment card", "credit card"}},
	{"SOX", []string{"sox", "sarbanes-oxley", "financial control"}},
}

var (
	tablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\|\s*[^\n]+\s*\|`),
		regexp.MustCompile(`\+[-+]+\+`),
		regexp.MustCompile(`\t[^\n]+\t`),
	}
	signaturePattern = regexp.MustCompile(`(?i)(signed by|signature|authorized by|approved by):`)
)

// DocumentAnalyzer extracts text from PDF documents, or takes plain text
// as is, and checks it for compliance keywords, tables, and signatures.
type DocumentAnalyzer struct {
	enrich enricher
}

// Analyze returns compliance findings and layout hints for the document.
// A PDF that cannot be read yields an error output.
func (a *DocumentAnalyzer) Analyze(ctx context.Context, in Input) (map[string]any, error) {
	text := in.Text
	pages := 1

	if bytes.HasPrefix(in.Raw, []byte("%PDF")) {
		extracted, n, err := ExtractPDF(in.Raw)
		if err != nil {
			return Failed(fmt.Sprintf("read pdf: %v", err)), nil
		}
		text, pages = extracted, n
	}

	check := CheckCompliance(text)
	metadata := map[string]any{
		"page_count":     pages,
		"has_tables":     hasTable(text),
		"has_signatures": signaturePattern.MatchString(text),
	}

	prompt := "Analyze this document. Respond with one JSON object with keys " +
		"document_type (invoice|contract|report|other), line_items [{description, amount, quantity}], " +
		"totals {subtotal, tax, total}, compliance {keywords_found, risk_level}." +
		"\n\n" + excerpt(text, promptLimit)

	return map[string]any{
		"status":           StatusSuccess,
		"source":           "pdf_analysis",
		"analysis":         a.enrich.analyze(ctx, prompt, documentHeuristics(text, check)),
		"compliance_check": check,
		"metadata":         metadata,
		"raw_text":         excerpt(text, rawTextLimit),
	}, nil
}

// CheckCompliance lists matched keywords per category. Risk is high when
// more than two categories match, medium for one or two, low otherwise.
func CheckCompliance(text string) map[string]any {
	lower := strings.ToLower(text)
	found := map[string]any{}

	for _, c := range ComplianceCategories {
		var matched []string
		for _, k := range c.Keywords {
			if strings.Contains(lower, k) {
				matched = append(matched, k)
			}
		}
		if len(matched) > 0 {
			found[c.Name] = matched
		}
	}

	risk := "low"
	switch {
	case len(found) > 2:
		risk = "high"
	case len(found) > 0:
		risk = "medium"
	}

	return map[string]any{
		"keywords_found": found,
		"risk_level":     risk,
	}
}

func hasTable(text string) bool {
	for _, p := range tablePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func documentHeuristics(text string, check map[string]any) map[string]any {
	lower := strings.ToLower(text)

	docType := "other"
	switch {
	case strings.Contains(lower, "invoice"):
		docType = "invoice"
	case strings.Contains(lower, "agreement") || strings.Contains(lower, "contract"):
		docType = "contract"
	case strings.Contains(lower, "report"):
		docType = "report"
	}

	categories := []string{}
	found := check["keywords_found"].(map[string]any)
	for _, c := range ComplianceCategories {
		if _, ok := found[c.Name]; ok {
			categories = append(categories, c.Name)
		}
	}

	return map[string]any{
		"document_type": docType,
		"line_items":    []any{},
		"totals": map[string]any{
			"subtotal": 0.0,
			"tax":      0.0,
			"total":    0.0,
		},
		"compliance": map[string]any{
			"keywords_found": categories,
			"risk_level":     check["risk_level"],
		},
	}
}
