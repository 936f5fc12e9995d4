package classifier

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/formatting"
)

// FallbackConfidence is the confidence assigned to heuristic results.
const FallbackConfidence = 0.5

// Fallback is the deterministic keyword classifier. It never fails and
// always produces a non-empty intent.
type Fallback struct {
	intents []Intent
}

// NewFallback creates a Fallback over intents, using DefaultIntents when empty.
func NewFallback(intents []Intent) *Fallback {
	if len(intents) == 0 {
		intents = DefaultIntents()
	}
	return &Fallback{intents: intents}
}

// Classify returns the heuristic classification of content.
func (f *Fallback) Classify(content string) records.Classification {
	lower := fold(content)
	format := DetectFormat(content)

	return records.Classification{
		Format:         format,
		BusinessIntent: f.Intent(lower),
		Confidence:     FallbackConfidence,
		Metadata:       Metadata(content, format),
	}
}

// Intent returns the label of the first intent with a keyword in lower,
// or IntentGeneral. lower must already be folded.
func (f *Fallback) Intent(lower string) string {
	for _, in := range f.intents {
		if containsAny(lower, in.Keywords...) {
			return in.Label
		}
	}
	return IntentGeneral
}

// DetectFormat applies the format checks in priority order.
func DetectFormat(content string) records.Format {
	lower := fold(content)
	trimmed := strings.TrimSpace(content)

	switch {
	case strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}"):
		return records.FormatStructured
	case strings.Contains(lower, "from:") && containsAny(lower, "to:", "subject:"):
		return records.FormatEmail
	case strings.HasPrefix(content, "%PDF"):
		return records.FormatDocument
	case containsAny(lower, "event_type", "webhook"):
		return records.FormatStructured
	case containsAny(lower, "dear", "regards"):
		return records.FormatEmail
	}
	return records.FormatUnknown
}

// Metadata extracts format-specific hints from content.
func Metadata(content string, format records.Format) map[string]any {
	lower := fold(content)
	md := map[string]any{}

	switch format {
	case records.FormatEmail:
		urgency := "medium"
		if containsAny(lower, "urgent", "critical", "asap") {
			urgency = "high"
		}
		md["has_attachments"] = strings.Contains(lower, "attachment")
		md["is_reply"] = strings.HasPrefix(lower, "re:")
		md["is_forward"] = strings.HasPrefix(lower, "fw:")
		md["urgency"] = urgency

	case records.FormatStructured:
		md["has_nested_objects"] = false
		md["field_count"] = 0

		var obj formatting.Object
		if err := json.Unmarshal([]byte(content), &obj); err != nil || obj == nil {
			return md
		}

		for _, v := range obj {
			if _, ok := v.(map[string]any); ok {
				md["has_nested_objects"] = true
				break
			}
		}
		md["field_count"] = len(obj)
		if amount, ok := Amount(obj); ok {
			md["amount"] = amount
		}

	case records.FormatDocument:
		md["has_tables"] = strings.Contains(lower, "table")
		md["has_images"] = strings.Contains(lower, "image")
		docType := "other"
		if strings.Contains(lower, "invoice") {
			docType = "invoice"
		}
		md["document_type"] = docType
	}

	return md
}

// Amount returns a non-zero numeric amount from the top level of obj or
// from its nested data object.
func Amount(obj formatting.Object) (float64, bool) {
	if v, ok := obj.Float("amount"); ok && v != 0 {
		return v, true
	}
	if data, ok := obj.Object("data"); ok {
		if v, ok := data.Float("amount"); ok {
			return v, true
		}
	}
	return 0, false
}

func fold(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
