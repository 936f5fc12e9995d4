package classifier_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityaanikam/AI-agent-project/internal/classifier"
	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/metrics"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCompleter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func newClassifier(t *testing.T, cfg classifier.Config, completer *fakeCompleter) (*classifier.Classifier, metrics.System) {
	t.Helper()
	require.NoError(t, cfg.Finalize(nil))

	m := metrics.New(&metrics.Config{Namespace: "test"})
	var c *classifier.Classifier
	var err error
	if completer == nil {
		c, err = classifier.New(&cfg, nil, m, discard())
	} else {
		c, err = classifier.New(&cfg, completer, m, discard())
	}
	require.NoError(t, err)
	return c, m
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    records.Format
	}{
		{"json object", `  {"a": 1}  `, records.FormatStructured},
		{"email headers", "From: a@b.com\nTo: c@d.com\n\nhello", records.FormatEmail},
		{"email subject", "FROM: a@b.com\nSUBJECT: hi", records.FormatEmail},
		{"pdf magic", "%PDF-1.7\n...", records.FormatDocument},
		{"webhook mention", "event_type=order.created", records.FormatStructured},
		{"salutation", "Dear team, kind regards", records.FormatEmail},
		{"fullwidth salutation", "ＤＥＡＲ team", records.FormatEmail},
		{"plain text", "nothing to see", records.FormatUnknown},
		{"json wins over email markers", `{"from:": "x", "to:": "y"}`, records.FormatStructured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.DetectFormat(tt.content))
		})
	}
}

func TestFallbackIntent(t *testing.T) {
	fb := classifier.NewFallback(nil)

	tests := []struct {
		content string
		want    string
	}{
		{"URGENT: invoice overdue", classifier.IntentComplaint},
		{"Please find the invoice attached", classifier.IntentInvoice},
		{"We would like a quotation", classifier.IntentRFQ},
		{"GDPR audit scheduled", classifier.IntentRegulation},
		{"Suspicious login detected", classifier.IntentFraudRisk},
		{"Certificate of completion", classifier.IntentCertificate},
		{"Quarterly findings", classifier.IntentReport},
		{"hello world", classifier.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := fb.Classify(tt.content)
			assert.Equal(t, tt.want, got.BusinessIntent)
			assert.Equal(t, classifier.FallbackConfidence, got.Confidence)
		})
	}
}

func TestFallbackIntentAlwaysKnown(t *testing.T) {
	fb := classifier.NewFallback(nil)
	labels := classifier.Labels(classifier.DefaultIntents())

	for _, content := range []string{"x", "{}", "%PDF", "   ", "Ω", "from: to:", "12345"} {
		got := fb.Classify(content)
		assert.Contains(t, labels, got.BusinessIntent, content)
	}
}

func TestFallbackUrgentEmail(t *testing.T) {
	content := "From: ops@example.com\nTo: support@example.com\nSubject: URGENT: System is down\n\n" +
		"Production is down and this is critical."

	got := classifier.NewFallback(nil).Classify(content)

	want := records.Classification{
		Format:         records.FormatEmail,
		BusinessIntent: classifier.IntentComplaint,
		Confidence:     0.5,
		Metadata: map[string]any{
			"has_attachments": false,
			"is_reply":        false,
			"is_forward":      false,
			"urgency":         "high",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classification mismatch (-want +got):\n%s", diff)
	}
}

func TestMetadata(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  records.Format
		want    map[string]any
	}{
		{
			name:    "structured nested amount",
			content: `{"event_type": "payment", "data": {"amount": 15000}}`,
			format:  records.FormatStructured,
			want:    map[string]any{"has_nested_objects": true, "field_count": 2, "amount": 15000.0},
		},
		{
			name:    "structured top level amount",
			content: `{"amount": 12.5, "currency": "EUR"}`,
			format:  records.FormatStructured,
			want:    map[string]any{"has_nested_objects": false, "field_count": 2, "amount": 12.5},
		},
		{
			name:    "structured not json",
			content: `webhook event_type`,
			format:  records.FormatStructured,
			want:    map[string]any{"has_nested_objects": false, "field_count": 0},
		},
		{
			name:    "document",
			content: "%PDF-1.4 Invoice with a table",
			format:  records.FormatDocument,
			want:    map[string]any{"has_tables": true, "has_images": false, "document_type": "invoice"},
		},
		{
			name:    "reply email",
			content: "RE: your attachment",
			format:  records.FormatEmail,
			want:    map[string]any{"has_attachments": true, "is_reply": true, "is_forward": false, "urgency": "medium"},
		},
		{
			name:    "unknown",
			content: "whatever",
			format:  records.FormatUnknown,
			want:    map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, classifier.Metadata(tt.content, tt.format)); diff != "" {
				t.Errorf("metadata mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyPrimary(t *testing.T) {
	completer := &fakeCompleter{
		reply: "Here you go:\n```json\n" +
			`{"input_type": "json", "business_intent": "invoice", "confidence": 1.7, "metadata": {"urgency": "low"}}` +
			"\n```",
	}
	c, m := newClassifier(t, classifier.Config{}, completer)

	got := c.Classify(context.Background(), `{"data": {"amount": 99}}`)

	assert.Equal(t, records.FormatStructured, got.Format)
	assert.Equal(t, classifier.IntentInvoice, got.BusinessIntent)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, "low", got.Metadata["urgency"])
	assert.Equal(t, 99.0, got.Metadata["amount"])

	expected := `
# HELP test_classifier_results_total Classifications by the source that produced them.
# TYPE test_classifier_results_total counter
test_classifier_results_total{source="intelligence"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected), "test_classifier_results_total"))
}

func TestClassifyNormalizesBadFields(t *testing.T) {
	completer := &fakeCompleter{reply: `{"format": "spreadsheet", "business_intent": "Gossip", "confidence": "high"}`}
	c, _ := newClassifier(t, classifier.Config{}, completer)

	got := c.Classify(context.Background(), "Dear team, the payment is due.")

	assert.Equal(t, records.FormatEmail, got.Format)
	assert.Equal(t, classifier.IntentInvoice, got.BusinessIntent)
	assert.Equal(t, 0.5, got.Confidence)
}

func TestClassifyFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
	}{
		{"no completer", nil},
		{"service error", &fakeCompleter{err: errors.New("connection refused")}},
		{"prose reply", &fakeCompleter{reply: "I think this is an invoice."}},
		{"array reply", &fakeCompleter{reply: `["Invoice"]`}},
	}

	content := "From: billing@example.com\nSubject: Invoice 42\n\nAmount due: 100"
	want := classifier.NewFallback(nil).Classify(content)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newClassifier(t, classifier.Config{}, tt.completer)

			got := c.Classify(context.Background(), content)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("classification mismatch (-want +got):\n%s", diff)
			}

			expected := `
# HELP test_classifier_results_total Classifications by the source that produced them.
# TYPE test_classifier_results_total counter
test_classifier_results_total{source="fallback"} 1
`
			assert.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected), "test_classifier_results_total"))
		})
	}
}

func TestClassifyTruncatesPrompt(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("unavailable")}
	c, _ := newClassifier(t, classifier.Config{ContentLimit: 10}, completer)

	c.Classify(context.Background(), strings.Repeat("é", 25))

	assert.Contains(t, completer.prompt, strings.Repeat("é", 10))
	assert.NotContains(t, completer.prompt, strings.Repeat("é", 11))
	assert.Contains(t, completer.prompt, `"Fraud Risk"`)
}

func TestLoadIntents(t *testing.T) {
	dir := t.TempDir()

	t.Run("custom table", func(t *testing.T) {
		path := filepath.Join(dir, "intents.yaml")
		data := "intents:\n" +
			"  - label: Invoice\n    keywords: [INVOICE, bill]\n" +
			"  - label: Complaint\n    keywords: [urgent]\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		intents, err := classifier.LoadIntents(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"invoice", "bill"}, intents[0].Keywords)

		got := classifier.NewFallback(intents).Classify("urgent invoice")
		assert.Equal(t, classifier.IntentInvoice, got.BusinessIntent)

		c, _ := newClassifier(t, classifier.Config{IntentsFile: path}, nil)
		assert.Equal(t, classifier.IntentInvoice, c.Classify(context.Background(), "urgent invoice").BusinessIntent)
	})

	t.Run("missing keywords", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("intents:\n  - label: Invoice\n"), 0o600))

		_, err := classifier.LoadIntents(path)
		assert.ErrorContains(t, err, "keywords required")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := classifier.LoadIntents(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})
}
