package classifier

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Business intent labels.
const (
	IntentComplaint   = "Complaint"
	IntentInvoice     = "Invoice"
	IntentRFQ         = "RFQ"
	IntentRegulation  = "Regulation"
	IntentFraudRisk   = "Fraud Risk"
	IntentCertificate = "Certificate"
	IntentReport      = "Report"
	IntentGeneral     = "General"
)

// Intent is one row of the priority-ordered keyword table.
// Content matching any keyword is assigned Label.
type Intent struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

type intentsFile struct {
	Intents []Intent `yaml:"intents"`
}

// DefaultIntents returns the built-in table. Order is priority: urgency
// outranks billing, billing outranks quotes, and so on down to Report.
func DefaultIntents() []Intent {
	return []Intent{
		{IntentComplaint, []string{"urgent", "critical", "outage", "down", "error", "complaint", "issue", "problem"}},
		{IntentInvoice, []string{"invoice", "payment", "bill", "amount", "total", "due", "remittance", "receipt"}},
		{IntentRFQ, []string{"quote", "rfq", "request", "proposal", "bid", "tender", "quotation"}},
		{IntentRegulation, []string{"gdpr", "compliance", "regulation", "audit", "policy", "legal", "regulatory"}},
		{IntentFraudRisk, []string{"fraud", "suspicious", "risk", "alert", "security", "unauthorized"}},
		{IntentCertificate, []string{"certificate", "completion", "certification", "diploma", "achievement"}},
		{IntentReport, []string{"report", "analysis", "summary", "findings", "results"}},
	}
}

// Labels returns the labels of intents followed by the default label.
func Labels(intents []Intent) []string {
	labels := make([]string, 0, len(intents)+1)
	for _, in := range intents {
		labels = append(labels, in.Label)
	}
	return append(labels, IntentGeneral)
}

// LoadIntents reads an intent table from a YAML file of the form:
//
//	intents:
//	  - label: Complaint
//	    keywords: [urgent, outage]
//
// Keywords are lowercased. The default label is always General.
func LoadIntents(path string) ([]Intent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intents: %w", err)
	}
	return parseIntents(data)
}

func parseIntents(data []byte) ([]Intent, error) {
	var f intentsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse intents: %w", err)
	}
	if len(f.Intents) == 0 {
		return nil, fmt.Errorf("intents file defines no intents")
	}

	out := make([]Intent, 0, len(f.Intents))
	for i, in := range f.Intents {
		if strings.TrimSpace(in.Label) == "" {
			return nil, fmt.Errorf("intent %d: label required", i)
		}
		if len(in.Keywords) == 0 {
			return nil, fmt.Errorf("intent %q: keywords required", in.Label)
		}
		kw := make([]string, 0, len(in.Keywords))
		for _, k := range in.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kw = append(kw, k)
			}
		}
		out = append(out, Intent{Label: in.Label, Keywords: kw})
	}
	return out, nil
}
