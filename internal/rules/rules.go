// Package rules turns analysis output into the ordered list of downstream
// actions it warrants. Rules are a data table; each is evaluated
// independently and several may fire for the same output.
package rules

import (
	"github.com/adityaanikam/AI-agent-project/internal/dispatch"
	"github.com/adityaanikam/AI-agent-project/pkg/formatting"
)

// Field names read from analysis output.
const (
	FieldAnalysis         = "analysis"
	FieldData             = "data"
	FieldAmount           = "amount"
	FieldDetails          = "details"
	FieldSource           = "source"
	FieldUrgency          = "urgency"
	FieldMessage          = "message"
	FieldRiskScore        = "risk_score"
	FieldComplianceIssues = "compliance_issues"
	FieldComplianceCheck  = "compliance_check"
	FieldRiskLevel        = "risk_level"
	FieldKeywordsFound    = "keywords_found"
	FieldCustomerData     = "customer_data"
)

// Rule names.
const (
	RuleUrgentNotification = "urgent_notification"
	RuleHighValue          = "high_value_transaction"
	RuleRiskScore          = "risk_score_exceeded"
	RuleCompliance         = "compliance_review"
	RuleGDPRMention        = "gdpr_mention"
	RuleCustomerUpdate     = "customer_update"
)

// Envelope is the analysis output presented to rules.
// Analysis is the nested analysis object, or empty when absent.
type Envelope struct {
	Output   formatting.Object
	Analysis formatting.Object
}

// NewEnvelope wraps output for rule evaluation.
func NewEnvelope(output map[string]any) Envelope {
	env := Envelope{Output: formatting.Object(output), Analysis: formatting.Object{}}
	if a, ok := env.Output.Object(FieldAnalysis); ok {
		env.Analysis = a
	}
	return env
}

// Rule produces one action of Kind when Match holds.
type Rule struct {
	Name    string
	Kind    dispatch.Kind
	Match   func(Envelope) bool
	Payload func(Envelope) map[string]any
}

// Action is a triggered rule: the kind to dispatch and its payload.
type Action struct {
	Kind    dispatch.Kind  `json:"kind"`
	Rule    string         `json:"rule"`
	Payload map[string]any `json:"payload"`
}

// DefaultRules returns the routing table configured by cfg, in evaluation order.
func DefaultRules(cfg *Config) []Rule {
	return []Rule{
		{
			Name: RuleUrgentNotification,
			Kind: dispatch.KindNotification,
			Match: func(e Envelope) bool {
				return e.Analysis.String(FieldUrgency, "") == cfg.UrgencyValue
			},
			Payload: func(e Envelope) map[string]any {
				return map[string]any{
					"priority": "high",
					"message":  e.Analysis.String(FieldMessage, "Urgent action required"),
					"source":   "agent_analysis",
				}
			},
		},
		{
			Name: RuleHighValue,
			Kind: dispatch.KindRiskAlert,
			Match: func(e Envelope) bool {
				amount, ok := dataAmount(e)
				return ok && amount > cfg.HighValueThreshold
			},
			Payload: func(e Envelope) map[string]any {
				data, _ := e.Output.Object(FieldData)
				return map[string]any{
					"alert_type": RuleHighValue,
					"amount":     data[FieldAmount],
					"details":    objectOrEmpty(e.Output, FieldDetails),
				}
			},
		},
		{
			Name: RuleRiskScore,
			Kind: dispatch.KindRiskAlert,
			Match: func(e Envelope) bool {
				score, ok := e.Analysis.Float(FieldRiskScore)
				return ok && score > cfg.RiskScoreThreshold
			},
			Payload: func(e Envelope) map[string]any {
				return map[string]any{
					"alert_type": RuleRiskScore,
					"risk_score": e.Analysis[FieldRiskScore],
					"details":    objectOrEmpty(e.Analysis, FieldDetails),
				}
			},
		},
		{
			Name: RuleCompliance,
			Kind: dispatch.KindCompliance,
			Match: func(e Envelope) bool {
				return e.Analysis.Has(FieldComplianceIssues) || e.Output.Has(FieldComplianceCheck)
			},
			Payload: func(e Envelope) map[string]any {
				issues := e.Analysis[FieldComplianceIssues]
				if empty(issues) {
					issues = objectOrEmpty(e.Output, FieldComplianceCheck)
				}
				return map[string]any{
					"issues": issues,
					"source": e.Output.String(FieldSource, "unknown"),
				}
			},
		},
		{
			Name: RuleGDPRMention,
			Kind: dispatch.KindCompliance,
			Match: func(e Envelope) bool {
				check, ok := e.Output.Object(FieldComplianceCheck)
				if !ok {
					return false
				}
				return check.String(FieldRiskLevel, "") == cfg.HighRiskLevel ||
					mentions(check[FieldKeywordsFound], cfg.GDPRKeyword)
			},
			Payload: func(e Envelope) map[string]any {
				check, _ := e.Output.Object(FieldComplianceCheck)
				return map[string]any{
					"alert_type":       RuleGDPRMention,
					"compliance_check": map[string]any(check),
					"source":           "pdf_analysis",
				}
			},
		},
		{
			Name: RuleCustomerUpdate,
			Kind: dispatch.KindCRM,
			Match: func(e Envelope) bool {
				return e.Analysis.Has(FieldCustomerData)
			},
			Payload: func(e Envelope) map[string]any {
				return map[string]any{
					"action": "update",
					"data":   e.Analysis[FieldCustomerData],
				}
			},
		},
	}
}

func dataAmount(e Envelope) (float64, bool) {
	data, ok := e.Output.Object(FieldData)
	if !ok {
		return 0, false
	}
	return data.Float(FieldAmount)
}

func objectOrEmpty(o formatting.Object, key string) map[string]any {
	if v, ok := o.Object(key); ok {
		return map[string]any(v)
	}
	return map[string]any{}
}

// empty reports whether v carries no information: nil, "", or an empty collection.
func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case bool:
		return !t
	}
	return false
}
