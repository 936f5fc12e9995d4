package rules_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityaanikam/AI-agent-project/internal/dispatch"
	"github.com/adityaanikam/AI-agent-project/internal/rules"
)

func newEvaluator(t *testing.T, cfg rules.Config) *rules.Evaluator {
	t.Helper()
	require.NoError(t, cfg.Finalize(nil))
	return rules.New(&cfg)
}

func kinds(actions []rules.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a.Kind) + ":" + a.Rule
	}
	return out
}

func TestHighValueWebhook(t *testing.T) {
	output := map[string]any{
		"status": "success",
		"data":   map[string]any{"event_type": "payment", "amount": 15000.0},
		"analysis": map[string]any{
			"schema_type": "webhook",
		},
	}

	actions, err := newEvaluator(t, rules.Config{}).Evaluate(output)
	require.NoError(t, err)

	want := []rules.Action{{
		Kind: dispatch.KindRiskAlert,
		Rule: rules.RuleHighValue,
		Payload: map[string]any{
			"alert_type": "high_value_transaction",
			"amount":     15000.0,
			"details":    map[string]any{},
		},
	}}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestUrgentNotification(t *testing.T) {
	tests := []struct {
		name        string
		analysis    map[string]any
		wantMessage string
	}{
		{"explicit message", map[string]any{"urgency": "high", "message": "System is down"}, "System is down"},
		{"default message", map[string]any{"urgency": "high"}, "Urgent action required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := newEvaluator(t, rules.Config{}).Evaluate(map[string]any{"analysis": tt.analysis})
			require.NoError(t, err)
			require.Len(t, actions, 1)

			assert.Equal(t, dispatch.KindNotification, actions[0].Kind)
			assert.Equal(t, "high", actions[0].Payload["priority"])
			assert.Equal(t, tt.wantMessage, actions[0].Payload["message"])
			assert.Equal(t, "agent_analysis", actions[0].Payload["source"])
		})
	}
}

func TestGDPRComplianceFiresTwice(t *testing.T) {
	check := map[string]any{
		"risk_level": "high",
		"keywords_found": map[string]any{
			"GDPR":  []any{"gdpr", "personal data"},
			"PCI":   []any{"payment card"},
			"HIPAA": []any{"patient"},
		},
	}
	output := map[string]any{
		"status":           "success",
		"source":           "pdf_analysis",
		"compliance_check": check,
		"analysis":         map[string]any{"summary": "policy"},
	}

	actions, err := newEvaluator(t, rules.Config{}).Evaluate(output)
	require.NoError(t, err)

	assert.Equal(t, []string{"compliance:compliance_review", "compliance:gdpr_mention"}, kinds(actions))
	assert.Equal(t, check, actions[0].Payload["issues"])
	assert.Equal(t, "pdf_analysis", actions[0].Payload["source"])
	assert.Equal(t, "gdpr_mention", actions[1].Payload["alert_type"])
	assert.Equal(t, check, actions[1].Payload["compliance_check"])
}

func TestGDPRKeywordOnly(t *testing.T) {
	tests := []struct {
		name     string
		keywords any
		want     bool
	}{
		{"category key", map[string]any{"GDPR": []any{"consent"}}, true},
		{"nested value", map[string]any{"other": []any{"see GDPR art. 6"}}, true},
		{"string list", []string{"HIPAA", "GDPR"}, true},
		{"case sensitive", map[string]any{"gdpr": []any{"gdpr"}}, false},
		{"absent", map[string]any{"SOX": []any{"sarbanes"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := map[string]any{
				"compliance_check": map[string]any{"risk_level": "low", "keywords_found": tt.keywords},
			}
			actions, err := newEvaluator(t, rules.Config{}).Evaluate(output)
			require.NoError(t, err)

			fired := false
			for _, a := range actions {
				if a.Rule == rules.RuleGDPRMention {
					fired = true
				}
			}
			assert.Equal(t, tt.want, fired)
		})
	}
}

func TestRuleTable(t *testing.T) {
	tests := []struct {
		name   string
		output map[string]any
		want   []string
	}{
		{"empty output", map[string]any{}, []string{}},
		{"amount at threshold", map[string]any{"data": map[string]any{"amount": 10000.0}}, []string{}},
		{"amount as string", map[string]any{"data": map[string]any{"amount": "20000"}}, []string{}},
		{"amount as bool", map[string]any{"data": map[string]any{"amount": true}}, []string{}},
		{"top level amount ignored", map[string]any{"amount": 50000.0}, []string{}},
		{
			"risk score",
			map[string]any{"analysis": map[string]any{"risk_score": 0.9, "details": map[string]any{"ip": "10.0.0.1"}}},
			[]string{"risk_alert:risk_score_exceeded"},
		},
		{"risk score at threshold", map[string]any{"analysis": map[string]any{"risk_score": 0.7}}, []string{}},
		{
			"compliance issues",
			map[string]any{"analysis": map[string]any{"compliance_issues": []any{"missing consent"}}},
			[]string{"compliance:compliance_review"},
		},
		{
			"customer data",
			map[string]any{"analysis": map[string]any{"customer_data": map[string]any{"id": "c-1"}}},
			[]string{"crm:customer_update"},
		},
		{
			"everything fires in table order",
			map[string]any{
				"data": map[string]any{"amount": 25000.0},
				"analysis": map[string]any{
					"urgency":           "high",
					"risk_score":        0.95,
					"compliance_issues": []any{"x"},
					"customer_data":     map[string]any{"id": "c-2"},
				},
				"compliance_check": map[string]any{"risk_level": "high"},
			},
			[]string{
				"notification:urgent_notification",
				"risk_alert:high_value_transaction",
				"risk_alert:risk_score_exceeded",
				"compliance:compliance_review",
				"compliance:gdpr_mention",
				"crm:customer_update",
			},
		},
		{"analysis not an object", map[string]any{"analysis": "urgent"}, []string{}},
	}

	ev := newEvaluator(t, rules.Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := ev.Evaluate(tt.output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kinds(actions))
		})
	}
}

func TestRiskScorePayload(t *testing.T) {
	output := map[string]any{"analysis": map[string]any{"risk_score": 0.9}}

	actions, err := newEvaluator(t, rules.Config{}).Evaluate(output)
	require.NoError(t, err)
	require.Len(t, actions, 1)

	want := map[string]any{
		"alert_type": "risk_score_exceeded",
		"risk_score": 0.9,
		"details":    map[string]any{},
	}
	if diff := cmp.Diff(want, actions[0].Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestConfiguredThresholds(t *testing.T) {
	ev := newEvaluator(t, rules.Config{HighValueThreshold: 500, RiskScoreThreshold: 0.2, UrgencyValue: "critical"})

	actions, err := ev.Evaluate(map[string]any{
		"data":     map[string]any{"amount": 600.0},
		"analysis": map[string]any{"risk_score": 0.3, "urgency": "critical"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"notification:urgent_notification",
		"risk_alert:high_value_transaction",
		"risk_alert:risk_score_exceeded",
	}, kinds(actions))
}

func TestEvaluateIsDeterministic(t *testing.T) {
	ev := newEvaluator(t, rules.Config{})
	output := map[string]any{
		"data":             map[string]any{"amount": 12000.0},
		"analysis":         map[string]any{"urgency": "high"},
		"compliance_check": map[string]any{"keywords_found": map[string]any{"GDPR": []any{"gdpr"}}},
	}

	first, err := ev.Evaluate(output)
	require.NoError(t, err)
	second, err := ev.Evaluate(output)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second evaluation differs (-first +second):\n%s", diff)
	}
}

func TestPanickingRuleIsReported(t *testing.T) {
	table := []rules.Rule{
		{
			Name:    "explodes",
			Kind:    dispatch.KindCRM,
			Match:   func(rules.Envelope) bool { panic("boom") },
			Payload: func(rules.Envelope) map[string]any { return nil },
		},
		{
			Name:    "always",
			Kind:    dispatch.KindNotification,
			Match:   func(rules.Envelope) bool { return true },
			Payload: func(rules.Envelope) map[string]any { return map[string]any{"ok": true} },
		},
	}

	actions, err := rules.NewWithRules(table).Evaluate(map[string]any{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule explodes: boom")
	assert.Equal(t, []string{"notification:always"}, kinds(actions))
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg rules.Config
		require.NoError(t, cfg.Finalize(nil))
		assert.Equal(t, 10000.0, cfg.HighValueThreshold)
		assert.Equal(t, 0.7, cfg.RiskScoreThreshold)
		assert.Equal(t, "GDPR", cfg.GDPRKeyword)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("TEST_HIGH_VALUE", "2500")
		var cfg rules.Config
		require.NoError(t, cfg.Finalize(&rules.Env{HighValueThreshold: "TEST_HIGH_VALUE"}))
		assert.Equal(t, 2500.0, cfg.HighValueThreshold)
	})

	t.Run("invalid risk threshold", func(t *testing.T) {
		cfg := rules.Config{RiskScoreThreshold: 1.5}
		assert.Error(t, cfg.Finalize(nil))
	})
}
