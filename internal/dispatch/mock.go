package dispatch

import (
	"fmt"
	"time"
)

// MockGenerator synthesizes the success response recorded when every
// delivery attempt for an action has failed.
type MockGenerator struct {
	Now func() time.Time
}

// Generate returns the kind-specific mock response for payload.
func (g MockGenerator) Generate(kind Kind, payload map[string]any) map[string]any {
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	now = now.UTC()
	unix := now.Unix()

	resp := map[string]any{
		"status":    "success",
		"timestamp": now.Format(time.RFC3339Nano),
		"mock":      true,
		"message":   fmt.Sprintf("Mock response for %s service", kind),
	}

	switch kind {
	case KindNotification:
		resp["notification_id"] = fmt.Sprintf("mock_notif_%d", unix)
		resp["priority"] = stringOr(payload, "priority", "medium")
		resp["message"] = "Notification sent successfully (mock)"
	case KindRiskAlert:
		resp["alert_id"] = fmt.Sprintf("mock_alert_%d", unix)
		resp["risk_level"] = "assessed"
		resp["message"] = "Risk alert processed successfully (mock)"
	case KindCompliance:
		resp["compliance_id"] = fmt.Sprintf("mock_comp_%d", unix)
		resp["review_status"] = "scheduled"
		resp["message"] = "Compliance review initiated successfully (mock)"
	case KindCRM:
		resp["record_id"] = fmt.Sprintf("mock_crm_%d", unix)
		resp["action"] = stringOr(payload, "action", "update")
		resp["message"] = "CRM update processed successfully (mock)"
	}

	return resp
}

func stringOr(payload map[string]any, key, def string) string {
	if s, ok := payload[key].(string); ok && s != "" {
		return s
	}
	return def
}
