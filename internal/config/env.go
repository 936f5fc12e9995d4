package config

import (
	"github.com/adityaanikam/AI-agent-project/internal/classifier"
	"github.com/adityaanikam/AI-agent-project/internal/dispatch"
	"github.com/adityaanikam/AI-agent-project/internal/intelligence"
	"github.com/adityaanikam/AI-agent-project/internal/pipeline"
	"github.com/adityaanikam/AI-agent-project/internal/rules"
	"github.com/adityaanikam/AI-agent-project/pkg/database"
	"github.com/adityaanikam/AI-agent-project/pkg/metrics"
	"github.com/adityaanikam/AI-agent-project/pkg/middleware"
	"github.com/adityaanikam/AI-agent-project/pkg/storage"
	"github.com/adityaanikam/AI-agent-project/pkg/tracing"
)

var databaseEnv = &database.Env{
	Driver:          "FLOWBIT_DB_DRIVER",
	Path:            "FLOWBIT_DB_PATH",
	Host:            "FLOWBIT_DB_HOST",
	Port:            "FLOWBIT_DB_PORT",
	Name:            "FLOWBIT_DB_NAME",
	User:            "FLOWBIT_DB_USER",
	Password:        "FLOWBIT_DB_PASSWORD",
	SSLMode:         "FLOWBIT_DB_SSL_MODE",
	MaxOpenConns:    "FLOWBIT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "FLOWBIT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "FLOWBIT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "FLOWBIT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "FLOWBIT_STORAGE_CONTAINER_NAME",
	ConnectionString: "FLOWBIT_STORAGE_CONNECTION_STRING",
	AccountURL:       "FLOWBIT_STORAGE_ACCOUNT_URL",
}

var intelligenceEnv = &intelligence.Env{
	Provider:   "FLOWBIT_INTELLIGENCE_PROVIDER",
	BaseURL:    "FLOWBIT_INTELLIGENCE_BASE_URL",
	Model:      "FLOWBIT_INTELLIGENCE_MODEL",
	Token:      "FLOWBIT_INTELLIGENCE_TOKEN",
	Deployment: "FLOWBIT_INTELLIGENCE_DEPLOYMENT",
	APIVersion: "FLOWBIT_INTELLIGENCE_API_VERSION",
	AuthType:   "FLOWBIT_INTELLIGENCE_AUTH_TYPE",
	Timeout:    "FLOWBIT_INTELLIGENCE_TIMEOUT",
}

var classifierEnv = &classifier.Env{
	IntentsFile:  "FLOWBIT_CLASSIFIER_INTENTS_FILE",
	ContentLimit: "FLOWBIT_CLASSIFIER_CONTENT_LIMIT",
}

var rulesEnv = &rules.Env{
	UrgencyValue:       "FLOWBIT_RULES_URGENCY_VALUE",
	HighValueThreshold: "FLOWBIT_RULES_HIGH_VALUE_THRESHOLD",
	RiskScoreThreshold: "FLOWBIT_RULES_RISK_SCORE_THRESHOLD",
	HighRiskLevel:      "FLOWBIT_RULES_HIGH_RISK_LEVEL",
	GDPRKeyword:        "FLOWBIT_RULES_GDPR_KEYWORD",
}

var dispatchEnv = &dispatch.Env{
	Endpoints: map[dispatch.Kind]string{
		dispatch.KindCRM:          "FLOWBIT_CRM_ENDPOINT",
		dispatch.KindRiskAlert:    "FLOWBIT_RISK_ENDPOINT",
		dispatch.KindCompliance:   "FLOWBIT_COMPLIANCE_ENDPOINT",
		dispatch.KindNotification: "FLOWBIT_NOTIFICATION_ENDPOINT",
	},
	MaxRetries:     "FLOWBIT_DISPATCH_MAX_RETRIES",
	BaseDelay:      "FLOWBIT_DISPATCH_BASE_DELAY",
	Multiplier:     "FLOWBIT_DISPATCH_MULTIPLIER",
	AttemptTimeout: "FLOWBIT_DISPATCH_ATTEMPT_TIMEOUT",
}

var pipelineEnv = &pipeline.Env{
	MaxConcurrentRuns: "FLOWBIT_PIPELINE_MAX_CONCURRENT_RUNS",
}

var tracingEnv = &tracing.Env{
	Enabled:     "FLOWBIT_TRACING_ENABLED",
	ServiceName: "FLOWBIT_TRACING_SERVICE_NAME",
	Output:      "FLOWBIT_TRACING_OUTPUT",
}

var metricsEnv = &metrics.Env{
	Enabled:   "FLOWBIT_METRICS_ENABLED",
	Path:      "FLOWBIT_METRICS_PATH",
	Namespace: "FLOWBIT_METRICS_NAMESPACE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "FLOWBIT_AUTH_ENABLED",
	Issuer:   "FLOWBIT_AUTH_ISSUER",
	Audience: "FLOWBIT_AUTH_AUDIENCE",
}
