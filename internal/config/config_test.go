package config

import (
	"testing"
	"time"

	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.ServiceName != "mlb-hr-ai-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.ReferenceCacheTTL != 12*time.Hour {
		t.Fatalf("unexpected ReferenceCacheTTL: got=%s want=%s", cfg.ReferenceCacheTTL, 12*time.Hour)
	}
	if cfg.PitcherCacheTTL != 24*time.Hour {
		t.Fatalf("unexpected PitcherCacheTTL: got=%s want=%s", cfg.PitcherCacheTTL, 24*time.Hour)
	}
	if cfg.StatsAPIBaseURL != "https://statsapi.mlb.com/api/v1" {
		t.Fatalf("unexpected StatsAPIBaseURL: %q", cfg.StatsAPIBaseURL)
	}
	if cfg.StatsAPIRosterWorkers != 8 {
		t.Fatalf("unexpected StatsAPIRosterWorkers: got=%d want=%d", cfg.StatsAPIRosterWorkers, 8)
	}
	if cfg.SavantRatePerSecond != 2 {
		t.Fatalf("unexpected SavantRatePerSecond: %v", cfg.SavantRatePerSecond)
	}
	if cfg.WorkersAITries != 3 {
		t.Fatalf("unexpected WorkersAITries: got=%d want=%d", cfg.WorkersAITries, 3)
	}
	if cfg.WorkersAITimeout != 60*time.Second {
		t.Fatalf("unexpected WorkersAITimeout: %s", cfg.WorkersAITimeout)
	}
	if cfg.WorkersAIModel != "@cf/meta/llama-3-8b-instruct" {
		t.Fatalf("unexpected WorkersAIModel: %q", cfg.WorkersAIModel)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected MetricsEnabled=true by default")
	}
	if !cfg.SavantCircuit.Enabled || cfg.SavantCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected SavantCircuit: %+v", cfg.SavantCircuit)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_WorkersAICredentialsFallBackToLegacyNames(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("legacy only", func(t *testing.T) {
		t.Setenv("WORKERS_AI_ACCOUNT_ID", "")
		t.Setenv("WORKERS_AI_TOKEN", "")
		t.Setenv("ACCOUNT_ID", "acct-legacy")
		t.Setenv("TOKEN", "token-legacy")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.WorkersAIAccountID != "acct-legacy" || cfg.WorkersAIToken != "token-legacy" {
			t.Fatalf("unexpected credentials: account=%q token=%q", cfg.WorkersAIAccountID, cfg.WorkersAIToken)
		}
		if !cfg.WorkersAIConfigured() {
			t.Fatalf("expected WorkersAIConfigured=true")
		}
	})

	t.Run("prefixed wins", func(t *testing.T) {
		t.Setenv("WORKERS_AI_ACCOUNT_ID", "acct-new")
		t.Setenv("WORKERS_AI_TOKEN", "token-new")
		t.Setenv("ACCOUNT_ID", "acct-legacy")
		t.Setenv("TOKEN", "token-legacy")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.WorkersAIAccountID != "acct-new" || cfg.WorkersAIToken != "token-new" {
			t.Fatalf("unexpected credentials: account=%q token=%q", cfg.WorkersAIAccountID, cfg.WorkersAIToken)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("WORKERS_AI_ACCOUNT_ID", "")
		t.Setenv("WORKERS_AI_TOKEN", "")
		t.Setenv("ACCOUNT_ID", "")
		t.Setenv("TOKEN", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.WorkersAIConfigured() {
			t.Fatalf("expected WorkersAIConfigured=false")
		}
	})
}

func TestLoad_PositiveValueValidation(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "REFERENCE_CACHE_TTL", value: "0s"},
		{key: "PITCHER_CACHE_TTL", value: "abc"},
		{key: "STATSAPI_ROSTER_WORKERS", value: "0"},
		{key: "STATSAPI_MAX_RETRIES", value: "-1"},
		{key: "SAVANT_RATE_PER_SECOND", value: "0"},
		{key: "WORKERS_AI_TRIES", value: "0"},
		{key: "WORKERS_AI_TIMEOUT", value: "-5s"},
		{key: "SAVANT_CIRCUIT_FAILURE_COUNT", value: "0"},
		{key: "STATSAPI_CIRCUIT_ENABLED", value: "maybe"},
		{key: "METRICS_ENABLED", value: "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_CircuitOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("WORKERS_AI_CIRCUIT_ENABLED", "false")
	t.Setenv("WORKERS_AI_CIRCUIT_FAILURE_COUNT", "2")
	t.Setenv("WORKERS_AI_CIRCUIT_OPEN_TIMEOUT", "1m")
	t.Setenv("WORKERS_AI_CIRCUIT_HALF_OPEN_MAX_REQ", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	got := cfg.WorkersAICircuit
	if got.Enabled || got.FailureThreshold != 2 || got.OpenTimeout != time.Minute || got.HalfOpenMaxReq != 1 {
		t.Fatalf("unexpected WorkersAICircuit: %+v", got)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "mlb-hr-ai-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "mlb-hr-ai-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"WARNING": logging.LevelWarn,
		"error":   logging.LevelError,
		"":        logging.LevelInfo,
		"verbose": logging.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q)=%s want=%s", in, got, want)
		}
	}
}

func TestLoad_WriteTimeoutCoversProviderBudgets(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	suggestionBudget := time.Duration(cfg.WorkersAITries) * cfg.WorkersAITimeout
	savantBudget := retryBudget(cfg.SavantTimeout, cfg.SavantMaxRetries)
	if cfg.RequestTimeout < suggestionBudget || cfg.RequestTimeout < savantBudget {
		t.Fatalf("request timeout %s does not cover suggestion=%s savant=%s", cfg.RequestTimeout, suggestionBudget, savantBudget)
	}
	if cfg.WriteTimeout < cfg.RequestTimeout+responseWriteMargin {
		t.Fatalf("write timeout %s leaves no room after request timeout %s", cfg.WriteTimeout, cfg.RequestTimeout)
	}
	if cfg.RequestTimeout != 188*time.Second {
		t.Fatalf("unexpected RequestTimeout: got=%s want=%s", cfg.RequestTimeout, 188*time.Second)
	}
	if cfg.WriteTimeout != 193*time.Second {
		t.Fatalf("unexpected WriteTimeout: got=%s want=%s", cfg.WriteTimeout, 193*time.Second)
	}
}

func TestLoad_TimeoutDefaultsFollowProviderSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("WORKERS_AI_TIMEOUT", "10s")
	t.Setenv("WORKERS_AI_TRIES", "3")
	t.Setenv("SAVANT_TIMEOUT", "5s")
	t.Setenv("SAVANT_MAX_RETRIES", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RequestTimeout != 35*time.Second {
		t.Fatalf("unexpected RequestTimeout: got=%s want=%s", cfg.RequestTimeout, 35*time.Second)
	}
	if cfg.WriteTimeout != 40*time.Second {
		t.Fatalf("unexpected WriteTimeout: got=%s want=%s", cfg.WriteTimeout, 40*time.Second)
	}
}

func TestLoad_RejectsTimeoutsShorterThanRetryBudget(t *testing.T) {
	tests := map[string]map[string]string{
		"write timeout below suggestion budget": {
			"APP_WRITE_TIMEOUT": "90s",
		},
		"request timeout below suggestion budget": {
			"APP_REQUEST_TIMEOUT": "120s",
		},
		"write timeout without response margin": {
			"APP_REQUEST_TIMEOUT": "200s",
			"APP_WRITE_TIMEOUT":   "202s",
		},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			for key, value := range env {
				t.Setenv(key, value)
			}

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}

func TestRetryBudget(t *testing.T) {
	tests := []struct {
		timeout    time.Duration
		maxRetries int
		want       time.Duration
	}{
		{timeout: 60 * time.Second, maxRetries: 0, want: 60 * time.Second},
		{timeout: 60 * time.Second, maxRetries: 2, want: 183 * time.Second},
		{timeout: 20 * time.Second, maxRetries: 3, want: 86 * time.Second},
	}
	for _, tt := range tests {
		if got := retryBudget(tt.timeout, tt.maxRetries); got != tt.want {
			t.Fatalf("retryBudget(%s, %d) got=%s want=%s", tt.timeout, tt.maxRetries, got, tt.want)
		}
	}
}
