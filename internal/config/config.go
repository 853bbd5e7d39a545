package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	RequestTimeout             time.Duration
	ShutdownTimeout            time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	SwaggerEnabled             bool
	MetricsEnabled             bool
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	ReferenceCacheTTL          time.Duration
	PitcherCacheTTL            time.Duration
	StatsAPIBaseURL            string
	StatsAPITimeout            time.Duration
	StatsAPIMaxRetries         int
	StatsAPIRosterWorkers      int
	StatsAPICircuit            resilience.CircuitBreakerConfig
	SavantBaseURL              string
	SavantTimeout              time.Duration
	SavantMaxRetries           int
	SavantRatePerSecond        float64
	SavantCircuit              resilience.CircuitBreakerConfig
	WorkersAIBaseURL           string
	WorkersAIAccountID         string
	WorkersAIToken             string
	WorkersAIModel             string
	WorkersAITimeout           time.Duration
	WorkersAITries             int
	WorkersAICircuit           resilience.CircuitBreakerConfig
	LogLevel                   logging.Level
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getEnvAsPositiveDuration("APP_SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	referenceCacheTTL, err := getEnvAsPositiveDuration("REFERENCE_CACHE_TTL", "12h")
	if err != nil {
		return Config{}, err
	}
	pitcherCacheTTL, err := getEnvAsPositiveDuration("PITCHER_CACHE_TTL", "24h")
	if err != nil {
		return Config{}, err
	}

	statsAPITimeout, err := getEnvAsPositiveDuration("STATSAPI_TIMEOUT", "20s")
	if err != nil {
		return Config{}, err
	}
	statsAPIMaxRetries, err := getEnvAsNonNegativeInt("STATSAPI_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, err
	}
	statsAPIRosterWorkers, err := getEnvAsInt("STATSAPI_ROSTER_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSAPI_ROSTER_WORKERS: %w", err)
	}
	if statsAPIRosterWorkers < 1 {
		return Config{}, fmt.Errorf("STATSAPI_ROSTER_WORKERS must be >= 1")
	}
	statsAPICircuit, err := getEnvAsCircuit("STATSAPI")
	if err != nil {
		return Config{}, err
	}

	savantTimeout, err := getEnvAsPositiveDuration("SAVANT_TIMEOUT", "60s")
	if err != nil {
		return Config{}, err
	}
	savantMaxRetries, err := getEnvAsNonNegativeInt("SAVANT_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, err
	}
	savantRatePerSecond, err := strconv.ParseFloat(getEnv("SAVANT_RATE_PER_SECOND", "2"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse SAVANT_RATE_PER_SECOND: %w", err)
	}
	if savantRatePerSecond <= 0 {
		return Config{}, fmt.Errorf("SAVANT_RATE_PER_SECOND must be > 0")
	}
	savantCircuit, err := getEnvAsCircuit("SAVANT")
	if err != nil {
		return Config{}, err
	}

	workersAITimeout, err := getEnvAsPositiveDuration("WORKERS_AI_TIMEOUT", "60s")
	if err != nil {
		return Config{}, err
	}
	workersAITries, err := getEnvAsInt("WORKERS_AI_TRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse WORKERS_AI_TRIES: %w", err)
	}
	if workersAITries < 1 {
		return Config{}, fmt.Errorf("WORKERS_AI_TRIES must be >= 1")
	}
	workersAICircuit, err := getEnvAsCircuit("WORKERS_AI")
	if err != nil {
		return Config{}, err
	}

	// Every request finishes inside RequestTimeout, and the response still
	// has responseWriteMargin before the server's write deadline.
	minRequestTimeout := max(
		time.Duration(workersAITries)*workersAITimeout,
		retryBudget(savantTimeout, savantMaxRetries),
	)
	requestTimeout, err := getEnvAsPositiveDuration("APP_REQUEST_TIMEOUT", (minRequestTimeout + requestTimeoutMargin).String())
	if err != nil {
		return Config{}, err
	}
	if requestTimeout < minRequestTimeout {
		return Config{}, fmt.Errorf("APP_REQUEST_TIMEOUT must be >= %s to cover WORKERS_AI_TRIES x WORKERS_AI_TIMEOUT and the SAVANT retry budget", minRequestTimeout)
	}
	writeTimeout, err := getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", (requestTimeout + responseWriteMargin).String())
	if err != nil {
		return Config{}, err
	}
	if writeTimeout < requestTimeout+responseWriteMargin {
		return Config{}, fmt.Errorf("APP_WRITE_TIMEOUT must be >= APP_REQUEST_TIMEOUT + %s", responseWriteMargin)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "mlb-hr-ai-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		RequestTimeout:             requestTimeout,
		ShutdownTimeout:            shutdownTimeout,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		SwaggerEnabled:             swaggerEnabled,
		MetricsEnabled:             metricsEnabled,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		ReferenceCacheTTL:          referenceCacheTTL,
		PitcherCacheTTL:            pitcherCacheTTL,
		StatsAPIBaseURL:            strings.TrimSpace(getEnv("STATSAPI_BASE_URL", "https://statsapi.mlb.com/api/v1")),
		StatsAPITimeout:            statsAPITimeout,
		StatsAPIMaxRetries:         statsAPIMaxRetries,
		StatsAPIRosterWorkers:      statsAPIRosterWorkers,
		StatsAPICircuit:            statsAPICircuit,
		SavantBaseURL:              strings.TrimSpace(getEnv("SAVANT_BASE_URL", "https://baseballsavant.mlb.com")),
		SavantTimeout:              savantTimeout,
		SavantMaxRetries:           savantMaxRetries,
		SavantRatePerSecond:        savantRatePerSecond,
		SavantCircuit:              savantCircuit,
		WorkersAIBaseURL:           strings.TrimSpace(getEnv("WORKERS_AI_BASE_URL", "https://api.cloudflare.com/client/v4")),
		WorkersAIAccountID:         strings.TrimSpace(getEnvWithLegacy("WORKERS_AI_ACCOUNT_ID", "ACCOUNT_ID")),
		WorkersAIToken:             strings.TrimSpace(getEnvWithLegacy("WORKERS_AI_TOKEN", "TOKEN")),
		WorkersAIModel:             strings.TrimSpace(getEnv("WORKERS_AI_MODEL", "@cf/meta/llama-3-8b-instruct")),
		WorkersAITimeout:           workersAITimeout,
		WorkersAITries:             workersAITries,
		WorkersAICircuit:           workersAICircuit,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.StatsAPIBaseURL == "" {
		return Config{}, fmt.Errorf("STATSAPI_BASE_URL cannot be empty")
	}
	if cfg.SavantBaseURL == "" {
		return Config{}, fmt.Errorf("SAVANT_BASE_URL cannot be empty")
	}

	return cfg, nil
}

// WorkersAIConfigured reports whether suggestion credentials are present.
// Without them the suggestion endpoint answers with an error state.
func (c Config) WorkersAIConfigured() bool {
	return c.WorkersAIAccountID != "" && c.WorkersAIToken != ""
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

// getEnvWithLegacy prefers key and falls back to the older unprefixed name.
func getEnvWithLegacy(key, legacyKey string) string {
	return getEnv(key, getEnv(legacyKey, ""))
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsNonNegativeInt(key string, fallback int) (int, error) {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
	}
	return out, nil
}

// retryBudget is the longest a provider call can take: every attempt runs to
// its timeout, separated by the caller's linear backoff of (attempt+1)s.
func retryBudget(timeout time.Duration, maxRetries int) time.Duration {
	budget := time.Duration(maxRetries+1) * timeout
	for attempt := 0; attempt < maxRetries; attempt++ {
		budget += time.Duration(attempt+1) * time.Second
	}
	return budget
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

// getEnvAsCircuit reads <PREFIX>_CIRCUIT_{ENABLED,FAILURE_COUNT,OPEN_TIMEOUT,HALF_OPEN_MAX_REQ}.
func getEnvAsCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	defaults := resilience.DefaultCircuitBreakerConfig()

	enabledKey := prefix + "_CIRCUIT_ENABLED"
	enabled, err := strconv.ParseBool(getEnv(enabledKey, strconv.FormatBool(defaults.Enabled)))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", enabledKey, err)
	}

	failureKey := prefix + "_CIRCUIT_FAILURE_COUNT"
	failureCount, err := getEnvAsInt(failureKey, defaults.FailureThreshold)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", failureKey, err)
	}
	if failureCount < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be >= 1", failureKey)
	}

	openTimeout, err := getEnvAsPositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", defaults.OpenTimeout.String())
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}

	halfOpenKey := prefix + "_CIRCUIT_HALF_OPEN_MAX_REQ"
	halfOpenMaxReq, err := getEnvAsInt(halfOpenKey, defaults.HalfOpenMaxReq)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", halfOpenKey, err)
	}
	if halfOpenMaxReq < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be >= 1", halfOpenKey)
	}

	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

const (
	requestTimeoutMargin = 5 * time.Second
	responseWriteMargin  = 5 * time.Second
)
