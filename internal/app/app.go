package app

import (
	"fmt"
	"net/http"

	"github.com/Ashenden365/mlb-hr-ai/external/mlbstats"
	"github.com/Ashenden365/mlb-hr-ai/external/statcast"
	"github.com/Ashenden365/mlb-hr-ai/external/workersai"
	"github.com/Ashenden365/mlb-hr-ai/internal/config"
	"github.com/Ashenden365/mlb-hr-ai/internal/interfaces/httpapi"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/cache"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/metrics"
	"github.com/Ashenden365/mlb-hr-ai/internal/usecase"
	"github.com/jonboulle/clockwork"
)

// NewHTTPServer wires the provider clients, caches and services behind the
// public router. A nil httpMetrics disables /metrics and all instrumentation.
func NewHTTPServer(cfg config.Config, logger *logging.Logger, httpMetrics *metrics.Metrics) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var recorder metrics.Recorder
	if httpMetrics != nil {
		recorder = httpMetrics
	}
	clock := clockwork.NewRealClock()

	statsClient := mlbstats.NewClient(mlbstats.ClientConfig{
		BaseURL:        cfg.StatsAPIBaseURL,
		Timeout:        cfg.StatsAPITimeout,
		MaxRetries:     cfg.StatsAPIMaxRetries,
		Logger:         logger,
		Metrics:        recorder,
		CircuitBreaker: cfg.StatsAPICircuit,
	})
	savantClient := statcast.NewClient(statcast.ClientConfig{
		BaseURL:        cfg.SavantBaseURL,
		Timeout:        cfg.SavantTimeout,
		MaxRetries:     cfg.SavantMaxRetries,
		RatePerSecond:  cfg.SavantRatePerSecond,
		Logger:         logger,
		Metrics:        recorder,
		CircuitBreaker: cfg.SavantCircuit,
	})
	aiClient := workersai.NewClient(workersai.ClientConfig{
		BaseURL:        cfg.WorkersAIBaseURL,
		AccountID:      cfg.WorkersAIAccountID,
		Token:          cfg.WorkersAIToken,
		Model:          cfg.WorkersAIModel,
		Timeout:        cfg.WorkersAITimeout,
		Logger:         logger,
		Metrics:        recorder,
		CircuitBreaker: cfg.WorkersAICircuit,
	})
	if cfg.WorkersAIConfigured() {
		logger.Info("workers ai configured", "model", aiClient.Model())
	} else {
		logger.Warn("workers ai credentials missing, suggestions will report an error state")
	}

	referenceSvc := usecase.NewReferenceService(
		statsClient,
		cache.NewStore(cfg.ReferenceCacheTTL, clock, cache.WithLoadTimeout(cfg.RequestTimeout)),
		usecase.ReferenceConfig{RosterWorkers: cfg.StatsAPIRosterWorkers},
		clock,
		logger.Named("reference"),
		recorder,
	)
	paceSvc := usecase.NewPaceService(
		referenceSvc,
		savantClient,
		statsClient,
		cache.NewStore(cfg.PitcherCacheTTL, clock, cache.WithLoadTimeout(cfg.RequestTimeout)),
		clock,
		logger.Named("pace"),
	)
	suggestionSvc := usecase.NewSuggestionService(
		referenceSvc,
		aiClient,
		usecase.SuggestionConfig{Tries: cfg.WorkersAITries, Timeout: cfg.WorkersAITimeout},
		clock,
		logger.Named("suggestion"),
	)

	handler := httpapi.NewHandler(referenceSvc, paceSvc, suggestionSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpMetrics, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.RequestTimeout)

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}, nil
}
