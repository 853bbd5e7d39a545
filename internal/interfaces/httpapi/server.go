package httpapi

import (
	"net/http"
	"time"

	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/metrics"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	httpMetrics *metrics.Metrics,
	swaggerEnabled bool,
	corsAllowedOrigins []string,
	requestTimeout time.Duration,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, httpMetrics, swaggerEnabled)
	registerPublicRoutes(mux, handler)

	var observer HTTPObserver
	if httpMetrics != nil {
		observer = httpMetrics
	}

	return RequestTracing(
		RequestID(
			RequestLogging(logger,
				CORS(corsAllowedOrigins,
					recoverPanic(logger, RequestDeadline(requestTimeout, RequestMetrics(observer, mux))),
				),
			),
		),
	)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
