package httpapi

import (
	"net/http"

	"github.com/Ashenden365/mlb-hr-ai/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, httpMetrics *metrics.Metrics, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if httpMetrics != nil {
		mux.Handle("GET /metrics", httpMetrics.Handler())
	}
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamCode}/players", handler.ListTeamPlayers)
	mux.HandleFunc("GET /v1/players/resolve", handler.ResolvePlayer)
	mux.HandleFunc("GET /v1/comparisons", handler.Compare)
	mux.HandleFunc("POST /v1/suggestions", handler.Suggest)
}
