package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/Ashenden365/mlb-hr-ai/internal/domain/roster"
	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	"github.com/Ashenden365/mlb-hr-ai/internal/usecase"
)

const maxRequestBodyBytes = 1 << 16

type Handler struct {
	referenceService  *usecase.ReferenceService
	paceService       *usecase.PaceService
	suggestionService *usecase.SuggestionService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	referenceService *usecase.ReferenceService,
	paceService *usecase.PaceService,
	suggestionService *usecase.SuggestionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		referenceService:  referenceService,
		paceService:       paceService,
		suggestionService: suggestionService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	groups, err := h.referenceService.Teams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, divisionGroupsToDTO(groups))
}

func (h *Handler) ListTeamPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamPlayers")
	defer span.End()

	teamCode := r.PathValue("teamCode")
	team, names, err := h.referenceService.TeamPlayers(ctx, teamCode)
	if err != nil {
		h.logger.WarnContext(ctx, "list team players failed", "team_code", teamCode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamPlayersDTO{
		Team:    teamToDTO(team),
		Players: names,
	})
}

func (h *Handler) ResolvePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolvePlayer")
	defer span.End()

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	entry, ok, err := h.referenceService.ResolvePlayer(ctx, name)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve player failed", "name", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := resolvePlayerDTO{Query: name, Matched: ok}
	if ok {
		out.Player = &playerDTO{
			Name:     entry.Name,
			PlayerID: entry.PlayerID,
			TeamCode: entry.TeamCode,
			ImageURL: roster.HeadshotURL(entry.PlayerID),
		}
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Compare")
	defer span.End()

	query := r.URL.Query()
	input := usecase.ComparisonInput{
		Player1: strings.TrimSpace(query.Get("player1")),
		Team1:   strings.TrimSpace(query.Get("team1")),
		Player2: strings.TrimSpace(query.Get("player2")),
		Team2:   strings.TrimSpace(query.Get("team2")),
	}

	var err error
	if input.Start, err = parseOptionalDate(query.Get("start"), "start"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if input.End, err = parseOptionalDate(query.Get("end"), "end"); err != nil {
		writeError(ctx, w, err)
		return
	}

	comparison, err := h.paceService.Compare(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "compare players failed",
			"player1", input.Player1,
			"player2", input.Player2,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, comparisonToDTO(comparison))
}

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Suggest")
	defer span.End()

	req, err := decodeJSONBody[suggestRequest](r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.suggestionService.Suggest(ctx, req.Player1, req.Player2)
	if err != nil {
		h.logger.WarnContext(ctx, "suggestion failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, suggestionToDTO(result))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSONBody[T any](r *http.Request) (T, error) {
	var req T
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return req, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}

func parseOptionalDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", usecase.ErrInvalidInput, field)
	}
	return &parsed, nil
}
