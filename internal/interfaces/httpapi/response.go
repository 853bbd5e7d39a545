package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/Ashenden365/mlb-hr-ai/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "mlb-hr-ai"

	internalErrorMessage = "internal server error"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code        int               `json:"code"`
	Message     string            `json:"message"`
	Status      string            `json:"status"`
	Errors      []googleErrorItem `json:"errors,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var (
	internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

	// First match wins, so the typed player error precedes plain not-found.
	errorRules = []struct {
		match  func(error) bool
		mapped mappedError
	}{
		{
			match:  func(err error) bool { return errors.Is(err, usecase.ErrInvalidInput) },
			mapped: mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"},
		},
		{
			match: func(err error) bool {
				var notFound *usecase.PlayerNotFoundError
				return errors.As(err, &notFound)
			},
			mapped: mappedError{HTTPStatus: http.StatusNotFound, Reason: "playerNotFound", Status: "NOT_FOUND"},
		},
		{
			match:  func(err error) bool { return errors.Is(err, usecase.ErrNotFound) },
			mapped: mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"},
		},
		{
			match:  func(err error) bool { return errors.Is(err, usecase.ErrDependencyUnavailable) },
			mapped: mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"},
		},
	}
)

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError renders err in the error envelope. Unclassified errors are
// reported without their text.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	message := internalErrorMessage
	if mapped != internalError {
		message = err.Error()
	}

	body := newErrorBody(mapped, message)
	var notFound *usecase.PlayerNotFoundError
	if errors.As(err, &notFound) {
		body.Suggestions = notFound.Suggestions
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error:      body,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, internalError.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error:      newErrorBody(internalError, internalErrorMessage),
	})
}

func newErrorBody(mapped mappedError, message string) *googleErrorBody {
	return &googleErrorBody{
		Code:    mapped.HTTPStatus,
		Message: message,
		Status:  mapped.Status,
		Errors: []googleErrorItem{{
			Domain:  errorDomain,
			Reason:  mapped.Reason,
			Message: message,
		}},
	}
}

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	for _, rule := range errorRules {
		if rule.match(err) {
			return rule.mapped
		}
	}
	return internalError
}
