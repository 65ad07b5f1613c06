package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/hpungsan/strindex/internal/errors"
	"github.com/hpungsan/strindex/internal/logger"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

// ErrorPayload carries the structured error.
type ErrorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

// renderError maps err to its status and writes the error envelope.
// Internal errors are logged with their cause and rendered without details.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	sErr, ok := errors.As(err)
	if !ok {
		sErr = errors.NewInternal(err)
	}

	payload := ErrorPayload{
		Code:    string(sErr.Code),
		Message: sErr.Message,
		Status:  sErr.Status,
	}
	if sErr.Code == errors.ErrInternal {
		logger.Get().Error("request failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Any("cause", sErr.Details["internal_error"]),
		)
	} else {
		payload.Details = sErr.Details
	}

	renderJSON(w, sErr.Status, ErrorBody{Error: payload})
}
