package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/playperu/scrumcluedo/internal/account"
	"github.com/playperu/scrumcluedo/internal/cluedo"
)

// ErrorResponse is returned for all error responses. Code is set when the
// client can recover in a specific way.
type ErrorResponse struct {
	Error             string `json:"error"`
	Code              string `json:"code,omitempty"`
	SuggestedNickname string `json:"suggestedNickname,omitempty"`
}

// MessageResponse signals an expected empty result rather than a failure.
type MessageResponse struct {
	Message string `json:"message"`
}

const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps a domain error to its HTTP status. Anything it
// does not recognize is logged and reported as an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var taken *account.NicknameTakenError
	switch {
	case cluedo.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, cluedo.ErrInvalidLanguage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, cluedo.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, cluedo.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid or missing session token")
	case errors.Is(err, cluedo.ErrNoCasesAvailable):
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: err.Error()})
	case errors.Is(err, cluedo.ErrTeamNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "TEAM_NOT_FOUND"})
	case errors.Is(err, cluedo.ErrCaseNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "CASE_NOT_FOUND"})
	case errors.Is(err, cluedo.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cluedo.ErrTokenExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.As(err, &taken):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: taken.Error(), SuggestedNickname: taken.Suggested})
	case errors.Is(err, cluedo.ErrDuplicateEmail),
		errors.Is(err, cluedo.ErrDuplicateName),
		errors.Is(err, cluedo.ErrAlreadyPlayed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, account.ErrMailFailed):
		writeError(w, http.StatusBadGateway, account.ErrMailFailed.Error())
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
