package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/playperu/scrumcluedo/internal/account"
	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/game"
)

// TeamResponse is the public view of a team.
type TeamResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalScore int    `json:"totalScore"`
	IsAdmin    bool   `json:"isAdmin"`
}

func newTeamResponse(t cluedo.Team) TeamResponse {
	return TeamResponse{ID: t.ID, Name: t.Name, TotalScore: t.TotalScore, IsAdmin: t.IsAdmin}
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Success    bool         `json:"success"`
	Team       TeamResponse `json:"team"`
	Token      string       `json:"token"`
	ExpiresAt  time.Time    `json:"expiresAt"`
	PreviewURL *string      `json:"previewUrl"`
}

type StatusResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message,omitempty"`
	PreviewURL *string `json:"previewUrl"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func newAuthResponse(l account.Login) AuthResponse {
	return AuthResponse{
		Success:    true,
		Team:       newTeamResponse(l.Team),
		Token:      l.Token,
		ExpiresAt:  l.ExpiresAt,
		PreviewURL: optional(l.PreviewURL),
	}
}

func handleSignup(accounts *account.Service, feed *leaderboardFeed, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.SignupRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		login, err := accounts.Signup(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, newAuthResponse(login))
		feed.notify(r.Context())
	}
}

func handleLogin(accounts *account.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.LoginRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		login, err := accounts.Login(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newAuthResponse(login))
	}
}

func handleLogout(accounts *account.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := accounts.Logout(r.Context(), sessionFrom(r)); err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, StatusResponse{Success: true})
	}
}

func handleForgotPassword(accounts *account.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.ForgotPasswordRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		preview, err := accounts.ForgotPassword(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, StatusResponse{Success: true, PreviewURL: optional(preview)})
	}
}

func handleResetPassword(accounts *account.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.ResetPasswordRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		preview, err := accounts.ResetPassword(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, StatusResponse{
			Success:    true,
			Message:    "password updated",
			PreviewURL: optional(preview),
		})
	}
}

// PlayResponse is one answered case in a team's history.
type PlayResponse struct {
	CaseID            string    `json:"caseId"`
	IsCorrectLocation bool      `json:"isCorrectLocation"`
	IsCorrectSuspect  bool      `json:"isCorrectSuspect"`
	IsCorrectWeapon   bool      `json:"isCorrectWeapon"`
	ScoreAwarded      int       `json:"scoreAwarded"`
	PlayedAt          time.Time `json:"playedAt"`
}

// MeResponse wraps the caller's team and its answered cases.
type MeResponse struct {
	Team  TeamResponse   `json:"team"`
	Plays []PlayResponse `json:"plays"`
}

func handleMe(accounts *account.Service, g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := sessionFrom(r).TeamID
		team, err := accounts.Me(r.Context(), teamID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		history, err := g.History(r.Context(), teamID)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		plays := make([]PlayResponse, 0, len(history))
		for _, p := range history {
			plays = append(plays, PlayResponse{
				CaseID:            p.CaseID,
				IsCorrectLocation: p.IsCorrectLocation,
				IsCorrectSuspect:  p.IsCorrectSuspect,
				IsCorrectWeapon:   p.IsCorrectWeapon,
				ScoreAwarded:      p.ScoreAwarded,
				PlayedAt:          p.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, MeResponse{Team: newTeamResponse(team), Plays: plays})
	}
}
