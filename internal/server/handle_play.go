package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/game"
)

// RandomCaseResponse is an unplayed case with its shuffled answer choices.
type RandomCaseResponse struct {
	CaseData cluedo.Case    `json:"caseData"`
	Options  cluedo.Options `json:"options"`
}

func handleRandomCase(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := strings.TrimSpace(r.URL.Query().Get("lang"))
		c, err := g.AssignCase(r.Context(), sessionFrom(r).TeamID, lang)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, RandomCaseResponse{CaseData: c, Options: g.Options(c)})
	}
}

type SubmitRequest struct {
	CaseID   string `json:"caseId"`
	Location string `json:"location"`
	Suspect  string `json:"suspect"`
	Weapon   string `json:"weapon"`
}

type SubmitResponse struct {
	Success bool               `json:"success"`
	Results cluedo.ScoreResult `json:"results"`
}

func handleSubmit(g *game.Service, feed *leaderboardFeed, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.CaseID) == "" {
			writeError(w, http.StatusBadRequest, "caseId is required")
			return
		}

		// Answers are compared exactly, so they are not trimmed.
		res, err := g.SubmitAnswer(r.Context(), sessionFrom(r).TeamID, req.CaseID, cluedo.Accusation{
			Location: req.Location,
			Suspect:  req.Suspect,
			Weapon:   req.Weapon,
		})
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, SubmitResponse{Success: true, Results: res})
		feed.notify(r.Context())
	}
}

type LeaderboardResponse struct {
	Teams []cluedo.Standing `json:"teams"`
}

func handleLeaderboard(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := g.Leaderboard(r.Context())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{Teams: teams})
	}
}
