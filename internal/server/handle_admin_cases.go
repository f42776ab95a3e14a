package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/game"
)

type CaseListResponse struct {
	Cases []cluedo.Case `json:"cases"`
}

type CaseResponse struct {
	Case cluedo.Case `json:"case"`
}

// CountResponse reports how many rows an admin operation touched.
type CountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

func handleAdminListCases(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := g.ListCases(r.Context(), r.URL.Query().Get("lang"))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, CaseListResponse{Cases: cases})
	}
}

func handleAdminGetCase(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := g.GetCase(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, CaseResponse{Case: c})
	}
}

func handleAdminCreateCase(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cluedo.CaseFields
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		c, err := g.CreateCase(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, CaseResponse{Case: c})
	}
}

func handleAdminUpdateCase(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cluedo.CaseFields
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		c, err := g.UpdateCase(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, CaseResponse{Case: c})
	}
}

func handleAdminDeleteCase(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := g.DeleteCase(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, StatusResponse{Success: true})
	}
}

func handleAdminExportCases(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := g.ExportCases(r.Context())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="scrum-cluedo-cases.json"`)
		writeJSON(w, http.StatusOK, cases)
	}
}

func handleAdminImportCases(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		if err := readJSON(w, r, &raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		n, err := g.ImportCases(r.Context(), raw)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		logger.Info("admin imported cases", "admin_id", adminFrom(r).ID, "count", n)
		writeJSON(w, http.StatusOK, CountResponse{Success: true, Count: n})
	}
}

func handleAdminClearCases(g *game.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := g.ClearCases(r.Context())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		logger.Info("admin cleared cases", "admin_id", adminFrom(r).ID)
		writeJSON(w, http.StatusOK, CountResponse{Success: true, Count: n})
	}
}

func handleAdminClearLeaderboard(g *game.Service, feed *leaderboardFeed, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := g.ClearLeaderboard(r.Context())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		logger.Info("admin cleared leaderboard", "admin_id", adminFrom(r).ID)
		writeJSON(w, http.StatusOK, CountResponse{Success: true, Count: n})
		feed.notify(r.Context())
	}
}
