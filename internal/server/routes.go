package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, broker *Broker) {
	g, accounts := deps.Game, deps.Accounts
	feed := &leaderboardFeed{broker: broker, game: g, logger: logger}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Scrum Cluedo API", "/openapi.json", "/docs"))

	r.Route("/api", func(r chi.Router) {
		r.Use(noStore)

		r.Post("/auth/signup", handleSignup(accounts, feed, logger))
		r.Post("/auth/login", handleLogin(accounts, logger))
		r.Post("/auth/forgot-password", handleForgotPassword(accounts, logger))
		r.Post("/auth/reset-password", handleResetPassword(accounts, logger))
		r.Get("/leaderboard", handleLeaderboard(g, logger))
		r.Get("/leaderboard/events", handleLeaderboardEvents(feed))

		// Player routes.
		r.Group(func(r chi.Router) {
			r.Use(requireSession(deps.Sessions, logger))
			r.Post("/auth/logout", handleLogout(accounts, logger))
			r.Get("/teams/me", handleMe(accounts, g, logger))
			r.Get("/cases/random", handleRandomCase(g, logger))
			r.Post("/play/submit", handleSubmit(g, feed, logger))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin(deps.Sessions, accounts, logger))

			r.Get("/cases", handleAdminListCases(g, logger))
			r.Post("/cases", handleAdminCreateCase(g, logger))
			r.Delete("/cases", handleAdminClearCases(g, logger))
			r.Get("/cases/export", handleAdminExportCases(g, logger))
			r.Post("/cases/import", handleAdminImportCases(g, logger))
			r.Get("/cases/{id}", handleAdminGetCase(g, logger))
			r.Put("/cases/{id}", handleAdminUpdateCase(g, logger))
			r.Delete("/cases/{id}", handleAdminDeleteCase(g, logger))
			r.Delete("/leaderboard", handleAdminClearLeaderboard(g, feed, logger))
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
