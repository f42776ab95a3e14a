package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/scrumcluedo/internal/auth"
	"github.com/playperu/scrumcluedo/internal/cluedo"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyAdmin
)

// requireSession rejects requests without a valid, unrevoked bearer token
// and stores the session in the request context.
func requireSession(sessions *auth.Sessions, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}
			sess, err := sessions.Authenticate(r.Context(), token)
			if err != nil {
				writeServiceError(w, r, logger, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) auth.Session {
	return r.Context().Value(ctxKeySession).(auth.Session)
}

// TeamLookup resolves a team by id.
type TeamLookup interface {
	Me(ctx context.Context, teamID string) (cluedo.Team, error)
}

const errAdminRequired = "admin access required"

// requireAdmin authenticates the bearer token itself and lets a request
// through only when its team is currently an admin in the store. A missing,
// invalid or revoked token and a non-admin team all get the same 403.
// Only a failing revocation store is reported differently.
func requireAdmin(sessions *auth.Sessions, teams TeamLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r)
			if err != nil {
				writeError(w, http.StatusForbidden, errAdminRequired)
				return
			}
			sess, err := sessions.Authenticate(r.Context(), token)
			if errors.Is(err, cluedo.ErrUnauthorized) {
				writeError(w, http.StatusForbidden, errAdminRequired)
				return
			}
			if err != nil {
				writeServiceError(w, r, logger, err)
				return
			}

			team, err := teams.Me(r.Context(), sess.TeamID)
			if err != nil && !errors.Is(err, cluedo.ErrTeamNotFound) {
				logger.Error("admin lookup failed", "team_id", sess.TeamID, "error", err)
			}
			if err != nil || !team.IsAdmin {
				writeError(w, http.StatusForbidden, errAdminRequired)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			ctx = context.WithValue(ctx, ctxKeyAdmin, team)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminFrom(r *http.Request) cluedo.Team {
	return r.Context().Value(ctxKeyAdmin).(cluedo.Team)
}
