package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/scrumcluedo/internal/account"
	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/handler/health"
)

const bearerAuth = "bearerAuth"

type langQuery struct {
	Lang string `query:"lang" enum:"it,en" description:"Case language; defaults to the server language."`
}

type caseIDPath struct {
	ID string `path:"id"`
}

type updateCaseRequest struct {
	ID string `path:"id"`
	cluedo.CaseFields
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Scrum Cluedo API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Scrum Cluedo quiz game.")
	r.Spec.SetHTTPBearerTokenSecurity(bearerAuth, "JWT", "Session token from signup or login.")

	add := func(method, path, summary, desc string, req any, secured bool, resps ...respSpec) {
		op, _ := r.NewOperationContext(method, path)
		op.SetSummary(summary)
		op.SetDescription(desc)
		if req != nil {
			op.AddReqStructure(req)
		}
		if secured {
			op.AddSecurity(bearerAuth)
		}
		for _, rs := range resps {
			op.AddRespStructure(rs.body, openapi.WithHTTPStatus(rs.status))
		}
		_ = r.AddOperation(op)
	}

	add(http.MethodGet, "/healthz", "Health check",
		"Returns the health status of backend dependencies.", nil, false,
		resp(http.StatusOK, health.Response{}),
		resp(http.StatusServiceUnavailable, health.Response{}))

	// Accounts.
	add(http.MethodPost, "/api/auth/signup", "Sign up",
		"Creates a team and returns a session token. A taken nickname yields a suggestion.",
		account.SignupRequest{}, false,
		resp(http.StatusCreated, AuthResponse{}),
		resp(http.StatusBadRequest, ErrorResponse{}),
		resp(http.StatusConflict, ErrorResponse{}))
	add(http.MethodPost, "/api/auth/login", "Log in",
		"Authenticates by nickname and password.", account.LoginRequest{}, false,
		resp(http.StatusOK, AuthResponse{}),
		resp(http.StatusBadRequest, ErrorResponse{}),
		resp(http.StatusUnauthorized, ErrorResponse{}))
	add(http.MethodPost, "/api/auth/logout", "Log out",
		"Revokes the presented session token.", nil, true,
		resp(http.StatusOK, StatusResponse{}),
		resp(http.StatusUnauthorized, ErrorResponse{}))
	add(http.MethodPost, "/api/auth/forgot-password", "Request password reset",
		"Emails a one-hour reset link. Unknown addresses are reported.",
		account.ForgotPasswordRequest{}, false,
		resp(http.StatusOK, StatusResponse{}),
		resp(http.StatusNotFound, ErrorResponse{}),
		resp(http.StatusBadGateway, ErrorResponse{}))
	add(http.MethodPost, "/api/auth/reset-password", "Reset password",
		"Sets a new password using a reset token. All of the team's reset tokens are consumed.",
		account.ResetPasswordRequest{}, false,
		resp(http.StatusOK, StatusResponse{}),
		resp(http.StatusBadRequest, ErrorResponse{}),
		resp(http.StatusNotFound, ErrorResponse{}),
		resp(http.StatusGone, ErrorResponse{}))

	// Play.
	add(http.MethodGet, "/api/teams/me", "Current team",
		"Returns the authenticated team.", nil, true,
		resp(http.StatusOK, MeResponse{}),
		resp(http.StatusUnauthorized, ErrorResponse{}),
		resp(http.StatusNotFound, ErrorResponse{}))
	add(http.MethodGet, "/api/cases/random", "Random case",
		"Returns a random case the team has not played yet, with shuffled answer options.",
		langQuery{}, true,
		resp(http.StatusOK, RandomCaseResponse{}),
		resp(http.StatusBadRequest, ErrorResponse{}),
		resp(http.StatusNotFound, MessageResponse{}))
	add(http.MethodPost, "/api/play/submit", "Submit accusation",
		"Scores an accusation and adds the points to the team. Each case scores once per team.",
		SubmitRequest{}, true,
		resp(http.StatusOK, SubmitResponse{}),
		resp(http.StatusNotFound, ErrorResponse{}),
		resp(http.StatusConflict, ErrorResponse{}))
	add(http.MethodGet, "/api/leaderboard", "Leaderboard",
		"Top teams by total score.", nil, false,
		resp(http.StatusOK, LeaderboardResponse{}))

	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/events")
	getEvents.SetSummary("Leaderboard stream")
	getEvents.SetDescription("Server-Sent Events stream. Sends the standings on connect and after every change.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// Admin.
	adminDenied := resp(http.StatusForbidden, ErrorResponse{})
	add(http.MethodGet, "/api/admin/cases", "List cases",
		"Lists cases, newest first, optionally filtered by language.", langQuery{}, true,
		resp(http.StatusOK, CaseListResponse{}), adminDenied)
	add(http.MethodPost, "/api/admin/cases", "Create case",
		"Creates a case. Missing explanations default to \"-\".", cluedo.CaseFields{}, true,
		resp(http.StatusCreated, CaseResponse{}),
		resp(http.StatusBadRequest, ErrorResponse{}), adminDenied)
	add(http.MethodDelete, "/api/admin/cases", "Delete all cases",
		"Removes every case and its play history. Team scores are kept.", nil, true,
		resp(http.StatusOK, CountResponse{}), adminDenied)
	add(http.MethodGet, "/api/admin/cases/export", "Export cases",
		"Downloads every case as a JSON array accepted by import.", nil, true,
		resp(http.StatusOK, []cluedo.CaseFields{}), adminDenied)
	add(http.MethodPost, "/api/admin/cases/import", "Import cases",
		"Appends cases from a JSON array. Entries without title or story are skipped.",
		[]cluedo.CaseFields{}, true,
		resp(http.StatusOK, CountResponse{}),
		resp(http.StatusBadRequest, ErrorResponse{}), adminDenied)
	add(http.MethodGet, "/api/admin/cases/{id}", "Get case", "", caseIDPath{}, true,
		resp(http.StatusOK, CaseResponse{}),
		resp(http.StatusNotFound, ErrorResponse{}), adminDenied)
	add(http.MethodPut, "/api/admin/cases/{id}", "Update case",
		"Replaces a case's content. The language cannot change.", updateCaseRequest{}, true,
		resp(http.StatusOK, CaseResponse{}),
		resp(http.StatusBadRequest, ErrorResponse{}),
		resp(http.StatusNotFound, ErrorResponse{}), adminDenied)
	add(http.MethodDelete, "/api/admin/cases/{id}", "Delete case", "", caseIDPath{}, true,
		resp(http.StatusOK, StatusResponse{}),
		resp(http.StatusNotFound, ErrorResponse{}), adminDenied)
	add(http.MethodDelete, "/api/admin/leaderboard", "Clear leaderboard",
		"Deletes every non-admin team with its play history.", nil, true,
		resp(http.StatusOK, CountResponse{}), adminDenied)

	return r.Spec
}

type respSpec struct {
	status int
	body   any
}

func resp(status int, body any) respSpec { return respSpec{status: status, body: body} }

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
