// Package account handles team registration, login and password recovery.
package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/playperu/scrumcluedo/internal/auth"
	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/mail"
	"github.com/playperu/scrumcluedo/internal/store"
	"github.com/playperu/scrumcluedo/internal/validate"
)

// ErrMailFailed means an email that is the whole point of the operation
// could not be sent.
var ErrMailFailed = errors.New("could not send email")

// NicknameTakenError is returned by Signup when the nickname is in use. It
// matches cluedo.ErrDuplicateName.
type NicknameTakenError struct {
	Suggested string
}

func (e *NicknameTakenError) Error() string { return cluedo.ErrDuplicateName.Error() }
func (e *NicknameTakenError) Unwrap() error { return cluedo.ErrDuplicateName }

type Store interface {
	CreateTeam(ctx context.Context, nt store.NewTeam) (cluedo.Team, error)
	TeamByID(ctx context.Context, id string) (cluedo.Team, error)
	TeamByName(ctx context.Context, name string) (cluedo.Team, error)
	TeamByEmail(ctx context.Context, email string) (cluedo.Team, error)
	CreateResetToken(ctx context.Context, t cluedo.PasswordResetToken) error
	ResetToken(ctx context.Context, token string) (cluedo.PasswordResetToken, error)
	ResetPassword(ctx context.Context, teamID, passwordHash string) error
}

type Service struct {
	store    Store
	hasher   *auth.Hasher
	sessions *auth.Sessions
	mail     mail.Sender
	log      *slog.Logger
	baseURL  string
	rng      cluedo.Rand
	now      func() time.Time
}

func NewService(st Store, hasher *auth.Hasher, sessions *auth.Sessions, sender mail.Sender, logger *slog.Logger, baseURL string) *Service {
	return &Service{
		store:    st,
		hasher:   hasher,
		sessions: sessions,
		mail:     sender,
		log:      logger,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		rng:      cluedo.GlobalRand{},
		now:      time.Now,
	}
}

type SignupRequest struct {
	Nickname string `json:"nickname" validate:"required,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Nickname string `json:"nickname" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// Login is a team together with a freshly issued session token.
type Login struct {
	Team      cluedo.Team
	Token     string
	ExpiresAt time.Time
	// PreviewURL is set when the mail backend offers a web preview.
	PreviewURL string
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (Login, error) {
	req.Nickname = strings.TrimSpace(req.Nickname)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return Login{}, err
	}

	if _, err := s.store.TeamByEmail(ctx, req.Email); err == nil {
		return Login{}, cluedo.ErrDuplicateEmail
	} else if !errors.Is(err, cluedo.ErrTeamNotFound) {
		return Login{}, err
	}
	if _, err := s.store.TeamByName(ctx, req.Nickname); err == nil {
		return Login{}, s.nicknameTaken(req.Nickname)
	} else if !errors.Is(err, cluedo.ErrTeamNotFound) {
		return Login{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return Login{}, err
	}
	team, err := s.store.CreateTeam(ctx, store.NewTeam{
		Name:         req.Nickname,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, cluedo.ErrDuplicateName) {
		return Login{}, s.nicknameTaken(req.Nickname)
	}
	if err != nil {
		return Login{}, err
	}
	s.log.Info("team registered", "team_id", team.ID, "name", team.Name)

	login, err := s.issue(team)
	if err != nil {
		return Login{}, err
	}
	login.PreviewURL = s.sendBestEffort(ctx, welcomeEmail(team.Name, team.Email))
	return login, nil
}

func (s *Service) nicknameTaken(nickname string) error {
	return &NicknameTakenError{Suggested: fmt.Sprintf("%s_%d", nickname, s.rng.IntN(1000))}
}

// Login checks a nickname and password. Unknown nicknames and wrong
// passwords both yield cluedo.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (Login, error) {
	req.Nickname = strings.TrimSpace(req.Nickname)
	if err := validate.Struct(req); err != nil {
		return Login{}, err
	}

	team, err := s.store.TeamByName(ctx, req.Nickname)
	if errors.Is(err, cluedo.ErrTeamNotFound) {
		s.hasher.CompareDummy(req.Password)
		return Login{}, cluedo.ErrInvalidCredentials
	}
	if err != nil {
		return Login{}, err
	}
	if err := s.hasher.Compare(team.PasswordHash, req.Password); err != nil {
		return Login{}, cluedo.ErrInvalidCredentials
	}
	return s.issue(team)
}

func (s *Service) issue(team cluedo.Team) (Login, error) {
	token, sess, err := s.sessions.Issue(team)
	if err != nil {
		return Login{}, err
	}
	return Login{Team: team, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// Logout revokes the session's token.
func (s *Service) Logout(ctx context.Context, sess auth.Session) error {
	if err := s.sessions.Revoke(ctx, sess); err != nil {
		return err
	}
	s.log.Info("team logged out", "team_id", sess.TeamID)
	return nil
}

func (s *Service) Me(ctx context.Context, teamID string) (cluedo.Team, error) {
	return s.store.TeamByID(ctx, teamID)
}

// ForgotPassword creates a one hour reset token and emails a link to it.
func (s *Service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return "", err
	}

	team, err := s.store.TeamByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}

	token, err := newResetToken()
	if err != nil {
		return "", err
	}
	if err := s.store.CreateResetToken(ctx, cluedo.PasswordResetToken{
		Token:     token,
		TeamID:    team.ID,
		ExpiresAt: s.now().Add(cluedo.ResetTokenTTL),
	}); err != nil {
		return "", err
	}

	link := s.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	preview, err := s.mail.Send(ctx, resetEmail(team.Name, team.Email, link))
	if err != nil {
		s.log.Error("reset email failed", "team_id", team.ID, "error", err)
		return "", fmt.Errorf("%w: %v", ErrMailFailed, err)
	}
	s.log.Info("password reset requested", "team_id", team.ID)
	return preview, nil
}

// ResetPassword sets a new password using a reset token. All of the team's
// tokens are consumed.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error) {
	req.Token = strings.TrimSpace(req.Token)
	if err := validate.Struct(req); err != nil {
		return "", err
	}

	tok, err := s.store.ResetToken(ctx, req.Token)
	if err != nil {
		return "", err
	}
	if s.now().After(tok.ExpiresAt) {
		return "", cluedo.ErrTokenExpired
	}
	team, err := s.store.TeamByID(ctx, tok.TeamID)
	if err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return "", err
	}
	if err := s.store.ResetPassword(ctx, team.ID, hash); err != nil {
		return "", err
	}
	s.log.Info("password reset", "team_id", team.ID)

	return s.sendBestEffort(ctx, passwordChangedEmail(team.Name, team.Email)), nil
}

// sendBestEffort sends m and logs, rather than returns, a failure.
func (s *Service) sendBestEffort(ctx context.Context, m mail.Message) string {
	preview, err := s.mail.Send(ctx, m)
	if err != nil {
		s.log.Warn("email not delivered", "to", m.To, "subject", m.Subject, "error", err)
		return ""
	}
	return preview
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
