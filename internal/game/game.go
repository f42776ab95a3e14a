// Package game implements the play loop and the admin operations on top of
// a Store: drawing unplayed cases, scoring accusations, ranking teams, and
// managing the case catalog.
package game

import (
	"context"
	"log/slog"

	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/store"
)

// Store is the persistence the game needs. *store.SQLiteStore implements it.
type Store interface {
	FindCases(ctx context.Context, f store.CaseFilter) ([]cluedo.Case, error)
	GetCase(ctx context.Context, id string) (cluedo.Case, error)
	CreateCase(ctx context.Context, f cluedo.CaseFields) (cluedo.Case, error)
	CreateCases(ctx context.Context, fs []cluedo.CaseFields) (int, error)
	UpdateCase(ctx context.Context, id string, f cluedo.CaseFields) (cluedo.Case, error)
	DeleteCase(ctx context.Context, id string) error
	ClearCases(ctx context.Context) (int, error)
	CountCases(ctx context.Context) (int, error)

	TeamByID(ctx context.Context, id string) (cluedo.Team, error)
	PlayedCaseIDs(ctx context.Context, teamID string) ([]string, error)
	RecordPlay(ctx context.Context, p cluedo.PlaySession) (cluedo.PlaySession, int, error)
	ListPlays(ctx context.Context, teamID string) ([]cluedo.PlaySession, error)
	Leaderboard(ctx context.Context, limit int) ([]cluedo.Standing, error)
	ClearLeaderboard(ctx context.Context) (int, error)
}

type Config struct {
	DefaultLang     cluedo.Language
	LeaderboardSize int
	// Rand defaults to cluedo.GlobalRand.
	Rand cluedo.Rand
}

type Service struct {
	store           Store
	log             *slog.Logger
	rng             cluedo.Rand
	defaultLang     cluedo.Language
	leaderboardSize int
}

func NewService(st Store, logger *slog.Logger, cfg Config) *Service {
	s := &Service{
		store:           st,
		log:             logger,
		rng:             cfg.Rand,
		defaultLang:     cfg.DefaultLang,
		leaderboardSize: cfg.LeaderboardSize,
	}
	if s.rng == nil {
		s.rng = cluedo.GlobalRand{}
	}
	if !s.defaultLang.Valid() {
		s.defaultLang = cluedo.LangItalian
	}
	if s.leaderboardSize <= 0 {
		s.leaderboardSize = 20
	}
	return s
}

func (s *Service) resolveLang(lang string) (cluedo.Language, error) {
	if lang == "" {
		return s.defaultLang, nil
	}
	l := cluedo.Language(lang)
	if !l.Valid() {
		return "", cluedo.ErrInvalidLanguage
	}
	return l, nil
}
