package game

import (
	"context"
	"fmt"

	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/store"
)

// AssignCase picks, uniformly at random, a case in lang that the team has
// never submitted an answer for. An empty lang means the default language.
// When every case of the language has been played it returns
// cluedo.ErrNoCasesAvailable.
func (s *Service) AssignCase(ctx context.Context, teamID, lang string) (cluedo.Case, error) {
	l, err := s.resolveLang(lang)
	if err != nil {
		return cluedo.Case{}, err
	}

	played, err := s.store.PlayedCaseIDs(ctx, teamID)
	if err != nil {
		return cluedo.Case{}, fmt.Errorf("loading played cases: %w", err)
	}
	candidates, err := s.store.FindCases(ctx, store.CaseFilter{Lang: l, ExcludeIDs: played})
	if err != nil {
		return cluedo.Case{}, fmt.Errorf("loading candidate cases: %w", err)
	}
	if len(candidates) == 0 {
		return cluedo.Case{}, cluedo.ErrNoCasesAvailable
	}
	return candidates[s.rng.IntN(len(candidates))], nil
}

// Options returns the shuffled answer choices for c.
func (s *Service) Options(c cluedo.Case) cluedo.Options {
	return cluedo.OptionsFor(c, s.rng)
}

// SubmitAnswer scores an accusation, records the play session and adds the
// score to the team, all or nothing. A team answers each case once.
func (s *Service) SubmitAnswer(ctx context.Context, teamID, caseID string, a cluedo.Accusation) (cluedo.ScoreResult, error) {
	if _, err := s.store.TeamByID(ctx, teamID); err != nil {
		return cluedo.ScoreResult{}, err
	}
	c, err := s.store.GetCase(ctx, caseID)
	if err != nil {
		return cluedo.ScoreResult{}, err
	}

	v := cluedo.Judge(c, a)
	_, total, err := s.store.RecordPlay(ctx, cluedo.PlaySession{
		TeamID:            teamID,
		CaseID:            caseID,
		IsCorrectLocation: v.IsCorrectLocation,
		IsCorrectSuspect:  v.IsCorrectSuspect,
		IsCorrectWeapon:   v.IsCorrectWeapon,
		ScoreAwarded:      v.Score(),
	})
	if err != nil {
		return cluedo.ScoreResult{}, err
	}

	s.log.Info("answer scored",
		"team_id", teamID,
		"case_id", caseID,
		"score", v.Score(),
		"total", total,
	)
	return cluedo.NewScoreResult(c, v, total), nil
}

// History lists the team's answered cases, oldest first.
func (s *Service) History(ctx context.Context, teamID string) ([]cluedo.PlaySession, error) {
	plays, err := s.store.ListPlays(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("loading play history: %w", err)
	}
	return plays, nil
}

// Leaderboard returns the top teams by total score.
func (s *Service) Leaderboard(ctx context.Context) ([]cluedo.Standing, error) {
	return s.store.Leaderboard(ctx, s.leaderboardSize)
}
