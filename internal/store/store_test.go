package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/database"
	"github.com/playperu/scrumcluedo/internal/migrations"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return New(db)
}

func sampleCase(lang cluedo.Language, title string) cluedo.CaseFields {
	return cluedo.CaseFields{
		Lang:                lang,
		Title:               title,
		Story:               "A sprint went wrong.",
		CorrectLocation:     "Daily Stand-up",
		ExplanationLocation: "-",
		CorrectSuspect:      "Product Owner",
		ExplanationSuspect:  "-",
		CorrectWeapon:       "Scope Creep",
		ExplanationWeapon:   "-",
	}
}

func mustTeam(t *testing.T, s *SQLiteStore, name string, admin bool) cluedo.Team {
	t.Helper()
	team, err := s.CreateTeam(context.Background(), NewTeam{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		IsAdmin:      admin,
	})
	if err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return team
}

func mustCase(t *testing.T, s *SQLiteStore, lang cluedo.Language, title string) cluedo.Case {
	t.Helper()
	c, err := s.CreateCase(context.Background(), sampleCase(lang, title))
	if err != nil {
		t.Fatalf("create case %s: %v", title, err)
	}
	return c
}

func TestCaseCRUD(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	hint := "Look at the board"
	f := sampleCase(cluedo.LangEnglish, "The Lost Sprint")
	f.Hint = &hint
	c, err := s.CreateCase(ctx, f)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", c)
	}
	if c.Hint == nil || *c.Hint != hint {
		t.Errorf("expected hint %q, got %v", hint, c.Hint)
	}

	got, err := s.GetCase(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "The Lost Sprint" || got.Lang != cluedo.LangEnglish {
		t.Errorf("unexpected case: %+v", got)
	}

	f.Title = "The Found Sprint"
	f.Hint = nil
	f.Lang = cluedo.LangItalian
	updated, err := s.UpdateCase(ctx, c.ID, f)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "The Found Sprint" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if updated.Hint != nil {
		t.Errorf("expected hint cleared, got %q", *updated.Hint)
	}
	if updated.Lang != cluedo.LangEnglish {
		t.Errorf("lang must not change, got %q", updated.Lang)
	}

	if err := s.DeleteCase(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetCase(ctx, c.ID); !errors.Is(err, cluedo.ErrCaseNotFound) {
		t.Errorf("expected ErrCaseNotFound after delete, got %v", err)
	}
	if err := s.DeleteCase(ctx, c.ID); !errors.Is(err, cluedo.ErrCaseNotFound) {
		t.Errorf("expected ErrCaseNotFound on second delete, got %v", err)
	}
	if _, err := s.UpdateCase(ctx, "missing", f); !errors.Is(err, cluedo.ErrCaseNotFound) {
		t.Errorf("expected ErrCaseNotFound on update, got %v", err)
	}
}

func TestFindCases(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first := mustCase(t, s, cluedo.LangItalian, "uno")
	second := mustCase(t, s, cluedo.LangItalian, "due")
	mustCase(t, s, cluedo.LangEnglish, "one")

	tests := []struct {
		name   string
		filter CaseFilter
		want   []string
	}{
		{"all newest first", CaseFilter{}, []string{"one", "due", "uno"}},
		{"all oldest first", CaseFilter{OldestFirst: true}, []string{"uno", "due", "one"}},
		{"italian", CaseFilter{Lang: cluedo.LangItalian}, []string{"due", "uno"}},
		{"italian excluding played", CaseFilter{Lang: cluedo.LangItalian, ExcludeIDs: []string{first.ID}}, []string{"due"}},
		{"italian excluding all", CaseFilter{Lang: cluedo.LangItalian, ExcludeIDs: []string{first.ID, second.ID}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases, err := s.FindCases(ctx, tt.filter)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(cases) != len(tt.want) {
				t.Fatalf("expected %d cases, got %d", len(tt.want), len(cases))
			}
			for i, c := range cases {
				if c.Title != tt.want[i] {
					t.Errorf("case %d: expected %q, got %q", i, tt.want[i], c.Title)
				}
			}
		})
	}
}

func TestCreateCasesAndClear(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	n, err := s.CreateCases(ctx, []cluedo.CaseFields{
		sampleCase(cluedo.LangItalian, "a"),
		sampleCase(cluedo.LangEnglish, "b"),
	})
	if err != nil {
		t.Fatalf("create cases: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 created, got %d", n)
	}

	team := mustTeam(t, s, "alpha", false)
	cases, _ := s.FindCases(ctx, CaseFilter{})
	if _, _, err := s.RecordPlay(ctx, cluedo.PlaySession{TeamID: team.ID, CaseID: cases[0].ID, ScoreAwarded: 10}); err != nil {
		t.Fatalf("record play: %v", err)
	}

	deleted, err := s.ClearCases(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
	if count, _ := s.CountCases(ctx); count != 0 {
		t.Errorf("expected 0 cases, got %d", count)
	}
	if ids, _ := s.PlayedCaseIDs(ctx, team.ID); len(ids) != 0 {
		t.Errorf("expected sessions removed, got %v", ids)
	}

	// Team scores are left alone.
	got, _ := s.TeamByID(ctx, team.ID)
	if got.TotalScore != 10 {
		t.Errorf("expected score 10 preserved, got %d", got.TotalScore)
	}
}

func TestCreateTeamDuplicates(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	mustTeam(t, s, "alpha", false)

	_, err := s.CreateTeam(ctx, NewTeam{Name: "other", Email: "alpha@example.com", PasswordHash: "h"})
	if !errors.Is(err, cluedo.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
	_, err = s.CreateTeam(ctx, NewTeam{Name: "alpha", Email: "new@example.com", PasswordHash: "h"})
	if !errors.Is(err, cluedo.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestTeamLookups(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	team := mustTeam(t, s, "alpha", false)

	if got, err := s.TeamByName(ctx, "alpha"); err != nil || got.ID != team.ID {
		t.Errorf("by name: %+v, %v", got, err)
	}
	if got, err := s.TeamByEmail(ctx, "alpha@example.com"); err != nil || got.ID != team.ID {
		t.Errorf("by email: %+v, %v", got, err)
	}
	if _, err := s.TeamByID(ctx, "nope"); !errors.Is(err, cluedo.ErrTeamNotFound) {
		t.Errorf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestUpsertAdmin(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	existing := mustTeam(t, s, "admin", false)

	admin, err := s.UpsertAdmin(ctx, NewTeam{Name: "admin", Email: "root@example.com", PasswordHash: "new"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if admin.ID != existing.ID {
		t.Errorf("expected same team id, got %s vs %s", admin.ID, existing.ID)
	}
	if !admin.IsAdmin || admin.Email != "root@example.com" || admin.PasswordHash != "new" {
		t.Errorf("unexpected admin: %+v", admin)
	}
}

func TestRecordPlay(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	team := mustTeam(t, s, "alpha", false)
	c := mustCase(t, s, cluedo.LangEnglish, "case")

	play, total, err := s.RecordPlay(ctx, cluedo.PlaySession{
		TeamID: team.ID, CaseID: c.ID,
		IsCorrectLocation: true, IsCorrectSuspect: true,
		ScoreAwarded: 20,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if total != 20 {
		t.Errorf("expected total 20, got %d", total)
	}
	if play.ID == "" {
		t.Error("expected play id")
	}

	_, _, err = s.RecordPlay(ctx, cluedo.PlaySession{TeamID: team.ID, CaseID: c.ID, ScoreAwarded: 30})
	if !errors.Is(err, cluedo.ErrAlreadyPlayed) {
		t.Fatalf("expected ErrAlreadyPlayed, got %v", err)
	}
	got, _ := s.TeamByID(ctx, team.ID)
	if got.TotalScore != 20 {
		t.Errorf("replay must not change score, got %d", got.TotalScore)
	}

	plays, err := s.ListPlays(ctx, team.ID)
	if err != nil {
		t.Fatalf("list plays: %v", err)
	}
	if len(plays) != 1 || !plays[0].IsCorrectLocation || plays[0].IsCorrectWeapon {
		t.Errorf("unexpected plays: %+v", plays)
	}
}

func TestRecordPlayConcurrent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	team := mustTeam(t, s, "alpha", false)

	const n = 8
	var caseIDs []string
	for i := 0; i < n; i++ {
		caseIDs = append(caseIDs, mustCase(t, s, cluedo.LangEnglish, "case").ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, id := range caseIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _, err := s.RecordPlay(ctx, cluedo.PlaySession{TeamID: team.ID, CaseID: id, ScoreAwarded: 10})
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, _ := s.TeamByID(ctx, team.ID)
	if got.TotalScore != n*10 {
		t.Errorf("expected total %d, got %d", n*10, got.TotalScore)
	}
}

func TestLeaderboardAndClear(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	scores := map[string]int{"alpha": 10, "bravo": 30, "charlie": 20}
	for name, score := range scores {
		team := mustTeam(t, s, name, false)
		c := mustCase(t, s, cluedo.LangEnglish, name)
		if _, _, err := s.RecordPlay(ctx, cluedo.PlaySession{TeamID: team.ID, CaseID: c.ID, ScoreAwarded: score}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	mustTeam(t, s, "admin", true)

	board, err := s.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 || board[0].Name != "bravo" || board[1].Name != "charlie" {
		t.Errorf("unexpected board: %+v", board)
	}

	removed, err := s.ClearLeaderboard(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 teams removed, got %d", removed)
	}
	board, _ = s.Leaderboard(ctx, 20)
	if len(board) != 1 || board[0].Name != "admin" {
		t.Errorf("expected only admin left, got %+v", board)
	}
}

func TestResetTokens(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	team := mustTeam(t, s, "alpha", false)

	exp := time.Now().Add(time.Hour).Truncate(time.Millisecond)
	for _, tok := range []string{"tok-1", "tok-2"} {
		if err := s.CreateResetToken(ctx, cluedo.PasswordResetToken{Token: tok, TeamID: team.ID, ExpiresAt: exp}); err != nil {
			t.Fatalf("create token: %v", err)
		}
	}

	got, err := s.ResetToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.TeamID != team.ID || !got.ExpiresAt.Equal(exp) {
		t.Errorf("unexpected token: %+v", got)
	}

	if err := s.ResetPassword(ctx, team.ID, "newhash"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	for _, tok := range []string{"tok-1", "tok-2"} {
		if _, err := s.ResetToken(ctx, tok); !errors.Is(err, cluedo.ErrTokenNotFound) {
			t.Errorf("expected %s deleted, got %v", tok, err)
		}
	}
	updated, _ := s.TeamByID(ctx, team.ID)
	if updated.PasswordHash != "newhash" {
		t.Errorf("expected new hash, got %q", updated.PasswordHash)
	}
}

func TestRevokedTokens(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if revoked, err := s.IsRevoked(ctx, "jti-1"); err != nil || revoked {
		t.Fatalf("expected not revoked, got %v %v", revoked, err)
	}
	if err := s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke twice: %v", err)
	}
	if revoked, err := s.IsRevoked(ctx, "jti-1"); err != nil || !revoked {
		t.Errorf("expected revoked, got %v %v", revoked, err)
	}
}

func TestRevokeSurvivesPurgeFailure(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	var logs bytes.Buffer
	s.WithLogger(slog.New(slog.NewTextHandler(&logs, nil)))

	if _, err := s.db.ExecContext(ctx, `
		CREATE TRIGGER block_revoked_purge BEFORE DELETE ON revoked_tokens
		BEGIN SELECT RAISE(ABORT, 'purge blocked'); END
	`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if err := s.Revoke(ctx, "jti-stale", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("revoke stale: %v", err)
	}
	if err := s.Revoke(ctx, "jti-2", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("expected revoke to succeed when the purge fails, got %v", err)
	}
	if revoked, err := s.IsRevoked(ctx, "jti-2"); err != nil || !revoked {
		t.Errorf("expected revoked, got %v %v", revoked, err)
	}
	if !strings.Contains(logs.String(), "purging expired revoked tokens") {
		t.Errorf("expected purge failure to be logged, got %q", logs.String())
	}
}
