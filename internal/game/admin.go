package game

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/store"
	"github.com/playperu/scrumcluedo/internal/validate"
)

// caseRules are the constraints an editor-submitted case must satisfy.
type caseRules struct {
	Lang            string `json:"lang" validate:"required,oneof=it en"`
	Title           string `json:"title" validate:"required,max=200"`
	Story           string `json:"story" validate:"required"`
	CorrectLocation string `json:"correctLocation" validate:"required"`
	CorrectSuspect  string `json:"correctSuspect" validate:"required"`
	CorrectWeapon   string `json:"correctWeapon" validate:"required"`
}

// normalize trims text fields and fills the defaults an empty field stands
// for.
func (s *Service) normalize(f cluedo.CaseFields) cluedo.CaseFields {
	f.Lang = cluedo.Language(strings.TrimSpace(string(f.Lang)))
	if f.Lang == "" {
		f.Lang = s.defaultLang
	}
	f.Title = strings.TrimSpace(f.Title)
	f.Story = strings.TrimSpace(f.Story)
	f.CorrectLocation = strings.TrimSpace(f.CorrectLocation)
	f.CorrectSuspect = strings.TrimSpace(f.CorrectSuspect)
	f.CorrectWeapon = strings.TrimSpace(f.CorrectWeapon)
	f.ExplanationLocation = orDefault(f.ExplanationLocation)
	f.ExplanationSuspect = orDefault(f.ExplanationSuspect)
	f.ExplanationWeapon = orDefault(f.ExplanationWeapon)
	if f.Hint != nil {
		h := strings.TrimSpace(*f.Hint)
		if h == "" {
			f.Hint = nil
		} else {
			f.Hint = &h
		}
	}
	return f
}

func orDefault(explanation string) string {
	if e := strings.TrimSpace(explanation); e != "" {
		return e
	}
	return cluedo.DefaultExplanation
}

func checkCase(f cluedo.CaseFields) error {
	return validate.Struct(caseRules{
		Lang:            string(f.Lang),
		Title:           f.Title,
		Story:           f.Story,
		CorrectLocation: f.CorrectLocation,
		CorrectSuspect:  f.CorrectSuspect,
		CorrectWeapon:   f.CorrectWeapon,
	})
}

// ListCases returns the catalog newest first, optionally for one language.
func (s *Service) ListCases(ctx context.Context, lang string) ([]cluedo.Case, error) {
	var l cluedo.Language
	if lang != "" {
		l = cluedo.Language(lang)
		if !l.Valid() {
			return nil, cluedo.ErrInvalidLanguage
		}
	}
	return s.store.FindCases(ctx, store.CaseFilter{Lang: l})
}

func (s *Service) GetCase(ctx context.Context, id string) (cluedo.Case, error) {
	return s.store.GetCase(ctx, id)
}

func (s *Service) CreateCase(ctx context.Context, f cluedo.CaseFields) (cluedo.Case, error) {
	f = s.normalize(f)
	if err := checkCase(f); err != nil {
		return cluedo.Case{}, err
	}
	c, err := s.store.CreateCase(ctx, f)
	if err != nil {
		return c, err
	}
	s.log.Info("case created", "case_id", c.ID, "lang", c.Lang)
	return c, nil
}

// UpdateCase replaces the editable fields of a case. A case keeps the
// language it was created with.
func (s *Service) UpdateCase(ctx context.Context, id string, f cluedo.CaseFields) (cluedo.Case, error) {
	existing, err := s.store.GetCase(ctx, id)
	if err != nil {
		return existing, err
	}
	if f.Lang != "" && f.Lang != existing.Lang {
		return cluedo.Case{}, cluedo.Invalid("lang cannot be changed")
	}
	f.Lang = existing.Lang
	f = s.normalize(f)
	if err := checkCase(f); err != nil {
		return cluedo.Case{}, err
	}
	c, err := s.store.UpdateCase(ctx, id, f)
	if err != nil {
		return c, err
	}
	s.log.Info("case updated", "case_id", id)
	return c, nil
}

func (s *Service) DeleteCase(ctx context.Context, id string) error {
	if err := s.store.DeleteCase(ctx, id); err != nil {
		return err
	}
	s.log.Info("case deleted", "case_id", id)
	return nil
}

// ExportCases returns the whole catalog oldest first without ids or
// timestamps, ready to be imported elsewhere.
func (s *Service) ExportCases(ctx context.Context) ([]cluedo.CaseFields, error) {
	cases, err := s.store.FindCases(ctx, store.CaseFilter{OldestFirst: true})
	if err != nil {
		return nil, err
	}
	out := make([]cluedo.CaseFields, len(cases))
	for i, c := range cases {
		out[i] = c.Fields()
	}
	return out, nil
}

// ImportCases inserts a JSON array of case objects as new cases and reports
// how many were inserted. A body that is not an array is rejected. Entries
// that are not objects, lack a title or story, or name an unsupported
// language are skipped. Any id or createdAt in an entry is ignored.
func (s *Service) ImportCases(ctx context.Context, raw json.RawMessage) (int, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return 0, cluedo.Invalid("expected an array of cases")
	}

	batch := make([]cluedo.CaseFields, 0, len(entries))
	for _, e := range entries {
		f, ok := s.importEntry(e)
		if !ok {
			continue
		}
		batch = append(batch, f)
	}

	skipped := len(entries) - len(batch)
	if len(batch) == 0 {
		s.log.Info("cases imported", "count", 0, "skipped", skipped)
		return 0, nil
	}
	n, err := s.store.CreateCases(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("importing cases: %w", err)
	}
	s.log.Info("cases imported", "count", n, "skipped", skipped)
	return n, nil
}

func (s *Service) importEntry(raw json.RawMessage) (cluedo.CaseFields, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return cluedo.CaseFields{}, false
	}

	str := func(key string) string {
		v, _ := obj[key].(string)
		return v
	}
	f := cluedo.CaseFields{
		Lang:                cluedo.Language(str("lang")),
		Title:               str("title"),
		Story:               str("story"),
		CorrectLocation:     str("correctLocation"),
		ExplanationLocation: str("explanationLocation"),
		CorrectSuspect:      str("correctSuspect"),
		ExplanationSuspect:  str("explanationSuspect"),
		CorrectWeapon:       str("correctWeapon"),
		ExplanationWeapon:   str("explanationWeapon"),
	}
	if h, ok := obj["hint"].(string); ok {
		f.Hint = &h
	}

	f = s.normalize(f)
	if f.Title == "" || f.Story == "" || !f.Lang.Valid() {
		return f, false
	}
	return f, true
}

// ClearCases removes every play session and every case. Team scores are
// left as they are.
func (s *Service) ClearCases(ctx context.Context) (int, error) {
	n, err := s.store.ClearCases(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Warn("all cases cleared", "deleted", n)
	return n, nil
}

// ClearLeaderboard removes every play session and every non-admin team.
func (s *Service) ClearLeaderboard(ctx context.Context) (int, error) {
	n, err := s.store.ClearLeaderboard(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Warn("leaderboard cleared", "teams_deleted", n)
	return n, nil
}

// SeedCases imports cases when the catalog is empty and reports how many
// were inserted.
func (s *Service) SeedCases(ctx context.Context, raw json.RawMessage) (int, error) {
	count, err := s.store.CountCases(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting cases: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	return s.ImportCases(ctx, raw)
}
