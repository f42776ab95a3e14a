package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/playperu/scrumcluedo/internal/cluedo"
)

const caseColumns = `id, lang, title, story, hint,
	correct_location, explanation_location,
	correct_suspect, explanation_suspect,
	correct_weapon, explanation_weapon, created_at`

// CaseFilter narrows FindCases. Zero values mean "no constraint".
type CaseFilter struct {
	Lang        cluedo.Language
	ExcludeIDs  []string
	OldestFirst bool
}

func scanCase(row rowScanner) (cluedo.Case, error) {
	var c cluedo.Case
	var hint sql.NullString
	var createdAt string
	err := row.Scan(&c.ID, &c.Lang, &c.Title, &c.Story, &hint,
		&c.CorrectLocation, &c.ExplanationLocation,
		&c.CorrectSuspect, &c.ExplanationSuspect,
		&c.CorrectWeapon, &c.ExplanationWeapon, &createdAt)
	if err != nil {
		return c, err
	}
	if hint.Valid {
		c.Hint = &hint.String
	}
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

func (s *SQLiteStore) FindCases(ctx context.Context, f CaseFilter) ([]cluedo.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE 1 = 1`
	var args []any
	if f.Lang != "" {
		query += ` AND lang = ?`
		args = append(args, string(f.Lang))
	}
	if len(f.ExcludeIDs) > 0 {
		query += ` AND id NOT IN (` + placeholders(len(f.ExcludeIDs)) + `)`
		for _, id := range f.ExcludeIDs {
			args = append(args, id)
		}
	}
	if f.OldestFirst {
		query += ` ORDER BY created_at, rowid`
	} else {
		query += ` ORDER BY created_at DESC, rowid DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	cases := []cluedo.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (s *SQLiteStore) GetCase(ctx context.Context, id string) (cluedo.Case, error) {
	c, err := scanCase(s.db.QueryRowContext(ctx,
		`SELECT `+caseColumns+` FROM cases WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, cluedo.ErrCaseNotFound
	}
	return c, err
}

func insertCase(ctx context.Context, tx *sql.Tx, f cluedo.CaseFields) (cluedo.Case, error) {
	id := uuid.NewString()
	c, err := scanCase(tx.QueryRowContext(ctx, `
		INSERT INTO cases (id, lang, title, story, hint,
			correct_location, explanation_location,
			correct_suspect, explanation_suspect,
			correct_weapon, explanation_weapon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+caseColumns,
		id, string(f.Lang), f.Title, f.Story, nullString(f.Hint),
		f.CorrectLocation, f.ExplanationLocation,
		f.CorrectSuspect, f.ExplanationSuspect,
		f.CorrectWeapon, f.ExplanationWeapon))
	if err != nil {
		return c, fmt.Errorf("inserting case: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) CreateCase(ctx context.Context, f cluedo.CaseFields) (cluedo.Case, error) {
	var c cluedo.Case
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		c, err = insertCase(ctx, tx, f)
		return err
	})
	return c, err
}

// CreateCases inserts all cases or none of them.
func (s *SQLiteStore) CreateCases(ctx context.Context, fs []cluedo.CaseFields) (int, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, f := range fs {
			if _, err := insertCase(ctx, tx, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(fs), nil
}

// UpdateCase replaces every editable field. The language is part of the
// case's identity and is not updated.
func (s *SQLiteStore) UpdateCase(ctx context.Context, id string, f cluedo.CaseFields) (cluedo.Case, error) {
	c, err := scanCase(s.db.QueryRowContext(ctx, `
		UPDATE cases SET title = ?, story = ?, hint = ?,
			correct_location = ?, explanation_location = ?,
			correct_suspect = ?, explanation_suspect = ?,
			correct_weapon = ?, explanation_weapon = ?
		WHERE id = ?
		RETURNING `+caseColumns,
		f.Title, f.Story, nullString(f.Hint),
		f.CorrectLocation, f.ExplanationLocation,
		f.CorrectSuspect, f.ExplanationSuspect,
		f.CorrectWeapon, f.ExplanationWeapon, id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, cluedo.ErrCaseNotFound
	}
	if err != nil {
		return c, fmt.Errorf("updating case: %w", err)
	}
	return c, nil
}

// DeleteCase removes a case together with the play sessions that reference it.
func (s *SQLiteStore) DeleteCase(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM play_sessions WHERE case_id = ?`, id); err != nil {
			return fmt.Errorf("deleting case sessions: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting case: %w", err)
		}
		n, _ := result.RowsAffected()
		if n == 0 {
			return cluedo.ErrCaseNotFound
		}
		return nil
	})
}

// ClearCases deletes every play session and then every case.
func (s *SQLiteStore) ClearCases(ctx context.Context) (int, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM play_sessions`); err != nil {
			return fmt.Errorf("deleting play sessions: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM cases`)
		if err != nil {
			return fmt.Errorf("deleting cases: %w", err)
		}
		n, _ = result.RowsAffected()
		return nil
	})
	return int(n), err
}

func (s *SQLiteStore) CountCases(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&n)
	return n, err
}
