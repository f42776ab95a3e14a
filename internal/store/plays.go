package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/playperu/scrumcluedo/internal/cluedo"
)

// PlayedCaseIDs lists every case the team has submitted an answer for, in
// any language.
func (s *SQLiteStore) PlayedCaseIDs(ctx context.Context, teamID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT case_id FROM play_sessions WHERE team_id = ?`, teamID)
	if err != nil {
		return nil, fmt.Errorf("querying played cases: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) ListPlays(ctx context.Context, teamID string) ([]cluedo.PlaySession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_id, case_id, is_correct_location, is_correct_suspect,
			is_correct_weapon, score_awarded, created_at
		FROM play_sessions
		WHERE team_id = ?
		ORDER BY created_at, rowid
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("querying play sessions: %w", err)
	}
	defer rows.Close()

	plays := []cluedo.PlaySession{}
	for rows.Next() {
		var p cluedo.PlaySession
		var createdAt string
		if err := rows.Scan(&p.ID, &p.TeamID, &p.CaseID, &p.IsCorrectLocation, &p.IsCorrectSuspect,
			&p.IsCorrectWeapon, &p.ScoreAwarded, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning play session: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// RecordPlay stores a play session and adds its score to the team in one
// transaction, returning the team's new total. A second submission for the
// same team and case fails with ErrAlreadyPlayed and changes nothing.
func (s *SQLiteStore) RecordPlay(ctx context.Context, p cluedo.PlaySession) (cluedo.PlaySession, int, error) {
	var total int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var createdAt string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO play_sessions (id, team_id, case_id,
				is_correct_location, is_correct_suspect, is_correct_weapon, score_awarded)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(team_id, case_id) DO NOTHING
			RETURNING id, created_at
		`, uuid.NewString(), p.TeamID, p.CaseID,
			boolInt(p.IsCorrectLocation), boolInt(p.IsCorrectSuspect), boolInt(p.IsCorrectWeapon),
			p.ScoreAwarded).Scan(&p.ID, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return cluedo.ErrAlreadyPlayed
		}
		if err != nil {
			return fmt.Errorf("inserting play session: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)

		// Increment in SQL so concurrent submissions never lose points.
		err = tx.QueryRowContext(ctx, `
			UPDATE teams SET total_score = total_score + ?
			WHERE id = ?
			RETURNING total_score
		`, p.ScoreAwarded, p.TeamID).Scan(&total)
		if errors.Is(err, sql.ErrNoRows) {
			return cluedo.ErrTeamNotFound
		}
		if err != nil {
			return fmt.Errorf("incrementing team score: %w", err)
		}
		return nil
	})
	return p, total, err
}
