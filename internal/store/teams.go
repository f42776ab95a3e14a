package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/playperu/scrumcluedo/internal/cluedo"
)

const teamColumns = `id, name, email, password_hash, total_score, is_admin, created_at`

// NewTeam holds the fields needed to register a team.
type NewTeam struct {
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

func scanTeam(row rowScanner) (cluedo.Team, error) {
	var t cluedo.Team
	var createdAt string
	err := row.Scan(&t.ID, &t.Name, &t.Email, &t.PasswordHash, &t.TotalScore, &t.IsAdmin, &createdAt)
	if err != nil {
		return t, err
	}
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func (s *SQLiteStore) CreateTeam(ctx context.Context, nt NewTeam) (cluedo.Team, error) {
	t, err := scanTeam(s.db.QueryRowContext(ctx, `
		INSERT INTO teams (id, name, email, password_hash, is_admin)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+teamColumns,
		uuid.NewString(), nt.Name, nt.Email, nt.PasswordHash, boolInt(nt.IsAdmin)))
	switch {
	case isUniqueViolation(err, "teams.email"):
		return t, cluedo.ErrDuplicateEmail
	case isUniqueViolation(err, "teams.name"):
		return t, cluedo.ErrDuplicateName
	case err != nil:
		return t, fmt.Errorf("inserting team: %w", err)
	}
	return t, nil
}

// UpsertAdmin creates the named team as an admin, or promotes it and resets
// its credentials when it already exists.
func (s *SQLiteStore) UpsertAdmin(ctx context.Context, nt NewTeam) (cluedo.Team, error) {
	t, err := scanTeam(s.db.QueryRowContext(ctx, `
		INSERT INTO teams (id, name, email, password_hash, is_admin)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET
			email = excluded.email,
			password_hash = excluded.password_hash,
			is_admin = 1
		RETURNING `+teamColumns,
		uuid.NewString(), nt.Name, nt.Email, nt.PasswordHash))
	if err != nil {
		return t, fmt.Errorf("upserting admin team: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) teamWhere(ctx context.Context, column, value string) (cluedo.Team, error) {
	t, err := scanTeam(s.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE `+column+` = ?`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return t, cluedo.ErrTeamNotFound
	}
	return t, err
}

func (s *SQLiteStore) TeamByID(ctx context.Context, id string) (cluedo.Team, error) {
	return s.teamWhere(ctx, "id", id)
}

func (s *SQLiteStore) TeamByName(ctx context.Context, name string) (cluedo.Team, error) {
	return s.teamWhere(ctx, "name", name)
}

func (s *SQLiteStore) TeamByEmail(ctx context.Context, email string) (cluedo.Team, error) {
	return s.teamWhere(ctx, "email", email)
}

// Leaderboard returns the top teams by total score.
func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]cluedo.Standing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, total_score
		FROM teams
		ORDER BY total_score DESC, name
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	standings := []cluedo.Standing{}
	for rows.Next() {
		var st cluedo.Standing
		if err := rows.Scan(&st.ID, &st.Name, &st.TotalScore); err != nil {
			return nil, fmt.Errorf("scanning standing: %w", err)
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}

// ClearLeaderboard deletes every play session and then every non-admin
// team. Admin teams keep their score.
func (s *SQLiteStore) ClearLeaderboard(ctx context.Context) (int, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM play_sessions`); err != nil {
			return fmt.Errorf("deleting play sessions: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE is_admin = 0`)
		if err != nil {
			return fmt.Errorf("deleting teams: %w", err)
		}
		n, _ = result.RowsAffected()
		return nil
	})
	return int(n), err
}
