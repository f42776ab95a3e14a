package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/playperu/scrumcluedo/internal/cluedo"
)

func (s *SQLiteStore) CreateResetToken(ctx context.Context, t cluedo.PasswordResetToken) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (token, team_id, expires_at)
		VALUES (?, ?, ?)
	`, t.Token, t.TeamID, formatTime(t.ExpiresAt))
	if err != nil {
		return fmt.Errorf("inserting reset token: %w", err)
	}
	return nil
}

// ResetToken looks a token up without checking its expiry.
func (s *SQLiteStore) ResetToken(ctx context.Context, token string) (cluedo.PasswordResetToken, error) {
	t := cluedo.PasswordResetToken{Token: token}
	var expiresAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT team_id, expires_at FROM password_reset_tokens WHERE token = ?
	`, token).Scan(&t.TeamID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return t, cluedo.ErrTokenNotFound
	}
	if err != nil {
		return t, err
	}
	t.ExpiresAt = parseTime(expiresAt)
	return t, nil
}

// ResetPassword sets a new password hash and deletes every reset token of
// the team, atomically.
func (s *SQLiteStore) ResetPassword(ctx context.Context, teamID, passwordHash string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE teams SET password_hash = ? WHERE id = ?`, passwordHash, teamID)
		if err != nil {
			return fmt.Errorf("updating password: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return cluedo.ErrTeamNotFound
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM password_reset_tokens WHERE team_id = ?`, teamID); err != nil {
			return fmt.Errorf("deleting reset tokens: %w", err)
		}
		return nil
	})
}

// Revoke records a session token id as unusable until it would have expired.
func (s *SQLiteStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)
		ON CONFLICT(jti) DO NOTHING
	`, jti, formatTime(expiresAt))
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	// Entries past their expiry no longer matter. The revocation above is
	// already durable, so a failed purge is only logged.
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, formatTime(time.Now())); err != nil {
		s.log.Warn("purging expired revoked tokens", "error", err)
	}
	return nil
}

func (s *SQLiteStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM revoked_tokens WHERE jti = ?`, jti).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
