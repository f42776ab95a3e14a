// Package seed fills an empty database with the bundled case catalog and
// makes sure the admin team exists.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/playperu/scrumcluedo/internal/cluedo"
	"github.com/playperu/scrumcluedo/internal/store"
)

//go:embed cases.json
var bundledCases []byte

// Cases returns the bundled catalog as a JSON array in import format.
func Cases() json.RawMessage { return bundledCases }

type CaseImporter interface {
	SeedCases(ctx context.Context, raw json.RawMessage) (int, error)
}

type AdminUpserter interface {
	UpsertAdmin(ctx context.Context, nt store.NewTeam) (cluedo.Team, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type Admin struct {
	Name     string
	Email    string
	Password string
}

// Run imports the bundled cases when the catalog is empty, then creates or
// refreshes the admin team. Safe to call on every start.
func Run(ctx context.Context, logger *slog.Logger, cases CaseImporter, teams AdminUpserter, hasher PasswordHasher, admin Admin) error {
	n, err := cases.SeedCases(ctx, Cases())
	if err != nil {
		return fmt.Errorf("seeding cases: %w", err)
	}
	if n > 0 {
		logger.Info("seeded case catalog", "count", n)
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	team, err := teams.UpsertAdmin(ctx, store.NewTeam{
		Name:         admin.Name,
		Email:        admin.Email,
		PasswordHash: hash,
		IsAdmin:      true,
	})
	if err != nil {
		return fmt.Errorf("upserting admin team: %w", err)
	}
	logger.Info("admin team ready", "team_id", team.ID, "name", team.Name)
	return nil
}
