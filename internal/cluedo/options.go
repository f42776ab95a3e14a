package cluedo

import "math/rand/v2"

// Full option pools a player picks from.
var (
	Locations = []string{
		"Sprint Planning", "Daily Scrum", "Sprint Review", "Retrospective",
		"Refinement", "During Sprint",
		"Team Meeting", "Stakeholder Presentation", "Manager Review",
	}
	Suspects = []string{
		"PO", "Scrum Master", "DEV Team",
		"Stakeholder", "Manager", "CEO",
	}
	Weapons = []string{
		"Product Backlog", "Sprint Backlog", "Increment",
		"Definition of Done", "Sprint Goal", "Product Goal",
		"Jira Board", "Story Points", "Velocity",
		"Burndown Chart", "Sicurezza Psicologica (Mancanza di)", "Technical Debt",
	}
)

// Number of choices shown per category.
const (
	LocationChoices = 6
	SuspectChoices  = 4
	WeaponChoices   = 6
)

// Rand is the randomness the game needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// GlobalRand uses the concurrency-safe top-level math/rand/v2 source.
type GlobalRand struct{}

func (GlobalRand) IntN(n int) int                     { return rand.IntN(n) }
func (GlobalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// BuildOptions returns up to n distinct entries from pool, always including
// correct, in random order. correct is included even when it is not part of
// pool, so custom cases stay answerable.
func BuildOptions(pool []string, correct string, n int, rng Rand) []string {
	others := make([]string, 0, len(pool))
	seen := map[string]bool{correct: true}
	for _, o := range pool {
		if !seen[o] {
			seen[o] = true
			others = append(others, o)
		}
	}
	rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	if n < 1 {
		n = 1
	}
	if n-1 < len(others) {
		others = others[:n-1]
	}
	picked := append([]string{correct}, others...)
	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return picked
}

// Options are the answer choices rendered for one case.
type Options struct {
	Locations []string `json:"locations"`
	Suspects  []string `json:"suspects"`
	Weapons   []string `json:"weapons"`
}

func OptionsFor(c Case, rng Rand) Options {
	return Options{
		Locations: BuildOptions(Locations, c.CorrectLocation, LocationChoices, rng),
		Suspects:  BuildOptions(Suspects, c.CorrectSuspect, SuspectChoices, rng),
		Weapons:   BuildOptions(Weapons, c.CorrectWeapon, WeaponChoices, rng),
	}
}
