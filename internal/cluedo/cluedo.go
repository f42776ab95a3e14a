// Package cluedo defines the core domain types of the game and the rules
// that do not need storage: scoring an accusation and building the answer
// options shown to a player. It has zero external dependencies.
package cluedo

import "time"

type Language string

const (
	LangItalian Language = "it"
	LangEnglish Language = "en"
)

// SupportedLanguages lists the language tags that partition the case catalog.
var SupportedLanguages = []Language{LangItalian, LangEnglish}

func (l Language) Valid() bool {
	for _, s := range SupportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}

// Case is one mystery of the catalog. A translated case is a separate Case
// with its own ID.
type Case struct {
	ID                  string    `json:"id"`
	Lang                Language  `json:"lang"`
	Title               string    `json:"title"`
	Story               string    `json:"story"`
	Hint                *string   `json:"hint"`
	CorrectLocation     string    `json:"correctLocation"`
	ExplanationLocation string    `json:"explanationLocation"`
	CorrectSuspect      string    `json:"correctSuspect"`
	ExplanationSuspect  string    `json:"explanationSuspect"`
	CorrectWeapon       string    `json:"correctWeapon"`
	ExplanationWeapon   string    `json:"explanationWeapon"`
	CreatedAt           time.Time `json:"createdAt"`
}

// CaseFields is a Case without its storage identity. It is the portable
// shape used for create, update, export and import.
type CaseFields struct {
	Lang                Language `json:"lang"`
	Title               string   `json:"title"`
	Story               string   `json:"story"`
	Hint                *string  `json:"hint"`
	CorrectLocation     string   `json:"correctLocation"`
	ExplanationLocation string   `json:"explanationLocation"`
	CorrectSuspect      string   `json:"correctSuspect"`
	ExplanationSuspect  string   `json:"explanationSuspect"`
	CorrectWeapon       string   `json:"correctWeapon"`
	ExplanationWeapon   string   `json:"explanationWeapon"`
}

func (c Case) Fields() CaseFields {
	return CaseFields{
		Lang:                c.Lang,
		Title:               c.Title,
		Story:               c.Story,
		Hint:                c.Hint,
		CorrectLocation:     c.CorrectLocation,
		ExplanationLocation: c.ExplanationLocation,
		CorrectSuspect:      c.CorrectSuspect,
		ExplanationSuspect:  c.ExplanationSuspect,
		CorrectWeapon:       c.CorrectWeapon,
		ExplanationWeapon:   c.ExplanationWeapon,
	}
}

// DefaultExplanation fills explanation fields left empty by an editor or an
// imported file.
const DefaultExplanation = "-"

// Team is a registered account. TotalScore only grows, except when an admin
// clears the leaderboard.
type Team struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	TotalScore   int
	IsAdmin      bool
	CreatedAt    time.Time
}

type PlaySession struct {
	ID                string
	TeamID            string
	CaseID            string
	IsCorrectLocation bool
	IsCorrectSuspect  bool
	IsCorrectWeapon   bool
	ScoreAwarded      int
	CreatedAt         time.Time
}

// PasswordResetToken is single use: a successful reset deletes every token
// of the team.
type PasswordResetToken struct {
	Token     string
	TeamID    string
	ExpiresAt time.Time
}

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

// Standing is one leaderboard row.
type Standing struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalScore int    `json:"totalScore"`
}
