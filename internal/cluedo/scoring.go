package cluedo

// PointsPerField is awarded for each of location, suspect and weapon that
// matches the case.
const PointsPerField = 10

// Accusation is a team's answer to a case.
type Accusation struct {
	Location string `json:"location"`
	Suspect  string `json:"suspect"`
	Weapon   string `json:"weapon"`
}

// Verdict is the per-field outcome of an accusation.
type Verdict struct {
	IsCorrectLocation bool
	IsCorrectSuspect  bool
	IsCorrectWeapon   bool
}

// Score is always 0, 10, 20 or 30.
func (v Verdict) Score() int {
	score := 0
	for _, ok := range []bool{v.IsCorrectLocation, v.IsCorrectSuspect, v.IsCorrectWeapon} {
		if ok {
			score += PointsPerField
		}
	}
	return score
}

// Judge compares an accusation with the case solution. Comparison is exact
// and case sensitive.
func Judge(c Case, a Accusation) Verdict {
	return Verdict{
		IsCorrectLocation: a.Location == c.CorrectLocation,
		IsCorrectSuspect:  a.Suspect == c.CorrectSuspect,
		IsCorrectWeapon:   a.Weapon == c.CorrectWeapon,
	}
}

// ScoreResult is everything a client needs to render feedback after a
// submission.
type ScoreResult struct {
	IsCorrectLocation   bool   `json:"isCorrectLocation"`
	IsCorrectSuspect    bool   `json:"isCorrectSuspect"`
	IsCorrectWeapon     bool   `json:"isCorrectWeapon"`
	CorrectLocation     string `json:"correctLocation"`
	ExplanationLocation string `json:"explanationLocation"`
	CorrectSuspect      string `json:"correctSuspect"`
	ExplanationSuspect  string `json:"explanationSuspect"`
	CorrectWeapon       string `json:"correctWeapon"`
	ExplanationWeapon   string `json:"explanationWeapon"`
	ScoreAwarded        int    `json:"scoreAwarded"`
	TotalScore          int    `json:"totalScore"`
}

func NewScoreResult(c Case, v Verdict, totalScore int) ScoreResult {
	return ScoreResult{
		IsCorrectLocation:   v.IsCorrectLocation,
		IsCorrectSuspect:    v.IsCorrectSuspect,
		IsCorrectWeapon:     v.IsCorrectWeapon,
		CorrectLocation:     c.CorrectLocation,
		ExplanationLocation: c.ExplanationLocation,
		CorrectSuspect:      c.CorrectSuspect,
		ExplanationSuspect:  c.ExplanationSuspect,
		CorrectWeapon:       c.CorrectWeapon,
		ExplanationWeapon:   c.ExplanationWeapon,
		ScoreAwarded:        v.Score(),
		TotalScore:          totalScore,
	}
}
