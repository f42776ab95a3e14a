package cluedo

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func sprintGoalCase() Case {
	return Case{
		CorrectLocation: "Sprint Planning",
		CorrectSuspect:  "PO",
		CorrectWeapon:   "Sprint Goal",
	}
}

func TestJudge(t *testing.T) {
	tests := []struct {
		name      string
		a         Accusation
		want      Verdict
		wantScore int
	}{
		{
			name:      "two of three",
			a:         Accusation{Location: "Sprint Planning", Suspect: "PO", Weapon: "Jira Board"},
			want:      Verdict{IsCorrectLocation: true, IsCorrectSuspect: true},
			wantScore: 20,
		},
		{
			name:      "all correct",
			a:         Accusation{Location: "Sprint Planning", Suspect: "PO", Weapon: "Sprint Goal"},
			want:      Verdict{true, true, true},
			wantScore: 30,
		},
		{
			name:      "nothing right",
			a:         Accusation{Location: "Daily Scrum", Suspect: "CEO", Weapon: "Velocity"},
			want:      Verdict{},
			wantScore: 0,
		},
		{
			name:      "comparison is case sensitive",
			a:         Accusation{Location: "sprint planning", Suspect: "po", Weapon: "Sprint Goal"},
			want:      Verdict{IsCorrectWeapon: true},
			wantScore: 10,
		},
		{
			name:      "no trimming",
			a:         Accusation{Location: "Sprint Planning ", Suspect: "PO", Weapon: "Sprint Goal"},
			want:      Verdict{IsCorrectSuspect: true, IsCorrectWeapon: true},
			wantScore: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Judge(sprintGoalCase(), tt.a)
			if got != tt.want {
				t.Errorf("verdict = %+v, want %+v", got, tt.want)
			}
			if got.Score() != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score(), tt.wantScore)
			}
		})
	}
}

func TestScoreIsMultipleOfTen(t *testing.T) {
	for _, l := range []bool{false, true} {
		for _, s := range []bool{false, true} {
			for _, w := range []bool{false, true} {
				v := Verdict{l, s, w}
				n := 0
				for _, b := range []bool{l, s, w} {
					if b {
						n++
					}
				}
				if v.Score() != 10*n {
					t.Errorf("%+v: score = %d, want %d", v, v.Score(), 10*n)
				}
			}
		}
	}
}

func TestNewScoreResult(t *testing.T) {
	c := sprintGoalCase()
	c.ExplanationWeapon = "focus"
	res := NewScoreResult(c, Verdict{IsCorrectLocation: true}, 40)

	if res.ScoreAwarded != 10 || res.TotalScore != 40 {
		t.Errorf("score = %d total = %d, want 10 and 40", res.ScoreAwarded, res.TotalScore)
	}
	if res.CorrectWeapon != "Sprint Goal" || res.ExplanationWeapon != "focus" {
		t.Errorf("unexpected weapon feedback: %+v", res)
	}
}

func TestBuildOptions(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 50; i++ {
		got := BuildOptions(Weapons, "Sprint Goal", WeaponChoices, rng)
		if len(got) != WeaponChoices {
			t.Fatalf("len = %d, want %d", len(got), WeaponChoices)
		}
		if !slices.Contains(got, "Sprint Goal") {
			t.Fatalf("options %v missing correct answer", got)
		}
		seen := map[string]bool{}
		for _, o := range got {
			if seen[o] {
				t.Fatalf("duplicate option %q in %v", o, got)
			}
			seen[o] = true
		}
	}
}

func TestBuildOptionsCorrectOutsidePool(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	got := BuildOptions(Suspects, "Release Train Engineer", SuspectChoices, rng)
	if !slices.Contains(got, "Release Train Engineer") {
		t.Errorf("options %v missing custom correct answer", got)
	}
	if len(got) != SuspectChoices {
		t.Errorf("len = %d, want %d", len(got), SuspectChoices)
	}
}

func TestBuildOptionsSmallPool(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	got := BuildOptions([]string{"a", "b"}, "a", 6, rng)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestLanguageValid(t *testing.T) {
	for _, l := range []Language{"it", "en"} {
		if !l.Valid() {
			t.Errorf("%q should be valid", l)
		}
	}
	for _, l := range []Language{"", "de", "IT"} {
		if l.Valid() {
			t.Errorf("%q should be invalid", l)
		}
	}
}
