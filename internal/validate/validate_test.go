package validate

import (
	"testing"

	"github.com/playperu/scrumcluedo/internal/cluedo"
)

type signup struct {
	Nickname string `json:"nickname" validate:"required,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Lang     string `json:"lang" validate:"omitempty,oneof=it en"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   signup
		want string
	}{
		{"valid", signup{Nickname: "owls", Email: "owls@example.com", Password: "secret"}, ""},
		{"missing nickname", signup{Email: "owls@example.com", Password: "secret"}, "nickname is required"},
		{"bad email", signup{Nickname: "owls", Email: "nope", Password: "secret"}, "email must be a valid email address"},
		{"short password", signup{Nickname: "owls", Email: "owls@example.com", Password: "123"}, "password must be at least 6 characters"},
		{"bad lang", signup{Nickname: "owls", Email: "owls@example.com", Password: "secret", Lang: "fr"}, "lang must be one of [it en]"},
		{"two failures", signup{Password: "secret", Email: "owls@example.com", Lang: "de"}, "nickname is required; lang must be one of [it en]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %q, got nil", tt.want)
			}
			if !cluedo.IsValidation(err) {
				t.Errorf("expected validation error, got %T", err)
			}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}
