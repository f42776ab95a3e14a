package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/scrumcluedo/internal/cluedo"
)

type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher returns a bcrypt hasher. A cost outside bcrypt's range falls
// back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not a real password"), cost)
	return &Hasher{cost: cost, dummy: dummy}
}

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, not
// characters.
const MaxPasswordBytes = 72

var errPasswordTooLong = cluedo.Invalid("password must be at most 72 bytes")

// Hash rejects passwords longer than MaxPasswordBytes with a validation
// error.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", errPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Compare returns cluedo.ErrInvalidCredentials when password does not
// match hash.
func (h *Hasher) Compare(hash, password string) error {
	if len(password) > MaxPasswordBytes {
		h.CompareDummy(password[:MaxPasswordBytes])
		return cluedo.ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return cluedo.ErrInvalidCredentials
	}
	return err
}

// CompareDummy spends the same time as a real comparison. Call it when the
// account does not exist so lookups cannot be told apart by timing.
func (h *Hasher) CompareDummy(password string) {
	if len(password) > MaxPasswordBytes {
		password = password[:MaxPasswordBytes]
	}
	bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
