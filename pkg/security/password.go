// Package security contains everything related to the security of user data
package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a fixed cost. The cost must stay at
// 10 or above, anything below weakens stored hashes.
type PasswordHasher struct {
	Cost int
}

func New() *PasswordHasher {
	return &PasswordHasher{Cost: 12}
}

func (h *PasswordHasher) GenerateFromPassword(p string) (string, error) {
	if h.Cost < 10 {
		return "", errors.New("bcrypt cost too low")
	}

	b, err := bcrypt.GenerateFromPassword([]byte(p), h.Cost)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// VerifyPasswd compares a password p with the stored hash e. A mismatch
// is not an error, only broken hashes are.
func (h *PasswordHasher) VerifyPasswd(p, e string) (ok bool, err error) {
	err = bcrypt.CompareHashAndPassword([]byte(e), []byte(p))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, err
}
