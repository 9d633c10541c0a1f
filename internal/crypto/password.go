package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
	"unicode"
)

const (
	upperSet  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerSet  = "abcdefghijkmnopqrstuvwxyz"
	digitSet  = "23456789"
	symbolSet = "!@#$%^&*-_=+?"

	// MinPasswordLength is the shortest sub-admin password the API accepts.
	MinPasswordLength = 8
	// SuggestedLength is the length of generated passwords.
	SuggestedLength = 14
)

var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordComplexity = errors.New("password must contain uppercase, lowercase, and number")
)

// CheckPasswordPolicy enforces the sub-admin password rule: at least eight
// characters with an uppercase letter, a lowercase letter and a digit.
func CheckPasswordPolicy(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrPasswordComplexity
	}
	return nil
}

// SuggestPassword returns a random password that satisfies
// CheckPasswordPolicy. Look-alike characters are left out so the operator can
// read it out to the new sub-admin.
func SuggestPassword() (string, error) {
	required := []string{upperSet, lowerSet, digitSet, symbolSet}
	pool := upperSet + lowerSet + digitSet + symbolSet

	out := make([]byte, 0, SuggestedLength)
	for _, set := range required {
		ch, err := pick(set)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	for len(out) < SuggestedLength {
		ch, err := pick(pool)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	// Fisher-Yates so the required characters are not always in front.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
