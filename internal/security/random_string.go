package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// PasswordAlphabet leaves out characters that are easy to misread.
const PasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

const maxPasswordDraws = 64

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	errNoAcceptable   = errors.New("no acceptable password generated")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}

// RandomPassword draws from PasswordAlphabet until accept returns nil.
func RandomPassword(length int, accept func(string) error) (string, error) {
	for draw := 0; draw < maxPasswordDraws; draw++ {
		candidate, err := RandomString(length, PasswordAlphabet)
		if err != nil {
			return "", err
		}
		if accept == nil || accept(candidate) == nil {
			return candidate, nil
		}
	}
	return "", errNoAcceptable
}
