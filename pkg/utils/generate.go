package utils

import (
	"math/rand/v2"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// CodeGenerator produces confirmation codes.
type CodeGenerator interface {
	Generate() int64
}

// RandomCodeGenerator draws uniformly from [0, PinRange). Not a CSPRNG.
type RandomCodeGenerator struct {
	PinRange int64
}

func NewRandomCodeGenerator(pinRange int) RandomCodeGenerator {
	if pinRange < 1 {
		pinRange = 1000000
	}
	return RandomCodeGenerator{PinRange: int64(pinRange)}
}

func (g RandomCodeGenerator) Generate() int64 {
	return rand.Int64N(g.PinRange)
}

// HashCode hashes the decimal form of code for storage.
func HashCode(code int64) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(strconv.FormatInt(code, 10)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckCode reports whether the submitted code matches the stored hash.
func CheckCode(submitted string, hash *string) bool {
	if hash == nil || *hash == "" {
		return false
	}
	code, err := strconv.ParseInt(submitted, 10, 64)
	if err != nil || code < 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(strconv.FormatInt(code, 10))) == nil
}
