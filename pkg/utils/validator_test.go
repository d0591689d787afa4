package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupPayload struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

type titlePayload struct {
	Year *int   `json:"year" validate:"omitempty,notfuture"`
	Slug string `json:"slug" validate:"omitempty,slug"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	errs := ValidateStruct(signupPayload{Username: "me", Email: "nope"})
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
}

func TestValidateStructUsername(t *testing.T) {
	assert.Nil(t, ValidateStruct(signupPayload{Username: "bob.smith+1@x", Email: "bob@x.com"}))
	assert.NotNil(t, ValidateStruct(signupPayload{Username: "bob smith", Email: "bob@x.com"}))
}

func TestValidateStructYearAndSlug(t *testing.T) {
	future := 3000
	past := 1999

	assert.Contains(t, ValidateStruct(titlePayload{Year: &future}), "year")
	assert.Nil(t, ValidateStruct(titlePayload{Year: &past, Slug: "sci-fi_2"}))
	assert.Contains(t, ValidateStruct(titlePayload{Slug: "sci fi"}), "slug")
}
