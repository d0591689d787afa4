package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:     http.StatusBadRequest,
		CodeConflict:       http.StatusBadRequest,
		CodeAuthentication: http.StatusBadRequest,
		CodeNotFound:       http.StatusNotFound,
		CodePermission:     http.StatusForbidden,
		CodeAuthRequired:   http.StatusUnauthorized,
		CodeInternal:       http.StatusInternalServerError,
		Code("bogus"):      http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, code.HTTPStatus(), string(code))
	}
}

func TestCodeOfUnwrapsChains(t *testing.T) {
	base := NotFound("title not found")
	wrapped := fmt.Errorf("load title: %w", base)

	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.True(t, errors.Is(wrapped, New(CodeNotFound, "")))
	assert.False(t, errors.Is(wrapped, New(CodeConflict, "")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Internal("failed to save user", errors.New("connection reset"))
	assert.Equal(t, "failed to save user: connection reset", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "connection reset")
}
