package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"yamdb/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
		level   zapcore.Level
	}{
		{
			name:    "validation carries fields",
			err:     apperr.Validation("Validation failed", map[string]string{"slug": "required"}),
			status:  http.StatusBadRequest,
			message: "Validation failed",
			level:   zapcore.WarnLevel,
		},
		{
			name:    "wrapped not found",
			err:     fmt.Errorf("load: %w", apperr.NotFound("Title not found")),
			status:  http.StatusNotFound,
			message: "Title not found",
			level:   zapcore.WarnLevel,
		},
		{
			name:    "internal hides cause",
			err:     apperr.Internal("Failed to save", errors.New("pq: connection reset")),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
			level:   zapcore.ErrorLevel,
		},
		{
			name:    "untyped error",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
			level:   zapcore.ErrorLevel,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			rec := httptest.NewRecorder()

			writeServiceError(rec, zap.New(core), tc.err, "test op")

			assert.Equal(t, tc.status, rec.Code)

			var body struct {
				Status  bool              `json:"status"`
				Message string            `json:"message"`
				Errors  map[string]string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Status)
			assert.Equal(t, tc.message, body.Message)
			assert.NotContains(t, rec.Body.String(), "connection reset")

			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tc.level, logs.All()[0].Level)
		})
	}
}

func TestPageFromQuery(t *testing.T) {
	page := pageFromQuery(url.Values{"page": {"3"}, "per_page": {"25"}})
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 25, page.PerPage)

	page = pageFromQuery(url.Values{"page": {"-1"}, "per_page": {"x"}})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PerPage)
}

func TestOptionalQuery(t *testing.T) {
	query := url.Values{"search": {"drama"}, "empty": {""}}

	require.NotNil(t, optionalQuery(query, "search"))
	assert.Equal(t, "drama", *optionalQuery(query, "search"))
	assert.Nil(t, optionalQuery(query, "empty"))
	assert.Nil(t, optionalQuery(query, "missing"))
}
