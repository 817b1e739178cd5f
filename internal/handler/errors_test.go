package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichat/internal/domain"
	"aichat/internal/httputil"
)

type unavailableError struct{}

func (unavailableError) Error() string   { return "upstream credentials rejected" }
func (unavailableError) StatusCode() int { return http.StatusServiceUnavailable }

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "typed not found keeps its message",
			err:        &domain.NotFoundError{Message: "conversation abc not found"},
			wantStatus: http.StatusNotFound,
			wantDetail: "conversation abc not found",
		},
		{
			name:       "wrapped validation error",
			err:        fmt.Errorf("append: %w", &domain.ValidationError{Message: `invalid message role "tool"`}),
			wantStatus: http.StatusBadRequest,
			wantDetail: `invalid message role "tool"`,
		},
		{
			name:       "bare sentinel",
			err:        fmt.Errorf("lookup: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantDetail: "lookup: not found",
		},
		{
			name:       "server side status hides the message",
			err:        unavailableError{},
			wantStatus: http.StatusServiceUnavailable,
			wantDetail: "internal server error",
		},
		{
			name:       "unknown error",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "internal server error",
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, logger, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			var problem httputil.ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.wantDetail, problem.Detail)
		})
	}
}
