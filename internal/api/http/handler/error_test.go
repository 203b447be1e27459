package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftchat/driftchat-server/internal/model"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("%w: message requires text or image", model.ErrValidation),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid request"}`,
		},
		{
			name:       "unauthorized",
			err:        fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"unauthorized"}`,
		},
		{
			name:       "not found",
			err:        model.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"not found"}`,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("failed to get message: %w", model.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"not found"}`,
		},
		{
			name:       "conflict",
			err:        fmt.Errorf("%w: email already registered", model.ErrConflict),
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"already exists"}`,
		},
		{
			name:       "store unavailable",
			err:        fmt.Errorf("%w: connection refused", model.ErrStoreUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"service unavailable"}`,
		},
		{
			name:       "unknown error hides detail",
			err:        errors.New("pq: secret internals"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
