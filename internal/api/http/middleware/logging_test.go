package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftchat/driftchat-server/internal/testutil"
)

func TestLogging_Handle_PassesThrough(t *testing.T) {
	middleware := NewLogging(testutil.MakeNoopLogger())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/messages/users", nil)
	rec := httptest.NewRecorder()

	middleware.Handle(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	recorder := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	recorder.Write([]byte("body"))

	assert.Equal(t, http.StatusOK, recorder.status)
	assert.Equal(t, "body", rec.Body.String())
}

func TestStatusRecorder_RecordsFirstStatusOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	recorder := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	recorder.WriteHeader(http.StatusNotFound)
	recorder.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusNotFound, recorder.status)
}
