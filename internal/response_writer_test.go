package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)
	assert.False(t, rw.Written())

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)

	assert.True(t, rw.Written())
	assert.Equal(t, http.StatusCreated, rw.Status())
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestResponseWriter_WriteImpliesOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	n, err := rw.Write([]byte(`{"id":"1"}`))
	require.NoError(t, err)
	_, err = rw.Write([]byte("\n"))
	require.NoError(t, err)

	assert.Equal(t, 10, n)
	assert.Equal(t, int64(11), rw.Size())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{\"id\":\"1\"}\n", rec.Body.String())

	// A late error status must not reach the client.
	rw.WriteHeader(http.StatusUnauthorized)
	assert.Equal(t, http.StatusOK, rw.Status())
}

func TestResponseWriter_HeadersDoNotCountAsWritten(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)
	rw.Header().Set("Set-Cookie", "taskmanager.session_token=abc")

	assert.False(t, rw.Written())
	assert.Equal(t, "taskmanager.session_token=abc", rec.Header().Get("Set-Cookie"))
}

func TestResponseWriter_FlushAndUnwrap(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	require.NoError(t, http.NewResponseController(rw).Flush())
	assert.True(t, rec.Flushed)
	assert.Same(t, rec, rw.Unwrap())
}
