package profiles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithURLParam(t *testing.T, target, key, value string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetProfileByUserIDUnknownUser(t *testing.T) {
	svc, mock := newMockService(t)
	handlers := NewHandlers(svc)

	mock.ExpectQuery(`FROM profiles p`).WithArgs(42).
		WillReturnError(pgx.ErrNoRows)

	rec := httptest.NewRecorder()
	handlers.HandleGetProfileByUserID()(rec,
		requestWithURLParam(t, "/api/profile/user/42", "user_id", "42"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"User not found"}`, rec.Body.String())
}

func TestGetProfileByUserIDMalformedID(t *testing.T) {
	svc, mock := newMockService(t)
	handlers := NewHandlers(svc)

	rec := httptest.NewRecorder()
	handlers.HandleGetProfileByUserID()(rec,
		requestWithURLParam(t, "/api/profile/user/abc", "user_id", "abc"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"User not found"}`, rec.Body.String())
	// The malformed id never reaches the database.
	require.NoError(t, mock.ExpectationsWereMet())
}
