package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/devconnector-go/apperror"
)

func newMockAuthService(t *testing.T) (*AuthService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewAuthService(mock, newTestTokenService("test-secret", time.Hour)), mock
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "A", Email: "a@x.com", Password: "secret1",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())

	body, merr := json.Marshal(appErr.ToResponse())
	require.NoError(t, merr)
	assert.JSONEq(t, `{"errors":[{"msg":"User already exists"}]}`, string(body))
}

func TestRegisterDuplicateEmailRace(t *testing.T) {
	svc, mock := newMockAuthService(t)

	// The existence check passes, but a concurrent registration wins the
	// insert; the unique constraint reports the duplicate.
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "A", Email: "a@x.com", Password: "secret1",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
}

func TestHandleRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newMockAuthService(t)
	handlers := NewHandlers(svc)

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	req := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"name":"A","email":"a@x.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	handlers.HandleRegister()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"User already exists"}]}`, rec.Body.String())
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc, mock := newMockAuthService(t)

	// Unknown email.
	mock.ExpectQuery(`FROM users WHERE email`).WithArgs("missing@x.com").
		WillReturnError(pgx.ErrNoRows)
	_, unknownErr := svc.Login(context.Background(), LoginRequest{
		Email: "missing@x.com", Password: "whatever",
	})
	require.Error(t, unknownErr)

	// Known email, wrong password.
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery(`FROM users WHERE email`).WithArgs("known@x.com").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "name", "email", "password", "avatar", "created_at"},
		).AddRow(1, "A", "known@x.com", string(hash), "https://example.com/a.png", time.Now()))
	_, wrongErr := svc.Login(context.Background(), LoginRequest{
		Email: "known@x.com", Password: "wrong-password",
	})
	require.Error(t, wrongErr)

	// Both failures carry the same status and wire body, so the API cannot
	// be used to probe which emails are registered.
	unknownApp, ok := apperror.FromError(unknownErr)
	require.True(t, ok)
	wrongApp, ok := apperror.FromError(wrongErr)
	require.True(t, ok)

	assert.Equal(t, unknownApp.StatusCode(), wrongApp.StatusCode())
	assert.Equal(t, unknownApp.ToResponse(), wrongApp.ToResponse())
}
