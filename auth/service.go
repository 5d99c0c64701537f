// Package auth is responsible for registration, login, token issuance and
// verification, and the request middleware that gates protected routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/db"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// AuthService provides registration, login and authenticated-user lookup.
type AuthService struct {
	db     db.Querier
	tokens *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(db db.Querier, tokens *TokenService) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// invalidCredentials builds the login failure response. The same error is
// returned for an unknown email and a wrong password so the API cannot be
// used to enumerate accounts.
func invalidCredentials() *apperror.AppError {
	return apperror.NewBadRequestError("Invalid Credentials", nil).
		WithFields(apperror.FieldError{Msg: "Invalid Credentials"})
}

// Register creates a new user and returns a signed token for it.
// The email existence check runs immediately before the insert; the unique
// constraint on users.email backstops the inherent race between the two.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.emailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to check existing user", err)
	}
	if exists {
		return nil, apperror.NewConflictError("User already exists", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name:           req.Name,
		Email:          email,
		HashedPassword: string(hashedPassword),
		Avatar:         GravatarURL(email),
	}

	if err := s.createUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("User already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}
	return &TokenResponse{Token: token}, nil
}

// Login authenticates a user by email and password and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.getUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalidCredentials()
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, invalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}
	return &TokenResponse{Token: token}, nil
}

// GetUser retrieves a user by id, without the password hash populated.
func (s *AuthService) GetUser(ctx context.Context, userID int) (*User, error) {
	var user User
	query := `SELECT id, name, email, avatar, created_at FROM users WHERE id = $1`
	err := s.db.QueryRow(ctx, query, userID).Scan(&user.ID, &user.Name, &user.Email, &user.Avatar, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("User not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return &user, nil
}

func (s *AuthService) emailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (s *AuthService) createUser(ctx context.Context, user *User) error {
	query := `INSERT INTO users (name, email, password, avatar)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	return s.db.QueryRow(ctx, query, user.Name, user.Email, user.HashedPassword, user.Avatar).
		Scan(&user.ID, &user.CreatedAt)
}

func (s *AuthService) getUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, name, email, password, avatar, created_at FROM users WHERE email = $1`
	err := s.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.Avatar, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
