// Package auth provides authentication functionality.
// This file defines the request and response payloads for the auth endpoints.
package auth

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required" example:"John Doe"`
	Email    string `json:"email" validate:"required,email" example:"john@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"strongpassword123"`
}

// registerMessages maps failed fields to the client-facing validation messages.
var registerMessages = map[string]string{
	"name":     "Name is required",
	"email":    "Please include a valid email",
	"password": "Please enter a password with 6 or more characters",
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"john@example.com"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}

var loginMessages = map[string]string{
	"email":    "Please include a valid email",
	"password": "Password is required",
}

// TokenResponse carries the signed bearer token returned on registration and login.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// AuthUserResponse wraps the authenticated user for GET /api/auth.
type AuthUserResponse struct {
	User *User `json:"user"`
}
