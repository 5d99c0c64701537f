package auth

import "time"

// User represents a registered user.
// The password hash is excluded from JSON so it can never leak through an API
// response; the avatar URL is derived from the email at registration time.
type User struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Avatar         string    `json:"avatar"`
	CreatedAt      time.Time `json:"created_at"`
}
