// Package posts manages posts and their embedded likes and comments lists.
// Author name and avatar are snapshotted onto posts and comments at write
// time, so a later rename never rewrites history.
package posts

import (
	"time"

	"github.com/google/uuid"
)

// Like records one user's like on a post. A post holds at most one like per
// user; the list is ordered newest-first.
type Like struct {
	User int `json:"user"`
}

// Comment is one entry of a post's comment list, with its own stable id and
// a snapshot of the commenter's name and avatar.
type Comment struct {
	ID     uuid.UUID `json:"id"`
	User   int       `json:"user"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

// Post is a user's post with its likes and comments, both newest-first.
type Post struct {
	ID       uuid.UUID `json:"id"`
	User     int       `json:"user"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Text     string    `json:"text"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
	Date     time.Time `json:"date"`
}
