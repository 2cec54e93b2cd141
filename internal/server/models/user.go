// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered staff member. Email is unique and compared
// case-sensitively as stored.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
