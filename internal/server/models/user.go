// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Email is unique.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
