package domain

import "time"

// User is an opaque identity record. Authentication and password hashing
// live outside this service; PasswordHash is stored but never verified here.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
