package models

import "time"

// User is an account that owns investments and receives alerts.
type User struct {
	CreatedAt    time.Time `json:"createdAt"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	ID           int64     `json:"id"`
	Active       bool      `json:"active"`
}
