package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Hash  string `json:"passwordHash"`
	Role  string `json:"role"`
}

type Session struct {
	ID       string    `json:"_id"` // same value as the sid cookie
	UserID   string    `json:"userId"`
	LastSeen time.Time `json:"lastSeen"`
}
