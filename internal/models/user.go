package models

import "time"

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// User is the identity record consumed by the core for role checks.
type User struct {
	ID           string    `json:"id" db:"id" example:"6f1c2a9e-4c47-4d8e-9d0a-3b8c6f2f1b11"`
	Username     string    `json:"username" db:"username" example:"jdoe"`
	Email        string    `json:"email" db:"email" example:"user@example.com"`
	FullName     string    `json:"fullName" db:"full_name" example:"John Doe"`
	PasswordHash string    `json:"-" db:"password"`
	Role         Role      `json:"role" db:"role" example:"student"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
