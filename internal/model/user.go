package model

import "time"

// Roles stored in users.role and carried in the JWT "role" claim.
const (
	RoleOrganizer = "ORGANIZER"
	RoleCustomer  = "CUSTOMER"
)

// User mirrors the 'users' table. The ticketing core trusts the
// (callerId, role) pair the auth middleware extracts from the JWT.
type User struct {
	ID           uint64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
