package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash; VerificationCode is cleared once used.
type User struct {
	ID                    string
	Email                 string
	Name                  string
	Password              string
	IsVerified            bool
	VerificationCode      *string
	VerificationExpiresAt *time.Time
	CreditBalance         int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// CreditSnapshot is the cached view of a user's balance.
type CreditSnapshot struct {
	Credits int    `json:"credits"`
	Name    string `json:"name"`
}

func (u *User) Credits() CreditSnapshot {
	return CreditSnapshot{Credits: u.CreditBalance, Name: u.Name}
}
