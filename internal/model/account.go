// Package model defines the data structures used throughout the application.
package model

import (
	"strings"
	"time"
)

// Role is the access level of an account. There are exactly two levels:
// students use the portal, admins additionally manage its content.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole maps arbitrary input to a valid role, defaulting to student.
// Only the exact string "admin" grants admin; anything else is a student.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleStudent
}

// Account represents one person's login identity and profile.
//
// Emails are stored normalized (trimmed, lowercased) and are unique per account.
// StudentNumber is unique across accounts when set; it stays empty until an
// admin assigns one or the student completes their profile.
//
// The two lifecycle flags are independent booleans, not an enum:
// an admin-created account starts with MustChangePassword, a Google-created
// account starts with MustCompleteProfile, and an admin password reset can set
// MustChangePassword on an account that still has MustCompleteProfile pending.
// Both can therefore be true at once.
type Account struct {
	ID           int64  `json:"id"            db:"id"`
	Email        string `json:"email"         db:"email"`
	PasswordHash string `json:"-"             db:"password_hash"` // never serialized
	Role         Role   `json:"role"          db:"role"`

	FirstName     string `json:"first_name"     db:"first_name"`
	MiddleName    string `json:"middle_name"    db:"middle_name"`
	LastName      string `json:"last_name"      db:"last_name"`
	StudentNumber string `json:"student_number" db:"student_number"`
	College       string `json:"college"        db:"college"`
	Major         string `json:"major"          db:"major"`
	Phone         string `json:"phone"          db:"phone"`

	MustChangePassword  bool `json:"must_change_password"  db:"must_change_password"`
	MustCompleteProfile bool `json:"must_complete_profile" db:"must_complete_profile"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DisplayName returns "First Last" when a first name is set, otherwise the
// email address. Google-created accounts may have only a first name.
func (a *Account) DisplayName() string {
	if a.FirstName == "" {
		return a.Email
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
// Every code path that touches an email goes through this, so an account
// registered as "S@Stu.Example.edu" is found by "s@stu.example.edu".
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
