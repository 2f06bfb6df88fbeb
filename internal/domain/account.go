package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the base privilege of an account. Super-admin status is a separate
// flag on top of the admin role rather than a third role value, matching the
// stored shape: is_super_admin = true always implies Role = admin.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the two storable values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account is the canonical identity aggregate of the directory.
// It keeps only coordination-relevant state so authorization and ledger flows
// stay service-owned.
type Account struct {
	AccountID     uuid.UUID
	Email         string
	DisplayName   string
	Role          Role
	IsSuperAdmin  bool
	Strikes       int
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Credential is the single live password credential of an account.
// It is replaced, never appended, on password change; Hash carries the
// scheme tag in its prefix so the verifier can dispatch.
type Credential struct {
	AccountID uuid.UUID
	Scheme    string
	Hash      string
	UpdatedAt time.Time
}

// Credential scheme tags as persisted alongside the hash string.
const (
	SchemeArgon2id = "argon2id"
	SchemePBKDF2   = "pbkdf2-sha256"
)

// Session is an issued login session. Only the SHA-256 of the opaque token is
// persisted; expiry is evaluated lazily at resolution time.
type Session struct {
	SessionID uuid.UUID
	AccountID uuid.UUID
	TokenHash string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Principal is the identity and role snapshot taken when a session resolves.
// All authorization decisions take it as an explicit parameter.
type Principal struct {
	AccountID    uuid.UUID
	Role         Role
	IsSuperAdmin bool
}

// DailyRecord is one attendance/vote submission. The (AccountID, RecordDate)
// pair is unique, enforced by the storage engine, not only by application
// pre-checks.
type DailyRecord struct {
	ID         int64
	AccountID  uuid.UUID
	RecordDate string
	Status     string
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LoginAttempt records authentication outcomes for audit and lockout review.
type LoginAttempt struct {
	ID            int64
	AccountID     *uuid.UUID
	AttemptAt     time.Time
	IPAddress     string
	Status        string
	FailureReason string
	UserAgent     string
}
