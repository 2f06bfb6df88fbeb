package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated folds missing, unknown, and expired session tokens
	// into one shape so callers cannot tell which case occurred.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden signals an authenticated principal below the required tier.
	ErrForbidden = errors.New("forbidden")
	// ErrAccountLocked signals temporary lockout after repeated failed attempts.
	// This supports brute-force mitigation and a predictable user-facing response.
	ErrAccountLocked = errors.New("account locked")
	ErrInvalidInput  = errors.New("invalid input")
	// ErrEmailExists reports a case-insensitive email collision on create or update.
	ErrEmailExists = errors.New("email already registered")
	// ErrConflict reports a duplicate daily record for (account, date).
	ErrConflict = errors.New("conflict")
	// ErrSelfDeleteForbidden blocks a super admin from deleting their own account.
	// Without this guard the last super admin can lock the directory permanently.
	ErrSelfDeleteForbidden = errors.New("cannot delete own account")
	// ErrIdentitySpoof is returned when a submission payload carries its own
	// account identity field. Identity always comes from the resolved principal.
	ErrIdentitySpoof = errors.New("identity field not allowed in payload")
)
