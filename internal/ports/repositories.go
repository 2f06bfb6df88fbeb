package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall-service/internal/domain"
)

// CreateAccountTxParams captures atomic account-creation inputs.
// Account and credential rows are written in one transaction so a
// half-created account with no working credential is never observable.
type CreateAccountTxParams struct {
	Email         string
	DisplayName   string
	Role          domain.Role
	IsSuperAdmin  bool
	EmailVerified bool
	CreatedAtUTC  time.Time
}

// AccountFilter narrows directory listings.
type AccountFilter struct {
	// Search matches name or email case-insensitively as a substring.
	Search string
	// Role filters exactly when non-empty.
	Role   domain.Role
	Limit  int
	Offset int
}

// AccountUpdate carries the fields a directory update may touch. Nil pointers
// leave the stored value untouched.
type AccountUpdate struct {
	Email         *string
	DisplayName   *string
	Strikes       *int
	EmailVerified *bool
	Role          *domain.Role
	IsSuperAdmin  *bool
	UpdatedAt     time.Time
}

// AccountRepository defines persistence operations for directory accounts.
// The transactional create and update methods exist to enforce
// account+credential consistency.
type AccountRepository interface {
	CreateWithCredentialTx(ctx context.Context, params CreateAccountTxParams, credential domain.Credential) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, accountID uuid.UUID) (domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	// UpdateWithCredentialTx applies the diff and, when credential is non-nil,
	// replaces the stored credential in the same transaction. A failed update
	// must leave the old credential in place.
	UpdateWithCredentialTx(ctx context.Context, accountID uuid.UUID, update AccountUpdate, credential *domain.Credential) (domain.Account, error)
	// Delete removes the account; credentials and sessions cascade.
	Delete(ctx context.Context, accountID uuid.UUID) error
}

// CredentialRepository manages the single live credential per account.
type CredentialRepository interface {
	GetByAccount(ctx context.Context, accountID uuid.UUID) (domain.Credential, error)
	// Replace swaps the stored credential for the account in place.
	Replace(ctx context.Context, credential domain.Credential) error
}

// SessionCreateParams captures metadata required to create a session record.
// Network fields are stored for auditability.
type SessionCreateParams struct {
	AccountID uuid.UUID
	TokenHash string
	IPAddress string
	UserAgent string
	ExpiresAt time.Time
}

// SessionRepository manages persistent session lifecycle. Expired rows are
// not swept; expiry is evaluated lazily at resolution time.
type SessionRepository interface {
	Create(ctx context.Context, params SessionCreateParams) (domain.Session, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}

// RecordFilter narrows administrative ledger listings.
type RecordFilter struct {
	// AccountID scopes to one account when non-nil.
	AccountID *uuid.UUID
	// FromDate/ToDate bound record_date inclusively when non-empty (YYYY-MM-DD).
	FromDate string
	ToDate   string
	Limit    int
	Offset   int
}

// RecordWithAccount is the admin read model joining submitter identity.
type RecordWithAccount struct {
	Record      domain.DailyRecord
	Email       string
	DisplayName string
}

// DailyRecordRepository owns the per-day submission ledger. Insert relies on
// the storage unique constraint on (account_id, record_date): concurrent
// submissions race at the index, not at an application pre-check.
type DailyRecordRepository interface {
	Insert(ctx context.Context, record domain.DailyRecord) (domain.DailyRecord, error)
	ExistsForDate(ctx context.Context, accountID uuid.UUID, recordDate string) (bool, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.DailyRecord, error)
	ListAll(ctx context.Context, filter RecordFilter) ([]RecordWithAccount, error)
	// CountInWindow returns per-account record counts with record_date in
	// [fromDate, toDate]. Accounts without records are absent from the map.
	CountInWindow(ctx context.Context, accountIDs []uuid.UUID, fromDate, toDate string) (map[uuid.UUID]int, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, fromDate, toDate string) (int, error)
}

// LoginAttemptRepository stores login outcomes used by lockout review and
// the admin audit surface.
type LoginAttemptRepository interface {
	Insert(ctx context.Context, attempt domain.LoginAttempt) error
	List(ctx context.Context, limit, offset int, since *time.Time, status string) ([]domain.LoginAttempt, error)
}
