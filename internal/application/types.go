package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall-service/internal/domain"
)

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type PrincipalView struct {
	AccountID    uuid.UUID `json:"account_id"`
	Role         string    `json:"role"`
	IsSuperAdmin bool      `json:"is_super_admin"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Principal PrincipalView `json:"principal"`
}

type CreateAccountRequest struct {
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// UpdateAccountRequest uses pointers so the handler can distinguish absent
// fields from zero values; only the present ones form the diff.
type UpdateAccountRequest struct {
	Email         *string `json:"email"`
	DisplayName   *string `json:"display_name"`
	Password      *string `json:"password"`
	Strikes       *int    `json:"strikes"`
	EmailVerified *bool   `json:"email_verified"`
	Role          *string `json:"role"`
	IsSuperAdmin  *bool   `json:"is_super_admin"`
}

type ListAccountsQuery struct {
	Search string
	Role   string
	Limit  int
	Offset int
}

type AccountItem struct {
	AccountID     uuid.UUID `json:"account_id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	Role          string    `json:"role"`
	IsSuperAdmin  bool      `json:"is_super_admin"`
	Strikes       int       `json:"strikes"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	// RecentActivityCount is derived at read time from the daily ledger;
	// it is never stored on the account.
	RecentActivityCount int `json:"recent_activity_count"`
}

type DeleteAccountResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	DeletedAt time.Time `json:"deleted_at"`
}

type SubmissionStatus struct {
	Submitted  bool   `json:"submitted"`
	ServerDate string `json:"server_date"`
	Cutover    string `json:"cutover"`
	Closed     bool   `json:"closed"`
}

type RecordItem struct {
	ID         int64     `json:"id"`
	AccountID  uuid.UUID `json:"account_id"`
	RecordDate string    `json:"record_date"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type RecordWithAccountItem struct {
	RecordItem
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type ListRecordsQuery struct {
	AccountID *uuid.UUID
	FromDate  string
	ToDate    string
	Limit     int
	Offset    int
}

type LoginAttemptItem struct {
	ID            int64      `json:"id"`
	AccountID     *uuid.UUID `json:"account_id,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	Status        string     `json:"status"`
	FailureReason string     `json:"failure_reason,omitempty"`
	IPAddress     string     `json:"ip_address,omitempty"`
	UserAgent     string     `json:"user_agent,omitempty"`
}

type LoginAttemptQuery struct {
	Limit  int
	Offset int
	Days   int
	Status string
}

func toPrincipalView(p domain.Principal) PrincipalView {
	return PrincipalView{
		AccountID:    p.AccountID,
		Role:         string(p.Role),
		IsSuperAdmin: p.IsSuperAdmin,
	}
}

func toAccountItem(a domain.Account, recentActivity int) AccountItem {
	return AccountItem{
		AccountID:           a.AccountID,
		Email:               a.Email,
		DisplayName:         a.DisplayName,
		Role:                string(a.Role),
		IsSuperAdmin:        a.IsSuperAdmin,
		Strikes:             a.Strikes,
		EmailVerified:       a.EmailVerified,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
		RecentActivityCount: recentActivity,
	}
}

func toRecordItem(r domain.DailyRecord) RecordItem {
	return RecordItem{
		ID:         r.ID,
		AccountID:  r.AccountID,
		RecordDate: r.RecordDate,
		Status:     r.Status,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
	}
}
