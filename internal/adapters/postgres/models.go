package postgres

import (
	"time"

	"github.com/google/uuid"
)

type accountModel struct {
	AccountID     uuid.UUID `gorm:"column:account_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string    `gorm:"column:email"`
	DisplayName   string    `gorm:"column:display_name"`
	Role          string    `gorm:"column:role"`
	IsSuperAdmin  bool      `gorm:"column:is_super_admin"`
	Strikes       int       `gorm:"column:strikes"`
	EmailVerified bool      `gorm:"column:email_verified"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "accounts" }

type credentialModel struct {
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;primaryKey"`
	Scheme    string    `gorm:"column:scheme"`
	Hash      string    `gorm:"column:hash"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (credentialModel) TableName() string { return "credentials" }

type sessionModel struct {
	SessionID uuid.UUID `gorm:"column:session_id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID uuid.UUID `gorm:"column:account_id"`
	TokenHash string    `gorm:"column:token_hash"`
	IPAddress *string   `gorm:"column:ip_address"`
	UserAgent string    `gorm:"column:user_agent"`
	CreatedAt time.Time `gorm:"column:created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (sessionModel) TableName() string { return "sessions" }

type dailyRecordModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	AccountID  uuid.UUID `gorm:"column:account_id"`
	RecordDate string    `gorm:"column:record_date"`
	Status     string    `gorm:"column:status"`
	Note       string    `gorm:"column:note"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (dailyRecordModel) TableName() string { return "daily_records" }

type loginAttemptModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	AccountID     *uuid.UUID `gorm:"column:account_id"`
	AttemptAt     time.Time  `gorm:"column:attempt_at"`
	IPAddress     *string    `gorm:"column:ip_address"`
	Status        string     `gorm:"column:status"`
	FailureReason string     `gorm:"column:failure_reason"`
	UserAgent     string     `gorm:"column:user_agent"`
}

func (loginAttemptModel) TableName() string { return "login_attempts" }
