package postgres

import (
	"errors"

	"github.com/rollcallhq/rollcall-service/internal/domain"
	"gorm.io/gorm"
)

func toDomainAccount(rec accountModel) domain.Account {
	return domain.Account{
		AccountID:     rec.AccountID,
		Email:         rec.Email,
		DisplayName:   rec.DisplayName,
		Role:          domain.Role(rec.Role),
		IsSuperAdmin:  rec.IsSuperAdmin,
		Strikes:       rec.Strikes,
		EmailVerified: rec.EmailVerified,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func toDomainCredential(rec credentialModel) domain.Credential {
	return domain.Credential{
		AccountID: rec.AccountID,
		Scheme:    rec.Scheme,
		Hash:      rec.Hash,
		UpdatedAt: rec.UpdatedAt,
	}
}

func toDomainSession(rec sessionModel) domain.Session {
	session := domain.Session{
		SessionID: rec.SessionID,
		AccountID: rec.AccountID,
		TokenHash: rec.TokenHash,
		UserAgent: rec.UserAgent,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
	if rec.IPAddress != nil {
		session.IPAddress = *rec.IPAddress
	}
	return session
}

func toDomainRecord(rec dailyRecordModel) domain.DailyRecord {
	return domain.DailyRecord{
		ID:         rec.ID,
		AccountID:  rec.AccountID,
		RecordDate: rec.RecordDate,
		Status:     rec.Status,
		Note:       rec.Note,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func toDomainLoginAttempt(rec loginAttemptModel) domain.LoginAttempt {
	attempt := domain.LoginAttempt{
		ID:            rec.ID,
		AccountID:     rec.AccountID,
		AttemptAt:     rec.AttemptAt,
		Status:        rec.Status,
		FailureReason: rec.FailureReason,
		UserAgent:     rec.UserAgent,
	}
	if rec.IPAddress != nil {
		attempt.IPAddress = *rec.IPAddress
	}
	return attempt
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
