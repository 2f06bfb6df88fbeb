package postgres

import (
	"context"
	"time"

	"github.com/rollcallhq/rollcall-service/internal/domain"
	"gorm.io/gorm"
)

type loginAttemptRepository struct {
	db *gorm.DB
}

func (r *loginAttemptRepository) Insert(ctx context.Context, attempt domain.LoginAttempt) error {
	rec := loginAttemptModel{
		AccountID:     attempt.AccountID,
		AttemptAt:     attempt.AttemptAt,
		IPAddress:     optionalString(attempt.IPAddress),
		Status:        attempt.Status,
		FailureReason: attempt.FailureReason,
		UserAgent:     attempt.UserAgent,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *loginAttemptRepository) List(ctx context.Context, limit, offset int, since *time.Time, status string) ([]domain.LoginAttempt, error) {
	query := r.db.WithContext(ctx).
		Model(&loginAttemptModel{}).
		Order("attempt_at DESC")
	if since != nil {
		query = query.Where("attempt_at >= ?", *since)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var recs []loginAttemptModel
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}

	attempts := make([]domain.LoginAttempt, 0, len(recs))
	for _, rec := range recs {
		attempts = append(attempts, toDomainLoginAttempt(rec))
	}
	return attempts, nil
}
