package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall-service/internal/domain"
	"github.com/rollcallhq/rollcall-service/internal/ports"
	"gorm.io/gorm"
)

type recordRepository struct {
	db *gorm.DB
}

// Insert files one daily record. The (account_id, record_date) unique index
// is the authority on duplicates: a violation surfaces as domain.ErrConflict
// so concurrent submissions end with exactly one winner.
func (r *recordRepository) Insert(ctx context.Context, record domain.DailyRecord) (domain.DailyRecord, error) {
	rec := dailyRecordModel{
		AccountID:  record.AccountID,
		RecordDate: record.RecordDate,
		Status:     record.Status,
		Note:       record.Note,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.DailyRecord{}, domain.ErrConflict
		}
		return domain.DailyRecord{}, err
	}
	return toDomainRecord(rec), nil
}

func (r *recordRepository) ExistsForDate(ctx context.Context, accountID uuid.UUID, recordDate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dailyRecordModel{}).
		Where("account_id = ? AND record_date = ?", accountID, recordDate).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recordRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.DailyRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&dailyRecordModel{}).
		Where("account_id = ?", accountID).
		Order("record_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var recs []dailyRecordModel
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}

	records := make([]domain.DailyRecord, 0, len(recs))
	for _, rec := range recs {
		records = append(records, toDomainRecord(rec))
	}
	return records, nil
}

type recordWithAccountRow struct {
	dailyRecordModel
	Email       string `gorm:"column:email"`
	DisplayName string `gorm:"column:display_name"`
}

func (r *recordRepository) ListAll(ctx context.Context, filter ports.RecordFilter) ([]ports.RecordWithAccount, error) {
	query := r.db.WithContext(ctx).
		Table("daily_records").
		Select("daily_records.*, accounts.email, accounts.display_name").
		Joins("JOIN accounts ON accounts.account_id = daily_records.account_id").
		Order("daily_records.record_date DESC, daily_records.id DESC")
	if filter.AccountID != nil {
		query = query.Where("daily_records.account_id = ?", *filter.AccountID)
	}
	if filter.FromDate != "" {
		query = query.Where("daily_records.record_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		query = query.Where("daily_records.record_date <= ?", filter.ToDate)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []recordWithAccountRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]ports.RecordWithAccount, 0, len(rows))
	for _, row := range rows {
		result = append(result, ports.RecordWithAccount{
			Record:      toDomainRecord(row.dailyRecordModel),
			Email:       row.Email,
			DisplayName: row.DisplayName,
		})
	}
	return result, nil
}

// CountInWindow batches the trailing-window activity counts for a directory
// page in one grouped query instead of a per-account lookup.
func (r *recordRepository) CountInWindow(ctx context.Context, accountIDs []uuid.UUID, fromDate, toDate string) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(accountIDs))
	if len(accountIDs) == 0 {
		return counts, nil
	}

	type countRow struct {
		AccountID uuid.UUID `gorm:"column:account_id"`
		Total     int       `gorm:"column:total"`
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&dailyRecordModel{}).
		Select("account_id, COUNT(*) AS total").
		Where("account_id IN ? AND record_date >= ? AND record_date <= ?", accountIDs, fromDate, toDate).
		Group("account_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.AccountID] = row.Total
	}
	return counts, nil
}

func (r *recordRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, fromDate, toDate string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dailyRecordModel{}).
		Where("account_id = ? AND record_date >= ? AND record_date <= ?", accountID, fromDate, toDate).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
