package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall-service/internal/domain"
	"github.com/rollcallhq/rollcall-service/internal/ports"
)

// identityKeys are payload fields a client must never supply: submission
// identity always comes from the resolved principal.
var identityKeys = []string{"accountId", "account_id", "userId", "user_id"}

// SubmissionStatusToday reports whether the principal already submitted for
// the current server-local date, plus the facts a caller needs to apply its
// own deadline policy deterministically.
func (s *Service) SubmissionStatusToday(ctx context.Context, principal domain.Principal) (SubmissionStatus, error) {
	now := s.now()
	today := now.Format(dateLayout)

	submitted, err := s.records.ExistsForDate(ctx, principal.AccountID, today)
	if err != nil {
		return SubmissionStatus{}, err
	}

	return SubmissionStatus{
		Submitted:  submitted,
		ServerDate: today,
		Cutover:    fmt.Sprintf("%02d:00", s.cfg.CutoverHour),
		Closed:     now.Hour() >= s.cfg.CutoverHour,
	}, nil
}

// SubmitRecord files the principal's record for today. The payload is the
// raw client object: identity fields are rejected before any storage touch,
// and the per-day uniqueness rides on the storage constraint so two
// concurrent submissions cannot both succeed.
func (s *Service) SubmitRecord(ctx context.Context, principal domain.Principal, payload map[string]any) (RecordItem, error) {
	for _, key := range identityKeys {
		if _, present := payload[key]; present {
			return RecordItem{}, fmt.Errorf("%w: %s", domain.ErrIdentitySpoof, key)
		}
	}

	status, _ := payload["status"].(string)
	status = strings.ToLower(strings.TrimSpace(status))
	if err := domain.ValidateRecordStatus(status); err != nil {
		return RecordItem{}, err
	}
	note, _ := payload["note"].(string)

	now := s.now()
	record, err := s.records.Insert(ctx, domain.DailyRecord{
		AccountID:  principal.AccountID,
		RecordDate: now.Format(dateLayout),
		Status:     status,
		Note:       note,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	})
	if err != nil {
		return RecordItem{}, err
	}
	return toRecordItem(record), nil
}

// ListMyRecords returns the caller's own ledger entries, newest first.
func (s *Service) ListMyRecords(ctx context.Context, principal domain.Principal, limit, offset int) ([]RecordItem, error) {
	limit, offset = s.capPage(limit, offset)
	records, err := s.records.ListByAccount(ctx, principal.AccountID, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]RecordItem, 0, len(records))
	for _, r := range records {
		result = append(result, toRecordItem(r))
	}
	return result, nil
}

// ListAllRecords is the admin read over the full ledger with submitter
// identity joined in.
func (s *Service) ListAllRecords(ctx context.Context, principal domain.Principal, q ListRecordsQuery) ([]RecordWithAccountItem, error) {
	if err := domain.RequireTier(principal, domain.TierAdmin); err != nil {
		return nil, err
	}

	limit, offset := s.capPage(q.Limit, q.Offset)
	rows, err := s.records.ListAll(ctx, ports.RecordFilter{
		AccountID: q.AccountID,
		FromDate:  q.FromDate,
		ToDate:    q.ToDate,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}

	result := make([]RecordWithAccountItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, RecordWithAccountItem{
			RecordItem:  toRecordItem(row.Record),
			Email:       row.Email,
			DisplayName: row.DisplayName,
		})
	}
	return result, nil
}

// RecentActivityCount counts the account's records with record_date in
// [today-windowDays, today]. The directory listing and the external strike
// accrual process both read through this contract.
func (s *Service) RecentActivityCount(ctx context.Context, accountID uuid.UUID, windowDays int) (int, error) {
	if windowDays <= 0 {
		windowDays = s.cfg.ActivityWindowDays
	}
	now := s.now()
	from := now.AddDate(0, 0, -windowDays).Format(dateLayout)
	return s.records.CountForAccount(ctx, accountID, from, now.Format(dateLayout))
}
