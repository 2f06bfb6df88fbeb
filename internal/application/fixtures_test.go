package application_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall-service/internal/application"
	"github.com/rollcallhq/rollcall-service/internal/domain"
	"github.com/rollcallhq/rollcall-service/internal/ports"
)

type fixture struct {
	service       *application.Service
	accounts      *fakeAccounts
	credentials   *fakeCredentials
	sessions      *fakeSessions
	records       *fakeRecords
	loginAttempts *fakeLoginAttempts
	lockouts      *fakeLockouts
}

func defaultTestConfig() application.Config {
	return application.Config{
		SessionTTL:           14 * 24 * time.Hour,
		FailedLoginThreshold: 3,
		LockoutDuration:      15 * time.Minute,
		CutoverHour:          22,
		ActivityWindowDays:   30,
		MaxPageSize:          100,
	}
}

func newFixture() *fixture {
	return newFixtureWithConfig(defaultTestConfig())
}

func newFixtureWithConfig(cfg application.Config) *fixture {
	credentials := &fakeCredentials{byAccount: map[uuid.UUID]domain.Credential{}}
	accounts := &fakeAccounts{
		byID:  map[uuid.UUID]domain.Account{},
		creds: credentials,
	}
	sessions := &fakeSessions{byHash: map[string]domain.Session{}}
	records := &fakeRecords{
		byKey:    map[string]domain.DailyRecord{},
		accounts: accounts,
	}
	loginAttempts := &fakeLoginAttempts{}
	lockouts := &fakeLockouts{state: map[string]ports.LockoutState{}}

	svc := application.NewService(application.Dependencies{
		Config:        cfg,
		Accounts:      accounts,
		Credentials:   credentials,
		Sessions:      sessions,
		Records:       records,
		LoginAttempts: loginAttempts,
		Lockouts:      lockouts,
		Hasher:        &fakeHasher{},
	})

	return &fixture{
		service:       svc,
		accounts:      accounts,
		credentials:   credentials,
		sessions:      sessions,
		records:       records,
		loginAttempts: loginAttempts,
		lockouts:      lockouts,
	}
}

func superPrincipal() domain.Principal {
	return domain.Principal{AccountID: uuid.New(), Role: domain.RoleAdmin, IsSuperAdmin: true}
}

func (f *fixture) mustCreateAccount(t *testing.T, email, password, role string, isSuperAdmin bool) application.AccountItem {
	t.Helper()
	item, err := f.service.CreateAccount(context.Background(), superPrincipal(), application.CreateAccountRequest{
		Email:        email,
		DisplayName:  strings.Split(email, "@")[0],
		Password:     password,
		Role:         role,
		IsSuperAdmin: isSuperAdmin,
	})
	if err != nil {
		t.Fatalf("create account %s failed: %v", email, err)
	}
	return item
}

type fakeAccounts struct {
	mu    sync.Mutex
	order []uuid.UUID
	byID  map[uuid.UUID]domain.Account
	creds *fakeCredentials
}

func (f *fakeAccounts) CreateWithCredentialTx(_ context.Context, params ports.CreateAccountTxParams, credential domain.Credential) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if strings.EqualFold(a.Email, params.Email) {
			return domain.Account{}, domain.ErrConflict
		}
	}
	account := domain.Account{
		AccountID:     uuid.New(),
		Email:         params.Email,
		DisplayName:   params.DisplayName,
		Role:          params.Role,
		IsSuperAdmin:  params.IsSuperAdmin,
		EmailVerified: params.EmailVerified,
		CreatedAt:     params.CreatedAtUTC,
		UpdatedAt:     params.CreatedAtUTC,
	}
	f.byID[account.AccountID] = account
	f.order = append(f.order, account.AccountID)
	credential.AccountID = account.AccountID
	f.creds.byAccount[account.AccountID] = credential
	return account, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, accountID uuid.UUID) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[accountID]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) List(_ context.Context, filter ports.AccountFilter) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Account, 0, len(f.order))
	for _, id := range f.order {
		a := f.byID[id]
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(a.Email), needle) &&
				!strings.Contains(strings.ToLower(a.DisplayName), needle) {
				continue
			}
		}
		result = append(result, a)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// UpdateWithCredentialTx mirrors the storage contract: when the diff is
// rejected the stored credential stays untouched.
func (f *fakeAccounts) UpdateWithCredentialTx(_ context.Context, accountID uuid.UUID, update ports.AccountUpdate, credential *domain.Credential) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[accountID]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	if update.Email != nil {
		for id, other := range f.byID {
			if id != accountID && strings.EqualFold(other.Email, *update.Email) {
				return domain.Account{}, domain.ErrConflict
			}
		}
		a.Email = *update.Email
	}
	if update.DisplayName != nil {
		a.DisplayName = *update.DisplayName
	}
	if update.Strikes != nil {
		a.Strikes = *update.Strikes
	}
	if update.EmailVerified != nil {
		a.EmailVerified = *update.EmailVerified
	}
	if update.Role != nil {
		a.Role = *update.Role
	}
	if update.IsSuperAdmin != nil {
		a.IsSuperAdmin = *update.IsSuperAdmin
	}
	a.UpdatedAt = update.UpdatedAt
	f.byID[accountID] = a
	if credential != nil {
		credential.AccountID = accountID
		f.creds.byAccount[accountID] = *credential
	}
	return a, nil
}

func (f *fakeAccounts) Delete(_ context.Context, accountID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[accountID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, accountID)
	delete(f.creds.byAccount, accountID)
	for i, id := range f.order {
		if id == accountID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeCredentials struct {
	mu        sync.Mutex
	byAccount map[uuid.UUID]domain.Credential
}

func (f *fakeCredentials) GetByAccount(_ context.Context, accountID uuid.UUID) (domain.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byAccount[accountID]
	if !ok {
		return domain.Credential{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCredentials) Replace(_ context.Context, credential domain.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byAccount[credential.AccountID]; !ok {
		return domain.ErrNotFound
	}
	f.byAccount[credential.AccountID] = credential
	return nil
}

type fakeSessions struct {
	mu     sync.Mutex
	byHash map[string]domain.Session
}

func (f *fakeSessions) Create(_ context.Context, params ports.SessionCreateParams) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session := domain.Session{
		SessionID: uuid.New(),
		AccountID: params.AccountID,
		TokenHash: params.TokenHash,
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
		ExpiresAt: params.ExpiresAt,
	}
	f.byHash[params.TokenHash] = session
	return session, nil
}

func (f *fakeSessions) GetByTokenHash(_ context.Context, tokenHash string) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byHash[tokenHash]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byHash[tokenHash]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byHash, tokenHash)
	return nil
}

func (f *fakeSessions) DeleteByAccount(_ context.Context, accountID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for hash, s := range f.byHash {
		if s.AccountID == accountID {
			delete(f.byHash, hash)
		}
	}
	return nil
}

type fakeRecords struct {
	mu       sync.Mutex
	nextID   int64
	byKey    map[string]domain.DailyRecord
	accounts *fakeAccounts

	// lastWindowFrom/To record the bounds of the most recent window count so
	// tests can assert on the derived dates.
	lastWindowFrom string
	lastWindowTo   string
}

func recordKey(accountID uuid.UUID, date string) string {
	return accountID.String() + "|" + date
}

func (f *fakeRecords) Insert(_ context.Context, record domain.DailyRecord) (domain.DailyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(record.AccountID, record.RecordDate)
	if _, exists := f.byKey[key]; exists {
		return domain.DailyRecord{}, domain.ErrConflict
	}
	f.nextID++
	record.ID = f.nextID
	f.byKey[key] = record
	return record, nil
}

func (f *fakeRecords) ExistsForDate(_ context.Context, accountID uuid.UUID, recordDate string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byKey[recordKey(accountID, recordDate)]
	return ok, nil
}

func (f *fakeRecords) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]domain.DailyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.DailyRecord, 0)
	for _, r := range f.byKey {
		if r.AccountID == accountID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordDate > result[j].RecordDate })
	if offset > 0 {
		if offset >= len(result) {
			return nil, nil
		}
		result = result[offset:]
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeRecords) ListAll(ctx context.Context, filter ports.RecordFilter) ([]ports.RecordWithAccount, error) {
	f.mu.Lock()
	rows := make([]domain.DailyRecord, 0, len(f.byKey))
	for _, r := range f.byKey {
		if filter.AccountID != nil && r.AccountID != *filter.AccountID {
			continue
		}
		if filter.FromDate != "" && r.RecordDate < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && r.RecordDate > filter.ToDate {
			continue
		}
		rows = append(rows, r)
	}
	f.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].RecordDate > rows[j].RecordDate })
	result := make([]ports.RecordWithAccount, 0, len(rows))
	for _, r := range rows {
		account, err := f.accounts.GetByID(ctx, r.AccountID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		result = append(result, ports.RecordWithAccount{
			Record:      r,
			Email:       account.Email,
			DisplayName: account.DisplayName,
		})
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (f *fakeRecords) CountInWindow(_ context.Context, accountIDs []uuid.UUID, fromDate, toDate string) (map[uuid.UUID]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastWindowFrom, f.lastWindowTo = fromDate, toDate
	wanted := make(map[uuid.UUID]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	counts := make(map[uuid.UUID]int)
	for _, r := range f.byKey {
		if wanted[r.AccountID] && r.RecordDate >= fromDate && r.RecordDate <= toDate {
			counts[r.AccountID]++
		}
	}
	return counts, nil
}

func (f *fakeRecords) CountForAccount(_ context.Context, accountID uuid.UUID, fromDate, toDate string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, r := range f.byKey {
		if r.AccountID == accountID && r.RecordDate >= fromDate && r.RecordDate <= toDate {
			count++
		}
	}
	return count, nil
}

type fakeLoginAttempts struct {
	mu       sync.Mutex
	attempts []domain.LoginAttempt
}

func (f *fakeLoginAttempts) Insert(_ context.Context, attempt domain.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	attempt.ID = int64(len(f.attempts) + 1)
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeLoginAttempts) List(_ context.Context, limit, offset int, since *time.Time, status string) ([]domain.LoginAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.LoginAttempt, 0, len(f.attempts))
	for _, a := range f.attempts {
		if since != nil && a.AttemptAt.Before(*since) {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		result = append(result, a)
	}
	if offset > 0 {
		if offset >= len(result) {
			return nil, nil
		}
		result = result[offset:]
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type fakeLockouts struct {
	mu    sync.Mutex
	state map[string]ports.LockoutState
}

func (f *fakeLockouts) Get(_ context.Context, key string) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[key], nil
}

func (f *fakeLockouts) RecordFailure(_ context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state[key]
	s.FailedCount++
	if threshold > 0 && s.FailedCount >= threshold {
		until := now.Add(lockoutWindow)
		s.LockedUntil = &until
	}
	f.state[key] = s
	return s, nil
}

func (f *fakeLockouts) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.state, key)
	return nil
}

// fakeHasher keeps the plaintext relationship inspectable while preserving the
// validation behavior of the real hasher.
type fakeHasher struct{}

func (f *fakeHasher) Hash(password string) (string, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return "", err
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("password hash mismatch")
	}
	return nil
}
