package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall-service/internal/domain"
	"github.com/rollcallhq/rollcall-service/internal/ports"
)

// ListAccounts returns the directory page an admin asked for, with each row
// carrying its derived trailing-window activity count from the ledger.
func (s *Service) ListAccounts(ctx context.Context, principal domain.Principal, q ListAccountsQuery) ([]AccountItem, error) {
	if err := domain.RequireTier(principal, domain.TierAdmin); err != nil {
		return nil, err
	}

	filter := ports.AccountFilter{Search: q.Search}
	if q.Role != "" {
		role := domain.Role(q.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: role must be user or admin", domain.ErrInvalidInput)
		}
		filter.Role = role
	}
	filter.Limit, filter.Offset = s.capPage(q.Limit, q.Offset)

	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.AccountID)
	}
	now := s.now()
	today := now.Format(dateLayout)
	from := now.AddDate(0, 0, -s.cfg.ActivityWindowDays).Format(dateLayout)
	counts, err := s.records.CountInWindow(ctx, ids, from, today)
	if err != nil {
		return nil, err
	}

	result := make([]AccountItem, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, toAccountItem(a, counts[a.AccountID]))
	}
	return result, nil
}

// CreateAccount issues a new account. Account and credential are written in
// one transaction: a half-created account with no credential must never be
// observable. Requires super-admin tier.
func (s *Service) CreateAccount(ctx context.Context, principal domain.Principal, req CreateAccountRequest) (AccountItem, error) {
	if err := domain.RequireTier(principal, domain.TierSuperAdmin); err != nil {
		return AccountItem{}, err
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return AccountItem{}, err
	}
	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return AccountItem{}, fmt.Errorf("%w: role must be user or admin", domain.ErrInvalidInput)
	}
	if req.IsSuperAdmin && role != domain.RoleAdmin {
		return AccountItem{}, fmt.Errorf("%w: super admin requires the admin role", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return AccountItem{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AccountItem{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account, err := s.accounts.CreateWithCredentialTx(ctx, ports.CreateAccountTxParams{
		Email:        email,
		DisplayName:  req.DisplayName,
		Role:         role,
		IsSuperAdmin: req.IsSuperAdmin,
		CreatedAtUTC: now,
	}, domain.Credential{
		Scheme:    domain.SchemeArgon2id,
		Hash:      hash,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return AccountItem{}, domain.ErrEmailExists
		}
		return AccountItem{}, err
	}

	return toAccountItem(account, 0), nil
}

// UpdateAccount applies a partial diff to an account. Ordinary fields need
// admin tier; any diff touching role or the super-admin flag needs
// super-admin tier regardless of the actor's admin status.
func (s *Service) UpdateAccount(ctx context.Context, principal domain.Principal, accountID uuid.UUID, req UpdateAccountRequest) (AccountItem, error) {
	if err := domain.RequireTier(principal, domain.TierAdmin); err != nil {
		return AccountItem{}, err
	}
	if req.Role != nil || req.IsSuperAdmin != nil {
		if err := domain.RequirePrivilegeChange(principal); err != nil {
			return AccountItem{}, err
		}
	}

	target, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return AccountItem{}, err
	}

	update := ports.AccountUpdate{
		DisplayName:   req.DisplayName,
		EmailVerified: req.EmailVerified,
		UpdatedAt:     s.now().UTC(),
	}

	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return AccountItem{}, err
		}
		update.Email = &email
	}
	if req.Strikes != nil {
		if *req.Strikes < 0 {
			return AccountItem{}, fmt.Errorf("%w: strikes cannot be negative", domain.ErrInvalidInput)
		}
		update.Strikes = req.Strikes
	}

	role := target.Role
	if req.Role != nil {
		role = domain.Role(*req.Role)
		if !role.Valid() {
			return AccountItem{}, fmt.Errorf("%w: role must be user or admin", domain.ErrInvalidInput)
		}
		update.Role = &role
	}
	superAdmin := target.IsSuperAdmin
	if req.IsSuperAdmin != nil {
		superAdmin = *req.IsSuperAdmin
		update.IsSuperAdmin = req.IsSuperAdmin
	}
	if superAdmin && role != domain.RoleAdmin {
		return AccountItem{}, fmt.Errorf("%w: super admin requires the admin role", domain.ErrInvalidInput)
	}

	// Credential replacement rides in the account update transaction: a
	// rejected diff must never leave a new password behind.
	var credential *domain.Credential
	if req.Password != nil {
		if err := domain.ValidatePassword(*req.Password); err != nil {
			return AccountItem{}, err
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return AccountItem{}, fmt.Errorf("hash password: %w", err)
		}
		credential = &domain.Credential{
			AccountID: accountID,
			Scheme:    domain.SchemeArgon2id,
			Hash:      hash,
			UpdatedAt: update.UpdatedAt,
		}
	}

	updated, err := s.accounts.UpdateWithCredentialTx(ctx, accountID, update, credential)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return AccountItem{}, domain.ErrEmailExists
		}
		return AccountItem{}, err
	}

	// A changed password invalidates every live session for the account.
	if credential != nil {
		if err := s.sessions.DeleteByAccount(ctx, accountID); err != nil {
			return AccountItem{}, err
		}
	}

	now := s.now()
	from := now.AddDate(0, 0, -s.cfg.ActivityWindowDays).Format(dateLayout)
	count, err := s.records.CountForAccount(ctx, accountID, from, now.Format(dateLayout))
	if err != nil {
		return AccountItem{}, err
	}
	return toAccountItem(updated, count), nil
}

// DeleteAccount hard-deletes an account and cascades its credential and
// sessions. Super-admin only, and never against the acting principal itself.
func (s *Service) DeleteAccount(ctx context.Context, principal domain.Principal, accountID uuid.UUID) (DeleteAccountResponse, error) {
	if err := domain.RequireTier(principal, domain.TierSuperAdmin); err != nil {
		return DeleteAccountResponse{}, err
	}
	if accountID == principal.AccountID {
		return DeleteAccountResponse{}, domain.ErrSelfDeleteForbidden
	}

	target, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return DeleteAccountResponse{}, err
	}
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		return DeleteAccountResponse{}, err
	}

	return DeleteAccountResponse{
		AccountID: target.AccountID,
		Email:     target.Email,
		DeletedAt: s.now().UTC(),
	}, nil
}
