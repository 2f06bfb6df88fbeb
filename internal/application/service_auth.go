package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rollcallhq/rollcall-service/internal/domain"
	"github.com/rollcallhq/rollcall-service/internal/ports"
)

// Login validates credentials, enforces lockout, and issues a fresh session.
// Every failure shape — unknown email, wrong password, unreadable stored
// hash — folds into ErrInvalidCredentials so responses never reveal which
// check failed.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, err
	}

	lockKey := "login:" + email
	lockState, err := s.lockouts.Get(ctx, lockKey)
	if err == nil && lockState.LockedUntil != nil && lockState.LockedUntil.After(s.now()) {
		slog.Default().WarnContext(ctx, "account lockout active",
			"module", "application",
			"layer", "application",
			"operation", "login",
			"outcome", "blocked",
			"email", email,
			"locked_until", lockState.LockedUntil,
		)
		return LoginResponse{}, domain.ErrAccountLocked
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		s.recordLoginAttempt(ctx, nil, req, "FAILED", "ACCOUNT_NOT_FOUND")
		_, _ = s.lockouts.RecordFailure(ctx, lockKey, s.now(), s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	credential, err := s.credentials.GetByAccount(ctx, account.AccountID)
	if err != nil {
		s.recordLoginAttempt(ctx, &account.AccountID, req, "FAILED", "CREDENTIAL_MISSING")
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(credential.Hash, req.Password); err != nil {
		s.recordLoginAttempt(ctx, &account.AccountID, req, "FAILED", "INVALID_PASSWORD")
		_, _ = s.lockouts.RecordFailure(ctx, lockKey, s.now(), s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	_ = s.lockouts.Clear(ctx, lockKey)

	// Legacy hashes are upgraded to the current scheme on first successful
	// login. Best effort: the old hash keeps working if the rewrite fails.
	if credential.Scheme != domain.SchemeArgon2id {
		if hash, hashErr := s.hasher.Hash(req.Password); hashErr == nil {
			_ = s.credentials.Replace(ctx, domain.Credential{
				AccountID: account.AccountID,
				Scheme:    domain.SchemeArgon2id,
				Hash:      hash,
				UpdatedAt: s.now().UTC(),
			})
		}
	}

	token, tokenHash, err := newSessionToken()
	if err != nil {
		return LoginResponse{}, err
	}

	expiresAt := s.now().UTC().Add(s.cfg.SessionTTL)
	if _, err := s.sessions.Create(ctx, ports.SessionCreateParams{
		AccountID: account.AccountID,
		TokenHash: tokenHash,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		ExpiresAt: expiresAt,
	}); err != nil {
		return LoginResponse{}, err
	}

	s.recordLoginAttempt(ctx, &account.AccountID, req, "SUCCESS", "")

	return LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: toPrincipalView(principalOf(account)),
	}, nil
}

// ResolveSession turns a presented token into a Principal snapshot. Missing,
// unknown, and expired tokens return the identical ErrUnauthenticated; expired
// rows are left in place, expiry is a lazy read-side check.
func (s *Service) ResolveSession(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	session, err := s.sessions.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, domain.ErrUnauthenticated
		}
		return domain.Principal{}, err
	}
	if !s.now().UTC().Before(session.ExpiresAt) {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	account, err := s.accounts.GetByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, domain.ErrUnauthenticated
		}
		return domain.Principal{}, err
	}

	return principalOf(account), nil
}

// Logout deletes the presented session. Unknown tokens succeed silently so
// logout stays idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.sessions.DeleteByTokenHash(ctx, hashToken(token)); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// ListLoginAttempts exposes the audit trail to admins with pagination and
// optional time/status filters.
func (s *Service) ListLoginAttempts(ctx context.Context, principal domain.Principal, q LoginAttemptQuery) ([]LoginAttemptItem, error) {
	if err := domain.RequireTier(principal, domain.TierAdmin); err != nil {
		return nil, err
	}

	limit, offset := s.capPage(q.Limit, q.Offset)
	var since *time.Time
	if q.Days > 0 {
		t := s.now().UTC().AddDate(0, 0, -q.Days)
		since = &t
	}

	attempts, err := s.loginAttempts.List(ctx, limit, offset, since, strings.ToUpper(strings.TrimSpace(q.Status)))
	if err != nil {
		return nil, err
	}

	result := make([]LoginAttemptItem, 0, len(attempts))
	for _, attempt := range attempts {
		result = append(result, LoginAttemptItem{
			ID:            attempt.ID,
			AccountID:     attempt.AccountID,
			Timestamp:     attempt.AttemptAt,
			Status:        attempt.Status,
			FailureReason: attempt.FailureReason,
			IPAddress:     attempt.IPAddress,
			UserAgent:     attempt.UserAgent,
		})
	}
	return result, nil
}

func principalOf(account domain.Account) domain.Principal {
	return domain.Principal{
		AccountID:    account.AccountID,
		Role:         account.Role,
		IsSuperAdmin: account.IsSuperAdmin,
	}
}
