package application

import (
	"time"

	"github.com/rollcallhq/rollcall-service/internal/ports"
)

// Config carries the policy knobs the application layer needs.
type Config struct {
	SessionTTL           time.Duration
	FailedLoginThreshold int
	LockoutDuration      time.Duration
	// CutoverHour is the server-local hour after which today's submission
	// window is reported closed. The ledger exposes the fact; enforcing it is
	// the caller's policy.
	CutoverHour        int
	ActivityWindowDays int
	MaxPageSize        int
}

// Service implements the coordination core: session resolution, the account
// directory, and the daily ledger. Every privileged operation takes the
// resolved Principal as an explicit parameter.
type Service struct {
	cfg           Config
	accounts      ports.AccountRepository
	credentials   ports.CredentialRepository
	sessions      ports.SessionRepository
	records       ports.DailyRecordRepository
	loginAttempts ports.LoginAttemptRepository
	lockouts      ports.LockoutStore
	hasher        ports.PasswordHasher
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Accounts      ports.AccountRepository
	Credentials   ports.CredentialRepository
	Sessions      ports.SessionRepository
	Records       ports.DailyRecordRepository
	LoginAttempts ports.LoginAttemptRepository
	Lockouts      ports.LockoutStore
	Hasher        ports.PasswordHasher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 14 * 24 * time.Hour
	}
	// Hour 0 is a legal midnight cutover; only out-of-range values fall back.
	if cfg.CutoverHour < 0 || cfg.CutoverHour > 23 {
		cfg.CutoverHour = 22
	}
	if cfg.ActivityWindowDays <= 0 {
		cfg.ActivityWindowDays = 30
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	return &Service{
		cfg:           cfg,
		accounts:      deps.Accounts,
		credentials:   deps.Credentials,
		sessions:      deps.Sessions,
		records:       deps.Records,
		loginAttempts: deps.LoginAttempts,
		lockouts:      deps.Lockouts,
		hasher:        deps.Hasher,
		nowFn:         time.Now,
	}
}
