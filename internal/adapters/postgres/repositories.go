package postgres

import (
	"github.com/rollcallhq/rollcall-service/internal/ports"
	"gorm.io/gorm"
)

// Repositories bundles all Postgres-backed stores behind their ports.
type Repositories struct {
	Accounts      ports.AccountRepository
	Credentials   ports.CredentialRepository
	Sessions      ports.SessionRepository
	Records       ports.DailyRecordRepository
	LoginAttempts ports.LoginAttemptRepository
}

// NewRepositories wires every repository onto one shared GORM handle so they
// participate in the same pool and transaction semantics.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Accounts:      &accountRepository{db: db},
		Credentials:   &credentialRepository{db: db},
		Sessions:      &sessionRepository{db: db},
		Records:       &recordRepository{db: db},
		LoginAttempts: &loginAttemptRepository{db: db},
	}
}
