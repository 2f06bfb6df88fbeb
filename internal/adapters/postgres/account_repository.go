package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall-service/internal/domain"
	"github.com/rollcallhq/rollcall-service/internal/ports"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// CreateWithCredentialTx inserts the account and its credential in one
// transaction so no account is ever observable without a working credential.
func (r *accountRepository) CreateWithCredentialTx(ctx context.Context, params ports.CreateAccountTxParams, credential domain.Credential) (domain.Account, error) {
	var result domain.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := accountModel{
			Email:         params.Email,
			DisplayName:   params.DisplayName,
			Role:          string(params.Role),
			IsSuperAdmin:  params.IsSuperAdmin,
			EmailVerified: params.EmailVerified,
			CreatedAt:     params.CreatedAtUTC,
			UpdatedAt:     params.CreatedAtUTC,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		cred := credentialModel{
			AccountID: rec.AccountID,
			Scheme:    credential.Scheme,
			Hash:      credential.Hash,
			UpdatedAt: credential.UpdatedAt,
		}
		if err := tx.Create(&cred).Error; err != nil {
			return err
		}

		result = toDomainAccount(rec)
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return result, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) GetByID(ctx context.Context, accountID uuid.UUID) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) List(ctx context.Context, filter ports.AccountFilter) ([]domain.Account, error) {
	query := r.db.WithContext(ctx).Model(&accountModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("email ILIKE ? OR display_name ILIKE ?", pattern, pattern)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", string(filter.Role))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recs []accountModel
	if err := query.Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(recs))
	for _, rec := range recs {
		accounts = append(accounts, toDomainAccount(rec))
	}
	return accounts, nil
}

// UpdateWithCredentialTx applies the account diff and the optional credential
// replacement in one transaction: when the account update fails the old
// credential stays in force.
func (r *accountRepository) UpdateWithCredentialTx(ctx context.Context, accountID uuid.UUID, update ports.AccountUpdate, credential *domain.Credential) (domain.Account, error) {
	changes := map[string]any{"updated_at": update.UpdatedAt}
	if update.Email != nil {
		changes["email"] = *update.Email
	}
	if update.DisplayName != nil {
		changes["display_name"] = *update.DisplayName
	}
	if update.Strikes != nil {
		changes["strikes"] = *update.Strikes
	}
	if update.EmailVerified != nil {
		changes["email_verified"] = *update.EmailVerified
	}
	if update.Role != nil {
		changes["role"] = string(*update.Role)
	}
	if update.IsSuperAdmin != nil {
		changes["is_super_admin"] = *update.IsSuperAdmin
	}

	var result domain.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&accountModel{}).
			Where("account_id = ?", accountID).
			Updates(changes)
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				return domain.ErrConflict
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if credential != nil {
			credRes := tx.Model(&credentialModel{}).
				Where("account_id = ?", accountID).
				Updates(map[string]any{
					"scheme":     credential.Scheme,
					"hash":       credential.Hash,
					"updated_at": credential.UpdatedAt,
				})
			if credRes.Error != nil {
				return credRes.Error
			}
			if credRes.RowsAffected == 0 {
				return domain.ErrNotFound
			}
		}

		var rec accountModel
		if err := tx.Where("account_id = ?", accountID).Take(&rec).Error; err != nil {
			return err
		}
		result = toDomainAccount(rec)
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return result, nil
}

func (r *accountRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&accountModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type credentialRepository struct {
	db *gorm.DB
}

func (r *credentialRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) (domain.Credential, error) {
	var rec credentialModel
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Credential{}, domain.ErrNotFound
		}
		return domain.Credential{}, err
	}
	return toDomainCredential(rec), nil
}

// Replace swaps the stored credential in place; the row is keyed by account,
// so the update either replaces the live credential or reports the account
// as missing.
func (r *credentialRepository) Replace(ctx context.Context, credential domain.Credential) error {
	res := r.db.WithContext(ctx).
		Model(&credentialModel{}).
		Where("account_id = ?", credential.AccountID).
		Updates(map[string]any{
			"scheme":     credential.Scheme,
			"hash":       credential.Hash,
			"updated_at": credential.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
