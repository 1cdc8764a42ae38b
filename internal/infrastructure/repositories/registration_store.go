package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/booklib/domain"
	"gorm.io/gorm"
)

// RegistrationStoreImpl commits verified registrations
type RegistrationStoreImpl struct {
	db *gorm.DB
}

// NewRegistrationStore creates a registration store on top of db.
// db must be opened with TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func NewRegistrationStore(db *gorm.DB) *RegistrationStoreImpl {
	return &RegistrationStoreImpl{db: db}
}

// Commit implements domain.RegistrationStore
func (s *RegistrationStoreImpl) Commit(ctx context.Context, user *domain.User) error {
	dbUser := domainToDBUser(user)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dbUser).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrUserAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		if err := tx.Where("username = ?", user.Username).Delete(&DBOTPToken{}).Error; err != nil {
			return fmt.Errorf("delete otp tokens: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

var _ domain.RegistrationStore = (*RegistrationStoreImpl)(nil)
