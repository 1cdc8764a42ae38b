package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/you/booklib/domain"
	"gorm.io/gorm"
)

// DBOTPToken is the OTP ledger row. Username is a plain string, no user exists yet.
type DBOTPToken struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Username  string    `gorm:"index;size:150"`
	Code      string    `gorm:"size:16"`
	CreatedAt time.Time `gorm:"index"`
	ExpiresAt time.Time
}

// TableName returns the table name for GORM
func (DBOTPToken) TableName() string {
	return "otp_tokens"
}

// OTPRepositoryImpl implements domain.OTPRepository using GORM
type OTPRepositoryImpl struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTP ledger repository
func NewOTPRepository(db *gorm.DB) *OTPRepositoryImpl {
	return &OTPRepositoryImpl{db: db}
}

// Create implements domain.OTPRepository
func (r *OTPRepositoryImpl) Create(ctx context.Context, token *domain.OTPToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	row := &DBOTPToken{
		ID:        token.ID,
		Username:  token.Username,
		Code:      token.Code,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	token.CreatedAt = row.CreatedAt
	return nil
}

// FindCurrent implements domain.OTPRepository
func (r *OTPRepositoryImpl) FindCurrent(ctx context.Context, username string) (*domain.OTPToken, error) {
	var row DBOTPToken
	err := r.db.WithContext(ctx).Where("username = ?", username).Order("created_at asc").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return &domain.OTPToken{
		ID:        row.ID,
		Username:  row.Username,
		Code:      row.Code,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// Delete implements domain.OTPRepository
func (r *OTPRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBOTPToken{}).Error
}

// DeleteByUsername implements domain.OTPRepository
func (r *OTPRepositoryImpl) DeleteByUsername(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Where("username = ?", username).Delete(&DBOTPToken{}).Error
}

var _ domain.OTPRepository = (*OTPRepositoryImpl)(nil)
