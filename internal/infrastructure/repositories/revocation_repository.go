package repositories

import (
	"context"
	"time"

	"github.com/you/booklib/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBRevokedToken is a refresh token blacklist row keyed by jti
type DBRevokedToken struct {
	JTI       string    `gorm:"column:jti;primaryKey;size:64"`
	UserID    string    `gorm:"index;size:36"`
	ExpiresAt time.Time `gorm:"index"`
	RevokedAt time.Time
}

// TableName returns the table name for GORM
func (DBRevokedToken) TableName() string {
	return "revoked_tokens"
}

// RevocationRepositoryImpl implements domain.RevocationRepository using GORM
type RevocationRepositoryImpl struct {
	db *gorm.DB
}

// NewRevocationRepository creates a new revocation list repository
func NewRevocationRepository(db *gorm.DB) *RevocationRepositoryImpl {
	return &RevocationRepositoryImpl{db: db}
}

// Revoke implements domain.RevocationRepository. Revoking twice is a no-op.
func (r *RevocationRepositoryImpl) Revoke(ctx context.Context, token *domain.RevokedToken) error {
	row := &DBRevokedToken{
		JTI:       token.JTI,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
		RevokedAt: token.RevokedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

// IsRevoked implements domain.RevocationRepository
func (r *RevocationRepositoryImpl) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&DBRevokedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteExpired implements domain.RevocationRepository
func (r *RevocationRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&DBRevokedToken{})
	return res.RowsAffected, res.Error
}

var _ domain.RevocationRepository = (*RevocationRepositoryImpl)(nil)
