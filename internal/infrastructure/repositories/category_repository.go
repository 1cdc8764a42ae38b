package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/booklib/domain"
	"gorm.io/gorm"
)

// DBCategory is a category row, name unique per owner
type DBCategory struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;uniqueIndex:idx_categories_user_name"`
	UserID    string    `gorm:"size:36;uniqueIndex:idx_categories_user_name"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBCategory) TableName() string {
	return "categories"
}

// CategoryRepositoryImpl implements domain.CategoryRepository using GORM
type CategoryRepositoryImpl struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepositoryImpl {
	return &CategoryRepositoryImpl{db: db}
}

// List implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) List(ctx context.Context, userID string) ([]*domain.Category, error) {
	var rows []DBCategory
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Category, 0, len(rows))
	for i := range rows {
		out = append(out, dbToDomainCategory(&rows[i]))
	}
	return out, nil
}

// Create implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *domain.Category) error {
	row := &DBCategory{Name: category.Name, UserID: category.UserID}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateResource
		}
		return err
	}
	category.ID = row.ID
	return nil
}

// FindByID implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) FindByID(ctx context.Context, userID string, id uint) (*domain.Category, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

// FindByName implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) FindByName(ctx context.Context, userID, name string) (*domain.Category, error) {
	return r.first(ctx, "LOWER(name) = LOWER(?) AND user_id = ?", name, userID)
}

func (r *CategoryRepositoryImpl) first(ctx context.Context, query string, args ...interface{}) (*domain.Category, error) {
	var row DBCategory
	if err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, err
	}
	return dbToDomainCategory(&row), nil
}

// Update implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *domain.Category) error {
	res := r.db.WithContext(ctx).Model(&DBCategory{}).
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Update("name", category.Name)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateResource
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

// Delete implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) Delete(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&DBCategory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func dbToDomainCategory(row *DBCategory) *domain.Category {
	return &domain.Category{ID: row.ID, Name: row.Name, UserID: row.UserID}
}

var _ domain.CategoryRepository = (*CategoryRepositoryImpl)(nil)
