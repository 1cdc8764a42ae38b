package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/you/booklib/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBBook is a book row, title unique per owner
type DBBook struct {
	ID         uint       `gorm:"primaryKey"`
	Title      string     `gorm:"size:255;uniqueIndex:idx_books_user_title"`
	Author     string     `gorm:"size:255"`
	ImageURL   string     `gorm:"size:1024"`
	IsRead     bool       `gorm:"index"`
	IsFavorite bool       `gorm:"index"`
	UserID     string     `gorm:"size:36;uniqueIndex:idx_books_user_title"`
	CategoryID uint       `gorm:"index"`
	Category   DBCategory `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time  `gorm:"index"`
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (DBBook) TableName() string {
	return "books"
}

// BookRepositoryImpl implements domain.BookRepository using GORM
type BookRepositoryImpl struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) *BookRepositoryImpl {
	return &BookRepositoryImpl{db: db}
}

// List implements domain.BookRepository. filter.Page and filter.PageSize must be positive.
func (r *BookRepositoryImpl) List(ctx context.Context, filter domain.BookFilter) (*domain.BookPage, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&DBBook{}).Where("user_id = ?", filter.UserID)
		if filter.IsRead != nil {
			q = q.Where("is_read = ?", *filter.IsRead)
		}
		if filter.IsFavorite != nil {
			q = q.Where("is_favorite = ?", *filter.IsFavorite)
		}
		if filter.Category != "" {
			sub := r.db.Model(&DBCategory{}).Select("id").
				Where("user_id = ? AND LOWER(name) = LOWER(?)", filter.UserID, filter.Category)
			q = q.Where("category_id IN (?)", sub)
		}
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)", like, like)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []DBBook
	err := scoped().Preload("Category").
		Order("created_at desc, id desc").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Book, 0, len(rows))
	for i := range rows {
		items = append(items, dbToDomainBook(&rows[i]))
	}
	return &domain.BookPage{Items: items, Page: filter.Page, PageSize: filter.PageSize, Total: total}, nil
}

// Create implements domain.BookRepository
func (r *BookRepositoryImpl) Create(ctx context.Context, book *domain.Book) error {
	row := &DBBook{
		Title:      book.Title,
		Author:     book.Author,
		ImageURL:   book.ImageURL,
		IsRead:     book.IsRead,
		IsFavorite: book.IsFavorite,
		UserID:     book.UserID,
		CategoryID: book.CategoryID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateResource
		}
		return err
	}
	book.ID = row.ID
	book.CreatedAt = row.CreatedAt
	book.UpdatedAt = row.UpdatedAt
	return nil
}

// FindByID implements domain.BookRepository
func (r *BookRepositoryImpl) FindByID(ctx context.Context, userID string, id uint) (*domain.Book, error) {
	var row DBBook
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, err
	}
	return dbToDomainBook(&row), nil
}

// ExistsByTitle implements domain.BookRepository. excludeID 0 matches every book.
func (r *BookRepositoryImpl) ExistsByTitle(ctx context.Context, userID, title string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBBook{}).
		Where("user_id = ? AND LOWER(title) = LOWER(?) AND id <> ?", userID, title, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByCategory implements domain.BookRepository
func (r *BookRepositoryImpl) CountByCategory(ctx context.Context, userID string, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBBook{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error
	return count, err
}

// Update implements domain.BookRepository
func (r *BookRepositoryImpl) Update(ctx context.Context, book *domain.Book) error {
	res := r.db.WithContext(ctx).Model(&DBBook{}).
		Where("id = ? AND user_id = ?", book.ID, book.UserID).
		Updates(map[string]interface{}{
			"title":       book.Title,
			"author":      book.Author,
			"image_url":   book.ImageURL,
			"is_read":     book.IsRead,
			"is_favorite": book.IsFavorite,
			"category_id": book.CategoryID,
		})
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

// Delete implements domain.BookRepository
func (r *BookRepositoryImpl) Delete(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&DBBook{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func dbToDomainBook(row *DBBook) *domain.Book {
	book := &domain.Book{
		ID:         row.ID,
		Title:      row.Title,
		Author:     row.Author,
		ImageURL:   row.ImageURL,
		IsRead:     row.IsRead,
		IsFavorite: row.IsFavorite,
		UserID:     row.UserID,
		CategoryID: row.CategoryID,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.Category.ID != 0 {
		book.Category = dbToDomainCategory(&row.Category)
	}
	return book
}

var _ domain.BookRepository = (*BookRepositoryImpl)(nil)
