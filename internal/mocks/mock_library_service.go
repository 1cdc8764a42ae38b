package mocks

import (
	"context"
	"io"

	"github.com/you/booklib/domain"
)

// MockLibraryService implements domain.LibraryService interface for testing.
// Unset funcs return domain.ErrResourceNotFound or empty results.
type MockLibraryService struct {
	ListCategoriesFunc func(ctx context.Context, userID string) ([]*domain.Category, error)
	CreateCategoryFunc func(ctx context.Context, userID, name string) (*domain.Category, error)
	GetCategoryFunc    func(ctx context.Context, userID string, id uint) (*domain.Category, error)
	UpdateCategoryFunc func(ctx context.Context, userID string, id uint, name string) (*domain.Category, error)
	DeleteCategoryFunc func(ctx context.Context, userID string, id uint) error

	ListBooksFunc   func(ctx context.Context, filter domain.BookFilter) (*domain.BookPage, error)
	CreateBookFunc  func(ctx context.Context, userID string, in domain.BookInput) (*domain.Book, error)
	GetBookFunc     func(ctx context.Context, userID string, id uint) (*domain.Book, error)
	UpdateBookFunc  func(ctx context.Context, userID string, id uint, in domain.BookInput) (*domain.Book, error)
	DeleteBookFunc  func(ctx context.Context, userID string, id uint) error
	UploadCoverFunc func(ctx context.Context, userID string, id uint, upload domain.CoverUpload, body io.Reader) (*domain.Book, error)
}

// Compile-time interface compliance verification
var _ domain.LibraryService = (*MockLibraryService)(nil)

// NewMockLibraryService creates a new MockLibraryService with default behaviors
func NewMockLibraryService() *MockLibraryService {
	return &MockLibraryService{}
}

func (m *MockLibraryService) ListCategories(ctx context.Context, userID string) ([]*domain.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx, userID)
	}
	return []*domain.Category{}, nil
}

func (m *MockLibraryService) CreateCategory(ctx context.Context, userID, name string) (*domain.Category, error) {
	if m.CreateCategoryFunc != nil {
		return m.CreateCategoryFunc(ctx, userID, name)
	}
	return &domain.Category{ID: 1, Name: name, UserID: userID}, nil
}

func (m *MockLibraryService) GetCategory(ctx context.Context, userID string, id uint) (*domain.Category, error) {
	if m.GetCategoryFunc != nil {
		return m.GetCategoryFunc(ctx, userID, id)
	}
	return nil, domain.ErrResourceNotFound
}

func (m *MockLibraryService) UpdateCategory(ctx context.Context, userID string, id uint, name string) (*domain.Category, error) {
	if m.UpdateCategoryFunc != nil {
		return m.UpdateCategoryFunc(ctx, userID, id, name)
	}
	return nil, domain.ErrResourceNotFound
}

func (m *MockLibraryService) DeleteCategory(ctx context.Context, userID string, id uint) error {
	if m.DeleteCategoryFunc != nil {
		return m.DeleteCategoryFunc(ctx, userID, id)
	}
	return domain.ErrResourceNotFound
}

func (m *MockLibraryService) ListBooks(ctx context.Context, filter domain.BookFilter) (*domain.BookPage, error) {
	if m.ListBooksFunc != nil {
		return m.ListBooksFunc(ctx, filter)
	}
	return &domain.BookPage{Items: []*domain.Book{}, Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (m *MockLibraryService) CreateBook(ctx context.Context, userID string, in domain.BookInput) (*domain.Book, error) {
	if m.CreateBookFunc != nil {
		return m.CreateBookFunc(ctx, userID, in)
	}
	book := &domain.Book{ID: 1, UserID: userID}
	if in.Title != nil {
		book.Title = *in.Title
	}
	if in.Author != nil {
		book.Author = *in.Author
	}
	return book, nil
}

func (m *MockLibraryService) GetBook(ctx context.Context, userID string, id uint) (*domain.Book, error) {
	if m.GetBookFunc != nil {
		return m.GetBookFunc(ctx, userID, id)
	}
	return nil, domain.ErrResourceNotFound
}

func (m *MockLibraryService) UpdateBook(ctx context.Context, userID string, id uint, in domain.BookInput) (*domain.Book, error) {
	if m.UpdateBookFunc != nil {
		return m.UpdateBookFunc(ctx, userID, id, in)
	}
	return nil, domain.ErrResourceNotFound
}

func (m *MockLibraryService) DeleteBook(ctx context.Context, userID string, id uint) error {
	if m.DeleteBookFunc != nil {
		return m.DeleteBookFunc(ctx, userID, id)
	}
	return domain.ErrResourceNotFound
}

func (m *MockLibraryService) UploadCover(ctx context.Context, userID string, id uint, upload domain.CoverUpload, body io.Reader) (*domain.Book, error) {
	if m.UploadCoverFunc != nil {
		return m.UploadCoverFunc(ctx, userID, id, upload, body)
	}
	return nil, domain.ErrResourceNotFound
}
