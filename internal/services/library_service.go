package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/logging"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var whitespace = regexp.MustCompile(`\s+`)

// LibraryServiceImpl implements domain.LibraryService. Every call is scoped to one owner.
type LibraryServiceImpl struct {
	categories domain.CategoryRepository
	books      domain.BookRepository
	users      domain.UserRepository
	storage    domain.ObjectStorage
	log        logging.Logger
}

// NewLibraryService creates a new library service
func NewLibraryService(
	categories domain.CategoryRepository,
	books domain.BookRepository,
	users domain.UserRepository,
	storage domain.ObjectStorage,
	log logging.Logger,
) *LibraryServiceImpl {
	return &LibraryServiceImpl{
		categories: categories,
		books:      books,
		users:      users,
		storage:    storage,
		log:        log.With("component", "library"),
	}
}

func (s *LibraryServiceImpl) ListCategories(ctx context.Context, userID string) ([]*domain.Category, error) {
	return s.categories.List(ctx, userID)
}

func (s *LibraryServiceImpl) CreateCategory(ctx context.Context, userID, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if err := s.checkCategoryName(ctx, userID, name, 0); err != nil {
		return nil, err
	}

	category := &domain.Category{Name: name, UserID: userID}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicateResource) {
			return nil, domain.FieldError("name", "A category with this name already exists.")
		}
		return nil, err
	}
	return category, nil
}

func (s *LibraryServiceImpl) GetCategory(ctx context.Context, userID string, id uint) (*domain.Category, error) {
	return s.categories.FindByID(ctx, userID, id)
}

func (s *LibraryServiceImpl) UpdateCategory(ctx context.Context, userID string, id uint, name string) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := s.checkCategoryName(ctx, userID, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicateResource) {
			return nil, domain.FieldError("name", "A category with this name already exists.")
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses to remove a category that books still reference
func (s *LibraryServiceImpl) DeleteCategory(ctx context.Context, userID string, id uint) error {
	if _, err := s.categories.FindByID(ctx, userID, id); err != nil {
		return err
	}

	n, err := s.books.CountByCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrCategoryInUse
	}
	return s.categories.Delete(ctx, userID, id)
}

func (s *LibraryServiceImpl) checkCategoryName(ctx context.Context, userID, name string, selfID uint) error {
	verr := domain.NewValidationError()
	validateLength(verr, "name", "Name", name, MaxCategoryLength, true)
	if err := verr.OrNil(); err != nil {
		return err
	}

	existing, err := s.categories.FindByName(ctx, userID, name)
	switch {
	case err == nil && existing.ID != selfID:
		return domain.FieldError("name", "A category with this name already exists.")
	case err != nil && !errors.Is(err, domain.ErrResourceNotFound):
		return err
	}
	return nil
}

// ListBooks clamps the page to 1.. and the page size to 1..MaxPageSize
func (s *LibraryServiceImpl) ListBooks(ctx context.Context, filter domain.BookFilter) (*domain.BookPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}
	filter.Category = strings.TrimSpace(filter.Category)
	return s.books.List(ctx, filter)
}

func (s *LibraryServiceImpl) CreateBook(ctx context.Context, userID string, in domain.BookInput) (*domain.Book, error) {
	book := &domain.Book{UserID: userID}
	if err := s.apply(ctx, book, in, true); err != nil {
		return nil, err
	}

	if err := s.books.Create(ctx, book); err != nil {
		if errors.Is(err, domain.ErrDuplicateResource) {
			return nil, domain.FieldError("title", "A book with this title already exists.")
		}
		return nil, err
	}
	return s.books.FindByID(ctx, userID, book.ID)
}

func (s *LibraryServiceImpl) GetBook(ctx context.Context, userID string, id uint) (*domain.Book, error) {
	return s.books.FindByID(ctx, userID, id)
}

func (s *LibraryServiceImpl) UpdateBook(ctx context.Context, userID string, id uint, in domain.BookInput) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, book, in, false); err != nil {
		return nil, err
	}

	if err := s.books.Update(ctx, book); err != nil {
		if errors.Is(err, domain.ErrDuplicateResource) {
			return nil, domain.FieldError("title", "A book with this title already exists.")
		}
		return nil, err
	}
	return s.books.FindByID(ctx, userID, id)
}

func (s *LibraryServiceImpl) DeleteBook(ctx context.Context, userID string, id uint) error {
	return s.books.Delete(ctx, userID, id)
}

// apply copies the set fields of in onto book and validates the result.
// create requires title, author and category name.
func (s *LibraryServiceImpl) apply(ctx context.Context, book *domain.Book, in domain.BookInput, create bool) error {
	if in.Title != nil {
		book.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		book.Author = strings.TrimSpace(*in.Author)
	}
	if in.ImageURL != nil {
		book.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.IsRead != nil {
		book.IsRead = *in.IsRead
	}
	if in.IsFavorite != nil {
		book.IsFavorite = *in.IsFavorite
	}

	verr := domain.NewValidationError()
	validateLength(verr, "title", "Title", book.Title, MaxTitleLength, true)
	validateLength(verr, "author", "Author", book.Author, MaxAuthorLength, true)
	if book.ImageURL != "" {
		if err := validate.Var(book.ImageURL, "url"); err != nil {
			verr.Add("image_url", "Enter a valid URL.")
		}
	}

	var categoryName string
	if in.CategoryName != nil {
		categoryName = strings.TrimSpace(*in.CategoryName)
	}
	if categoryName == "" && (create || in.CategoryName != nil) {
		verr.Add("category_name", msgRequired)
	}

	if _, bad := verr.Fields["title"]; !bad {
		taken, err := s.books.ExistsByTitle(ctx, book.UserID, book.Title, book.ID)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("title", "A book with this title already exists.")
		}
	}

	if categoryName != "" {
		category, err := s.categories.FindByName(ctx, book.UserID, categoryName)
		switch {
		case err == nil:
			book.CategoryID = category.ID
			book.Category = category
		case errors.Is(err, domain.ErrResourceNotFound):
			verr.Add("category_name", fmt.Sprintf("Category: %s does not exist.", categoryName))
		default:
			return err
		}
	}
	return verr.OrNil()
}

// UploadCover stores the image in the bucket and records its public URL on the book
func (s *LibraryServiceImpl) UploadCover(ctx context.Context, userID string, id uint, upload domain.CoverUpload, body io.Reader) (*domain.Book, error) {
	if upload.Filename == "" {
		return nil, domain.FieldError("image", msgRequired)
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, domain.FieldError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	book, err := s.books.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := CoverKey(owner.Username, book.Title, upload.Filename)
	url, err := s.storage.Upload(ctx, key, upload.ContentType, body, upload.Size)
	if err != nil {
		s.log.Error(ctx, "cover upload failed", "key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	book.ImageURL = url
	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// CoverKey names a cover object <username>-<title>-<filename> with whitespace runs replaced by "-"
func CoverKey(username, title, filename string) string {
	return whitespace.ReplaceAllString(fmt.Sprintf("%s-%s-%s", username, title, filepath.Base(filename)), "-")
}

var _ domain.LibraryService = (*LibraryServiceImpl)(nil)
