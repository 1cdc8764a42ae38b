package handlers

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/http/middleware"
	"github.com/you/booklib/internal/logging"
)

// LibraryHandlers serves the book and category endpoints of the signed-in user
type LibraryHandlers struct {
	library domain.LibraryService
	log     logging.Logger
}

// NewLibraryHandlers creates new library handlers
func NewLibraryHandlers(library domain.LibraryService, log logging.Logger) *LibraryHandlers {
	return &LibraryHandlers{library: library, log: log.With("component", "library_handlers")}
}

// CategoryRequest represents a category create or rename
type CategoryRequest struct {
	Name string `json:"name"`
}

// BookRequest represents a book create or update. Absent fields are left untouched on update.
type BookRequest struct {
	Title        *string `json:"title"`
	Author       *string `json:"author"`
	ImageURL     *string `json:"image_url"`
	CategoryName *string `json:"category_name"`
	IsRead       *bool   `json:"is_read"`
	IsFavorite   *bool   `json:"is_favorite"`
}

func (r BookRequest) input() domain.BookInput {
	return domain.BookInput{
		Title:        r.Title,
		Author:       r.Author,
		ImageURL:     r.ImageURL,
		CategoryName: r.CategoryName,
		IsRead:       r.IsRead,
		IsFavorite:   r.IsFavorite,
	}
}

type categoryJSON struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type bookJSON struct {
	ID         uint          `json:"id"`
	Title      string        `json:"title"`
	Author     string        `json:"author"`
	ImageURL   string        `json:"image_url"`
	IsRead     bool          `json:"is_read"`
	IsFavorite bool          `json:"is_favorite"`
	Category   *categoryJSON `json:"category"`
	Owner      string        `json:"owner"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func toCategoryJSON(c *domain.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name}
}

func toBookJSON(b *domain.Book) bookJSON {
	out := bookJSON{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		ImageURL:   b.ImageURL,
		IsRead:     b.IsRead,
		IsFavorite: b.IsFavorite,
		Owner:      b.UserID,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.Category != nil {
		cat := toCategoryJSON(b.Category)
		out.Category = &cat
	}
	return out
}

// idParam reads :id; a malformed id cannot name an owned resource
func (h *LibraryHandlers) idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, h.log, domain.ErrResourceNotFound)
		return 0, false
	}
	return uint(id), true
}

func (h *LibraryHandlers) ListCategories(c *gin.Context) {
	categories, err := h.library.ListCategories(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]categoryJSON, 0, len(categories))
	for _, cat := range categories {
		out = append(out, toCategoryJSON(cat))
	}
	respond(c, http.StatusOK, "Categories retrieved.", out)
}

func (h *LibraryHandlers) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}
	category, err := h.library.CreateCategory(c.Request.Context(), middleware.CurrentUserID(c), req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Category created.", toCategoryJSON(category))
}

func (h *LibraryHandlers) GetCategory(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	category, err := h.library.GetCategory(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Category retrieved.", toCategoryJSON(category))
}

func (h *LibraryHandlers) UpdateCategory(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}
	category, err := h.library.UpdateCategory(c.Request.Context(), middleware.CurrentUserID(c), id, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Category updated.", toCategoryJSON(category))
}

func (h *LibraryHandlers) DeleteCategory(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.library.DeleteCategory(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBooks handles GET /book with page, page_size, is_read, is_favorite, category and search
func (h *LibraryHandlers) ListBooks(c *gin.Context) {
	filter := domain.BookFilter{
		UserID:   middleware.CurrentUserID(c),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	verr := domain.NewValidationError()
	filter.Page = queryInt(c, verr, "page")
	filter.PageSize = queryInt(c, verr, "page_size")
	filter.IsRead = queryBool(c, verr, "is_read")
	filter.IsFavorite = queryBool(c, verr, "is_favorite")
	if err := verr.OrNil(); err != nil {
		respondError(c, h.log, err)
		return
	}

	page, err := h.library.ListBooks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	items := make([]bookJSON, 0, len(page.Items))
	for _, b := range page.Items {
		items = append(items, toBookJSON(b))
	}
	respond(c, http.StatusOK, "Books retrieved.", gin.H{
		"items":     items,
		"page":      page.Page,
		"page_size": page.PageSize,
		"total":     page.Total,
	})
}

func queryInt(c *gin.Context, verr *domain.ValidationError, name string) int {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(name, "A valid integer is required.")
	}
	return v
}

func queryBool(c *gin.Context, verr *domain.ValidationError, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		verr.Add(name, "Must be a valid boolean.")
		return nil
	}
	return &v
}

func (h *LibraryHandlers) CreateBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}
	book, err := h.library.CreateBook(c.Request.Context(), middleware.CurrentUserID(c), req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Book created.", toBookJSON(book))
}

func (h *LibraryHandlers) GetBook(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	book, err := h.library.GetBook(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Book retrieved.", toBookJSON(book))
}

func (h *LibraryHandlers) UpdateBook(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}
	book, err := h.library.UpdateBook(c.Request.Context(), middleware.CurrentUserID(c), id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Book updated.", toBookJSON(book))
}

func (h *LibraryHandlers) DeleteBook(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.library.DeleteBook(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadCover handles POST /book/:id/cover with a multipart "image" file
func (h *LibraryHandlers) UploadCover(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, h.log, domain.FieldError("image", "No file was submitted."))
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	upload := domain.CoverUpload{Filename: header.Filename, ContentType: contentType, Size: header.Size}
	book, err := h.library.UploadCover(c.Request.Context(), middleware.CurrentUserID(c), id, upload, file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Cover uploaded.", toBookJSON(book))
}
