package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/http/middleware"
	"github.com/you/booklib/internal/logging"
	"github.com/you/booklib/internal/mocks"
)

// asUser stands in for the auth middleware
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.RoleKey, domain.DefaultRole)
		c.Next()
	}
}

func newAuthRouter(reg domain.RegistrationService, authSvc domain.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandlers(reg, authSvc, CookieSettings{Domain: "books.test", Secure: true}, logging.Nop())

	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/verify-email", h.VerifyEmail)
	r.POST("/auth/resend-otp", h.ResendOTP)
	r.POST("/auth/signin", h.SignIn)
	r.POST("/token/refresh", h.Refresh)
	r.POST("/token/verify", h.VerifyToken)

	me := r.Group("/", asUser("user-1"))
	me.POST("/auth/signout", h.SignOut)
	me.GET("/accounts/me", h.Me)
	me.PATCH("/accounts/me", h.UpdateMe)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		buf = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if buf != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestAuthHandlers_Signup(t *testing.T) {
	reg := mocks.NewMockRegistrationService()
	router := newAuthRouter(reg, mocks.NewMockAuthService())

	w := doJSON(router, "POST", "/auth/signup", SignupRequest{FirstName: "Ana", LastName: "Silva", Username: "ana", Email: "a@x.com", Password: "Abc123!"})
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, "ana", body["data"].(map[string]interface{})["username"])

	reg.SignupFunc = func(ctx context.Context, req domain.SignupRequest) (*domain.PendingRegistration, error) {
		verr := domain.NewValidationError()
		verr.Add("email", "A user with this email already exists.")
		verr.Add("password", "Password must be at least 6 characters long")
		return nil, verr
	}
	w = doJSON(router, "POST", "/auth/signup", SignupRequest{Username: "ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decode(t, w)
	assert.Equal(t, KeyValidation, body["error"])
	fields := body["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{"A user with this email already exists."}, fields["email"])
	assert.Contains(t, fields, "password")

	reg.SignupFunc = func(ctx context.Context, req domain.SignupRequest) (*domain.PendingRegistration, error) {
		return nil, fmt.Errorf("%w: smtp timeout", domain.ErrNotificationFailed)
	}
	w = doJSON(router, "POST", "/auth/signup", SignupRequest{Username: "ana"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, KeyNotification, decode(t, w)["error"])

	w = doJSON(router, "POST", "/auth/signup", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlers_VerifyEmail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
	}{
		{name: "verified", wantStatus: http.StatusOK},
		{name: "wrong code", err: domain.ErrOTPInvalid, wantStatus: http.StatusBadRequest, wantKey: KeyValidation},
		{name: "expired code", err: domain.ErrOTPExpired, wantStatus: http.StatusBadRequest, wantKey: KeyValidation},
		{name: "no pending registration", err: domain.ErrRegistrationNotFound, wantStatus: http.StatusBadRequest, wantKey: KeyNotFound},
		{name: "concurrent attempt", err: domain.ErrVerificationBusy, wantStatus: http.StatusBadRequest, wantKey: KeyConflict},
		{name: "store failure", err: fmt.Errorf("failed to commit registration: %w", assert.AnError), wantStatus: http.StatusInternalServerError, wantKey: KeyInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := mocks.NewMockRegistrationService()
			if tt.err != nil {
				reg.VerifyFunc = func(ctx context.Context, username, code string) (*domain.User, error) {
					return nil, tt.err
				}
			}
			router := newAuthRouter(reg, mocks.NewMockAuthService())

			w := doJSON(router, "POST", "/auth/verify-email", VerifyEmailRequest{Username: "ana", OTPCode: "a1b2c3"})
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			if tt.wantKey != "" {
				assert.Equal(t, tt.wantKey, body["error"])
				assert.NotContains(t, body["message"], "assert.AnError", "internal details stay hidden")
			}
		})
	}
}

func TestAuthHandlers_ResendOTP(t *testing.T) {
	reg := mocks.NewMockRegistrationService()
	router := newAuthRouter(reg, mocks.NewMockAuthService())

	w := doJSON(router, "POST", "/auth/resend-otp", ResendOTPRequest{Username: "bob"})
	assert.Equal(t, http.StatusOK, w.Code)

	reg.ResendFunc = func(ctx context.Context, username string) error { return domain.ErrRegistrationNotFound }
	w = doJSON(router, "POST", "/auth/resend-otp", ResendOTPRequest{Username: "bob"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Registration session not found, please sign up again", decode(t, w)["message"])

	reg.ResendFunc = func(ctx context.Context, username string) error { return domain.FieldError("username", "This field is required.") }
	w = doJSON(router, "POST", "/auth/resend-otp", ResendOTPRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reg.ResendFunc = func(ctx context.Context, username string) error { return domain.ErrNotificationFailed }
	w = doJSON(router, "POST", "/auth/resend-otp", ResendOTPRequest{Username: "bob"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthHandlers_SignIn(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	var gotIdentifier string
	authSvc.SignInFunc = func(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
		gotIdentifier = identifier
		switch password {
		case "wrong":
			return nil, domain.ErrInvalidCredentials
		case "unverified":
			return nil, domain.ErrUserNotVerified
		}
		now := time.Now()
		return &domain.AuthResult{
			User:             &domain.User{ID: "user-1", Username: "ana", Email: "a@x.com"},
			AccessToken:      "access-token",
			AccessExpiresAt:  now.Add(12 * time.Hour),
			RefreshToken:     "refresh-token",
			RefreshExpiresAt: now.Add(96 * time.Hour),
		}, nil
	}
	router := newAuthRouter(mocks.NewMockRegistrationService(), authSvc)

	w := doJSON(router, "POST", "/auth/signin", SignInRequest{Email: "A@X.COM", Password: "Abc123!"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A@X.COM", gotIdentifier)

	data := decode(t, w)["data"].(map[string]interface{})
	access := data["access_token"].(map[string]interface{})
	assert.Equal(t, "access-token", access["token"])
	assert.InDelta(t, (12 * time.Hour).Seconds(), access["expire_in_seconds"], 5)

	cookies := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, AccessCookie)
	require.Contains(t, cookies, RefreshCookie)
	for _, c := range cookies {
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, "books.test", c.Domain)
	}
	assert.Equal(t, "refresh-token", cookies[RefreshCookie].Value)
	assert.InDelta(t, (96 * time.Hour).Seconds(), cookies[RefreshCookie].MaxAge, 5)

	w = doJSON(router, "POST", "/auth/signin", SignInRequest{Username: "ana", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, KeyInvalidCredentials, decode(t, w)["error"])

	w = doJSON(router, "POST", "/auth/signin", SignInRequest{Identifier: "ana", Password: "unverified"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, KeyNotVerified, decode(t, w)["error"])
}

func TestAuthHandlers_SignOut(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	var gotUser, gotToken string
	authSvc.SignOutFunc = func(ctx context.Context, userID, refreshToken string) error {
		gotUser, gotToken = userID, refreshToken
		if refreshToken == "revoked" {
			return domain.ErrTokenRevoked
		}
		return nil
	}
	router := newAuthRouter(mocks.NewMockRegistrationService(), authSvc)

	w := doJSON(router, "POST", "/auth/signout", SignOutRequest{RefreshToken: "body-token"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", gotUser)
	assert.Equal(t, "body-token", gotToken)
	for _, c := range w.Result().Cookies() {
		assert.Negative(t, c.MaxAge, "cookie %s must be cleared", c.Name)
	}

	w = doJSON(router, "POST", "/auth/signout", nil, &http.Cookie{Name: RefreshCookie, Value: "cookie-token"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", gotToken)

	w = doJSON(router, "POST", "/auth/signout", SignOutRequest{RefreshToken: "revoked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, KeyToken, body["error"])
	assert.Equal(t, "Already signed out, please sign in again", body["message"])
}

func TestAuthHandlers_Refresh(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	var gotToken string
	authSvc.RefreshFunc = func(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
		gotToken = refreshToken
		switch refreshToken {
		case "revoked":
			return nil, domain.ErrTokenRevoked
		case "old":
			return nil, domain.ErrSessionExpired
		}
		return &domain.AuthResult{AccessToken: "new-access", AccessExpiresAt: time.Now().Add(time.Hour), RefreshToken: refreshToken}, nil
	}
	router := newAuthRouter(mocks.NewMockRegistrationService(), authSvc)

	w := doJSON(router, "POST", "/token/refresh", RefreshRequest{RefreshToken: "body"}, &http.Cookie{Name: RefreshCookie, Value: "cookie"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie", gotToken, "the cookie wins over the body")
	access := decode(t, w)["data"].(map[string]interface{})["access_token"].(map[string]interface{})
	assert.Equal(t, "new-access", access["token"])

	w = doJSON(router, "POST", "/token/refresh", RefreshRequest{RefreshToken: "body"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body", gotToken)

	for token, message := range map[string]string{
		"revoked": "Already signed out, please sign in again",
		"old":     "Session expired, please sign in again",
	} {
		w = doJSON(router, "POST", "/token/refresh", RefreshRequest{RefreshToken: token})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, message, decode(t, w)["message"])
	}
}

func TestAuthHandlers_VerifyToken(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	authSvc.VerifyAccessTokenFunc = func(ctx context.Context, token string) (*domain.TokenClaims, error) {
		if token != "good" {
			return nil, domain.ErrTokenInvalid
		}
		return &domain.TokenClaims{UserID: "user-1", Role: "user", ExpiresAt: time.Now().Add(time.Hour).Unix()}, nil
	}
	router := newAuthRouter(mocks.NewMockRegistrationService(), authSvc)

	w := doJSON(router, "POST", "/token/verify", VerifyTokenRequest{Token: "good"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/token/verify", VerifyTokenRequest{Token: "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, KeyToken, decode(t, w)["error"])
}

func TestAuthHandlers_Me(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	router := newAuthRouter(mocks.NewMockRegistrationService(), authSvc)

	w := doJSON(router, "GET", "/accounts/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "user-1", data["id"])
	assert.Equal(t, "ana", data["username"])

	w = doJSON(router, "PATCH", "/accounts/me", UpdateProfileRequest{FirstName: "Anna", LastName: "S"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Anna", decode(t, w)["data"].(map[string]interface{})["first_name"])

	authSvc.GetProfileFunc = func(ctx context.Context, userID string) (*domain.User, error) {
		return nil, domain.ErrUserNotFound
	}
	w = doJSON(router, "GET", "/accounts/me", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func newLibraryRouter(library domain.LibraryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLibraryHandlers(library, logging.Nop())

	r := gin.New()
	g := r.Group("/", asUser("user-1"))
	g.GET("/category", h.ListCategories)
	g.POST("/category", h.CreateCategory)
	g.GET("/category/:id", h.GetCategory)
	g.PUT("/category/:id", h.UpdateCategory)
	g.DELETE("/category/:id", h.DeleteCategory)
	g.GET("/book", h.ListBooks)
	g.POST("/book", h.CreateBook)
	g.GET("/book/:id", h.GetBook)
	g.PATCH("/book/:id", h.UpdateBook)
	g.DELETE("/book/:id", h.DeleteBook)
	g.POST("/book/:id/cover", h.UploadCover)
	return r
}

func TestLibraryHandlers_Categories(t *testing.T) {
	library := mocks.NewMockLibraryService()
	router := newLibraryRouter(library)

	w := doJSON(router, "POST", "/category", CategoryRequest{Name: "SciFi"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "GET", "/category/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	library.DeleteCategoryFunc = func(ctx context.Context, userID string, id uint) error {
		assert.Equal(t, "user-1", userID)
		if id == 3 {
			return domain.ErrCategoryInUse
		}
		return nil
	}
	w = doJSON(router, "DELETE", "/category/3", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["message"], "This category is being used")

	w = doJSON(router, "DELETE", "/category/4", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLibraryHandlers_ListBooks(t *testing.T) {
	library := mocks.NewMockLibraryService()
	var got domain.BookFilter
	library.ListBooksFunc = func(ctx context.Context, filter domain.BookFilter) (*domain.BookPage, error) {
		got = filter
		return &domain.BookPage{
			Items:    []*domain.Book{{ID: 1, Title: "Dune", UserID: "user-1", Category: &domain.Category{ID: 2, Name: "SciFi"}}},
			Page:     2,
			PageSize: 5,
			Total:    6,
		}, nil
	}
	router := newLibraryRouter(library)

	w := doJSON(router, "GET", "/book?page=2&page_size=5&is_read=true&category=SciFi&search=dun", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.PageSize)
	require.NotNil(t, got.IsRead)
	assert.True(t, *got.IsRead)
	assert.Nil(t, got.IsFavorite)
	assert.Equal(t, "SciFi", got.Category)
	assert.Equal(t, "dun", got.Search)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 6, data["total"])
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	book := items[0].(map[string]interface{})
	assert.Equal(t, "SciFi", book["category"].(map[string]interface{})["name"])
	assert.Equal(t, "user-1", book["owner"])

	w = doJSON(router, "GET", "/book?page=two&is_favorite=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["errors"].(map[string]interface{})
	assert.Contains(t, fields, "page")
	assert.Contains(t, fields, "is_favorite")
}

func TestLibraryHandlers_Books(t *testing.T) {
	library := mocks.NewMockLibraryService()
	router := newLibraryRouter(library)

	library.CreateBookFunc = func(ctx context.Context, userID string, in domain.BookInput) (*domain.Book, error) {
		return nil, domain.FieldError("category_name", fmt.Sprintf("Category: %s does not exist.", *in.CategoryName))
	}
	w := doJSON(router, "POST", "/book", map[string]interface{}{"title": "Dune", "author": "Herbert", "category_name": "Nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []interface{}{"Category: Nope does not exist."}, decode(t, w)["errors"].(map[string]interface{})["category_name"])

	var patched domain.BookInput
	library.UpdateBookFunc = func(ctx context.Context, userID string, id uint, in domain.BookInput) (*domain.Book, error) {
		patched = in
		return &domain.Book{ID: id, Title: "Dune", IsRead: true, UserID: userID}, nil
	}
	w = doJSON(router, "PATCH", "/book/1", map[string]interface{}{"is_read": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, patched.Title, "absent fields stay nil")
	require.NotNil(t, patched.IsRead)
	assert.True(t, *patched.IsRead)

	w = doJSON(router, "GET", "/book/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, KeyNotFound, decode(t, w)["error"])
}

func TestLibraryHandlers_UploadCover(t *testing.T) {
	library := mocks.NewMockLibraryService()
	var got domain.CoverUpload
	var content []byte
	library.UploadCoverFunc = func(ctx context.Context, userID string, id uint, upload domain.CoverUpload, body io.Reader) (*domain.Book, error) {
		got = upload
		content, _ = io.ReadAll(body)
		return &domain.Book{ID: id, ImageURL: "https://storage.test/images/key.png"}, nil
	}
	router := newLibraryRouter(library)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="cover.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/book/5/cover", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cover.png", got.Filename)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, []byte("\x89PNG"), content)
	assert.Equal(t, "https://storage.test/images/key.png", decode(t, w)["data"].(map[string]interface{})["image_url"])

	w = doJSON(router, "POST", "/book/5/cover", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "image")
}

func TestPolicyHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	policies := mocks.NewMockPolicyService()
	h := NewPolicyHandlers(policies, logging.Nop())
	r := gin.New()
	r.GET("/admin/policies", h.List)
	r.POST("/admin/policies", h.Add)
	r.DELETE("/admin/policies", h.Remove)

	w := doJSON(r, "GET", "/admin/policies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 3)

	w = doJSON(r, "POST", "/admin/policies", PolicyRequest{Sub: "role_user", Obj: "/stats", Act: "GET"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/admin/policies", PolicyRequest{Sub: "role_user"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["errors"].(map[string]interface{})
	assert.Contains(t, fields, "obj")
	assert.Contains(t, fields, "act")

	policies.AddPolicyFunc = func(role, resource, action string) error { return domain.ErrDuplicateResource }
	w = doJSON(r, "POST", "/admin/policies", PolicyRequest{Sub: "role_user", Obj: "/book", Act: "GET"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, KeyConflict, decode(t, w)["error"])

	policies.RemovePolicyFunc = func(role, resource, action string) error { return domain.ErrResourceNotFound }
	w = doJSON(r, "DELETE", "/admin/policies", PolicyRequest{Sub: "role_user", Obj: "/nowhere", Act: "GET"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantKey    string
	}{
		{domain.FieldError("x", "bad"), http.StatusBadRequest, KeyValidation},
		{fmt.Errorf("wrapped: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized, KeyInvalidCredentials},
		{domain.ErrUserNotVerified, http.StatusForbidden, KeyNotVerified},
		{domain.ErrUserAlreadyExists, http.StatusBadRequest, KeyConflict},
		{domain.ErrTokenMalformed, http.StatusBadRequest, KeyToken},
		{domain.ErrResourceNotFound, http.StatusNotFound, KeyNotFound},
		{domain.ErrInsufficientRole, http.StatusForbidden, KeyForbidden},
		{fmt.Errorf("%w: 421", domain.ErrNotificationFailed), http.StatusInternalServerError, KeyNotification},
		{fmt.Errorf("%w: bucket down", domain.ErrStorageFailure), http.StatusInternalServerError, KeyInternal},
		{assert.AnError, http.StatusInternalServerError, KeyInternal},
	}
	for _, tt := range tests {
		status, key := classify(tt.err)
		assert.Equal(t, tt.wantStatus, status, tt.err.Error())
		assert.Equal(t, tt.wantKey, key, tt.err.Error())
	}
}
