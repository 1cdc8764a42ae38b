package domain

import (
	"context"
	"io"
	"time"
)

// UserRepository defines credential store operations. Users are only written on verification.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByIdentifier matches username or email, case-insensitively.
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateName(ctx context.Context, id, firstName, lastName string) (*User, error)
}

// RegistrationStore commits a verified registration: it creates the user and
// removes the username's OTP tokens in one transaction.
type RegistrationStore interface {
	Commit(ctx context.Context, user *User) error
}

// PendingRegistrationRepository defines the short-lived signup cache
type PendingRegistrationRepository interface {
	// Save overwrites any prior entry for the username and resets its TTL.
	Save(ctx context.Context, pending *PendingRegistration) error
	Find(ctx context.Context, username string) (*PendingRegistration, error)
	Delete(ctx context.Context, username string) error
}

// OTPRepository defines the OTP ledger
type OTPRepository interface {
	Create(ctx context.Context, token *OTPToken) error
	// FindCurrent returns the oldest surviving token for username.
	FindCurrent(ctx context.Context, username string) (*OTPToken, error)
	Delete(ctx context.Context, id string) error
	DeleteByUsername(ctx context.Context, username string) error
}

// RevocationRepository defines the append-only refresh token blacklist
type RevocationRepository interface {
	Revoke(ctx context.Context, token *RevokedToken) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Locker serializes critical sections keyed by name across instances
type Locker interface {
	// Acquire blocks until the lock is held or ctx ends.
	Acquire(ctx context.Context, key string) (Lock, error)
}

// Lock is a held Locker entry
type Lock interface {
	Release(ctx context.Context) error
}

// CategoryRepository defines owner-scoped category storage
type CategoryRepository interface {
	List(ctx context.Context, userID string) ([]*Category, error)
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, userID string, id uint) (*Category, error)
	FindByName(ctx context.Context, userID, name string) (*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, userID string, id uint) error
}

// BookRepository defines owner-scoped book storage
type BookRepository interface {
	List(ctx context.Context, filter BookFilter) (*BookPage, error)
	Create(ctx context.Context, book *Book) error
	FindByID(ctx context.Context, userID string, id uint) (*Book, error)
	ExistsByTitle(ctx context.Context, userID, title string, excludeID uint) (bool, error)
	CountByCategory(ctx context.Context, userID string, categoryID uint) (int64, error)
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, userID string, id uint) error
}

// RegistrationService drives signup, email verification and OTP resend
type RegistrationService interface {
	Signup(ctx context.Context, req SignupRequest) (*PendingRegistration, error)
	Verify(ctx context.Context, username, code string) (*User, error)
	Resend(ctx context.Context, username string) error
}

// AuthService defines session business logic
type AuthService interface {
	SignIn(ctx context.Context, identifier, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	SignOut(ctx context.Context, userID, refreshToken string) error
	VerifyAccessToken(ctx context.Context, token string) (*TokenClaims, error)
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*User, error)
}

// OTPService issues and checks one-time codes
type OTPService interface {
	// Issue replaces every token of the username with a fresh one and emails it.
	// The new token is deleted again when the email cannot be sent.
	Issue(ctx context.Context, pending *PendingRegistration) (*OTPToken, error)
	// Check validates code against the current token without consuming it.
	Check(ctx context.Context, username, code string) (*OTPToken, error)
}

// LibraryService defines the owned-resource operations on books and categories
type LibraryService interface {
	ListCategories(ctx context.Context, userID string) ([]*Category, error)
	CreateCategory(ctx context.Context, userID, name string) (*Category, error)
	GetCategory(ctx context.Context, userID string, id uint) (*Category, error)
	UpdateCategory(ctx context.Context, userID string, id uint, name string) (*Category, error)
	DeleteCategory(ctx context.Context, userID string, id uint) error

	ListBooks(ctx context.Context, filter BookFilter) (*BookPage, error)
	CreateBook(ctx context.Context, userID string, in BookInput) (*Book, error)
	GetBook(ctx context.Context, userID string, id uint) (*Book, error)
	UpdateBook(ctx context.Context, userID string, id uint, in BookInput) (*Book, error)
	DeleteBook(ctx context.Context, userID string, id uint) error
	UploadCover(ctx context.Context, userID string, id uint, upload CoverUpload, body io.Reader) (*Book, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(user *User) (string, time.Time, error)
	GenerateRefreshToken(user *User) (string, time.Time, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ObjectStorage stores binary objects and returns their public URL
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
