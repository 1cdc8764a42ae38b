package domain

import "time"

// User is a committed identity. It only exists once email ownership is proven.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DefaultRole is assigned to every user committed through email verification.
const DefaultRole = "user"

// SignupRequest represents the profile submitted when a signup starts
type SignupRequest struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Extra     map[string]string
}

// PendingRegistration holds validated signup data until the OTP is verified.
// PasswordHash is already hashed and must be reused as-is on commit.
type PendingRegistration struct {
	Username     string            `json:"username"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"password_hash"`
	Extra        map[string]string `json:"extra,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// OTPToken is a one-time code owned by a username (not a user id, no user exists yet)
type OTPToken struct {
	ID        string
	Username  string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t *OTPToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// TokenType distinguishes access from refresh credentials
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// TokenClaims represents JWT token claims
type TokenClaims struct {
	ID        string    `json:"jti"`
	UserID    string    `json:"sub"`
	Role      string    `json:"role"`
	Type      TokenType `json:"typ"`
	IssuedAt  int64     `json:"iat"`
	ExpiresAt int64     `json:"exp"`
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User             *User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RevokedToken is an entry of the refresh token revocation list
type RevokedToken struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
	RevokedAt time.Time
}

// Category groups the books of a single owner.
type Category struct {
	ID     uint
	Name   string
	UserID string
}

// Book is a library entry owned by exactly one user.
type Book struct {
	ID         uint
	Title      string
	Author     string
	ImageURL   string
	IsRead     bool
	IsFavorite bool
	UserID     string
	CategoryID uint
	Category   *Category
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookInput carries create/update values. Nil pointers leave fields untouched on update.
type BookInput struct {
	Title        *string
	Author       *string
	ImageURL     *string
	CategoryName *string
	IsRead       *bool
	IsFavorite   *bool
}

// BookFilter narrows a book listing to one owner plus optional criteria
type BookFilter struct {
	UserID     string
	IsRead     *bool
	IsFavorite *bool
	Category   string
	Search     string
	Page       int
	PageSize   int
}

// BookPage is one page of a book listing
type BookPage struct {
	Items    []*Book
	Page     int
	PageSize int
	Total    int64
}

// CoverUpload is an image destined for the storage bucket
type CoverUpload struct {
	Filename    string
	ContentType string
	Size        int64
}
