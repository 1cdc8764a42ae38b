package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/you/booklib/domain"
)

const (
	MaxNameLength      = 30
	MinPasswordLength  = 6
	MaxUsernameLength  = 150
	MaxTitleLength     = 50
	MaxAuthorLength    = 50
	MaxCategoryLength  = 50
	msgRequired        = "This field is required."
	msgDuplicateEmail  = "A user with this email already exists."
	msgDuplicateUser   = "A user with this username already exists."
	msgCommonPassword  = "Please choose a stronger password. This password is commonly used and vulnerable to attacks."
	msgWeakPassword    = "Password must include at least one uppercase letter, lowercase letter, number, and symbol"
	msgInvalidEmail    = "Enter a valid email address."
	msgInvalidUsername = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

var (
	validate = validator.New()

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	passwordRules   = []*regexp.Regexp{
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`\W`),
	}
	commonPasswords = []string{"password", "123456", "qwerty"}
)

// normalizeSignup trims surrounding whitespace from every profile field except the password
func normalizeSignup(req domain.SignupRequest) domain.SignupRequest {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	return req
}

// validateSignup checks the profile shape. Uniqueness is checked by the caller.
func validateSignup(req domain.SignupRequest) *domain.ValidationError {
	verr := domain.NewValidationError()

	validateName(verr, "first_name", "First name", req.FirstName)
	validateName(verr, "last_name", "Last name", req.LastName)

	switch {
	case req.Username == "":
		verr.Add("username", msgRequired)
	case utf8.RuneCountInString(req.Username) > MaxUsernameLength:
		verr.Add("username", fmt.Sprintf("Username cannot exceed %d characters.", MaxUsernameLength))
	case !usernamePattern.MatchString(req.Username):
		verr.Add("username", msgInvalidUsername)
	}

	if req.Email == "" {
		verr.Add("email", msgRequired)
	} else if err := validate.Var(req.Email, "email"); err != nil {
		verr.Add("email", msgInvalidEmail)
	}

	if msg := passwordProblem(req.Password); msg != "" {
		verr.Add("password", msg)
	}
	return verr
}

func validateName(verr *domain.ValidationError, field, label, value string) {
	if value == "" {
		verr.Add(field, msgRequired)
		return
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		verr.Add(field, fmt.Sprintf("%s cannot exceed %d characters.", label, MaxNameLength))
	}
}

// passwordProblem returns the first policy violation of password, or "" when it passes
func passwordProblem(password string) string {
	if password == "" {
		return msgRequired
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
	for _, common := range commonPasswords {
		if strings.EqualFold(password, common) {
			return msgCommonPassword
		}
	}
	for _, rule := range passwordRules {
		if !rule.MatchString(password) {
			return msgWeakPassword
		}
	}
	return ""
}

// validateLength adds a message when value is empty (and required) or longer than max
func validateLength(verr *domain.ValidationError, field, label, value string, max int, required bool) {
	if value == "" {
		if required {
			verr.Add(field, msgRequired)
		}
		return
	}
	if utf8.RuneCountInString(value) > max {
		verr.Add(field, fmt.Sprintf("%s cannot exceed %d characters.", label, max))
	}
}
