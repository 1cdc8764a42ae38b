package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/booklib/domain"
	"github.com/you/booklib/internal/logging"
)

// Error keys carried by every failure response
const (
	KeyValidation         = "validation_error"
	KeyNotFound           = "not_found"
	KeyInvalidCredentials = "invalid_credentials"
	KeyNotVerified        = "not_verified"
	KeyToken              = "token_error"
	KeyNotification       = "notification_failed"
	KeyInternal           = "internal_error"
	KeyForbidden          = "forbidden"
	KeyConflict           = "conflict"
)

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope of every failure response
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{Message: message, Data: data})
}

func abortWith(c *gin.Context, status int, key, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: key, Message: message})
}

func badRequestBody(c *gin.Context) {
	abortWith(c, http.StatusBadRequest, KeyValidation, "Request body is not valid JSON.")
}

// classify maps a domain error to its status code and error key
func classify(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, KeyValidation
	case errors.Is(err, domain.ErrOTPInvalid),
		errors.Is(err, domain.ErrOTPExpired),
		errors.Is(err, domain.ErrOTPNotFound):
		return http.StatusBadRequest, KeyValidation
	case errors.Is(err, domain.ErrRegistrationNotFound):
		return http.StatusBadRequest, KeyNotFound
	case errors.Is(err, domain.ErrVerificationBusy),
		errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrDuplicateResource),
		errors.Is(err, domain.ErrCategoryInUse):
		return http.StatusBadRequest, KeyConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, KeyInvalidCredentials
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, KeyToken
	case errors.Is(err, domain.ErrUserNotVerified):
		return http.StatusForbidden, KeyNotVerified
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, KeyForbidden
	case errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenRevoked),
		errors.Is(err, domain.ErrSessionExpired):
		return http.StatusBadRequest, KeyToken
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrResourceNotFound):
		return http.StatusNotFound, KeyNotFound
	case errors.Is(err, domain.ErrNotificationFailed):
		return http.StatusInternalServerError, KeyNotification
	}
	return http.StatusInternalServerError, KeyInternal
}

// respondError writes the envelope for err. Internal details never reach the client.
func respondError(c *gin.Context, log logging.Logger, err error) {
	status, key := classify(err)
	respondErrorAs(c, log, err, status, key)
}

func respondErrorAs(c *gin.Context, log logging.Logger, err error, status int, key string) {
	body := ErrorResponse{Error: key, Message: publicMessage(err, key)}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Errors = verr.Fields
	}
	if status >= http.StatusInternalServerError {
		log.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.AbortWithStatusJSON(status, body)
}

func publicMessage(err error, key string) string {
	switch key {
	case KeyValidation:
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return "Invalid input."
		}
	case KeyInternal:
		if errors.Is(err, domain.ErrStorageFailure) {
			return domain.ErrStorageFailure.Error()
		}
		return "Something went wrong, please try again later."
	case KeyNotification:
		return "Failed to send the verification email, please request a new code."
	}
	return firstLetterUpper(rootMessage(err))
}

// rootMessage returns the text of the sentinel err wraps, without wrapping context
func rootMessage(err error) string {
	for _, sentinel := range knownErrors {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

var knownErrors = []error{
	domain.ErrUserNotFound, domain.ErrInvalidCredentials, domain.ErrUserAlreadyExists, domain.ErrUserNotVerified,
	domain.ErrRegistrationNotFound, domain.ErrVerificationBusy,
	domain.ErrOTPExpired, domain.ErrOTPInvalid, domain.ErrOTPNotFound,
	domain.ErrTokenInvalid, domain.ErrTokenExpired, domain.ErrTokenMalformed, domain.ErrTokenRevoked, domain.ErrSessionExpired,
	domain.ErrUnauthorized, domain.ErrInsufficientRole, domain.ErrResourceNotFound,
	domain.ErrDuplicateResource, domain.ErrCategoryInUse,
}

func firstLetterUpper(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
