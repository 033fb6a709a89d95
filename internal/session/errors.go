package session

import "fmt"

// AuthErrorCode classifies authentication failures so callers can branch on a
// stable code instead of matching provider message text.
type AuthErrorCode string

const (
	CodeInvalidCredentials AuthErrorCode = "invalid_credentials"
	CodeUserAlreadyExists  AuthErrorCode = "user_already_exists"
	CodeWeakPassword       AuthErrorCode = "weak_password"
	CodeInvalidToken       AuthErrorCode = "invalid_token"
	CodeProviderDisabled   AuthErrorCode = "provider_disabled"
)

// AuthError is the failure type returned by all credential operations
type AuthError struct {
	Code    AuthErrorCode
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %s", e.Code, e.Message)
}

func authErr(code AuthErrorCode, format string, args ...interface{}) *AuthError {
	return &AuthError{Code: code, Message: fmt.Sprintf(format, args...)}
}
