package identity

import (
	"net/http"
	"strings"

	"github.com/Abraxas-365/userservice/pkg/errx"
	"github.com/Abraxas-365/userservice/pkg/logx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("IDENTITY")

// Provider failures
var (
	CodeUserExists            = ErrRegistry.Register("USER_EXISTS", errx.TypeConflict, http.StatusConflict, "User account already exists")
	CodeUserNotFound          = ErrRegistry.Register("USER_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeEmailNotVerified      = ErrRegistry.Register("EMAIL_NOT_VERIFIED", errx.TypeForbidden, http.StatusForbidden, "Please verify your email before logging in. Check your inbox for the confirmation code.")
	CodeNotAuthorized         = ErrRegistry.Register("NOT_AUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "Authentication failed")
	CodeInvalidParameter      = ErrRegistry.Register("INVALID_PARAMETER", errx.TypeValidation, http.StatusBadRequest, "Invalid parameter")
	CodeCodeMismatch          = ErrRegistry.Register("CODE_MISMATCH", errx.TypeValidation, http.StatusBadRequest, "Invalid verification code. Please try again.")
	CodeCodeExpired           = ErrRegistry.Register("CODE_EXPIRED", errx.TypeValidation, http.StatusBadRequest, "Verification code has expired. Please request a new one.")
	CodeTooManyFailedAttempts = ErrRegistry.Register("TOO_MANY_FAILED_ATTEMPTS", errx.TypeRateLimited, http.StatusTooManyRequests, "Too many failed attempts, please try again later")
	CodeTooManyRequests       = ErrRegistry.Register("TOO_MANY_REQUESTS", errx.TypeRateLimited, http.StatusTooManyRequests, "Too many requests, please slow down")
	CodeLimitExceeded         = ErrRegistry.Register("LIMIT_EXCEEDED", errx.TypeRateLimited, http.StatusTooManyRequests, "Attempt limit exceeded, please try after some time")
	CodeDirectoryNotFound     = ErrRegistry.Register("DIRECTORY_NOT_FOUND", errx.TypeConfiguration, http.StatusNotFound, "User pool or app client not found. Check your configuration.")
	CodeProviderError         = ErrRegistry.Register("PROVIDER_ERROR", errx.TypeInternal, http.StatusInternalServerError, "Identity provider request failed")
	CodeChallengeRequired     = ErrRegistry.Register("CHALLENGE_REQUIRED", errx.TypeAuthorization, http.StatusUnauthorized, "Additional authentication challenge required")
)

// Local request checks
var (
	CodeInvalidEmail     = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "A valid email address is required")
	CodePasswordTooShort = ErrRegistry.Register("PASSWORD_TOO_SHORT", errx.TypeValidation, http.StatusBadRequest, "Password must be at least 6 characters")
	CodePhoneTooLong     = ErrRegistry.Register("PHONE_TOO_LONG", errx.TypeValidation, http.StatusBadRequest, "Phone number must be at most 15 characters")
	CodeInvalidLimit     = ErrRegistry.Register("INVALID_LIMIT", errx.TypeValidation, http.StatusBadRequest, "Limit must be between 1 and 60")
	CodeMissingField     = ErrRegistry.Register("MISSING_FIELD", errx.TypeValidation, http.StatusBadRequest, "Required field is missing")
)

// ============================================================================
// Normalizer
// ============================================================================

// ProviderError is a failed provider call, reduced to what the normalizer needs.
type ProviderError struct {
	Code       string
	Message    string
	RequestID  string
	HTTPStatus int
	// Raw is the original SDK error; it is logged and kept as the cause, never rendered.
	Raw error
}

// rawResponse is the full provider payload as written to the error log.
func (p ProviderError) rawResponse() map[string]any {
	raw := map[string]any{
		"Error": map[string]string{"Code": p.Code, "Message": p.Message},
		"ResponseMetadata": map[string]any{
			"RequestId":      p.RequestID,
			"HTTPStatusCode": p.HTTPStatus,
		},
	}
	if p.Raw != nil {
		raw["Cause"] = p.Raw.Error()
	}
	return raw
}

// providerMapping is one row of the provider code table. appendMessage adds
// the provider's own text, which is user-facing for these codes.
type providerMapping struct {
	code          *errx.ErrorCode
	appendMessage bool
}

// providerCodes is keyed by provider code with any "Exception" suffix removed.
var providerCodes = map[string]providerMapping{
	"UsernameExists":        {code: CodeUserExists},
	"UserNotFound":          {code: CodeUserNotFound},
	"UserNotConfirmed":      {code: CodeEmailNotVerified},
	"NotAuthorized":         {code: CodeNotAuthorized, appendMessage: true},
	"InvalidParameter":      {code: CodeInvalidParameter, appendMessage: true},
	"CodeMismatch":          {code: CodeCodeMismatch},
	"ExpiredCode":           {code: CodeCodeExpired},
	"TooManyFailedAttempts": {code: CodeTooManyFailedAttempts},
	"TooManyRequests":       {code: CodeTooManyRequests},
	"LimitExceeded":         {code: CodeLimitExceeded},
	"ResourceNotFound":      {code: CodeDirectoryNotFound},
}

// Normalize logs a provider failure and converts it to the application error
// taxonomy. Unknown codes become CodeProviderError (500).
func Normalize(perr ProviderError, operation string) *errx.Error {
	logx.WithFields(logx.Fields{
		"operation":        operation,
		"provider_code":    perr.Code,
		"provider_message": perr.Message,
		"request_id":       perr.RequestID,
		"http_status":      perr.HTTPStatus,
	}).WithError(perr.Raw).
		WithStruct(perr.rawResponse()).
		Errorf("Identity provider error in %s [%s]: %s", operation, perr.Code, perr.Message)

	mapping, ok := providerCodes[strings.TrimSuffix(perr.Code, "Exception")]
	if !ok {
		mapping = providerMapping{code: CodeProviderError}
	}

	appErr := ErrRegistry.NewWithCause(mapping.code, perr.Raw)
	if mapping.appendMessage && perr.Message != "" {
		appErr.Message = mapping.code.Message + ": " + perr.Message
	}
	return appErr.WithDetail("operation", operation)
}
