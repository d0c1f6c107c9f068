package errx

// Type represents the category of error
type Type string

const (
	// TypeInternal represents internal server errors
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents malformed or rejected input
	TypeValidation Type = "VALIDATION"

	// TypeAuthorization represents failed authentication
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeForbidden represents an authenticated caller that may not proceed yet
	TypeForbidden Type = "FORBIDDEN"

	// TypeNotFound represents resource not found errors
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents resource conflict errors
	TypeConflict Type = "CONFLICT"

	// TypeRateLimited represents throttling by us or by an upstream service
	TypeRateLimited Type = "RATE_LIMITED"

	// TypeConfiguration represents a deployment that points at missing resources
	TypeConfiguration Type = "CONFIGURATION"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}
