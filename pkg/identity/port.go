package identity

import "context"

// Service is the identity broker surface consumed by the HTTP layer.
// Every method performs at most one provider round trip and returns either a
// result or an *errx.Error produced by Normalize.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResult, error)
	ConfirmEmail(ctx context.Context, email, code string) (*Result, error)
	ResendCode(ctx context.Context, email string) (*CodeDelivery, error)

	Login(ctx context.Context, username, password string) (*CredentialPair, error)
	Logout(ctx context.Context, accessToken string) (*Result, error)
	RefreshToken(ctx context.Context, refreshToken string) (*CredentialPair, error)

	ForgotPassword(ctx context.Context, email string) (*CodeDelivery, error)
	ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) (*Result, error)

	CurrentUser(ctx context.Context, accessToken string) (*UserRecord, error)
	ListUsers(ctx context.Context, limit int, paginationToken string) (*UserPage, error)
	GetByUsername(ctx context.Context, username string) (*UserRecord, error)
	UpdateUser(ctx context.Context, username string, req UpdateRequest) (*Result, error)
	DeleteUser(ctx context.Context, username string) (*Result, error)

	// CheckConnection reports configuration problems in the result instead of
	// failing; the error is reserved for failures outside the provider.
	CheckConnection(ctx context.Context) (*ConnectionReport, error)
}

// AuditService records security-relevant account events.
type AuditService interface {
	LogLoginAttempt(ctx context.Context, username string, success bool, ip, userAgent string)
	LogLogout(ctx context.Context, success bool, ip string)
	LogTokenRefresh(ctx context.Context, success bool, ip string)
	LogAccountCreated(ctx context.Context, email string, success bool, ip string)
	LogPasswordReset(ctx context.Context, email string, success bool, ip string)
	LogAccountDeleted(ctx context.Context, username string, success bool, ip string)
}
