// Package identitytrace wraps an identity.Service so every operation runs in
// its own span. Credentials and tokens are never recorded as attributes.
package identitytrace

import (
	"context"

	"github.com/Abraxas-365/userservice/pkg/errx"
	"github.com/Abraxas-365/userservice/pkg/identity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Abraxas-365/userservice/pkg/identity"

// Service is the traced identity.Service.
type Service struct {
	next   identity.Service
	tracer trace.Tracer
}

// Wrap traces next with tracer. A nil tracer uses the global provider.
func Wrap(next identity.Service, tracer trace.Tracer) *Service {
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	return &Service{next: next, tracer: tracer}
}

var _ identity.Service = (*Service)(nil)

func traced[T any](ctx context.Context, tracer trace.Tracer, operation string, call func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, "identity."+operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	res, err := call(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := errx.CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("identity.error_code", code))
		}
	}
	return res, err
}

func (s *Service) Signup(ctx context.Context, req identity.SignupRequest) (*identity.SignupResult, error) {
	return traced(ctx, s.tracer, "signup", func(ctx context.Context) (*identity.SignupResult, error) {
		return s.next.Signup(ctx, req)
	})
}

func (s *Service) ConfirmEmail(ctx context.Context, email, code string) (*identity.Result, error) {
	return traced(ctx, s.tracer, "confirm_email", func(ctx context.Context) (*identity.Result, error) {
		return s.next.ConfirmEmail(ctx, email, code)
	})
}

func (s *Service) ResendCode(ctx context.Context, email string) (*identity.CodeDelivery, error) {
	return traced(ctx, s.tracer, "resend_confirmation_code", func(ctx context.Context) (*identity.CodeDelivery, error) {
		return s.next.ResendCode(ctx, email)
	})
}

func (s *Service) Login(ctx context.Context, username, password string) (*identity.CredentialPair, error) {
	return traced(ctx, s.tracer, "login", func(ctx context.Context) (*identity.CredentialPair, error) {
		return s.next.Login(ctx, username, password)
	})
}

func (s *Service) Logout(ctx context.Context, accessToken string) (*identity.Result, error) {
	return traced(ctx, s.tracer, "logout", func(ctx context.Context) (*identity.Result, error) {
		return s.next.Logout(ctx, accessToken)
	})
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*identity.CredentialPair, error) {
	return traced(ctx, s.tracer, "refresh_token", func(ctx context.Context) (*identity.CredentialPair, error) {
		return s.next.RefreshToken(ctx, refreshToken)
	})
}

func (s *Service) ForgotPassword(ctx context.Context, email string) (*identity.CodeDelivery, error) {
	return traced(ctx, s.tracer, "forgot_password", func(ctx context.Context) (*identity.CodeDelivery, error) {
		return s.next.ForgotPassword(ctx, email)
	})
}

func (s *Service) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) (*identity.Result, error) {
	return traced(ctx, s.tracer, "confirm_forgot_password", func(ctx context.Context) (*identity.Result, error) {
		return s.next.ConfirmForgotPassword(ctx, email, code, newPassword)
	})
}

func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*identity.UserRecord, error) {
	return traced(ctx, s.tracer, "get_current_user", func(ctx context.Context) (*identity.UserRecord, error) {
		return s.next.CurrentUser(ctx, accessToken)
	})
}

func (s *Service) ListUsers(ctx context.Context, limit int, paginationToken string) (*identity.UserPage, error) {
	return traced(ctx, s.tracer, "get_all", func(ctx context.Context) (*identity.UserPage, error) {
		return s.next.ListUsers(ctx, limit, paginationToken)
	})
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*identity.UserRecord, error) {
	return traced(ctx, s.tracer, "get_by_username", func(ctx context.Context) (*identity.UserRecord, error) {
		return s.next.GetByUsername(ctx, username)
	})
}

func (s *Service) UpdateUser(ctx context.Context, username string, req identity.UpdateRequest) (*identity.Result, error) {
	return traced(ctx, s.tracer, "update", func(ctx context.Context) (*identity.Result, error) {
		return s.next.UpdateUser(ctx, username, req)
	})
}

func (s *Service) DeleteUser(ctx context.Context, username string) (*identity.Result, error) {
	return traced(ctx, s.tracer, "delete", func(ctx context.Context) (*identity.Result, error) {
		return s.next.DeleteUser(ctx, username)
	})
}

func (s *Service) CheckConnection(ctx context.Context) (*identity.ConnectionReport, error) {
	return traced(ctx, s.tracer, "test_connection", func(ctx context.Context) (*identity.ConnectionReport, error) {
		return s.next.CheckConnection(ctx)
	})
}
