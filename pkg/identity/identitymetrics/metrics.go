// Package identitymetrics instruments an identity.Service with Prometheus
// counters and latency histograms.
package identitymetrics

import (
	"context"
	"errors"
	"time"

	"github.com/Abraxas-365/userservice/pkg/errx"
	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess      = "success"
	resultUnclassified = "unclassified"
)

// Collectors holds the metric vectors shared by every instrumented service.
type Collectors struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollectors creates the identity metrics and registers them on reg.
// Registering twice on the same registry reuses the existing vectors.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_operations_total",
		Help: "Identity broker operations by outcome",
	}, []string{"operation", "result"}) // result: success|<error code>|unclassified

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "identity_operation_duration_seconds",
		Help:    "Latency of identity broker operations, provider round trip included",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &Collectors{operations: operations, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// instrument times call and counts its outcome under operation.
func instrument[T any](c *Collectors, operation string, call func() (T, error)) (T, error) {
	start := time.Now()
	res, err := call()
	c.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	c.operations.WithLabelValues(operation, result(err)).Inc()
	return res, err
}

func result(err error) string {
	if err == nil {
		return resultSuccess
	}
	if code := errx.CodeOf(err); code != "" {
		return code
	}
	return resultUnclassified
}

// Service decorates an identity.Service. It adds no behavior besides metrics.
type Service struct {
	next    identity.Service
	metrics *Collectors
}

// Wrap instruments next with the given collectors.
func Wrap(next identity.Service, metrics *Collectors) *Service {
	return &Service{next: next, metrics: metrics}
}

var _ identity.Service = (*Service)(nil)

func (s *Service) Signup(ctx context.Context, req identity.SignupRequest) (*identity.SignupResult, error) {
	return instrument(s.metrics, "signup", func() (*identity.SignupResult, error) {
		return s.next.Signup(ctx, req)
	})
}

func (s *Service) ConfirmEmail(ctx context.Context, email, code string) (*identity.Result, error) {
	return instrument(s.metrics, "confirm_email", func() (*identity.Result, error) {
		return s.next.ConfirmEmail(ctx, email, code)
	})
}

func (s *Service) ResendCode(ctx context.Context, email string) (*identity.CodeDelivery, error) {
	return instrument(s.metrics, "resend_confirmation_code", func() (*identity.CodeDelivery, error) {
		return s.next.ResendCode(ctx, email)
	})
}

func (s *Service) Login(ctx context.Context, username, password string) (*identity.CredentialPair, error) {
	return instrument(s.metrics, "login", func() (*identity.CredentialPair, error) {
		return s.next.Login(ctx, username, password)
	})
}

func (s *Service) Logout(ctx context.Context, accessToken string) (*identity.Result, error) {
	return instrument(s.metrics, "logout", func() (*identity.Result, error) {
		return s.next.Logout(ctx, accessToken)
	})
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*identity.CredentialPair, error) {
	return instrument(s.metrics, "refresh_token", func() (*identity.CredentialPair, error) {
		return s.next.RefreshToken(ctx, refreshToken)
	})
}

func (s *Service) ForgotPassword(ctx context.Context, email string) (*identity.CodeDelivery, error) {
	return instrument(s.metrics, "forgot_password", func() (*identity.CodeDelivery, error) {
		return s.next.ForgotPassword(ctx, email)
	})
}

func (s *Service) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) (*identity.Result, error) {
	return instrument(s.metrics, "confirm_forgot_password", func() (*identity.Result, error) {
		return s.next.ConfirmForgotPassword(ctx, email, code, newPassword)
	})
}

func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*identity.UserRecord, error) {
	return instrument(s.metrics, "get_current_user", func() (*identity.UserRecord, error) {
		return s.next.CurrentUser(ctx, accessToken)
	})
}

func (s *Service) ListUsers(ctx context.Context, limit int, paginationToken string) (*identity.UserPage, error) {
	return instrument(s.metrics, "get_all", func() (*identity.UserPage, error) {
		return s.next.ListUsers(ctx, limit, paginationToken)
	})
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*identity.UserRecord, error) {
	return instrument(s.metrics, "get_by_username", func() (*identity.UserRecord, error) {
		return s.next.GetByUsername(ctx, username)
	})
}

func (s *Service) UpdateUser(ctx context.Context, username string, req identity.UpdateRequest) (*identity.Result, error) {
	return instrument(s.metrics, "update", func() (*identity.Result, error) {
		return s.next.UpdateUser(ctx, username, req)
	})
}

func (s *Service) DeleteUser(ctx context.Context, username string) (*identity.Result, error) {
	return instrument(s.metrics, "delete", func() (*identity.Result, error) {
		return s.next.DeleteUser(ctx, username)
	})
}

func (s *Service) CheckConnection(ctx context.Context) (*identity.ConnectionReport, error) {
	return instrument(s.metrics, "test_connection", func() (*identity.ConnectionReport, error) {
		return s.next.CheckConnection(ctx)
	})
}
