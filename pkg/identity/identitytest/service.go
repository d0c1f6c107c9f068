// Package identitytest provides a programmable identity.Service for tests of
// the layers above the broker.
package identitytest

import (
	"context"
	"sync"

	"github.com/Abraxas-365/userservice/pkg/identity"
)

// Service is an identity.Service whose methods delegate to the matching
// function field. A nil field returns an empty result and no error.
type Service struct {
	SignupFunc                func(ctx context.Context, req identity.SignupRequest) (*identity.SignupResult, error)
	ConfirmEmailFunc          func(ctx context.Context, email, code string) (*identity.Result, error)
	ResendCodeFunc            func(ctx context.Context, email string) (*identity.CodeDelivery, error)
	LoginFunc                 func(ctx context.Context, username, password string) (*identity.CredentialPair, error)
	LogoutFunc                func(ctx context.Context, accessToken string) (*identity.Result, error)
	RefreshTokenFunc          func(ctx context.Context, refreshToken string) (*identity.CredentialPair, error)
	ForgotPasswordFunc        func(ctx context.Context, email string) (*identity.CodeDelivery, error)
	ConfirmForgotPasswordFunc func(ctx context.Context, email, code, newPassword string) (*identity.Result, error)
	CurrentUserFunc           func(ctx context.Context, accessToken string) (*identity.UserRecord, error)
	ListUsersFunc             func(ctx context.Context, limit int, paginationToken string) (*identity.UserPage, error)
	GetByUsernameFunc         func(ctx context.Context, username string) (*identity.UserRecord, error)
	UpdateUserFunc            func(ctx context.Context, username string, req identity.UpdateRequest) (*identity.Result, error)
	DeleteUserFunc            func(ctx context.Context, username string) (*identity.Result, error)
	CheckConnectionFunc       func(ctx context.Context) (*identity.ConnectionReport, error)

	mu    sync.Mutex
	calls []string
}

var _ identity.Service = (*Service)(nil)

// Calls returns the names of the methods invoked so far, in order.
func (s *Service) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Service) record(name string) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
}

func (s *Service) Signup(ctx context.Context, req identity.SignupRequest) (*identity.SignupResult, error) {
	s.record("Signup")
	if s.SignupFunc != nil {
		return s.SignupFunc(ctx, req)
	}
	return &identity.SignupResult{}, nil
}

func (s *Service) ConfirmEmail(ctx context.Context, email, code string) (*identity.Result, error) {
	s.record("ConfirmEmail")
	if s.ConfirmEmailFunc != nil {
		return s.ConfirmEmailFunc(ctx, email, code)
	}
	return &identity.Result{}, nil
}

func (s *Service) ResendCode(ctx context.Context, email string) (*identity.CodeDelivery, error) {
	s.record("ResendCode")
	if s.ResendCodeFunc != nil {
		return s.ResendCodeFunc(ctx, email)
	}
	return &identity.CodeDelivery{}, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*identity.CredentialPair, error) {
	s.record("Login")
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, username, password)
	}
	return &identity.CredentialPair{}, nil
}

func (s *Service) Logout(ctx context.Context, accessToken string) (*identity.Result, error) {
	s.record("Logout")
	if s.LogoutFunc != nil {
		return s.LogoutFunc(ctx, accessToken)
	}
	return &identity.Result{}, nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*identity.CredentialPair, error) {
	s.record("RefreshToken")
	if s.RefreshTokenFunc != nil {
		return s.RefreshTokenFunc(ctx, refreshToken)
	}
	return &identity.CredentialPair{}, nil
}

func (s *Service) ForgotPassword(ctx context.Context, email string) (*identity.CodeDelivery, error) {
	s.record("ForgotPassword")
	if s.ForgotPasswordFunc != nil {
		return s.ForgotPasswordFunc(ctx, email)
	}
	return &identity.CodeDelivery{}, nil
}

func (s *Service) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) (*identity.Result, error) {
	s.record("ConfirmForgotPassword")
	if s.ConfirmForgotPasswordFunc != nil {
		return s.ConfirmForgotPasswordFunc(ctx, email, code, newPassword)
	}
	return &identity.Result{}, nil
}

func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*identity.UserRecord, error) {
	s.record("CurrentUser")
	if s.CurrentUserFunc != nil {
		return s.CurrentUserFunc(ctx, accessToken)
	}
	return &identity.UserRecord{}, nil
}

func (s *Service) ListUsers(ctx context.Context, limit int, paginationToken string) (*identity.UserPage, error) {
	s.record("ListUsers")
	if s.ListUsersFunc != nil {
		return s.ListUsersFunc(ctx, limit, paginationToken)
	}
	return &identity.UserPage{Users: []identity.UserRecord{}}, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*identity.UserRecord, error) {
	s.record("GetByUsername")
	if s.GetByUsernameFunc != nil {
		return s.GetByUsernameFunc(ctx, username)
	}
	return &identity.UserRecord{}, nil
}

func (s *Service) UpdateUser(ctx context.Context, username string, req identity.UpdateRequest) (*identity.Result, error) {
	s.record("UpdateUser")
	if s.UpdateUserFunc != nil {
		return s.UpdateUserFunc(ctx, username, req)
	}
	return &identity.Result{}, nil
}

func (s *Service) DeleteUser(ctx context.Context, username string) (*identity.Result, error) {
	s.record("DeleteUser")
	if s.DeleteUserFunc != nil {
		return s.DeleteUserFunc(ctx, username)
	}
	return &identity.Result{}, nil
}

func (s *Service) CheckConnection(ctx context.Context) (*identity.ConnectionReport, error) {
	s.record("CheckConnection")
	if s.CheckConnectionFunc != nil {
		return s.CheckConnectionFunc(ctx)
	}
	return &identity.ConnectionReport{Status: "success"}, nil
}
