package identityinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/Abraxas-365/userservice/pkg/logx"
)

// LogxAuditService implements identity.AuditService using structured logx logging.
// Failed events are written at warn level.
type LogxAuditService struct {
	now func() time.Time
}

func NewLogxAuditService() *LogxAuditService {
	return &LogxAuditService{now: time.Now}
}

var _ identity.AuditService = (*LogxAuditService)(nil)

func (s *LogxAuditService) LogLoginAttempt(_ context.Context, username string, success bool, ip string, userAgent string) {
	s.write("login_attempt", success, logx.Fields{
		"username":   username,
		"ip":         ip,
		"user_agent": userAgent,
	}, "Audit: login attempt")
}

func (s *LogxAuditService) LogLogout(_ context.Context, success bool, ip string) {
	s.write("logout", success, logx.Fields{"ip": ip}, "Audit: logout")
}

func (s *LogxAuditService) LogTokenRefresh(_ context.Context, success bool, ip string) {
	s.write("token_refresh", success, logx.Fields{"ip": ip}, "Audit: token refresh")
}

func (s *LogxAuditService) LogAccountCreated(_ context.Context, email string, success bool, ip string) {
	s.write("account_created", success, logx.Fields{
		"email": email,
		"ip":    ip,
	}, "Audit: account created")
}

func (s *LogxAuditService) LogPasswordReset(_ context.Context, email string, success bool, ip string) {
	s.write("password_reset", success, logx.Fields{
		"email": email,
		"ip":    ip,
	}, "Audit: password reset")
}

func (s *LogxAuditService) LogAccountDeleted(_ context.Context, username string, success bool, ip string) {
	s.write("account_deleted", success, logx.Fields{
		"username": username,
		"ip":       ip,
	}, "Audit: account deleted")
}

func (s *LogxAuditService) write(event string, success bool, fields logx.Fields, msg string) {
	fields["audit_event"] = event
	fields["success"] = success
	fields["timestamp"] = s.now()

	entry := logx.WithFields(fields)
	if success {
		entry.Info(msg)
		return
	}
	entry.Warn(msg)
}
