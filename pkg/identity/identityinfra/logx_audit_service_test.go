package identityinfra

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg := logx.DefaultConfig()
	cfg.Format = logx.FormatJSON
	cfg.Output = buf
	prev := logx.GetDefaultLogger()
	logx.SetDefaultLogger(logx.NewLogger(cfg))
	t.Cleanup(func() { logx.SetDefaultLogger(prev) })
	return buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &out))
	return out
}

func newTestAudit() *LogxAuditService {
	s := NewLogxAuditService()
	s.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestLogLoginAttempt(t *testing.T) {
	logs := captureLogs(t)

	newTestAudit().LogLoginAttempt(context.Background(), "a@b.com", true, "10.0.0.1", "curl/8")

	out := logs.String()
	assert.Contains(t, out, `"audit_event":"login_attempt"`)
	assert.Contains(t, out, `"username":"a@b.com"`)
	assert.Contains(t, out, `"user_agent":"curl/8"`)
	assert.Contains(t, out, "Audit: login attempt")
}

func TestFailedEventsLogAtWarn(t *testing.T) {
	logs := captureLogs(t)
	audit := newTestAudit()

	audit.LogAccountCreated(context.Background(), "a@b.com", true, "10.0.0.1")
	assert.Equal(t, "INFO", lastLine(t, logs)["level"])

	audit.LogAccountDeleted(context.Background(), "ann", false, "10.0.0.1")
	line := lastLine(t, logs)
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, false, line["success"])
}

func TestSessionEvents(t *testing.T) {
	logs := captureLogs(t)
	audit := newTestAudit()

	audit.LogLogout(context.Background(), true, "10.0.0.2")
	assert.Contains(t, logs.String(), `"audit_event":"logout"`)

	audit.LogTokenRefresh(context.Background(), false, "10.0.0.2")
	assert.Contains(t, logs.String(), `"audit_event":"token_refresh"`)

	audit.LogPasswordReset(context.Background(), "a@b.com", true, "10.0.0.2")
	assert.Contains(t, logs.String(), `"audit_event":"password_reset"`)
}
