package identityinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/userservice/pkg/identity"
	gocache "github.com/patrickmn/go-cache"
)

const healthKey = "connection_report"

// HealthCache reuses healthy connection reports for a TTL. Failed reports and
// errors are never cached so a fixed configuration shows up on the next probe.
// Every other method goes straight to the wrapped service.
type HealthCache struct {
	identity.Service
	c *gocache.Cache
}

func NewHealthCache(svc identity.Service, ttl time.Duration) *HealthCache {
	return &HealthCache{Service: svc, c: gocache.New(ttl, time.Minute)}
}

func (h *HealthCache) CheckConnection(ctx context.Context) (*identity.ConnectionReport, error) {
	if v, ok := h.c.Get(healthKey); ok {
		if report, ok := v.(*identity.ConnectionReport); ok {
			return report, nil
		}
	}

	report, err := h.Service.CheckConnection(ctx)
	if err != nil {
		return nil, err
	}
	if report.Healthy() {
		h.c.SetDefault(healthKey, report)
	}
	return report, nil
}
