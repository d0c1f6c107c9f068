package identitycontainer

import (
	"github.com/Abraxas-365/userservice/pkg/config"
	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/Abraxas-365/userservice/pkg/identity/identityapi"
	"github.com/Abraxas-365/userservice/pkg/identity/identitycognito"
	"github.com/Abraxas-365/userservice/pkg/identity/identityinfra"
	"github.com/Abraxas-365/userservice/pkg/identity/identitymetrics"
	"github.com/Abraxas-365/userservice/pkg/identity/identitytrace"
	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/prometheus/client_golang/prometheus"
)

// ---------------------------------------------------------------------------
// Deps: explicit external dependencies this bounded context requires.
// ---------------------------------------------------------------------------

type Deps struct {
	Cfg *config.Config

	// API is the Cognito user-pool client, usually a *cognitoidentityprovider.Client.
	API identitycognito.API

	// Registerer receives the identity metrics. Nil disables instrumentation.
	Registerer prometheus.Registerer
}

// ---------------------------------------------------------------------------
// Container: the public surface of the identity module.
// ---------------------------------------------------------------------------

type Container struct {
	// Service is the broker, instrumented when metrics are enabled
	Service identity.Service

	Audit identity.AuditService

	// Handlers are registered on the fiber app by cmd/
	Handlers *identityapi.Handlers
}

// New builds the identity dependency graph: broker → tracing → metrics → health cache → handlers.
func New(deps Deps) (*Container, error) {
	logx.Info("🔧 Initializing identity container...")

	c := &Container{}

	var svc identity.Service = identitycognito.NewBroker(deps.API, deps.Cfg.Cognito)
	if deps.Cfg.Tracing.Active() {
		svc = identitytrace.Wrap(svc, nil)
		logx.Info("  ✅ Identity tracing enabled")
	}
	if deps.Registerer != nil {
		metrics, err := identitymetrics.NewCollectors(deps.Registerer)
		if err != nil {
			return nil, err
		}
		svc = identitymetrics.Wrap(svc, metrics)
		logx.Info("  ✅ Identity metrics enabled")
	}
	if ttl := deps.Cfg.Cognito.HealthCacheTTL; ttl > 0 {
		svc = identityinfra.NewHealthCache(svc, ttl)
	}
	c.Service = svc

	c.Audit = identityinfra.NewLogxAuditService()
	c.Handlers = identityapi.NewHandlers(c.Service, c.Audit)

	logx.Info("✅ Identity container initialized")
	return c, nil
}
