// cmd/container.go
//
// Root composition root. Owns infrastructure (Cognito client, metrics
// registry) and composes bounded-context containers.
package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Abraxas-365/userservice/pkg/config"
	"github.com/Abraxas-365/userservice/pkg/identity/identitycognito"
	"github.com/Abraxas-365/userservice/pkg/identity/identitycontainer"
	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config

	// Infrastructure
	Cognito  identitycognito.API
	Registry *prometheus.Registry

	// Bounded-context containers
	Identity *identitycontainer.Container
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}
	if err := c.initModules(); err != nil {
		return nil, err
	}

	logx.Info("✅ Application container initialized")
	return c, nil
}

// ---------------------------------------------------------------------------
// Infrastructure
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure(ctx context.Context) error {
	logx.Info("🏗️ Initializing infrastructure...")

	client, err := identitycognito.NewClient(ctx, c.Config.AWS)
	if err != nil {
		return fmt.Errorf("cognito client: %w", err)
	}
	c.Cognito = client
	logx.Infof("  ✅ Cognito client configured (region: %s, pool: %s)", c.Config.AWS.Region, c.Config.Cognito.UserPoolID)

	if c.Config.Metrics.Enabled {
		c.Registry = prometheus.NewRegistry()
		c.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		logx.Info("  ✅ Metrics registry created")
	}

	logx.Info("✅ Infrastructure initialized")
	return nil
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules() error {
	logx.Info("📦 Initializing modules...")

	deps := identitycontainer.Deps{
		Cfg: c.Config,
		API: c.Cognito,
	}
	if c.Registry != nil {
		deps.Registerer = c.Registry
	}

	identity, err := identitycontainer.New(deps)
	if err != nil {
		return fmt.Errorf("identity module: %w", err)
	}
	c.Identity = identity
	return nil
}

// MetricsHandler serves the registry, or nil when metrics are disabled.
func (c *Container) MetricsHandler() http.Handler {
	if c.Registry == nil {
		return nil
	}
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})
}
