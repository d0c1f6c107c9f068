package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, resolved once at startup.
type Config struct {
	App     AppConfig
	AWS     AWSConfig
	Cognito CognitoConfig
	Metrics MetricsConfig
	Tracing TracingConfig
}

// AppConfig configures the HTTP surface.
type AppConfig struct {
	Name            string        `env:"APP_NAME"         envDefault:"User Service"`
	Version         string        `env:"APP_VERSION"      envDefault:"1.0.0"`
	Port            string        `env:"PORT"             envDefault:"8080"`
	CORSOrigins     string        `env:"CORS_ORIGINS"     envDefault:"*"`
	Debug           bool          `env:"DEBUG"            envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// AWSConfig holds the credentials used to reach the identity provider.
// When either key is empty the default AWS credential chain is used.
type AWSConfig struct {
	Region          string `env:"AWS_REGION"            envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// HasStaticCredentials reports whether explicit keys were configured.
func (c AWSConfig) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// CognitoConfig identifies the user directory and app client.
type CognitoConfig struct {
	UserPoolID string `env:"COGNITO_USER_POOL_ID"`
	ClientID   string `env:"COGNITO_CLIENT_ID"`
	// ClientSecret is optional; app clients without a secret skip SECRET_HASH.
	ClientSecret string `env:"COGNITO_CLIENT_SECRET"`
	// HealthCacheTTL bounds how long a healthy connection report is reused. Zero disables caching.
	HealthCacheTTL time.Duration `env:"COGNITO_HEALTH_CACHE_TTL" envDefault:"30s"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH"    envDefault:"/metrics"`
}

// TracingConfig enables OTLP/HTTP trace export. Tracing stays off while
// Endpoint is empty.
type TracingConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED"  envDefault:"true"`
	Endpoint string `env:"OTEL_ENDPOINT"`
}

// Active reports whether spans should be exported.
func (c TracingConfig) Active() bool {
	return c.Enabled && c.Endpoint != ""
}

// Load reads optional .env files and then parses the environment.
// Variables already present in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the keys the broker cannot work without.
func (c *Config) Validate() error {
	var missing []string
	if c.AWS.Region == "" {
		missing = append(missing, "AWS_REGION")
	}
	if c.Cognito.UserPoolID == "" {
		missing = append(missing, "COGNITO_USER_POOL_ID")
	}
	if c.Cognito.ClientID == "" {
		missing = append(missing, "COGNITO_CLIENT_ID")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}
