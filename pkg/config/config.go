package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the access-control core.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (database password, cookie secret) must only come from environment
// variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Session cookie configuration
	Cookie CookieConfig `yaml:"cookie"`

	// Gated route classification
	Routes RoutesConfig `yaml:"routes"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// MigrationsPath points at the SQL migration files applied at startup.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// AuthConfig holds identity-provider related configuration.
type AuthConfig struct {
	// EnableVerification controls whether access-token signatures are
	// verified against the provider JWKS. Set to false for local development
	// without a reachable provider.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	// Format: "issuer1=url1,issuer2=url2"
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`
}

// CookieConfig holds settings for the session-reference cookie.
type CookieConfig struct {
	// Secret signs session cookies. Any passphrase; it is SHA-256 hashed to
	// derive the signing key. Must be consistent across restarts.
	Secret string `yaml:"-" env:"COOKIE_SECRET"` // Secret - not in YAML

	// Domain is the cookie domain scope (optional). If empty, it is derived
	// from BaseURL.
	Domain string `yaml:"domain" env:"COOKIE_DOMAIN" env-default:""`
}

// RoutesConfig classifies request paths for the route gate. Prefix fields
// match the path segment and everything under it.
type RoutesConfig struct {
	AdminPrefix     string `yaml:"admin_prefix" env:"ROUTE_ADMIN_PREFIX" env-default:"/admin"`
	DashboardPrefix string `yaml:"dashboard_prefix" env:"ROUTE_DASHBOARD_PREFIX" env-default:"/dashboard"`
	APIPrefix       string `yaml:"api_prefix" env:"ROUTE_API_PREFIX" env-default:"/api"`
	ShopPrefix      string `yaml:"shop_prefix" env:"ROUTE_SHOP_PREFIX" env-default:"/shop"`
	SignInPath      string `yaml:"signin_path" env:"ROUTE_SIGNIN_PATH" env-default:"/signin"`
	SignUpPath      string `yaml:"signup_path" env:"ROUTE_SIGNUP_PATH" env-default:"/signup"`
	MaintenancePath string `yaml:"maintenance_path" env:"ROUTE_MAINTENANCE_PATH" env-default:"/maintenance"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"phuonglong"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"phuonglong"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. A missing config.yaml is not an error; environment
// variables and defaults are enough to run.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// Only a missing file falls back to env-only configuration. A
		// malformed config.yaml must fail loud, not run on defaults.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	// Auto-derive BaseURL from Port if not explicitly set.
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// parseJWKSEndpoints parses the JWKS endpoints string into a map.
// Format: "issuer1=url1,issuer2=url2"
func parseJWKSEndpoints(value string) map[string]string {
	endpoints := make(map[string]string)
	if value == "" {
		return endpoints
	}

	pairs := strings.Split(value, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 {
			endpoints[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return endpoints
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
