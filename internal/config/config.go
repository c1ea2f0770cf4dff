// Package config loads the server configuration from the environment.
//
// Everything tunable lives here as one explicit struct built at startup and
// passed down the dependency graph. There are no module-level settings:
// the allowed-domain list and bcrypt cost that gate the account lifecycle
// are fields on this struct, injected into the services that need them.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Config is the full server configuration.
type Config struct {
	Port   int    `env:"PORTAL_PORT"    envDefault:"8080"`
	DBPath string `env:"PORTAL_DB_PATH" envDefault:"data/portal.db"`

	// JWTSecret signs session tokens. The default exists for local
	// development only; production deployments must override it.
	JWTSecret string `env:"PORTAL_JWT_SECRET" envDefault:"dev-secret-change-me-now"`

	// AllowedDomains are the email domains accepted for Google sign-in,
	// matched as case-insensitive suffixes ("@stu.najah.edu").
	AllowedDomains []string `env:"PORTAL_ALLOWED_DOMAINS" envSeparator:"," envDefault:"@stu.najah.edu,@najah.edu"`

	// BcryptCost is the password hash work factor. Kept configurable so
	// deployments can tune hashing time to their hardware.
	BcryptCost int `env:"PORTAL_BCRYPT_COST" envDefault:"12"`

	// Bootstrap administrator seeded at startup. When AdminPassword is
	// empty the account is created with an unusable placeholder hash and a
	// warning is logged. A deployer must set it to get a usable admin.
	AdminEmail    string `env:"PORTAL_ADMIN_EMAIL" envDefault:"admin@najah.edu"`
	AdminPassword string `env:"PORTAL_ADMIN_PASSWORD"`

	// GoogleClientID, when set, is checked against the audience of incoming
	// Google ID tokens.
	GoogleClientID string `env:"PORTAL_GOOGLE_CLIENT_ID"`
}

// Load parses the configuration from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: bcrypt cost %d outside [%d, %d]",
			c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if len(c.AllowedDomains) == 0 {
		return errors.New("config: at least one allowed email domain is required")
	}
	return nil
}
