package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/portal.db", cfg.DBPath)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"@stu.najah.edu", "@najah.edu"}, cfg.AllowedDomains)
	assert.Equal(t, "admin@najah.edu", cfg.AdminEmail)
	assert.NotEmpty(t, cfg.JWTSecret, "development fallback secret")
	assert.Empty(t, cfg.AdminPassword, "no default admin password, deployer must set one")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORTAL_PORT", "9090")
	t.Setenv("PORTAL_ALLOWED_DOMAINS", "@stu.example.edu,@example.edu")
	t.Setenv("PORTAL_BCRYPT_COST", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"@stu.example.edu", "@example.edu"}, cfg.AllowedDomains)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port too large", key: "PORTAL_PORT", value: "70000"},
		{name: "port zero", key: "PORTAL_PORT", value: "0"},
		{name: "bcrypt cost too low", key: "PORTAL_BCRYPT_COST", value: "1"},
		{name: "bcrypt cost too high", key: "PORTAL_BCRYPT_COST", value: "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
