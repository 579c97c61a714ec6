package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		JWTSecret:            "s3cret",
		BcryptCost:           MinBcryptCost,
		VerificationTokenTTL: time.Hour,
		SessionTokenTTL:      7 * 24 * time.Hour,
		MailDriver:           MailDriverLog,
		StorageDriver:        StorageDriverLocal,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "weak bcrypt cost", mutate: func(c *Config) { c.BcryptCost = 10 }, wantErr: "BCRYPT_COST must be at least 12"},
		{name: "bcrypt cost above maximum", mutate: func(c *Config) { c.BcryptCost = 32 }, wantErr: "BCRYPT_COST must be at most 31"},
		{name: "maximum bcrypt cost", mutate: func(c *Config) { c.BcryptCost = 31 }},
		{name: "unknown mail driver", mutate: func(c *Config) { c.MailDriver = "pigeon" }, wantErr: `unknown MAIL_DRIVER "pigeon"`},
		{name: "sendgrid without key", mutate: func(c *Config) { c.MailDriver = MailDriverSendGrid }, wantErr: "SENDGRID_API_KEY"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.StorageDriver = StorageDriverS3 }, wantErr: "S3_BUCKET"},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTokenTTL = 0 }, wantErr: "token TTLs must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_PREVIOUS_SECRETS", " old-1 , ,old-2")
	t.Setenv("APP_BASE_URL", "https://dlsms.example/")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg := Load()

	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, []string{"old-1", "old-2"}, cfg.JWTPreviousSecrets)
	assert.Equal(t, "https://dlsms.example", cfg.AppBaseURL)
	assert.Equal(t, MinBcryptCost, cfg.BcryptCost)
	assert.Equal(t, time.Hour, cfg.VerificationTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.SessionTokenTTL)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "verify:resend:a@x.com", CacheKey.ResendVerificationKey("A@X.com"))
	assert.Equal(t, "classroom:abc:events", CacheKey.ClassroomEventsChannel("abc"))
}
