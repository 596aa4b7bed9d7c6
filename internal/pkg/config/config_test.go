package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.InvitationTTL)
	assert.Equal(t, "tasknestle", cfg.Mongo.Database)
	assert.Equal(t, "log", cfg.Mail.Driver)
	assert.Equal(t, "email_jobs", cfg.Mail.Queue)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s3cret",
		"ENV":          "production",
		"JWT_TTL":      "1h",
		"CORS_ORIGINS": "https://a.example,https://b.example",
		"MAIL_DRIVER":  "smtp",
		"SMTP_PORT":    "2525",
		"ADMIN_EMAIL":  "root@example.com",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2525, cfg.Mail.SMTPPort)
	assert.Equal(t, "root@example.com", cfg.Admin.Email)
}

func TestLoadFrom_RequiresSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoadFrom_MailFromFallsBackToUser(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"EMAIL_USER": "team@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, "team@example.com", cfg.Mail.From)

	cfg, err = LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"JWT_SECRET": "x"}))
	require.NoError(t, err)
	assert.Equal(t, defaultMailFrom, cfg.Mail.From)
}
