package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/storefront")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_EMAILS", "Owner@KindOnes.com")
	t.Setenv("MAIL_API_KEY", "re_123")
	t.Setenv("MAIL_FROM_ADDRESS", "orders@kindones.com")
	t.Setenv("NOTIFY_WORKERS", "2")
	t.Setenv("STRICT_MODIFIERS", "true")

	cfg := Load()

	assert.Equal(t, "postgres://localhost/storefront", cfg.DatabaseURL)
	assert.True(t, cfg.Admins.IsAdmin("owner@kindones.com"))
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, "smtp.resend.com:587", cfg.Mail.SMTPAddr)
	assert.Equal(t, "resend", cfg.Mail.SMTPUser)
	assert.Equal(t, "order_events", cfg.OrderEventsTopic)
	assert.Equal(t, "menu_items", cfg.ESMenuIndex)
	assert.Equal(t, 2, cfg.NotifyWorkers)
	assert.Equal(t, 256, cfg.NotifyQueue)
	assert.True(t, cfg.StrictModifiers)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 8080, cfg.ServerPort)
}
