package config

import (
	"time"

	"github.com/kindones/storefront/internal/roles"
	pkgconfig "github.com/kindones/storefront/pkg/config"
)

type MailConfig struct {
	APIKey      string
	FromAddress string
	SMTPAddr    string
	SMTPUser    string
}

func (m MailConfig) Enabled() bool {
	return m.APIKey != "" && m.FromAddress != ""
}

type ServiceConfig struct {
	pkgconfig.Config

	Mail          MailConfig
	PublicBaseURL string
	Admins        roles.AdminList

	// AuthURL is the authentication service used to refresh expired
	// session cookies. Empty disables refresh.
	AuthURL string

	OrderEventsTopic string
	ESMenuIndex      string

	NotifyWorkers int
	NotifyQueue   int

	StrictModifiers bool

	RequestTimeout time.Duration
}

// Load reads the environment and exits when a required value is missing.
func Load() ServiceConfig {
	base := pkgconfig.Load()

	v := pkgconfig.New()
	v.SetDefault("MAIL_SMTP_ADDR", "smtp.resend.com:587")
	v.SetDefault("MAIL_SMTP_USER", "resend")
	v.SetDefault("ORDER_EVENTS_TOPIC", "order_events")
	v.SetDefault("ES_MENU_INDEX", "menu_items")
	v.SetDefault("NOTIFY_WORKERS", 4)
	v.SetDefault("NOTIFY_QUEUE", 256)
	v.SetDefault("STRICT_MODIFIERS", false)
	v.SetDefault("REQUEST_TIMEOUT", "15s")

	cfg := ServiceConfig{
		Config: base,
		Mail: MailConfig{
			APIKey:      v.GetString("MAIL_API_KEY"),
			FromAddress: v.GetString("MAIL_FROM_ADDRESS"),
			SMTPAddr:    v.GetString("MAIL_SMTP_ADDR"),
			SMTPUser:    v.GetString("MAIL_SMTP_USER"),
		},
		PublicBaseURL:    v.GetString("PUBLIC_BASE_URL"),
		Admins:           roles.ParseAdminEmails(v.GetString("ADMIN_EMAILS")),
		AuthURL:          v.GetString("AUTH_URL"),
		OrderEventsTopic: v.GetString("ORDER_EVENTS_TOPIC"),
		ESMenuIndex:      v.GetString("ES_MENU_INDEX"),
		NotifyWorkers:    v.GetInt("NOTIFY_WORKERS"),
		NotifyQueue:      v.GetInt("NOTIFY_QUEUE"),
		StrictModifiers:  v.GetBool("STRICT_MODIFIERS"),
		RequestTimeout:   v.GetDuration("REQUEST_TIMEOUT"),
	}

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")

	return cfg
}
