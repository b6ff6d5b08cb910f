package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/kindones/storefront/internal/cache"
	"github.com/kindones/storefront/internal/config"
	"github.com/kindones/storefront/internal/events"
	"github.com/kindones/storefront/internal/httpserver"
	"github.com/kindones/storefront/internal/identity"
	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/notify"
	"github.com/kindones/storefront/internal/repo"
	"github.com/kindones/storefront/internal/search"
	"github.com/kindones/storefront/internal/service"
	"github.com/kindones/storefront/pkg/authclient"
	"github.com/kindones/storefront/pkg/db"
	"github.com/kindones/storefront/pkg/hash"
	"github.com/kindones/storefront/pkg/logging"
	authmw "github.com/kindones/storefront/pkg/middleware/auth"
	loggingmw "github.com/kindones/storefront/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("exit", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.ServiceConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error("db_close_error", "error", err)
		}
	}()
	if err := models.AutoMigrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	r := &repo.GormRepo{DB: gdb}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic, log)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("kafka_close_error", "error", err)
		}
	}()

	var govCache cache.GovernorateCache = cache.Nop{}
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		defer rc.Close()
		govCache = rc
	}

	index := &search.MenuIndex{Index: cfg.ESMenuIndex}
	if cfg.ESURL != "" {
		client, err := search.NewClient(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, log)
		if err != nil {
			// search stays disabled
			log.Error("es_unavailable", "error", err)
		} else {
			index.Client = client
		}
	}

	var sender notify.Sender = notify.Discard{}
	if cfg.Mail.Enabled() {
		sender = &notify.SMTPSender{Addr: cfg.Mail.SMTPAddr, Username: cfg.Mail.SMTPUser, Password: cfg.Mail.APIKey}
	} else {
		log.Warn("mail_disabled", "reason", "MAIL_API_KEY or MAIL_FROM_ADDRESS not set")
	}
	mailer := &notify.Mailer{Sender: sender, From: cfg.Mail.FromAddress, BaseURL: cfg.PublicBaseURL}
	dispatcher := notify.NewDispatcher(mailer, log, cfg.NotifyWorkers, cfg.NotifyQueue)

	auth := &authmw.Auth{JWTSecret: cfg.JWTAccessSecret, IsAdmin: cfg.Admins.IsAdmin}
	if cfg.AuthURL != "" {
		auth.AuthClient = authclient.NewClient(cfg.AuthURL)
	}

	deps := &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:            r,
			Identity:        &identity.Resolver{Users: r, Hasher: hash.Bcrypt{Cost: bcrypt.DefaultCost}},
			Notifier:        dispatcher,
			Events:          publisher,
			StrictModifiers: cfg.StrictModifiers,
		}},
		MenuHandler:        &httpserver.MenuHTTP{Svc: &service.MenuService{Repo: r, Index: index}},
		GovernorateHandler: &httpserver.GovernorateHTTP{Svc: &service.GovernorateService{Repo: r, Cache: govCache}},
		Auth:               auth,
		Ready: func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return sqlDB.PingContext(pctx)
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(corsMiddleware(cfg.PublicBaseURL))
	e.Use(loggingmw.RequestLogger(log))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeout(cfg.RequestTimeout))
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("http_listen", "addr", srv.Addr)
	if err := serve(ctx, log, srv, dispatcher.Run, 10*time.Second); err != nil {
		return err
	}
	log.Info("shutdown_complete")
	return nil
}

func corsMiddleware(origin string) echo.MiddlewareFunc {
	if origin == "" {
		return middleware.CORS()
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{origin},
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-CSRF-Token"},
	})
}
