package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"gymhub/internal/adapters/blob"
	emailPkg "gymhub/internal/adapters/email"
	"gymhub/internal/adapters/eventlog"
	web "gymhub/internal/adapters/http"
	"gymhub/internal/adapters/http/middleware"
	"gymhub/internal/adapters/http/perf"
	"gymhub/internal/adapters/identity"
	"gymhub/internal/adapters/payment"
	"gymhub/internal/adapters/realtime"
	"gymhub/internal/adapters/storage"
	accountStore "gymhub/internal/adapters/storage/account"
	attendanceStore "gymhub/internal/adapters/storage/attendance"
	badgeStore "gymhub/internal/adapters/storage/badge"
	chatStore "gymhub/internal/adapters/storage/chat"
	dietStore "gymhub/internal/adapters/storage/diet"
	eventlogStore "gymhub/internal/adapters/storage/eventlog"
	memberStore "gymhub/internal/adapters/storage/member"
	notificationStore "gymhub/internal/adapters/storage/notification"
	outboxStorePkg "gymhub/internal/adapters/storage/outbox"
	paymentStore "gymhub/internal/adapters/storage/payment"
	progressStore "gymhub/internal/adapters/storage/progress"
	supplementStore "gymhub/internal/adapters/storage/supplement"
	themeStore "gymhub/internal/adapters/storage/theme"
	trainerStore "gymhub/internal/adapters/storage/trainer"
	"gymhub/internal/application/orchestrators"
	"gymhub/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const (
	outboxRetryInterval = time.Minute
	sweepInterval       = 10 * time.Minute
	rateLimitIdle       = 30 * time.Minute
	shutdownTimeout     = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// WAL mode, foreign keys and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := storage.InitDB(db); err != nil {
		return err
	}
	slog.Info("db_ready", "path", cfg.DBPath)

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	eventStore := eventlogStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:      accountStore.NewSQLiteStore(timedDB),
		MemberStore:       memberStore.NewSQLiteStore(timedDB),
		AttendanceStore:   attendanceStore.NewSQLiteStore(timedDB),
		BadgeStore:        badgeStore.NewSQLiteStore(timedDB),
		NotificationStore: notificationStore.NewSQLiteStore(timedDB),
		PaymentStore:      paymentStore.NewSQLiteStore(timedDB),
		SupplementStore:   supplementStore.NewSQLiteStore(timedDB),
		DietStore:         dietStore.NewSQLiteStore(timedDB),
		TrainerStore:      trainerStore.NewSQLiteStore(timedDB),
		ProgressStore:     progressStore.NewSQLiteStore(timedDB),
		ChatStore:         chatStore.NewSQLiteStore(timedDB),
		ThemeStore:        themeStore.NewSQLiteStore(timedDB),
		OutboxStore:       outboxStorePkg.NewSQLiteStore(timedDB),
		EventLogStore:     eventStore,
	}

	created, err := orchestrators.ExecuteSeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, orchestrators.SeedAdminDeps{Accounts: stores.AccountStore})
	if err != nil {
		return err
	}
	if created {
		slog.Info("admin_seeded", "email", cfg.AdminEmail)
	}

	services := web.Services{
		Identity: identity.NewGoogle(cfg.GoogleClientID),
		Blobs:    blob.NewLocal(cfg.MediaDir, cfg.MediaURL),
		Hub:      realtime.NewHub(),
		Events:   eventlog.Multi{eventlog.Slog{}, eventlog.Persisted{Store: eventStore}},
	}
	if cfg.ResendKey != "" {
		services.Email = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("email_configured", "provider", "resend")
	} else {
		services.Email = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_disabled", "reason", "GYMHUB_RESEND_KEY is not set")
		}
	}
	switch {
	case cfg.MidtransServerKey != "":
		services.Payments = payment.NewMidtrans(cfg.MidtransServerKey, cfg.MidtransProduction)
		slog.Info("payments_configured", "provider", "midtrans", "production", cfg.MidtransProduction)
	case !cfg.IsProduction():
		services.Payments = &payment.Noop{}
	default:
		slog.Warn("payments_disabled", "reason", "GYMHUB_MIDTRANS_SERVER_KEY is not set")
	}

	var csrfKey []byte
	if cfg.CSRFKey != "" {
		sum := sha256.Sum256([]byte(cfg.CSRFKey))
		csrfKey = sum[:]
	}
	resetSecret := []byte(cfg.ResetSecret)
	if len(resetSecret) == 0 {
		// Reset links stop working after a restart.
		resetSecret = randomSecret()
	}

	sessions := middleware.NewSessionStore()
	limiter := middleware.NewRateLimiter(web.RateLimitPerSecond, time.Second)

	stopOutbox := orchestrators.StartOutboxRetryScheduler(ctx, orchestrators.OutboxRetryDeps{
		Outbox: stores.OutboxStore,
		Email:  services.Email,
	}, outboxRetryInterval)
	defer stopOutbox()
	go sweep(ctx, sessions, limiter)

	mux := web.NewMux(stores, services, web.Options{
		Location:        cfg.Location,
		BadgePolicy:     cfg.BadgePolicy,
		ResetSecret:     resetSecret,
		ResetLinkBase:   cfg.PublicURL + "/reset-password",
		CSRFKey:         csrfKey,
		Secure:          cfg.Secure(),
		TrustedOrigins:  cfg.TrustedOrigins,
		BulkConcurrency: cfg.BulkConcurrency,
		SlowRequestMs:   cfg.SlowQueryMs * 10,
		MediaDir:        cfg.MediaDir,
		MediaURL:        cfg.MediaURL,
		Sessions:        sessions,
		RateLimiter:     limiter,
		Collector:       collector,
	})

	// No WriteTimeout: event streams stay open. Handlers bound their own work.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_start", "version", version, "addr", cfg.Addr, "env", cfg.Env, "timezone", cfg.Location.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.LogJSON {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// sweep drops expired sessions and idle rate-limit clients until ctx is done.
func sweep(ctx context.Context, sessions *middleware.SessionStore, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				slog.Debug("sessions_swept", "removed", n)
			}
			limiter.Sweep(rateLimitIdle)
		}
	}
}

func randomSecret() []byte {
	slog.Warn("reset_secret_random", "reason", "GYMHUB_RESET_SECRET is not set")
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate reset secret: " + err.Error())
	}
	return b
}
