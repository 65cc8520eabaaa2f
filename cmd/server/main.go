package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	emailPkg "fitclub/internal/adapters/email"
	"fitclub/internal/adapters/events"
	web "fitclub/internal/adapters/http"
	"fitclub/internal/adapters/http/middleware"
	"fitclub/internal/adapters/storage"
	bookingStore "fitclub/internal/adapters/storage/booking"
	checkinStore "fitclub/internal/adapters/storage/checkin"
	courseStore "fitclub/internal/adapters/storage/course"
	memberStore "fitclub/internal/adapters/storage/member"
	cardStore "fitclub/internal/adapters/storage/membershipcard"
	"fitclub/internal/application/orchestrators"
	"fitclub/internal/config"
	"fitclub/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	issue := flag.String("issue-token", "", "print a signed token for role:subject (e.g. staff:e1) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel, !cfg.IsProduction())

	if *issue != "" {
		if err := writeToken(os.Stdout, []byte(cfg.JWTSecret), *issue); err != nil {
			log.Fatal().Err(err).Msg("issue_token_failed")
		}
		return
	}
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = []byte(uuid.NewString())
		log.Warn().Msg("FITCLUB_JWT_SECRET is not set, tokens are valid for this process only")
	}

	dialect, err := storage.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database driver")
	}
	db, err := storage.Open(context.Background(), dialect, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := storage.MigrateDB(db, dialect); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	timedDB := storage.NewTimedDB(db, dialect, cfg.SlowQueryMs)

	stores := web.Stores{
		MemberStore:  memberStore.NewSQLStore(timedDB),
		CardStore:    cardStore.NewSQLStore(timedDB),
		CourseStore:  courseStore.NewSQLStore(timedDB),
		BookingStore: bookingStore.NewSQLStore(timedDB),
		CheckInStore: checkinStore.NewSQLStore(timedDB),
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to message broker")
		}
		publisher = amqpPub
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("domain events published over AMQP")
	} else {
		log.Info().Msg("domain events disabled (noop publisher, set FITCLUB_AMQP_URL to enable)")
	}
	defer publisher.Close()

	var mailer emailPkg.Sender
	if cfg.ResendKey != "" {
		mailer = emailPkg.NewResendSender(cfg.ResendKey, cfg.MailFrom)
		log.Info().Msg("email sender configured (Resend)")
	} else {
		mailer = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			log.Warn().Msg("FITCLUB_RESEND_KEY is not set, member notices are DISABLED in production")
		}
	}

	// Background sweeps
	stopCh := make(chan struct{})
	orchestrators.StartSweepWorker(cfg.SweepInterval, stopCh,
		orchestrators.AutoCheckOutJob(cfg.AutoCheckoutHours, orchestrators.AutoCheckOutDeps{
			CheckInStore: stores.CheckInStore,
			Events:       publisher,
		}),
	)
	orchestrators.StartSweepWorker(cfg.CardExpiryInterval, stopCh,
		orchestrators.ExpireCardsJob(orchestrators.ExpireCardsDeps{
			CardStore: stores.CardStore,
			Events:    publisher,
		}),
	)

	limiter := middleware.NewRateLimiter(300, time.Minute)
	orchestrators.StartSweepWorker(10*time.Minute, stopCh,
		orchestrators.SweepJob{Name: "rate_limit_visitors", Run: limiter.SweepIdle(10 * time.Minute)},
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := web.NewRouter(&web.Server{
		Stores:            stores,
		Events:            publisher,
		Mailer:            mailer,
		AutoCheckoutHours: cfg.AutoCheckoutHours,
	}, web.RouterConfig{
		JWTSecret:   secret,
		CORSOrigins: cfg.CORSOrigins,
		Limiter:     limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("version", version).Str("addr", cfg.Addr).Str("env", cfg.Env).
			Str("db", string(dialect)).Int("schema", storage.LatestSchemaVersion()).Msg("fitclub starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	close(stopCh)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// writeToken writes a 30-day token for "role:subject" to w. The secret
// must be the configured one so the running server accepts it.
func writeToken(w io.Writer, secret []byte, arg string) error {
	if len(secret) == 0 {
		return errors.New("FITCLUB_JWT_SECRET must be set to issue tokens")
	}
	role, subject, ok := strings.Cut(arg, ":")
	if !ok || subject == "" {
		return errors.New("expected role:subject")
	}
	token, err := middleware.IssueToken(secret, subject, role, 30*24*time.Hour)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
