package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"ride-booking/internal/database"
	"ride-booking/internal/modules/booking"
	"ride-booking/internal/modules/chat"
	"ride-booking/internal/modules/fleet"
	"ride-booking/internal/modules/location"
	"ride-booking/internal/server"
	"ride-booking/pkg/calendar"
	"ride-booking/pkg/events"
	"ride-booking/pkg/notify"
	"ride-booking/pkg/payment"

	"github.com/spf13/cobra"
)

const eventsExchange = "ride-booking.events"

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply migrations before serving")
}

func serve(ctx context.Context) error {
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log
	if err := cfg.RequireServer(); err != nil {
		return err
	}

	if serveMigrate {
		version, err := database.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		log.Info("Database schema up to date", "action", "db_migrated", "version", version)
	}

	var sessions chat.SessionStore = chat.NewMemorySessionStore(cfg.SessionTTL)
	if a.rdb != nil {
		sessions = chat.NewRedisSessionStore(a.rdb, cfg.SessionTTL)
	}

	roster, err := booking.ParseRoster(cfg.DriverRoster)
	if err != nil {
		return fmt.Errorf("DRIVER_ROSTER: %w", err)
	}
	deps := booking.Deps{
		Repo:     booking.NewRepository(a.pool),
		Vehicles: a.fleet,
		Router:   a.router,
		Drivers:  booking.NewDriverPool(roster),
		Logger:   log,
	}
	if cfg.StripeAPIKey != "" {
		deps.Payments = payment.NewStripeService(cfg.StripeAPIKey, cfg.Currency)
	}
	if cfg.AMQPURL != "" {
		pub, err := events.DialAMQP(cfg.AMQPURL, eventsExchange)
		if err != nil {
			return err
		}
		defer pub.Close()
		deps.Events = pub
	}
	if cfg.SESSender != "" {
		mailer, err := notify.NewSESMailer(ctx, cfg.AWSRegion, cfg.SESSender)
		if err != nil {
			return err
		}
		deps.Mailer = mailer
	}
	if cfg.GoogleClientID != "" {
		cal, err := calendar.NewGoogleCalendar(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleTokenFile)
		if err != nil {
			log.Warn("Google Calendar disabled", "action", "calendar_disabled", "error", err.Error())
		} else {
			deps.Calendar = cal
		}
	}

	checks := map[string]server.Check{"database": a.pool.Ping}
	if a.rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return a.rdb.Ping(ctx).Err() }
	}

	e := server.New(server.Options{
		JWTSecret:    cfg.JWTSecret,
		ClientOrigin: cfg.ClientOrigin,
		Logger:       log,
		Checks:       checks,
		Modules: []server.Module{
			chat.NewHandler(chat.NewService(a.assist, sessions)),
			location.NewHandler(location.NewService(a.geocoder, a.router, cfg.CollaboratorTimeout)),
			fleet.NewHandler(a.fleet),
			booking.NewHandler(booking.NewService(deps)),
		},
	})
	return server.Run(ctx, e, ":"+cfg.ServerPort, log)
}
