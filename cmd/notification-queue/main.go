package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	h "github.com/gorilla/handlers"
	"github.com/rs/zerolog"

	"github.com/Theodlz/skyportal/internal/config"
	"github.com/Theodlz/skyportal/internal/handlers"
	"github.com/Theodlz/skyportal/internal/middleware"
	"github.com/Theodlz/skyportal/internal/migration"
	"github.com/Theodlz/skyportal/internal/models"
	"github.com/Theodlz/skyportal/internal/notification"
	"github.com/Theodlz/skyportal/internal/processor"
	"github.com/Theodlz/skyportal/internal/queue"
	"github.com/Theodlz/skyportal/internal/repository"
	"github.com/Theodlz/skyportal/internal/routes"
	"github.com/Theodlz/skyportal/internal/worker"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	// Load configuration.
	cfg := config.Load()

	// Initialize database connection.
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Run database migrations.
	if err := migration.Run(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	followupRepo := repository.NewFollowupRepository(db)
	sourceRepo := repository.NewSourceRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Pipeline queues.
	candidates := queue.New[models.TriggerEvent]()
	deliveries := queue.New[models.DeliveryTarget]()
	metrics.NewGauge("notification_candidate_queue_depth", func() float64 {
		return float64(candidates.Len())
	})
	metrics.NewGauge("notification_delivery_queue_depth", func() float64 {
		return float64(deliveries.Len())
	})

	// Candidate processor.
	proc := processor.New(userRepo, eventRepo, followupRepo, sourceRepo, groupRepo, notificationRepo, deliveries, logger)

	// Delivery channels. Order matters: the in-app push fires first so the
	// frontend refreshes before slower external providers are attempted.
	gate := notification.NewGate(cfg, shiftRepo)
	dispatcher := notification.NewDispatcher(logger,
		notification.NewPushNotifier(cfg.Push, logger),
		notification.NewPhoneNotifier(cfg.Twilio, cfg.App.Title, gate, logger),
		notification.NewSMSNotifier(cfg.Twilio, cfg.App.Title, gate, logger),
		notification.NewWhatsAppNotifier(cfg.Twilio, cfg.App.Title, gate, logger),
		notification.NewEmailNotifier(cfg.Email, cfg.App, gate, logger),
		notification.NewSlackNotifier(cfg.Slack, cfg.App, gate, logger),
	)

	// Ingestion API.
	ingestHandler := handlers.NewIngestHandler(candidates, logger)
	router := routes.NewRouter(ingestHandler)
	handler := h.RecoveryHandler(h.RecoveryLogger(&recoveryLogger{logger}))(
		middleware.Logging(logger)(router),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	supervisor := worker.NewSupervisor(
		cfg.Supervisor.Interval,
		candidates.Len,
		deliveries.Len,
		logger,
		worker.New("api", serveIngest(cfg.ServerPort, handler, logger), logger),
		worker.New("processor", func(ctx context.Context) error {
			return proc.Run(ctx, candidates)
		}, logger),
		worker.New("dispatcher", func(ctx context.Context) error {
			return dispatcher.Run(ctx, deliveries)
		}, logger),
	)

	logger.Info().Str("port", cfg.ServerPort).Msg("notification queue started")
	if err := supervisor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("supervisor exited")
	}
	logger.Info().Msg("Application terminated.")
}

// serveIngest returns a worker loop that owns one HTTP server per
// invocation, so a restart after a crash binds a fresh listener.
func serveIngest(port string, handler http.Handler, logger zerolog.Logger) worker.RunFunc {
	return func(ctx context.Context) error {
		server := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		serverErrCh := make(chan error, 1)
		go func() {
			logger.Info().Msgf("Server listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrCh <- err
			}
		}()

		select {
		case err := <-serverErrCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown error")
		}
		return ctx.Err()
	}
}

type recoveryLogger struct {
	logger zerolog.Logger
}

func (l *recoveryLogger) Println(v ...interface{}) {
	l.logger.Error().Msg(fmt.Sprintln(v...))
}
