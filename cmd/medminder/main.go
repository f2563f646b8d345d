package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/medminder/internal/api"
	"github.com/terraincognita07/medminder/internal/cli"
	"github.com/terraincognita07/medminder/internal/config"
	"github.com/terraincognita07/medminder/internal/db"
	"github.com/terraincognita07/medminder/internal/kv"
	"github.com/terraincognita07/medminder/internal/logging"
	"github.com/terraincognita07/medminder/internal/services"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "medminder: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}

	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		if err := cfg.Validate(); err != nil {
			return err
		}
		return serve(cfg)
	case "reset-password":
		return resetPassword(cfg, args)
	default:
		return fmt.Errorf("unknown command %q (expected serve or reset-password)", command)
	}
}

func serve(cfg config.Config) error {
	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer log.Sync()

	location := cfg.Location()
	time.Local = location

	database, err := db.Open(cfg.Database.Driver, cfg.DatabaseTarget())
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	backend, closeBackend, err := openMedicationBackend(cfg, database)
	if err != nil {
		return fmt.Errorf("storage init failed: %w", err)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			log.Warn("close storage backend", "error", err)
		}
	}()

	medications := services.NewMedicationService(backend, time.Now, log)
	handler, err := api.NewHandler(database, medications, api.Options{
		SecretKey:    cfg.SecretKey,
		Location:     location,
		CookieSecure: cfg.CookieSecure,
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newApp(handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	group, groupCtx := errgroup.WithContext(sigCtx)

	group.Go(func() error {
		log.Info("medminder listening",
			"addr", "0.0.0.0:"+cfg.Port,
			"db_driver", cfg.Database.Driver,
			"storage", cfg.Storage.Backend,
			"tz", location.String(),
		)
		return app.Listen(":" + cfg.Port)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if cfg.Reminders.Enabled {
		reminders := newReminderService(cfg, database, medications, log)
		group.Go(func() error {
			return reminders.Run(groupCtx)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("medminder stopped")
	return nil
}

func newApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Medminder",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)
	return app
}

// openMedicationBackend returns the key-value store behind the medication
// collections and a function releasing it.
func openMedicationBackend(cfg config.Config, database *gorm.DB) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Backend)) {
	case config.StorageDatabase, "":
		return db.NewKeyValueRepository(database), noop, nil
	case config.StorageLevelDB:
		store, err := kv.NewLevelDB(cfg.Storage.LevelDBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StorageRedis:
		store, err := kv.DialRedis(cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StorageMemory:
		return kv.NewMemory(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

func newReminderService(cfg config.Config, database *gorm.DB, medications *services.MedicationService, log *logging.Logger) *services.ReminderService {
	var sender services.ReminderSender = services.NewLogReminderSender(log)
	if cfg.TelegramEnabled() {
		// Each user receives reminders in the chat saved on their profile.
		sender = services.NewTelegramReminderSender(cfg.Reminders.TelegramBotToken)
	}

	return services.NewReminderService(
		db.NewUserRepository(database),
		medications,
		sender,
		services.ReminderConfig{Interval: cfg.Reminders.Interval, Lead: cfg.Reminders.Lead},
		time.Now,
		log,
	)
}

func resetPassword(cfg config.Config, args []string) error {
	flags := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	prompt := flags.Bool("prompt", false, "read the new password from the terminal instead of generating one")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("usage: medminder reset-password [-prompt] <email>")
	}

	database, err := db.Open(cfg.Database.Driver, cfg.DatabaseTarget())
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	return cli.RunResetPasswordCommand(database, flags.Arg(0), cli.ResetPasswordOptions{Prompt: *prompt})
}
