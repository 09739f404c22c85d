package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/terraincognita07/redrecon/internal/api"
	"github.com/terraincognita07/redrecon/internal/cli"
	"github.com/terraincognita07/redrecon/internal/db"
	"github.com/terraincognita07/redrecon/internal/notify"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	minSecretKeyLength            = 32
	defaultNotificationResync     = 6 * time.Hour
	minNotificationResyncInterval = time.Minute
	shutdownTimeout               = 10 * time.Second
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

func main() {
	_ = godotenv.Load()

	dbPath := getEnv("DB_PATH", filepath.Join("data", "redrecon.db"))
	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1:], dbPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	logFile := configureLogging(os.Getenv("LOG_FILE"))
	if logFile != nil {
		defer logFile.Close()
	}

	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	secretKey, err := resolveSecretKey()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	port, err := resolvePort()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	resyncInterval, err := resolveResyncInterval()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	repositories := db.NewRepositories(database)
	dispatcher, err := notify.NewDispatcher(newSender(repositories.Users))
	if err != nil {
		log.Fatalf("notification dispatcher init failed: %v", err)
	}

	deps := api.NewServices(repositories, dispatcher)
	handler, err := api.NewHandler(deps, secretKey)
	if err != nil {
		log.Fatalf("handler init failed: %v", err)
	}

	app := newApp(handler)

	if err := dispatcher.StartResync(resyncInterval, deps.Notifications.SyncAll); err != nil {
		log.Fatalf("notification resync init failed: %v", err)
	}
	dispatcher.Start()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
		if err := dispatcher.Shutdown(); err != nil {
			log.Printf("notification dispatcher shutdown failed: %v", err)
		}
	}()

	log.Printf("Red Recon listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, dbPath, location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func newApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Red Recon",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: log.Writer()}))
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
	return app
}

func runCommand(args []string, dbPath string) error {
	switch args[0] {
	case "reset-password":
		if len(args) != 2 {
			return errors.New("usage: redrecon reset-password <email>")
		}
		return cli.RunResetPasswordCommand(dbPath, args[1], os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// configureLogging tees the standard logger into a rotating file when path is set.
func configureLogging(path string) io.Closer {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotating))
	return rotating
}

// newSender delivers through Telegram when a bot token is set, routing each
// user to their linked chat.
func newSender(chats notify.ChatDirectory) notify.Sender {
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if token == "" {
		log.Printf("notifications: telegram not configured, logging deliveries")
		return notify.LogSender{}
	}

	sender, err := notify.NewTelegramSender(token, chats)
	if err != nil {
		log.Printf("notifications: telegram init failed, logging deliveries: %v", err)
		return notify.LogSender{}
	}
	return sender
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses a placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveResyncInterval() (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv("NOTIFICATION_RESYNC_INTERVAL"))
	if raw == "" {
		return defaultNotificationResync, nil
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval < minNotificationResyncInterval {
		return 0, fmt.Errorf("invalid NOTIFICATION_RESYNC_INTERVAL %q", raw)
	}
	return interval, nil
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
