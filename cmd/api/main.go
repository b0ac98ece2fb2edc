package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"contactsapi/internal/cache"
	"contactsapi/internal/data"
	"contactsapi/internal/mailer"
	"contactsapi/internal/sheets"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const version = "v1.0.0"

// Server configuration settings
type config struct {
	port    int
	env     string
	baseURL string
	db      struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	cors struct {
		trustedOrigins []string
	}
	rateLimit struct {
		rps     float64
		burst   int
		enabled bool
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	sheets struct {
		credentialsPath string
		spreadsheetID   string
	}
}

type app struct {
	config        config
	logger        *slog.Logger
	models        data.Models
	mailer        *mailer.Mailer
	sheetsService *sheets.Service
	userCache     *cache.UserCache
	wg            sync.WaitGroup
}

func main() {
	cfg := loadConfig()

	logger := setupLogger(cfg)

	db, err := openDB(cfg)
	if err != nil {
		logger.Error("Error opening database connection", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("Database connection pool established")

	app := &app{
		config:    cfg,
		logger:    logger,
		models:    data.NewModels(db),
		mailer:    mailer.New(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender),
		userCache: cache.NewUserCache(15 * time.Minute),
	}

	// Sheets export is optional; the API runs without it.
	if cfg.sheets.credentialsPath != "" && cfg.sheets.spreadsheetID != "" {
		client, err := sheets.NewClient(sheets.Config{
			ServiceAccountKeyPath: cfg.sheets.credentialsPath,
			SpreadsheetID:         cfg.sheets.spreadsheetID,
		})
		if err != nil {
			logger.Error("Error configuring Google Sheets client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		app.sheetsService = sheets.NewService(client)
		if err := app.sheetsService.TestConnection(); err != nil {
			logger.Warn("Google Sheets spreadsheet unreachable at startup", slog.String("error", err.Error()))
		}
		logger.Info("Google Sheets export enabled", slog.String("spreadsheet", cfg.sheets.spreadsheetID))
	}

	err = app.serve()
	if err != nil {
		logger.Error("Error starting server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func loadConfig() config {
	var cfg config

	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	flag.IntVar(&cfg.port, "port", envInt("PORT", 8000), "API server port")
	flag.StringVar(&cfg.env, "env", envString("ENV", "development"), "Environment (development|staging|production)")
	flag.StringVar(&cfg.baseURL, "base-url", envString("BASE_URL", "http://localhost:8000"), "Base URL used in emailed links")
	flag.StringVar(&cfg.db.dsn, "db-dsn", envString("DB_DSN", ""), "PostgreSQL database connection string")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max connection idle time")
	flag.Float64Var(&cfg.rateLimit.rps, "rate-limit-rps", 5, "Requests per second")
	flag.IntVar(&cfg.rateLimit.burst, "rate-limit-burst", 10, "Burst limit")
	flag.BoolVar(&cfg.rateLimit.enabled, "rate-limit-enabled", true, "Enable rate limiting")
	flag.StringVar(&cfg.smtp.host, "smtp-host", envString("SMTP_HOST", "localhost"), "SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", envInt("SMTP_PORT", 25), "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", envString("SMTP_USERNAME", ""), "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", envString("SMTP_PASSWORD", ""), "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", envString("SMTP_SENDER", "Contacts <no-reply@contacts.example>"), "SMTP sender")
	flag.StringVar(&cfg.sheets.credentialsPath, "sheets-credentials", envString("SHEETS_CREDENTIALS", ""), "Google service account key file")
	flag.StringVar(&cfg.sheets.spreadsheetID, "sheets-spreadsheet-id", envString("SHEETS_SPREADSHEET_ID", ""), "Google Sheets spreadsheet ID")

	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		cfg.cors.trustedOrigins = append(cfg.cors.trustedOrigins, val)
		return nil
	})
	flag.Parse()

	return cfg
}

func setupLogger(cfg config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	logger.Info("Starting server",
		slog.String("version", version),
		slog.String("env", cfg.env),
		slog.Int("port", cfg.port),
		slog.Float64("rateLimitRPS", cfg.rateLimit.rps),
		slog.Int("rateLimitBurst", cfg.rateLimit.burst),
		slog.Bool("rateLimitEnabled", cfg.rateLimit.enabled),
	)

	return logger
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func envString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
