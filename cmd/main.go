package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-currency-bot/internal/facades"
	"github.com/sbilibin2017/gw-currency-bot/internal/handlers"
	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/metrics"
	"github.com/sbilibin2017/gw-currency-bot/internal/middlewares"
	"github.com/sbilibin2017/gw-currency-bot/internal/publishers"
	"github.com/sbilibin2017/gw-currency-bot/internal/repositories"
	"github.com/sbilibin2017/gw-currency-bot/internal/services"
	"github.com/sbilibin2017/gw-currency-bot/internal/telegram"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// newBotAPI connects to Telegram. Replaced in tests.
var newBotAPI = func(token string) (telegram.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// config holds everything read from the environment.
type config struct {
	AppHost     string
	AppPort     string
	LogLevel    string
	LogEncoding string

	BotToken       string
	BotWorkers     int
	BotPollTimeout int

	MonobankURL     string
	PrivatbankURL   string
	RatesCacheTTL   time.Duration
	ProviderTimeout time.Duration
	SessionTTL      time.Duration

	PgHost         string
	PgPort         int
	PgUser         string
	PgPassword     string
	PgDB           string
	PgMaxOpenConns int
	PgMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	KafkaBrokers []string
	KafkaTopic   string
}

func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// application configuration. BOT_TOKEN and MONOBANK_API_URL are required.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}
	getSeconds := func(key, defaultValue string) (time.Duration, error) {
		v, err := getInt(key, defaultValue)
		if err != nil {
			return 0, err
		}
		if v <= 0 {
			return 0, fmt.Errorf("%s: must be positive", key)
		}
		return time.Duration(v) * time.Second, nil
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.LogEncoding = getEnv("APP_LOG_ENCODING", "json")

	// Telegram config
	cfg.BotToken = getEnv("BOT_TOKEN", "")
	if cfg.BotToken == "" {
		return cfg, errors.New("BOT_TOKEN is required")
	}
	if cfg.BotWorkers, err = getInt("BOT_WORKERS", "4"); err != nil {
		return
	}
	if cfg.BotPollTimeout, err = getInt("BOT_POLL_TIMEOUT", "60"); err != nil {
		return
	}

	// Rate providers config
	cfg.MonobankURL = getEnv("MONOBANK_API_URL", "")
	if cfg.MonobankURL == "" {
		return cfg, errors.New("MONOBANK_API_URL is required")
	}
	cfg.PrivatbankURL = getEnv("PRIVATBANK_API_URL", facades.DefaultPrivatbankURL)
	if cfg.RatesCacheTTL, err = getSeconds("RATES_CACHE_SECONDS", "900"); err != nil {
		return
	}
	if cfg.ProviderTimeout, err = getSeconds("PROVIDER_TIMEOUT_SECONDS", "10"); err != nil {
		return
	}
	if cfg.SessionTTL, err = getSeconds("SESSION_TTL_SECONDS", "86400"); err != nil {
		return
	}

	// PostgreSQL config, an empty host keeps the ledger in memory
	cfg.PgHost = getEnv("POSTGRES_HOST", "")
	cfg.PgUser = getEnv("POSTGRES_USER", "user")
	cfg.PgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PgDB = getEnv("POSTGRES_DB", "database")
	if cfg.PgPort, err = getInt("POSTGRES_PORT", "5432"); err != nil {
		return
	}
	if cfg.PgMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", "16"); err != nil {
		return
	}
	if cfg.PgMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", "8"); err != nil {
		return
	}

	// Redis config, an empty host keeps rates and sessions in memory
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	if cfg.RedisPort, err = getInt("REDIS_PORT", "6379"); err != nil {
		return
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", "10"); err != nil {
		return
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", "2"); err != nil {
		return
	}

	// Kafka config, no brokers disables conversion events
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", publishers.DefaultTopic)

	return cfg, nil
}

type conversionPublisher interface {
	services.ConversionPublisher
	Close() error
}

// run initializes the logger, storage, rate providers, HTTP server and
// Telegram bot, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, cfg.LogEncoding); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)
	_ = tgbotapi.SetLogger(zap.NewStdLog(logger.Log.Desugar().Named("telegram")))

	// Conversion ledger
	var ledger services.ConversionLedger
	if cfg.PgHost != "" {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			cfg.PgUser, cfg.PgPassword, cfg.PgHost, cfg.PgPort, cfg.PgDB)
		logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PgHost, "port", cfg.PgPort, "db", cfg.PgDB)

		db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return fmt.Errorf("PostgreSQL connection error: %w", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.PgMaxOpenConns)
		db.SetMaxIdleConns(cfg.PgMaxIdleConns)

		if err := repositories.Migrate(db); err != nil {
			return fmt.Errorf("PostgreSQL migration failed: %w", err)
		}
		ledger = repositories.NewConversionRepository(db)
	} else {
		logger.Log.Warn("POSTGRES_HOST not set, conversion history is kept in memory")
		ledger = repositories.NewConversionMemoryRepository()
	}

	// Rate cache and sessions
	var (
		rateCache services.RateCache
		sessions  services.SessionStore
	)
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis connection error: %w", err)
		}
		defer rdb.Close()
		rateCache = repositories.NewRateCacheRepository(rdb, cfg.RatesCacheTTL)
		sessions = repositories.NewSessionRedisRepository(rdb, cfg.SessionTTL)
	} else {
		logger.Log.Warn("REDIS_HOST not set, rates and sessions are kept in memory")
		rateCache = repositories.NewRateMemoryCache()
		sessions = repositories.NewSessionMemoryRepository()
	}

	// Conversion events
	var publisher conversionPublisher = publishers.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		logger.Log.Infow("Publishing conversions to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		publisher = publishers.NewConversionPublisher(publishers.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
	}
	defer publisher.Close()

	m := metrics.NewDefault()

	// Rate providers and services
	monobank := facades.NewMonobankFacade(cfg.MonobankURL, cfg.ProviderTimeout)
	privatbank := facades.NewPrivatbankFacade(cfg.PrivatbankURL, cfg.ProviderTimeout)
	gateway := services.NewRateGateway(rateCache, cfg.RatesCacheTTL, m, monobank, privatbank)
	converter := services.NewConverter(gateway, services.NewResolver(monobank, privatbank))
	conversation := services.NewConversationService(sessions, converter, gateway, ledger, publisher, m)

	// Telegram bot
	api, err := newBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("Telegram connection error: %w", err)
	}
	bot := telegram.NewBot(api, conversation, m, cfg.BotWorkers, cfg.BotPollTimeout)
	if err := bot.RegisterCommands(); err != nil {
		logger.Log.Warnw("Failed to register bot commands", "error", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: newRouter(gateway, ledger, converter, m),
	}

	// Graceful shutdown
	errChan := make(chan error, 2)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		if err := bot.Run(ctxShutdown); err != nil {
			errChan <- fmt.Errorf("Telegram bot failed: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping...")
	case runErr = <-errChan:
		stop()
	}

	<-botDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("Stopped gracefully")
	return runErr
}

// newRouter builds the ops HTTP API.
func newRouter(
	rates handlers.RatesReader,
	history handlers.HistoryReader,
	quoter handlers.Quoter,
	m *metrics.Metrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Get("/health", handlers.NewHealthHandler())
	r.Handle("/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rates/{source}", handlers.NewGetRatesHandler(rates))
		r.Get("/history/{conversationID}", handlers.NewGetHistoryHandler(history))
		r.Post("/convert", handlers.NewConvertHandler(quoter))
	})

	return r
}
