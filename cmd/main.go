package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-video-tube/internal/facades"
	"github.com/sbilibin2017/gw-video-tube/internal/handlers"
	appjwt "github.com/sbilibin2017/gw-video-tube/internal/jwt"
	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/middlewares"
	"github.com/sbilibin2017/gw-video-tube/internal/migrations"
	"github.com/sbilibin2017/gw-video-tube/internal/repositories"
	"github.com/sbilibin2017/gw-video-tube/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sbilibin2017/gw-video-tube/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-video-tube API
// @version 1.0.0
// @description Backend service for a video sharing platform: user accounts, token auth, channel subscriptions
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaBrokers, kafkaTopic,
		s3Endpoint, s3Region, s3Bucket, s3AccessKey, s3SecretKey, s3PublicBaseURL,
		accessSecret, refreshSecret, accessExpSecond, refreshExpSecond,
		cacheExpSecond,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaBrokers, kafkaTopic,
		s3Endpoint, s3Region, s3Bucket, s3AccessKey, s3SecretKey, s3PublicBaseURL,
		accessSecret, refreshSecret, accessExpSecond, refreshExpSecond,
		cacheExpSecond,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, media host, logging, and JWT configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaBrokers, kafkaTopic string,
	s3Endpoint, s3Region, s3Bucket, s3AccessKey, s3SecretKey, s3PublicBaseURL string,
	accessSecret, refreshSecret string, accessExpSecond, refreshExpSecond int,
	cacheExpSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if cacheExpSecond, err = strconv.Atoi(getEnv("REDIS_CACHE_EXP_SECOND", "60")); err != nil {
		return
	}

	// Kafka config; empty brokers disable event publishing
	kafkaBrokers = getEnv("KAFKA_BROKERS", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "video-tube-events")

	// Media host (S3-compatible) config
	s3Endpoint = getEnv("MEDIA_S3_ENDPOINT", "http://localhost:9000")
	s3Region = getEnv("MEDIA_S3_REGION", "us-east-1")
	s3Bucket = getEnv("MEDIA_S3_BUCKET", "media")
	s3AccessKey = getEnv("MEDIA_S3_ACCESS_KEY", "minioadmin")
	s3SecretKey = getEnv("MEDIA_S3_SECRET_KEY", "minioadmin")
	s3PublicBaseURL = getEnv("MEDIA_PUBLIC_BASE_URL", "http://localhost:9000/media")

	// JWT config
	accessSecret = getEnv("JWT_ACCESS_SECRET_KEY", "my_super_secret_access_key")
	refreshSecret = getEnv("JWT_REFRESH_SECRET_KEY", "my_super_secret_refresh_key")
	if accessExpSecond, err = strconv.Atoi(getEnv("JWT_ACCESS_EXP_SECOND", "900")); err != nil {
		return
	}
	if refreshExpSecond, err = strconv.Atoi(getEnv("JWT_REFRESH_EXP_SECOND", "864000")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, media host client, and
// HTTP server. It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaBrokers, kafkaTopic string,
	s3Endpoint, s3Region, s3Bucket, s3AccessKey, s3SecretKey, s3PublicBaseURL string,
	accessSecret, refreshSecret string, accessExpSecond, refreshExpSecond int,
	cacheExpSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL: %s", dsn)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Apply schema migrations
	if err := migrations.Run(ctx, db.DB); err != nil {
		logger.Log.Fatal("migration error:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writer for domain events; nil when no brokers are configured
	var kafkaWriter *kafka.Writer
	if kafkaBrokers != "" {
		kafkaWriter = &kafka.Writer{
			Addr:     kafka.TCP(kafkaBrokers),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer kafkaWriter.Close()
	}
	var events services.EventPublisher
	if kafkaWriter != nil {
		events = kafkaWriter
	}

	// Media host client and facade
	mediaCfg := facades.MediaConfig{
		Endpoint:      s3Endpoint,
		Region:        s3Region,
		Bucket:        s3Bucket,
		AccessKey:     s3AccessKey,
		SecretKey:     s3SecretKey,
		PublicBaseURL: s3PublicBaseURL,
	}
	s3Client, err := facades.NewS3Client(ctx, mediaCfg)
	if err != nil {
		logger.Log.Fatal("media host client error:", err)
	}
	mediaFacade := facades.NewMediaFacade(s3Client, mediaCfg)

	// Initialize JWT service
	jwt := appjwt.New(
		appjwt.WithAccessSecret(accessSecret),
		appjwt.WithRefreshSecret(refreshSecret),
		appjwt.WithAccessExpiration(time.Duration(accessExpSecond)*time.Second),
		appjwt.WithRefreshExpiration(time.Duration(refreshExpSecond)*time.Second),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	subscriptionRepo := repositories.NewSubscriptionWriteRepository(db)
	profileRepo := repositories.NewChannelProfileReadRepository(db)
	profileCacheRepo := repositories.NewChannelProfileCacheRepository(rdb, time.Duration(cacheExpSecond)*time.Second)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, jwt, mediaFacade, events)
	channelService := services.NewChannelService(profileRepo, profileCacheRepo)
	subscriptionService := services.NewSubscriptionService(userReadRepo, subscriptionRepo, profileCacheRepo, events)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	logoutHandler := handlers.NewLogoutHandler(authService)
	refreshHandler := handlers.NewRefreshTokenHandler(authService)
	changePasswordHandler := handlers.NewChangePasswordHandler(authService)
	currentUserHandler := handlers.NewCurrentUserHandler(authService)
	channelProfileHandler := handlers.NewChannelProfileHandler(channelService)
	subscribeHandler := handlers.NewSubscribeHandler(subscriptionService)
	unsubscribeHandler := handlers.NewUnsubscribeHandler(subscriptionService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/register", registerHandler)
		r.Post("/login", loginHandler)
		r.Post("/refresh-token", refreshHandler)

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(jwt))

			r.Post("/logout", logoutHandler)
			r.Post("/change-password", changePasswordHandler)
			r.Get("/users/me", currentUserHandler)
			r.Get("/users/c/{username}", channelProfileHandler)

			// Subscription writes run inside a request-scoped transaction
			r.Group(func(r chi.Router) {
				r.Use(middlewares.TxMiddleware(db))
				r.Post("/subscriptions/{username}", subscribeHandler)
				r.Delete("/subscriptions/{username}", unsubscribeHandler)
			})
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
