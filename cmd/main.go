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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/recruitment-accounts/config"
	"github.com/oksasatya/recruitment-accounts/internal/application"
	"github.com/oksasatya/recruitment-accounts/internal/container"
	"github.com/oksasatya/recruitment-accounts/internal/domain/repository"
	"github.com/oksasatya/recruitment-accounts/internal/infrastructure/identity"
	"github.com/oksasatya/recruitment-accounts/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/recruitment-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/recruitment-accounts/internal/infrastructure/revocation"
	"github.com/oksasatya/recruitment-accounts/internal/infrastructure/search"
	"github.com/oksasatya/recruitment-accounts/internal/infrastructure/storage"
	"github.com/oksasatya/recruitment-accounts/internal/interface/middleware"
	"github.com/oksasatya/recruitment-accounts/internal/router"
	"github.com/oksasatya/recruitment-accounts/pkg/helpers"
	"github.com/oksasatya/recruitment-accounts/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Postgres
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis is optional; without it rate limits are off and only the memory ledger works
	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	if cfg.DefaultJWTSecret() && cfg.Env != "development" {
		logger.Warn("JWT_SECRET is the development default")
	}
	logger.WithFields(logrus.Fields{
		"ttl":            cfg.TokenTTL,
		"default_secret": cfg.DefaultJWTSecret(),
	}).Info("token signing configured")

	c := &container.Container{
		Config: cfg,
		Logger: logger,
		Redis:  rdb,
		Users:  pginfra.NewUserRepository(pool),
		Ledger: buildLedger(ctx, cfg, rdb, logger),
		Hasher: helpers.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency),
		Tokens: helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
	}
	c.Identity = buildIdentity(cfg, logger)

	if cfg.GCSBucket != "" {
		gcsClient, err := storage.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		c.Files = storage.NewGCS(gcsClient, cfg.GCSBucket)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		c.Index = search.NewElastic(es, cfg.ESUsersIndex)
	}

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := notify.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer pub.Close()
		c.Notifier = notify.NewMail(pub, cfg.AppName)
	}

	c.Build()

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	stop()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// buildLedger returns the configured revocation ledger. The memory ledger is
// swept in the background until ctx is cancelled.
func buildLedger(ctx context.Context, cfg *config.Config, rdb *redis.Client, logger *logrus.Logger) repository.RevocationLedger {
	if cfg.RevocationBackend == "redis" {
		if rdb == nil {
			log.Fatal("REVOCATION_BACKEND=redis requires REDIS_ADDR")
		}
		logger.Info("revocation ledger: redis")
		return revocation.NewRedis(rdb)
	}
	if cfg.RevocationBackend != "memory" {
		logger.Warnf("unknown REVOCATION_BACKEND %q, using memory", cfg.RevocationBackend)
	}
	mem := revocation.NewMemory()
	go mem.Run(ctx, cfg.RevocationSweepInterval)
	logger.Info("revocation ledger: memory")
	return mem
}

func buildIdentity(cfg *config.Config, logger *logrus.Logger) application.IdentityVerifier {
	if cfg.GoogleAuthMode == "idtoken" {
		if cfg.GoogleClientID == "" {
			log.Fatal("GOOGLE_AUTH_MODE=idtoken requires GOOGLE_CLIENT_ID")
		}
		return identity.NewIDToken(cfg.GoogleClientID)
	}
	logger.Warn("google sign-in trusts the posted email; set GOOGLE_AUTH_MODE=idtoken to verify ID tokens")
	return identity.Trusted{}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
