package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citymapper-be/config"
	"citymapper-be/controllers"
	"citymapper-be/middlewares"
	"citymapper-be/models"
	"citymapper-be/repository"
	"citymapper-be/routes"
	"citymapper-be/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, foundEnvFile, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if !foundEnvFile {
		logger.Info("no .env file found, using process environment")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, disconnectUsers := connectUsers(ctx, cfg, logger)

	authOptions := middlewares.AuthOptions{Secret: cfg.JWTSecret, Logger: logger}
	var blacklist *repository.TokenBlacklist
	var issueLimiter gin.HandlerFunc
	if cfg.RedisAddress != "" {
		rdb, err := config.ConnectRedis(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddress))

		blacklist = repository.NewTokenBlacklist(rdb, "revoked_token")
		authOptions.Revoked = blacklist
		issueLimiter = middlewares.IssueRateLimiter(rdb, cfg.IssueQueuePrefix, cfg.IssueDailyLimit, logger)
	} else {
		logger.Warn("REDIS_ADDRESS not set, issue rate limiting and token revocation disabled")
	}

	issues := store.New()
	seed, err := loadSeed(cfg)
	if err != nil {
		logger.Fatal("failed to load seed issues", zap.Error(err))
	}
	issues.Seed(seed)
	logger.Info("issue store seeded", zap.Int("issues", len(seed)))

	router := routes.NewRouter(routes.Deps{
		Issues:       controllers.NewIssueController(issues, logger),
		Auth:         controllers.NewAuthController(users, blacklist, cfg, logger),
		AuthOptions:  authOptions,
		IssueLimiter: issueLimiter,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	logger.Info("http server stopped")

	disconnectUsers(shutdownCtx)
}

// connectUsers picks MongoDB for accounts when configured, memory otherwise.
// The returned func releases the Mongo client and must run after the server
// has stopped.
func connectUsers(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.UserRepository, func(context.Context)) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGODB_URI not set, user accounts are kept in memory")
		return repository.NewMemoryUserRepository(), func(context.Context) {}
	}

	db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	logger.Info("MongoDB connection established", zap.String("database", cfg.MongoDatabase))

	disconnect := func(ctx context.Context) {
		if err := db.Client().Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return
		}
		logger.Info("MongoDB connection closed")
	}

	users := repository.NewMongoUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		disconnect(context.Background())
		logger.Fatal("failed to create user indexes", zap.Error(err))
	}
	return users, disconnect
}

func loadSeed(cfg *config.Config) ([]models.Issue, error) {
	if !cfg.SeedDemo {
		return nil, nil
	}
	if cfg.SeedFile == "" {
		return store.DefaultSeed(time.Now())
	}
	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return store.LoadSeed(f, time.Now())
}
