package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-dashboard-api/internal/auth"
	"github.com/yukikurage/task-dashboard-api/internal/config"
	"github.com/yukikurage/task-dashboard-api/internal/constants"
	"github.com/yukikurage/task-dashboard-api/internal/database"
	"github.com/yukikurage/task-dashboard-api/internal/handlers"
	"github.com/yukikurage/task-dashboard-api/internal/middleware"
	"github.com/yukikurage/task-dashboard-api/internal/realtime"
	"github.com/yukikurage/task-dashboard-api/internal/repository"
	"github.com/yukikurage/task-dashboard-api/internal/services"
	"github.com/yukikurage/task-dashboard-api/internal/storage"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("Failed to read .env file")
	}

	cfg := config.Load()
	log := setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Refusing to start")
	}
	if cfg.UsesDefaultSecrets() {
		log.Warn("Using built-in JWT/session secrets; set JWT_SECRET and SESSION_SECRET")
	}

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	db := database.GetDB()

	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fileStore, err := newFileStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize attachment storage")
	}

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to create session store")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	registry := realtime.NewRegistry(log.WithField("component", "realtime"))
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	authService := services.NewAuthService(userRepo, tokens)

	var suggester services.TaskSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Info("OPENAI_API_KEY not set, task suggestions disabled")
	}

	routes := &handlers.Routes{
		Auth:      handlers.NewAuthHandler(authService),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(dashboardRepo, taskRepo, fileStore, log)),
		Task: handlers.NewTaskHandler(services.NewTaskService(services.TaskServiceDeps{
			Tasks:      taskRepo,
			Dashboards: dashboardRepo,
			Users:      userRepo,
			Suggester:  suggester,
			Store:      fileStore,
			Log:        log,
		})),
		Comment: handlers.NewCommentHandler(services.NewCommentService(services.CommentServiceDeps{
			Comments:      commentRepo,
			Tasks:         taskRepo,
			Store:         fileStore,
			Notifications: services.NewNotificationService(registry, log.WithField("component", "notifications")),
			Log:           log,
		})),
		Realtime: handlers.NewRealtimeHandler(registry, log),
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"message":     "Task Dashboard API is running",
			"connections": registry.Count(),
		})
	})

	if local, ok := fileStore.(*storage.LocalStore); ok {
		r.Static(constants.UploadURLPrefix, local.Dir())
	}

	routes.Register(r, authService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	registry.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.StandardLogger()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// newSessionStore uses Redis when REDIS_HOST is set and signed cookies otherwise.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.TokenTTLHours * 3600,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	if cfg.StorageDriver == "s3" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return localStore, nil
}
