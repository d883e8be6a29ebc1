package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"dashboard/internal/activity"
	"dashboard/internal/config"
	"dashboard/internal/database"
	"dashboard/internal/folders"
	"dashboard/internal/logger"
	"dashboard/internal/server"
	"dashboard/internal/session"
	"dashboard/internal/storage"
	"dashboard/internal/users"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	log := logger.New()
	logger.SetDefault(log)

	if err := run(log); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting dashboard",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_backend", cfg.Session.Backend,
		"storage_enabled", cfg.S3.Enabled(),
	)

	db, err := database.New(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("Connected to database")

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
		slog.Info("Connected to Redis", "addr", cfg.Redis.Addr)
	}

	var store session.Store = session.NewPostgresStore(db)
	if cfg.Session.Backend == config.BackendRedis {
		store = session.NewRedisStore(redisClient)
	}

	userRepo := users.NewRepository(db)
	sessions := session.NewManager(store, cfg.Session.Policy())
	validator := session.NewValidator(
		sessions,
		userRepo,
		session.NewCodec(cfg.Session.CookieName, cfg.Production()),
		log,
	)

	var files storage.Service
	if cfg.S3.Enabled() {
		files, err = storage.New(ctx, storage.Config{
			Endpoint:        cfg.S3.Endpoint,
			PublicEndpoint:  cfg.S3.PublicEndpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		}, log)
		if err != nil {
			return err
		}
		slog.Info("Storage initialized", "bucket", cfg.S3.Bucket)
	} else {
		slog.Warn("S3_BUCKET not set, file routes disabled")
	}

	activitySvc := activity.NewService(activity.NewRepository(db), log)

	srv := server.New(server.Deps{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Storage:   files,
		Users:     users.NewService(userRepo),
		Sessions:  sessions,
		Validator: validator,
		Folders:   folders.NewService(folders.NewRepository(db), redisClient, activitySvc, log),
		Activity:  activitySvc,
	}).HTTPServer()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sweep(gctx, sessions, cfg.Session.SweepInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// sweep removes expired sessions until ctx is cancelled
func sweep(ctx context.Context, sessions *session.Manager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Sweep(ctx)
			if err != nil {
				slog.Error("Session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("Swept expired sessions", "count", n)
			}
		}
	}
}
