package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/nexts-consulting/fms-attendance/internal/app"
	"github.com/nexts-consulting/fms-attendance/internal/config"
	appHTTP "github.com/nexts-consulting/fms-attendance/internal/handler/http"
	"github.com/nexts-consulting/fms-attendance/internal/handler/http/middleware"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/idempotency"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/jwt"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Server error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(app.LoggerOptions(cfg, ""))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("Failed to release resources", slog.String("error", err.Error()))
		}
	}()

	var idemStore idempotency.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable; idempotency keys degrade to pass-through", slog.String("error", err.Error()))
		}
		idemStore = idempotency.NewRedisStore(client, idempotency.Options{ResponseTTL: cfg.Redis.ResponseTTL})
	} else {
		log.Info("REDIS_ADDR not set; idempotency keys are ignored")
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceHandler := appHTTP.NewAttendanceHandler(application.AttendanceService, application.TimesheetService, application.Clock)
	leaveHandler := appHTTP.NewLeaveHandler(application.LeaveService, application.Clock)
	shiftHandler := appHTTP.NewShiftHandler(application.ShiftService)

	var limiter *middleware.UserRateLimiter
	if cfg.RateLimit.PerSecond > 0 {
		limiter = middleware.NewUserRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	}

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.RouterOptions{
			Logger:         log,
			AllowedOrigins: cfg.App.AllowedOrigins,
			Idempotency:    idemStore,
			RateLimiter:    limiter,
		},
		attendanceHandler,
		leaveHandler,
		shiftHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server running", slog.String("addr", server.Addr), slog.String("db_driver", cfg.Database.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server", slog.Duration("timeout", cfg.App.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
