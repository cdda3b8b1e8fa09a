package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/nexts-consulting/fms-attendance/internal/handler/http/middleware"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/idempotency"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/jwt"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// Idempotency and RateLimiter are optional.
	Idempotency idempotency.Store
	RateLimiter *middleware.UserRateLimiter
}

func NewRouter(
	JWTService jwt.Service,
	opts RouterOptions,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	shiftHandler ShiftHandler,
) *chi.Mux {
	r := chi.NewRouter()

	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", middleware.IdempotentReplayHeader},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/shifts/today", shiftHandler.Today)

			r.Route("/attendances", func(r chi.Router) {
				r.Get("/", attendanceHandler.List)
				r.Get("/open", attendanceHandler.GetOpen)
				r.Get("/export", attendanceHandler.Export)
				r.Get("/{id}", attendanceHandler.Get)
				r.Get("/{id}/leaves", leaveHandler.List)

				// State changes
				r.Group(func(r chi.Router) {
					r.Use(middleware.RateLimitByUser(opts.RateLimiter))
					r.Use(middleware.Idempotency(opts.Idempotency, opts.Logger))

					r.Post("/check-in", attendanceHandler.CheckIn)
					r.Post("/check-out", attendanceHandler.CheckOut)
					r.Post("/{id}/leaves", leaveHandler.Start)
					r.Post("/{id}/leaves/end", leaveHandler.EndOpen)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Use(middleware.RateLimitByUser(opts.RateLimiter))
				r.Use(middleware.Idempotency(opts.Idempotency, opts.Logger))

				r.Post("/{id}/end", leaveHandler.End)
			})
		})
	})
	return r
}
