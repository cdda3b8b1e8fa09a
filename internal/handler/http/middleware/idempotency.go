package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nexts-consulting/fms-attendance/internal/handler/http/response"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/idempotency"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	IdempotentReplayHeader  = "Idempotent-Replayed"
	maxIdempotencyKeyLength = 128
)

// Idempotency replays the first response of a POST carrying an
// Idempotency-Key header. Keys are scoped to the caller and path. Responses
// with a 5xx status are not stored so the client can retry them. A nil store
// disables the middleware.
func Idempotency(store idempotency.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKeyLength {
				response.BadRequest(w, "Idempotency-Key is too long", nil)
				return
			}

			caller, _ := ClaimsFromContext(r.Context())
			scoped := caller.UserID + ":" + r.URL.Path + ":" + key

			stored, err := store.Begin(r.Context(), scoped)
			switch {
			case errors.Is(err, idempotency.ErrInProgress):
				response.HandleError(w, err)
				return
			case err != nil:
				logger.WarnContext(r.Context(), "idempotency store unavailable, serving request without replay protection",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			case stored != nil:
				if stored.ContentType != "" {
					w.Header().Set("Content-Type", stored.ContentType)
				}
				w.Header().Set(IdempotentReplayHeader, "true")
				w.WriteHeader(stored.StatusCode)
				_, _ = w.Write(stored.Body)
				return
			}

			var body bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)

			// The lock must be released even when the handler panics.
			completed := false
			ctx := context.WithoutCancel(r.Context())
			defer func() {
				if !completed {
					if err := store.Release(ctx, scoped); err != nil {
						logger.WarnContext(ctx, "failed to release idempotency lock", slog.String("error", err.Error()))
					}
				}
			}()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}

			err = store.Complete(ctx, scoped, idempotency.Response{
				StatusCode:  status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			})
			if err != nil {
				logger.WarnContext(ctx, "failed to store idempotent response", slog.String("error", err.Error()))
				return
			}
			completed = true
		})
	}
}
