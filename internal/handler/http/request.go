package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/nexts-consulting/fms-attendance/internal/handler/http/middleware"
	"github.com/nexts-consulting/fms-attendance/internal/handler/http/response"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/jwt"
)

const maxBodyBytes = 1 << 20

// caller returns the authenticated worker. It writes 401 and returns false
// when the route is not behind AuthRequired.
func caller(w http.ResponseWriter, r *http.Request) (jwt.Claims, bool) {
	c, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return jwt.Claims{}, false
	}
	return c, true
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	slog.Debug("Failed to decode request body", "error", err)
	response.BadRequest(w, "Invalid request format", nil)
	return false
}
