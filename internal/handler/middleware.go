package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger logs every request before the handler runs, including its JSON body,
// and the resulting status afterwards. The body is restored so handlers read it
// unchanged.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)

		attrs := []any{
			requestIDKey, requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		}
		if body, ok := peekJSONBody(c.Request); ok {
			attrs = append(attrs, "body", body)
		}
		logger.Info("request received", attrs...)

		c.Next()

		logger.Info("response sent",
			requestIDKey, requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// peekJSONBody reads a JSON request body for logging and puts it back.
func peekJSONBody(r *http.Request) (any, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), gin.MIMEJSON) {
		return nil, false
	}

	raw, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return nil, false
	}

	if json.Valid(raw) {
		return json.RawMessage(raw), true
	}
	return string(raw), true
}

// Recovery turns a panic inside a handler into a 500 carrying the panic message.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		msg := fmt.Sprint(recovered)
		logger.Error("panic while handling request",
			requestIDKey, c.GetString(requestIDKey),
			"path", c.Request.URL.Path,
			"error", msg,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, FailureResponse{Error: msg})
	})
}
