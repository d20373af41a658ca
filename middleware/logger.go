package middleware

import (
	"ConnectSpace/logger"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const TraceHeader = "X-Trace-ID"

// RequestLogger tags each request with a trace id and stores a request-scoped
// logger in the request context.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := req.Header.Get(TraceHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.New().String()
			}
			c.Response().Header().Set(TraceHeader, traceID)

			coreLogger := base.With("trace_id", traceID)
			httpLogger := coreLogger.With(
				"http_method", req.Method,
				"http_path", req.URL.Path,
				"remote_addr", c.RealIP(),
			)
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), coreLogger)))

			start := time.Now()
			httpLogger.Debug("Request started")

			if err := next(c); err != nil {
				c.Error(err)
			}

			res := c.Response()
			level := slog.LevelInfo
			switch {
			case res.Status >= 500:
				level = slog.LevelError
			case res.Status >= 400:
				level = slog.LevelWarn
			}
			httpLogger.Log(req.Context(), level, "Request finished",
				"status_code", res.Status,
				"bytes_written", res.Size,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}

// RequestTimeout bounds every store call made while serving a request.
func RequestTimeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
