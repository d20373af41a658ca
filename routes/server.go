package routes

import (
	"ConnectSpace/handlers"
	"ConnectSpace/middleware"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// MaxBodySize caps request bodies; larger ones are rejected with 413.
const MaxBodySize = "1M"

type ServerOptions struct {
	Logger         *slog.Logger
	Production     bool
	RequestTimeout time.Duration
	CorsOrigins    []string
}

// NewEcho builds the echo instance with the shared middleware chain.
func NewEcho(opts ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = handlers.NewErrorHandler(opts.Production)

	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(MaxBodySize))
	origins := opts.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  origins,
		ExposeHeaders: []string{middleware.TraceHeader},
	}))
	if opts.RequestTimeout > 0 {
		e.Use(middleware.RequestTimeout(opts.RequestTimeout))
	}
	return e
}
