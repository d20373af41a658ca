package handlers

import (
	"ConnectSpace/logger"
	"ConnectSpace/middleware"
	"ConnectSpace/models"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, models.ErrorResponse{Message: msg})
}

// serverError defers rendering to the HTTP error handler so the cause is
// logged once and exposed only outside production.
func serverError(msg string, err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, msg).SetInternal(err)
}

// NewErrorHandler renders errors returned by handlers and middleware as
// ErrorResponse bodies.
func NewErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			he = &echo.HTTPError{Code: http.StatusInternalServerError, Message: "Internal server error", Internal: err}
		}

		body := models.ErrorResponse{Message: fmt.Sprint(he.Message)}
		if msg, ok := he.Message.(string); ok {
			body.Message = msg
		}

		if he.Code >= http.StatusInternalServerError {
			cause := he.Internal
			if cause == nil {
				cause = err
			}
			logger.FromContext(c.Request().Context()).Error(body.Message, "error", cause, "status", he.Code)
			if !production {
				body.Error = cause.Error()
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(he.Code)
		} else {
			writeErr = c.JSON(he.Code, body)
		}
		if writeErr != nil {
			logger.FromContext(c.Request().Context()).Error("failed to write error response", "error", writeErr)
		}
	}
}

// CustomValidator plugs go-playground/validator into echo's c.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// validationMessage turns validator errors into a single client-facing line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email")
		case "min", "max", "len":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}

// bindValid binds the request body into req and runs struct validation.
// A nil error means the caller may proceed; otherwise the response is written.
func bindValid(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return false, fail(c, http.StatusBadRequest, validationMessage(err))
	}
	return true, nil
}

func principal(c echo.Context) middleware.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}
