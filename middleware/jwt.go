package middleware

import (
	"ConnectSpace/models"
	"ConnectSpace/utils"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const principalKey = "principal"

// Principal is the authenticated caller attached to the request.
type Principal struct {
	UserID primitive.ObjectID
	Email  string
	Role   string
}

func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// PrincipalFrom returns the caller set by JWTMiddleware.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: msg})
}

func JWTMiddleware(tokens *utils.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized(c, "Authorization header is required")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return unauthorized(c, "Invalid authorization header format")
			}

			claims, err := tokens.ValidateJWT(tokenParts[1])
			if err != nil {
				return unauthorized(c, "Invalid token")
			}

			c.Set(principalKey, Principal{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			})

			return next(c)
		}
	}
}

// RequireRole must run after JWTMiddleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return unauthorized(c, "Authentication required")
			}
			if !p.HasRole(roles...) {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{
					Message: "Access denied: requires role " + strings.Join(roles, " or "),
				})
			}
			return next(c)
		}
	}
}
