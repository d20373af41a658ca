package routes

import (
	"ConnectSpace/handlers"
	"ConnectSpace/middleware"
	"ConnectSpace/models"
	"ConnectSpace/utils"

	"github.com/labstack/echo/v4"
)

type Controllers struct {
	Properties *handlers.PropertyController
	Maps       *handlers.MapController
	Users      *handlers.UserController
	Favorites  *handlers.FavoriteController
	Payments   *handlers.PaymentController
	Health     *handlers.HealthController
}

func RegisterRoutes(e *echo.Echo, ctrl Controllers, tokens *utils.TokenManager) {
	auth := middleware.JWTMiddleware(tokens)
	landlord := middleware.RequireRole(models.RoleLandlord)
	admin := middleware.RequireRole(models.RoleAdmin)

	e.GET("/health", ctrl.Health.HealthCheck)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", ctrl.Users.Register)
	authGroup.POST("/login", ctrl.Users.Login)
	authGroup.GET("/me", ctrl.Users.GetProfile, auth)
	authGroup.PUT("/me", ctrl.Users.UpdateProfile, auth)

	properties := e.Group("/properties")
	properties.GET("", ctrl.Properties.ListProperties)
	properties.GET("/landlord/my-properties", ctrl.Properties.MyProperties, auth, landlord)
	properties.GET("/:id", ctrl.Properties.GetProperty)
	properties.POST("", ctrl.Properties.CreateProperty, auth, landlord)
	properties.PUT("/:id", ctrl.Properties.UpdateProperty, auth, landlord)
	properties.DELETE("/:id", ctrl.Properties.DeleteProperty, auth, landlord)
	properties.PATCH("/:id/verification", ctrl.Properties.UpdateVerification, auth, admin)
	properties.POST("/:id/inquiries", ctrl.Properties.CreateInquiry, auth)
	properties.GET("/:id/inquiries", ctrl.Properties.ListInquiries, auth, landlord)

	maps := e.Group("/maps")
	maps.GET("/properties", ctrl.Maps.MapProperties)
	maps.GET("/nearby", ctrl.Maps.Nearby)

	favorites := e.Group("/favorites", auth)
	favorites.POST("", ctrl.Favorites.CreateFavorite)
	favorites.GET("", ctrl.Favorites.GetFavorites)
	favorites.DELETE("/:propertyId", ctrl.Favorites.DeleteFavorite)

	payments := e.Group("/payments", auth)
	payments.POST("/create-order", ctrl.Payments.CreateOrder)
	payments.POST("/verify", ctrl.Payments.VerifyPayment)
	payments.POST("/refund", ctrl.Payments.Refund)
}
