package handlers

import (
	"ConnectSpace/models"
	"ConnectSpace/store"
	"ConnectSpace/utils"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FavoriteController struct {
	favorites  store.FavoriteStore
	properties store.PropertyStore
}

func NewFavoriteController(favorites store.FavoriteStore, properties store.PropertyStore) *FavoriteController {
	return &FavoriteController{favorites: favorites, properties: properties}
}

func (fc *FavoriteController) CreateFavorite(c echo.Context) error {
	var req models.FavoriteRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	propertyID, ok := utils.ParseID(req.PropertyID)
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid property ID")
	}

	ctx := c.Request().Context()
	_, err := fc.properties.FindByID(ctx, propertyID)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Property not found")
	}
	if err != nil {
		return serverError("Failed to fetch property", err)
	}

	favorite := models.Favorite{
		ID:         primitive.NewObjectID(),
		UserID:     principal(c).UserID,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
	}
	err = fc.favorites.Add(ctx, &favorite)
	if errors.Is(err, store.ErrDuplicate) {
		return fail(c, http.StatusConflict, "Property already favorited")
	}
	if err != nil {
		return serverError("Failed to favorite property", err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "favorite": favorite})
}

func (fc *FavoriteController) GetFavorites(c echo.Context) error {
	favorites, err := fc.favorites.List(c.Request().Context(), principal(c).UserID)
	if err != nil {
		return serverError("Failed to fetch favorites", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "favorites": favorites})
}

func (fc *FavoriteController) DeleteFavorite(c echo.Context) error {
	propertyID, ok := utils.ParseID(c.Param("propertyId"))
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid property ID")
	}
	err := fc.favorites.Remove(c.Request().Context(), principal(c).UserID, propertyID)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Favorite not found")
	}
	if err != nil {
		return serverError("Failed to remove favorite", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Favorite removed successfully"})
}
