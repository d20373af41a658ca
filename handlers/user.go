package handlers

import (
	"ConnectSpace/models"
	"ConnectSpace/store"
	"ConnectSpace/utils"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserController struct {
	users  store.UserStore
	tokens *utils.TokenManager
	admins map[string]bool
}

// NewUserController grants the admin role to accounts registered with one of
// adminEmails; admins cannot be created any other way.
func NewUserController(users store.UserStore, tokens *utils.TokenManager, adminEmails []string) *UserController {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = true
		}
	}
	return &UserController{users: users, tokens: tokens, admins: admins}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *UserController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()
	email := normalizeEmail(req.Email)

	_, err := uc.users.FindByEmail(ctx, email)
	if err == nil {
		return fail(c, http.StatusConflict, "User with this email already exists")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return serverError("Failed to check user", err)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return serverError("Failed to hash password", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  hashedPassword,
		Name:      req.Name,
		Phone:     req.Phone,
		Role:      req.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if uc.admins[email] {
		user.Role = models.RoleAdmin
	}

	err = uc.users.Create(ctx, &user)
	if errors.Is(err, store.ErrDuplicate) {
		return fail(c, http.StatusConflict, "User with this email already exists")
	}
	if err != nil {
		return serverError("Failed to create user", err)
	}

	token, err := uc.tokens.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return serverError("Failed to generate token", err)
	}

	user.Password = ""

	return c.JSON(http.StatusCreated, models.LoginResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

func (uc *UserController) Login(c echo.Context) error {
	var req models.LoginRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	user, err := uc.users.FindByEmail(c.Request().Context(), normalizeEmail(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return serverError("Failed to fetch user", err)
	}

	if !user.IsActive {
		return fail(c, http.StatusUnauthorized, "Account is deactivated")
	}

	if err := utils.CheckPassword(user.Password, req.Password); err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := uc.tokens.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return serverError("Failed to generate token", err)
	}

	user.Password = ""

	return c.JSON(http.StatusOK, models.LoginResponse{
		Success: true,
		Token:   token,
		User:    *user,
	})
}

func (uc *UserController) GetProfile(c echo.Context) error {
	user, err := uc.users.FindByID(c.Request().Context(), principal(c).UserID)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return serverError("Failed to fetch user", err)
	}

	user.Password = ""

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

func (uc *UserController) UpdateProfile(c echo.Context) error {
	var req models.UpdateUserRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	user, err := uc.users.UpdateProfile(c.Request().Context(), principal(c).UserID, req)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return serverError("Failed to update user", err)
	}

	user.Password = ""

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "user": user})
}
