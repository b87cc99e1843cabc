package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/model"
	"github.com/kvnguyen/karaoke-pos/internal/repository"
	"github.com/kvnguyen/karaoke-pos/internal/utils"
)

// UserHandler provisions staff accounts.  Routes using it are gated to
// ADMIN by the router.
type UserHandler struct {
	Users      *repository.UserRepo
	BcryptCost int
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *repository.UserRepo, bcryptCost int) *UserHandler {
	if users == nil {
		panic("nil UserRepo passed to NewUserHandler")
	}
	return &UserHandler{Users: users, BcryptCost: bcryptCost}
}

type createUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser handles POST /v1/users.  The new account belongs to the
// caller's store and starts active.
func (h *UserHandler) CreateUser(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req createUserRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Name == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, name and password required"})
	}
	role := normStatus(req.Role)
	switch role {
	case "STAFF", "MANAGER", "ADMIN":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be STAFF, MANAGER or ADMIN"})
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	user := model.User{
		ID:           fmt.Sprintf("usr-%d", time.Now().UnixMilli()),
		StoreID:      storeID,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := h.Users.Create(c.Request().Context(), user); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": echo.Map{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
		"role":     user.Role,
		"store_id": user.StoreID,
	}})
}
