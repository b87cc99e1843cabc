package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/repository"
	"github.com/kvnguyen/karaoke-pos/internal/utils"
)

// AuthHandler implements the login and profile endpoints.
// Authentication exists so that every mutation carries an attributable
// actor.
type AuthHandler struct {
	Users     *repository.UserRepo
	Stores    *repository.StoreRepo
	JWTSecret string
	TTLMin    int
}

// NewAuthHandler constructs an AuthHandler over the user and store
// repositories.
func NewAuthHandler(users *repository.UserRepo, stores *repository.StoreRepo, secret string, ttlMin int) *AuthHandler {
	if users == nil || stores == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, Stores: stores, JWTSecret: secret, TTLMin: ttlMin}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login.  It verifies the credentials and
// returns a signed access token carrying the actor claims.  Unknown
// users and wrong passwords return the same 401 so usernames cannot be
// probed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password required"})
	}
	user, err := h.Users.GetByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !user.IsActive || !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// The terminal shows which venue it is signed into, so resolve the
	// user's store alongside the token.
	store, err := h.Stores.Get(c.Request().Context(), user.StoreID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, user.ID, user.Name, user.Role, user.StoreID, h.TTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
		"user": echo.Map{
			"id":       user.ID,
			"name":     user.Name,
			"role":     user.Role,
			"store_id": user.StoreID,
		},
		"store": echo.Map{
			"id":     store.ID,
			"name":   store.Name,
			"status": store.Status,
		},
	})
}

// Me handles GET /v1/me.  It returns the authenticated user's profile
// from the database, not just the token claims, so a deactivated
// account shows up immediately.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	user, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        user.ID,
		"username":  user.Username,
		"name":      user.Name,
		"role":      user.Role,
		"store_id":  user.StoreID,
		"is_active": user.IsActive,
	})
}
