package handler

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/carkit/carkit-api/internal/config"
	mw "github.com/carkit/carkit-api/internal/middleware"
	"github.com/carkit/carkit-api/internal/model"
	"github.com/carkit/carkit-api/internal/queue"
	"github.com/carkit/carkit-api/internal/repository"
	"github.com/carkit/carkit-api/internal/storage"
	"github.com/carkit/carkit-api/internal/utils"
)

const userImageMaxDim = 400

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserHandler bundles dependencies for account endpoints: registration,
// login, token refresh, profile reads and updates, logout and soft deletion.
type UserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Images *storage.Store
	RDB    *redis.Client
	Events *queue.Publisher
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, images *storage.Store, rdb *redis.Client, events *queue.Publisher) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Images: images, RDB: rdb, Events: events}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

// authResp is the user record spread together with a fresh token pair, the
// shape every sign-in style endpoint returns.
type authResp struct {
	*model.User
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (h *UserHandler) accessTTL() time.Duration {
	return time.Duration(h.Cfg.AccessTTLMin) * time.Minute
}

func (h *UserHandler) refreshTTL() time.Duration {
	return time.Duration(h.Cfg.RefreshTTLDays) * 24 * time.Hour
}

// tokenPair issues a fresh access+refresh pair for a user.
func (h *UserHandler) tokenPair(userID uint64) (access, refresh utils.IssuedToken, err error) {
	access, err = utils.IssueToken(h.Cfg.JWTSecret, utils.TokenAccess, userID, h.accessTTL())
	if err != nil {
		return
	}
	refresh, err = utils.IssueToken(h.Cfg.JWTSecret, utils.TokenRefresh, userID, h.refreshTTL())
	return
}

func validEmail(s string) bool    { return emailPattern.MatchString(s) }
func validPassword(s string) bool { return len(s) >= 6 }

// Register creates a local account and returns it with a token pair.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}
	req.Email = strings.TrimSpace(req.Email)
	if !validEmail(req.Email) || !validPassword(req.Password) {
		return unprocessable(c, "Required fields missing.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	digest, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, err)
	}
	u, err := h.Users.Create(ctx, req.Email, digest, model.ProviderLocal)
	if err != nil {
		return fail(c, err)
	}

	if req.Image != "" {
		link, err := h.Images.SaveBase64(req.Image, userImageMaxDim)
		if err != nil {
			return unprocessable(c, "Invalid image data.")
		}
		u.ImageLink = &link
		if err := h.Users.Save(ctx, u); err != nil {
			return fail(c, err)
		}
	}

	access, refresh, err := h.tokenPair(u.ID)
	if err != nil {
		return fail(c, err)
	}
	_ = h.Events.Publish(ctx, queue.AccountEvent{Type: queue.EventUserRegistered, UserID: u.ID, Email: u.Email, Provider: u.Provider})

	return c.JSON(http.StatusOK, authResp{User: u, Token: access.Token, RefreshToken: refresh.Token})
}

// Login verifies credentials and returns the user with a new token pair.
// A wrong password and an unknown email produce the same 404 so the endpoint
// cannot be used to enumerate accounts.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return unprocessable(c, "Required fields missing.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetActiveByEmail(ctx, req.Email)
	if err != nil {
		return fail(c, err)
	}
	if u.Password == utils.PlaceholderPassword {
		// Account created through Apple/Google; it has no usable password.
		return fail(c, repository.ErrPasswordResetRequired)
	}
	if !utils.VerifyPassword(u.Password, req.Password) {
		return fail(c, repository.ErrNotFound)
	}

	access, refresh, err := h.tokenPair(u.ID)
	if err != nil {
		return fail(c, err)
	}
	_ = h.Events.Publish(ctx, queue.AccountEvent{Type: queue.EventUserSignedIn, UserID: u.ID, Email: u.Email, Provider: u.Provider})

	return c.JSON(http.StatusOK, authResp{User: u, Token: access.Token, RefreshToken: refresh.Token})
}

// RefreshToken exchanges a valid refresh token for a new access+refresh
// pair.  Access tokens are rejected here: the type tag must be "refresh".
func (h *UserHandler) RefreshToken(c echo.Context) error {
	raw := c.Param("refreshToken")
	if raw == "" {
		return unprocessable(c, "Required fields missing.")
	}
	uid, iat, err := utils.VerifyToken(h.Cfg.JWTSecret, utils.TokenRefresh, raw)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, statusMsg(http.StatusUnauthorized, "No valid token found."))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Refresh tokens obey the same revocation epoch as access tokens;
	// otherwise a pre-logout refresh token could mint a fresh pair.
	if revoked, err := mw.RevokedSince(ctx, h.RDB, uid, iat); err == nil && revoked {
		return c.JSON(http.StatusUnauthorized, statusMsg(http.StatusUnauthorized, "No valid token found."))
	}

	u, err := h.Users.GetActiveByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, statusMsg(http.StatusUnauthorized, "No valid token found."))
	}

	access, refresh, err := h.tokenPair(u.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, authResp{User: u, Token: access.Token, RefreshToken: refresh.Token})
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, mw.CurrentUser(c))
}

// Update applies a partial merge to the account: only fields present and
// non-empty in the body overwrite stored values.
func (h *UserHandler) Update(c echo.Context) error {
	u := mw.CurrentUser(c)
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if email := strings.TrimSpace(req.Email); email != "" && validEmail(email) && email != u.Email {
		if other, err := h.Users.GetActiveByEmail(ctx, email); err == nil && other.ID != u.ID {
			return fail(c, repository.ErrEmailExists)
		}
		u.Email = email
	}
	if req.Password != "" && validPassword(req.Password) {
		digest, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return fail(c, err)
		}
		u.Password = digest
	}
	if req.Image != "" {
		link, err := h.Images.SaveBase64(req.Image, userImageMaxDim)
		if err != nil {
			return unprocessable(c, "Invalid image data.")
		}
		if u.ImageLink != nil {
			if err := h.Images.Delete(*u.ImageLink); err != nil {
				c.Logger().Warnf("delete old user image: %v", err)
			}
		}
		u.ImageLink = &link
	}

	if err := h.Users.Save(ctx, u); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// DeleteImage removes the profile image, if any, and returns the user.
func (h *UserHandler) DeleteImage(c echo.Context) error {
	u := mw.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if u.ImageLink != nil {
		if err := h.Images.Delete(*u.ImageLink); err != nil {
			c.Logger().Warnf("delete user image: %v", err)
		}
		u.ImageLink = nil
		if err := h.Users.Save(ctx, u); err != nil {
			return fail(c, err)
		}
	}
	return c.JSON(http.StatusOK, u)
}

// Delete soft-deletes the account and revokes all of its tokens.
func (h *UserHandler) Delete(c echo.Context) error {
	u := mw.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SoftDelete(ctx, u); err != nil {
		return fail(c, err)
	}
	if err := mw.RevokeUserTokens(ctx, h.RDB, u.ID, h.refreshTTL()); err != nil {
		c.Logger().Warnf("revoke tokens: %v", err)
	}
	_ = h.Events.Publish(ctx, queue.AccountEvent{Type: queue.EventUserDeleted, UserID: u.ID, Email: u.Email})

	return c.JSON(http.StatusOK, statusMsg(http.StatusOK, "User deleted."))
}

// Logout revokes every outstanding token of the authenticated user by
// advancing the revocation epoch.
func (h *UserHandler) Logout(c echo.Context) error {
	u := mw.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := mw.RevokeUserTokens(ctx, h.RDB, u.ID, h.refreshTTL()); err != nil {
		c.Logger().Warnf("revoke tokens: %v", err)
	}
	return c.JSON(http.StatusOK, statusMsg(http.StatusOK, "Logged out."))
}
