package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carkit/carkit-api/internal/config"
	"github.com/carkit/carkit-api/internal/identity"
	"github.com/carkit/carkit-api/internal/model"
	"github.com/carkit/carkit-api/internal/queue"
	"github.com/carkit/carkit-api/internal/repository"
	"github.com/carkit/carkit-api/internal/utils"
)

// OAuthHandler signs users in through third-party identity providers.  Both
// endpoints share one flow: verify the assertion, then find or create the
// user by verified email.  Verification failures abort before any row is
// written.
type OAuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Events *queue.Publisher
	Apple  identity.Verifier
	Google identity.Verifier
}

func NewOAuthHandler(cfg config.Config, users *repository.UserRepo, events *queue.Publisher) *OAuthHandler {
	return &OAuthHandler{
		Cfg:    cfg,
		Users:  users,
		Events: events,
		Apple:  identity.NewAppleVerifier(cfg.AppleKeysURL),
		Google: identity.NewGoogleVerifier(cfg.GoogleAudience),
	}
}

type identityReq struct {
	IdentityToken string `json:"identityToken"`
}

// AppleAuth handles POST /auth/apple.
func (h *OAuthHandler) AppleAuth(c echo.Context) error {
	return h.signIn(c, h.Apple, model.ProviderApple)
}

// GoogleAuth handles POST /auth/google.
func (h *OAuthHandler) GoogleAuth(c echo.Context) error {
	return h.signIn(c, h.Google, model.ProviderGoogle)
}

func (h *OAuthHandler) signIn(c echo.Context, v identity.Verifier, provider string) error {
	var req identityReq
	if err := c.Bind(&req); err != nil || req.IdentityToken == "" {
		return unprocessable(c, "Required fields missing.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	email, err := v.Verify(ctx, req.IdentityToken)
	if err != nil {
		return fail(c, identity.ErrVerificationFailed)
	}

	u, err := h.Users.GetActiveByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		// First sign-in through this provider: create the account with a
		// placeholder digest that can never match a local login.
		u, err = h.Users.Create(ctx, email, utils.PlaceholderPassword, provider)
		if err == nil {
			_ = h.Events.Publish(ctx, queue.AccountEvent{Type: queue.EventUserRegistered, UserID: u.ID, Email: u.Email, Provider: provider})
		}
	}
	if err != nil {
		return fail(c, err)
	}

	access, err := utils.IssueToken(h.Cfg.JWTSecret, utils.TokenAccess, u.ID, time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		return fail(c, err)
	}
	refresh, err := utils.IssueToken(h.Cfg.JWTSecret, utils.TokenRefresh, u.ID, time.Duration(h.Cfg.RefreshTTLDays)*24*time.Hour)
	if err != nil {
		return fail(c, err)
	}
	_ = h.Events.Publish(ctx, queue.AccountEvent{Type: queue.EventUserSignedIn, UserID: u.ID, Email: u.Email, Provider: provider})

	return c.JSON(http.StatusOK, authResp{User: u, Token: access.Token, RefreshToken: refresh.Token})
}
