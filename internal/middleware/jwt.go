package middleware // contains reusable HTTP middleware functions

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/carkit/carkit-api/internal/model"
	"github.com/carkit/carkit-api/internal/repository"
	"github.com/carkit/carkit-api/internal/utils"
)

// UserContextKey is where the authorization gate stores the resolved user.
const UserContextKey = "user"

// JWTAuth returns the authorization gate applied to every protected route.
// A request passes only when all of the following hold, in order:
//
//  1. an Authorization: Bearer header is present and well-formed,
//  2. the token verifies as an access token (signature, expiry, type tag),
//  3. the token was issued after the user's revocation epoch (skipped when
//     redis is unavailable),
//  4. the embedded user id resolves to a non-deleted user row.
//
// On success the user is attached to the request context; on any failure the
// request is rejected with 401 and the wrapped handler never runs.
func JWTAuth(secret string, users *repository.UserRepo, rdb *redis.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": http.StatusUnauthorized, "msg": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, issuedAt, err := utils.VerifyToken(secret, utils.TokenAccess, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": http.StatusUnauthorized, "msg": "invalid or expired token"})
			}

			ctx := c.Request().Context()
			if revoked, err := RevokedSince(ctx, rdb, uid, issuedAt); err == nil && revoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": http.StatusUnauthorized, "msg": "invalid or expired token"})
			}

			u, err := users.GetActiveByID(ctx, uid)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": http.StatusUnauthorized, "msg": "user not found or deleted"})
			}

			c.Set(UserContextKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by the gate.  Handlers behind
// JWTAuth can rely on a non-nil result.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(UserContextKey).(*model.User)
	return u
}

func revocationKey(userID uint64) string {
	return fmt.Sprintf("revoked_at:%d", userID)
}

// RevokeUserTokens records the current time as the user's revocation epoch.
// Tokens issued at or before this instant stop verifying.  The key lives as
// long as the longest-lived token could.
func RevokeUserTokens(ctx context.Context, rdb *redis.Client, userID uint64, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	now := time.Now().UTC().Unix()
	return rdb.Set(ctx, revocationKey(userID), strconv.FormatInt(now, 10), ttl).Err()
}

// RevokedSince reports whether a token issued at issuedAt predates the
// user's revocation epoch.  Both the gate and the refresh endpoint consult
// it; without redis there is no epoch to consult.
func RevokedSince(ctx context.Context, rdb *redis.Client, userID uint64, issuedAt time.Time) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, revocationKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	epoch, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, err
	}
	return !issuedAt.IsZero() && issuedAt.Unix() <= epoch, nil
}
