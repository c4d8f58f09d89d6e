package middleware

import (
	"caseLibrary/domain"
	"caseLibrary/pkg/logger"
	"caseLibrary/pkg/utils"
	"net/http"
	"strings"
	"time"

	jsonres "caseLibrary/pkg/response"

	"github.com/labstack/echo/v4"
)

const (
	identityKey = "identity"

	// HeaderGuestID carries the browser-local guest identifier of unauthenticated callers.
	HeaderGuestID = "X-Guest-Id"
)

// IdentityFrom returns the identity resolved for this request, if any.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

func setIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
	if id.Authenticated() {
		c.Set("user_id", id.UserID)
		c.Set("role", id.Role)
	}
}

// bearerIdentity parses the Authorization header. present is false when the header is
// absent; reason is set when a present header cannot be used.
func bearerIdentity(c echo.Context) (id domain.Identity, present bool, reason string) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return domain.Identity{}, false, ""
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return domain.Identity{}, true, "Invalid authorization format"
	}

	claims, err := utils.ParseJWT(tokenParts[1])
	if err != nil {
		logger.Warn("Failed to parse JWT", "error", err)
		return domain.Identity{}, true, "Invalid token"
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || expAt == nil || time.Now().After(expAt.Time) {
		return domain.Identity{}, true, "Token expired"
	}

	if claims.UserID == "" || domain.IsGuestIdentifier(claims.UserID) {
		return domain.Identity{}, true, "Invalid user in token"
	}

	return domain.Identity{UserID: claims.UserID, Role: claims.Role}, true, ""
}

// AuthMiddleware requires a valid bearer token for a registered user.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, present, reason := bearerIdentity(c)
			if !present {
				reason = "Missing authorization header"
			}
			if reason != "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", reason, nil,
				))
			}

			setIdentity(c, id)
			return next(c)
		}
	}
}

// OptionalIdentity resolves a user from a bearer token, or a guest from the
// X-Guest-Id header, and lets anonymous requests through.
func OptionalIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, present, reason := bearerIdentity(c)
			if present {
				if reason != "" {
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", reason, nil,
					))
				}
				setIdentity(c, id)
				return next(c)
			}

			if guestID := c.Request().Header.Get(HeaderGuestID); domain.IsGuestIdentifier(guestID) {
				setIdentity(c, domain.Identity{GuestID: guestID, IsGuest: true})
			}
			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Get("role")
			roleStr, ok := role.(string)
			if !ok || strings.ToUpper(roleStr) != "ADMIN" {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}
