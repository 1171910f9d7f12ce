package middleware

import (
	"context"
	"strings"

	"linksphere/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityResolver maps an authenticated principal (the token subject, an
// email address) to a user ID.
type IdentityResolver interface {
	ResolveUserIDByEmail(ctx context.Context, email string) (uint, error)
}

// AuthConfig configures bearer-token validation.
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// AuthRequired validates the bearer token, resolves its subject through the
// identity lookup and stores the user ID in c.Locals("userID") and the user
// context.
func AuthRequired(cfg AuthConfig, identities IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get("Authorization"))
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		email, err := subjectFromToken(cfg, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		ctx := c.UserContext()
		userID, err := identities.ResolveUserIDByEmail(ctx, email)
		if err != nil {
			// A valid token for an unknown account means the token issuer and
			// the user store disagree.
			Logger.WarnContext(ctx, "token subject did not resolve to a user",
				"error", err.Error())
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unknown user"))
		}

		c.Locals("userID", userID)
		c.SetUserContext(context.WithValue(ctx, UserIDKey, userID))

		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func subjectFromToken(cfg AuthConfig, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.NewUnauthorizedError("Invalid token claims")
	}

	if cfg.Issuer != "" {
		if issuer, err := claims.GetIssuer(); err != nil || issuer != cfg.Issuer {
			return "", models.NewUnauthorizedError("Invalid token issuer")
		}
	}
	if cfg.Audience != "" {
		audience, err := claims.GetAudience()
		if err != nil || !containsString(audience, cfg.Audience) {
			return "", models.NewUnauthorizedError("Invalid token audience")
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return "", models.NewUnauthorizedError("Invalid subject claim")
	}
	return sub, nil
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// UserID returns the authenticated user ID stored by AuthRequired.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}
