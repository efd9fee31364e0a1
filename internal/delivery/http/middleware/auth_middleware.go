package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go-coaching-backend/config"
	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/auth"
	"go-coaching-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the Supabase bearer token (HS256 via the shared
// secret or RS256 via JWKS) and loads the local profile so downstream code
// sees the synced tier, not a possibly stale token claim.
func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if tokenString == "" || tokenString == authHeader {
			response.Error(c, http.StatusUnauthorized, "Authorization bearer token required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
				// HS256 - Use Secret
				if cfg.SupabaseJWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
				}
				return []byte(cfg.SupabaseJWTSecret), nil
			}

			if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
				// RS256 - Use JWKS
				return jwksProvider.KeyFunc(token)
			}

			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		})

		if err != nil || !token.Valid {
			logger.Log.Debug("token validation failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)

		// The profile sync endpoint is the one privileged call that must
		// work before a profile row exists.
		if c.FullPath() == "/v1/auth/sync" {
			setIdentity(c, sub, email, "")
			c.Next()
			return
		}

		// Tier comes from the synced profile, not the JWT, so upgrades and
		// add-on changes apply without reissuing tokens.
		profile, err := authUC.GetCurrentProfile(c.Request.Context(), sub)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Profile not synced; call /auth/sync first", nil)
			c.Abort()
			return
		}

		setIdentity(c, sub, email, string(profile.Tier))

		c.Next()
	}
}

// setIdentity records the caller on both the gin context (string keys, for
// c.GetString in handlers) and the request context (typed keys, for usecases
// that receive a plain context.Context).
func setIdentity(c *gin.Context, sub, email, tier string) {
	c.Set(string(domain.KeyUserID), sub)
	c.Set(string(domain.KeyUserEmail), email)

	ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, sub)
	ctx = context.WithValue(ctx, domain.KeyUserEmail, email)
	if tier != "" {
		c.Set(string(domain.KeyUserTier), tier)
		ctx = context.WithValue(ctx, domain.KeyUserTier, tier)
	}
	c.Request = c.Request.WithContext(ctx)
}
