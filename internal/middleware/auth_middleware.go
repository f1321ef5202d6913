package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kodzovi/eventbook/internal/helpers"
	"github.com/kodzovi/eventbook/internal/models"
)

const (
	contextClaimsKey   = "claims"
	contextIdentityKey = "identity_id"
)

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	return token, token != ""
}

// JWTAuthMiddleware validates the access token: present, signed, not expired
// and its jti not on the revocation list. The claims and identity id are
// stored on the context for the guards and handlers downstream.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := BearerToken(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Request does not contain an access token.")
			c.Abort()
			return
		}

		claims, err := helpers.ParseToken(tokenString)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			c.Abort()
			return
		}
		if claims.TokenType != helpers.TokenTypeAccess {
			helpers.RespondWithError(c, http.StatusUnauthorized, "An access token is required.")
			c.Abort()
			return
		}

		gormDB := GetDB(c)
		if gormDB == nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
			c.Abort()
			return
		}

		var revoked int64
		if err := gormDB.Model(&models.RevokedToken{}).Where("jti = ?", claims.ID).Count(&revoked).Error; err != nil {
			helpers.RespondWithStorageError(c, err)
			c.Abort()
			return
		}
		if revoked > 0 {
			helpers.RespondWithError(c, http.StatusUnauthorized, "The token has been revoked.")
			c.Abort()
			return
		}

		identityID, err := uuid.Parse(claims.Subject)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			c.Abort()
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Set(contextIdentityKey, identityID)
		c.Next()
	}
}

// GetClaims returns the validated claims of the current token, or nil outside
// an authenticated request.
func GetClaims(c *gin.Context) *helpers.TokenClaims {
	claims, exists := c.Get(contextClaimsKey)
	if !exists {
		return nil
	}
	return claims.(*helpers.TokenClaims)
}

// GetIdentityID returns the authenticated identity's id.
func GetIdentityID(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(contextIdentityKey)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}

// requireRole builds a guard that inspects the current token's claims. Guards
// never re-derive roles from the database; a refresh picks up role changes.
func requireRole(privilege string, allowed func(helpers.RoleClaims) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !allowed(claims.Roles) {
			helpers.RespondWithError(c, http.StatusForbidden, privilege+" privilege required.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireSuperuser() gin.HandlerFunc {
	return requireRole("Superuser", func(r helpers.RoleClaims) bool { return r.Superuser })
}

// RequireAdmin passes for both roles; superuser is a strict superset of admin.
func RequireAdmin() gin.HandlerFunc {
	return requireRole("Admin", func(r helpers.RoleClaims) bool { return r.Admin || r.Superuser })
}

func RequireOrganizer() gin.HandlerFunc {
	return requireRole("Organizer", func(r helpers.RoleClaims) bool { return r.Organizer })
}

func RequireClient() gin.HandlerFunc {
	return requireRole("Client", func(r helpers.RoleClaims) bool { return r.Client })
}
