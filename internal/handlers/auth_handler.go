package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kodzovi/eventbook/internal/helpers"
	"github.com/kodzovi/eventbook/internal/middleware"
	"github.com/kodzovi/eventbook/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// findIdentityByEmail probes the admin, organizer and user registries in that
// order, matching the claims derivation order. The first email match wins;
// its password is then checked.
func findIdentityByEmail(db *gorm.DB, email, password string) (uuid.UUID, interface{}, bool) {
	var admin models.Admin
	if err := db.Scopes(models.ActiveOnly).Where("email = ?", email).First(&admin).Error; err == nil {
		if helpers.CheckPasswordHash(password, admin.Password) {
			return admin.ID, admin, true
		}
		return uuid.Nil, nil, false
	}

	var organizer models.Organizer
	if err := db.Scopes(models.ActiveOnly).Where("email = ?", email).First(&organizer).Error; err == nil {
		if helpers.CheckPasswordHash(password, organizer.Password) {
			return organizer.ID, organizer, true
		}
		return uuid.Nil, nil, false
	}

	var user models.User
	if err := db.Scopes(models.ActiveOnly).Where("email = ?", email).First(&user).Error; err == nil {
		if helpers.CheckPasswordHash(password, user.Password) {
			return user.ID, user, true
		}
		return uuid.Nil, nil, false
	}

	return uuid.Nil, nil, false
}

// Login authenticates any identity kind. The response is identical for an
// unknown email and a wrong password so accounts cannot be enumerated.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := middleware.GetDB(c)
	if gormDB == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	identityID, identity, ok := findIdentityByEmail(gormDB, req.Email, req.Password)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	accessToken, refreshToken, err := helpers.IssueTokenPair(gormDB, identityID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": identity,
		"token": gin.H{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
	})
}

// Logout appends the presented token's jti to the revocation list. The token
// fails authentication from here on, even before its natural expiry.
func Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Request does not contain an access token.")
		return
	}

	gormDB := middleware.GetDB(c)
	if gormDB == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	revoked := models.RevokedToken{Jti: claims.ID}
	if err := gormDB.Create(&revoked).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token revoked. You have been logged out."})
}

// RefreshToken exchanges a refresh token for a new non-fresh access token.
// Role claims are re-derived from the database, so a role change takes effect
// here without a re-login.
func RefreshToken(c *gin.Context) {
	tokenString, ok := middleware.BearerToken(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Request does not contain a refresh token.")
		return
	}

	claims, err := helpers.ParseToken(tokenString)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
		return
	}
	if claims.TokenType != helpers.TokenTypeRefresh {
		helpers.RespondWithError(c, http.StatusUnauthorized, "A refresh token is required.")
		return
	}

	gormDB := middleware.GetDB(c)
	if gormDB == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var revoked int64
	if err := gormDB.Model(&models.RevokedToken{}).Where("jti = ?", claims.ID).Count(&revoked).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}
	if revoked > 0 {
		helpers.RespondWithError(c, http.StatusUnauthorized, "The token has been revoked.")
		return
	}

	identityID, err := uuid.Parse(claims.Subject)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
		return
	}

	accessToken, err := helpers.IssueAccessToken(gormDB, identityID, false)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}
