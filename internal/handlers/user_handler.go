package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kodzovi/eventbook/internal/helpers"
	"github.com/kodzovi/eventbook/internal/middleware"
	"github.com/kodzovi/eventbook/internal/models"
)

type RegisterUserRequest struct {
	Firstname string `form:"firstname" binding:"required"`
	Lastname  string `form:"lastname" binding:"required"`
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password" binding:"required,min=6"`
	Contacts  string `form:"contacts" binding:"required"`
}

type UpdateUserRequest struct {
	Firstname string `form:"firstname" binding:"required"`
	Lastname  string `form:"lastname" binding:"required"`
	Email     string `form:"email" binding:"required,email"`
	Contacts  string `form:"contacts" binding:"required"`
}

type PasswordResetRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type ActivationRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// RegisterUser creates a client account and logs it in with a fresh token
// pair. The unique index on email is the real duplicate guard; the pre-check
// only produces a friendlier message ahead of the race.
func RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var existing models.User
	if err := gormDB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		helpers.RespondWithError(c, http.StatusConflict, "An account with this email already exists.")
		return
	}

	hashedPassword, err := helpers.HashPassword(req.Password)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	user := models.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  hashedPassword,
		Contacts:  req.Contacts,
		Active:    true,
	}

	if photoFile, err := c.FormFile("photo"); err == nil {
		photo, err := helpers.UploadFile(c, photoFile, helpers.UploadKindClient)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		user.Photo = photo
	}

	if err := gormDB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusConflict, "An account with this email already exists.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	accessToken, refreshToken, err := helpers.IssueTokenPair(gormDB, user.ID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": user,
		"token": gin.H{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
		"message": "Account successfully created.",
	})
}

// GetUser returns a user with their favourite events.
func GetUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var user models.User
	err := gormDB.Scopes(models.ActiveOnly).Preload("FavouriteEvents").Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers returns all active users. Admin only.
func ListUsers(c *gin.Context) {
	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var users []models.User
	if err := gormDB.Scopes(models.ActiveOnly).Find(&users).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateUser edits profile fields. Clients may only edit their own account.
func UpdateUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only modify your own account.")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var user models.User
	if err := gormDB.Scopes(models.ActiveOnly).Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	existingPhoto := user.Photo
	user.Firstname = req.Firstname
	user.Lastname = req.Lastname
	user.Email = req.Email
	user.Contacts = req.Contacts

	if photoFile, err := c.FormFile("photo"); err == nil {
		photo, err := helpers.UploadFile(c, photoFile, helpers.UploadKindClient)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		user.Photo = photo
		if err := helpers.DeleteFile(helpers.UploadKindClient, existingPhoto); err != nil {
			log.Printf("failed to delete old photo %q: %v", existingPhoto, err)
		}
	}

	if err := gormDB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusConflict, "An account with this email already exists.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account successfully updated.", "user": user})
}

// DeleteUser soft deletes the client's own account.
func DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only delete your own account.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	result := gormDB.Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		helpers.RespondWithStorageError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account successfully deleted."})
}

// ResetUserPassword verifies the old password and stores a new hash.
func ResetUserPassword(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only modify your own account.")
		return
	}

	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var user models.User
	if err := gormDB.Scopes(models.ActiveOnly).Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	if !helpers.CheckPasswordHash(req.OldPassword, user.Password) || req.NewPassword != req.ConfirmPassword {
		helpers.RespondWithError(c, http.StatusBadRequest, "Please check your passwords.")
		return
	}

	hashedPassword, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	user.Password = hashedPassword
	if err := gormDB.Save(&user).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password successfully reset."})
}

// SetUserActivation enables or disables an account. Admin only; the lookup
// skips the active filter so a disabled account can be re-enabled.
func SetUserActivation(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	user.Active = *req.Active
	if err := gormDB.Save(&user).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account successfully updated."})
}
