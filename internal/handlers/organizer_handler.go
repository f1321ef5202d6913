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

type RegisterOrganizerRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	Contacts string `form:"contacts" binding:"required"`
}

type UpdateOrganizerRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Contacts string `form:"contacts" binding:"required"`
}

// RegisterOrganizer creates an organizer account. Both name and email must be
// unique; the indexes are authoritative, the pre-check is cosmetic.
func RegisterOrganizer(c *gin.Context) {
	var req RegisterOrganizerRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var existing models.Organizer
	if err := gormDB.Where("email = ? OR name = ?", req.Email, req.Name).First(&existing).Error; err == nil {
		helpers.RespondWithError(c, http.StatusConflict, "An organizer with this name or email already exists.")
		return
	}

	hashedPassword, err := helpers.HashPassword(req.Password)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	organizer := models.Organizer{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Contacts: req.Contacts,
		Active:   true,
	}

	if photoFile, err := c.FormFile("photo"); err == nil {
		photo, err := helpers.UploadFile(c, photoFile, helpers.UploadKindOrganizer)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		organizer.Photo = photo
	}

	if err := gormDB.Create(&organizer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusConflict, "An organizer with this name or email already exists.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	accessToken, refreshToken, err := helpers.IssueTokenPair(gormDB, organizer.ID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": organizer,
		"token": gin.H{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
		"message": "Account successfully created.",
	})
}

// GetOrganizer returns an organizer with their events.
func GetOrganizer(c *gin.Context) {
	organizerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var organizer models.Organizer
	err := gormDB.Scopes(models.ActiveOnly).Preload("Events").Where("id = ?", organizerID).First(&organizer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, organizer)
}

// ListOrganizers returns all active organizers. Admin only.
func ListOrganizers(c *gin.Context) {
	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var organizers []models.Organizer
	if err := gormDB.Scopes(models.ActiveOnly).Find(&organizers).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizers": organizers})
}

// UpdateOrganizer edits profile fields. Organizers may only edit themselves.
func UpdateOrganizer(c *gin.Context) {
	organizerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != organizerID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only modify your own account.")
		return
	}

	var req UpdateOrganizerRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var organizer models.Organizer
	if err := gormDB.Scopes(models.ActiveOnly).Where("id = ?", organizerID).First(&organizer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	existingPhoto := organizer.Photo
	organizer.Name = req.Name
	organizer.Email = req.Email
	organizer.Contacts = req.Contacts

	if photoFile, err := c.FormFile("photo"); err == nil {
		photo, err := helpers.UploadFile(c, photoFile, helpers.UploadKindOrganizer)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		organizer.Photo = photo
		if err := helpers.DeleteFile(helpers.UploadKindOrganizer, existingPhoto); err != nil {
			log.Printf("failed to delete old photo %q: %v", existingPhoto, err)
		}
	}

	if err := gormDB.Save(&organizer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusConflict, "An organizer with this name or email already exists.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account successfully updated.", "user": organizer})
}

// DeleteOrganizer soft deletes the organizer's own account. Deletion is
// blocked while the organizer still has live events so participation rows are
// never orphaned.
func DeleteOrganizer(c *gin.Context) {
	organizerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != organizerID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only delete your own account.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var eventCount int64
	if err := gormDB.Model(&models.Event{}).Where("organizer_id = ?", organizerID).Count(&eventCount).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}
	if eventCount > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Delete or transfer your events before deleting the account.")
		return
	}

	result := gormDB.Where("id = ?", organizerID).Delete(&models.Organizer{})
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

// ResetOrganizerPassword verifies the old password and stores a new hash.
func ResetOrganizerPassword(c *gin.Context) {
	organizerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != organizerID {
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

	var organizer models.Organizer
	if err := gormDB.Scopes(models.ActiveOnly).Where("id = ?", organizerID).First(&organizer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	if !helpers.CheckPasswordHash(req.OldPassword, organizer.Password) || req.NewPassword != req.ConfirmPassword {
		helpers.RespondWithError(c, http.StatusBadRequest, "Please check your passwords.")
		return
	}

	hashedPassword, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	organizer.Password = hashedPassword
	if err := gormDB.Save(&organizer).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password successfully reset."})
}

// SetOrganizerActivation enables or disables an organizer. Admin only.
func SetOrganizerActivation(c *gin.Context) {
	organizerID, ok := pathID(c, "id")
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

	var organizer models.Organizer
	if err := gormDB.Where("id = ?", organizerID).First(&organizer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	organizer.Active = *req.Active
	if err := gormDB.Save(&organizer).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account successfully updated."})
}
