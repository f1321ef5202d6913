package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kodzovi/eventbook/internal/helpers"
	"github.com/kodzovi/eventbook/internal/middleware"
	"github.com/kodzovi/eventbook/internal/models"
)

type RegisterAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Contacts string `json:"contacts" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin superuser"`
}

type UpdateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Contacts string `json:"contacts" binding:"required"`
}

type ChangeAdminRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin superuser"`
}

// RegisterAdmin creates an admin account. Superuser only; admins never
// self-register.
func RegisterAdmin(c *gin.Context) {
	var req RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var existing models.Admin
	if err := gormDB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		helpers.RespondWithError(c, http.StatusConflict, "An account with this email already exists.")
		return
	}

	hashedPassword, err := helpers.HashPassword(req.Password)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	admin := models.Admin{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Contacts: req.Contacts,
		Role:     req.Role,
		Active:   true,
	}

	if err := gormDB.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusConflict, "An account with this email already exists.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": admin, "message": "Account successfully created."})
}

// GetAdmin returns one admin account.
func GetAdmin(c *gin.Context) {
	adminID, ok := pathID(c, "id")
	if !ok {
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var admin models.Admin
	if err := gormDB.Scopes(models.ActiveOnly).Where("id = ?", adminID).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// ListAdmins returns all active admins. Superuser only.
func ListAdmins(c *gin.Context) {
	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var admins []models.Admin
	if err := gormDB.Scopes(models.ActiveOnly).Find(&admins).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

// UpdateAdmin edits admin profile fields. Superuser only.
func UpdateAdmin(c *gin.Context) {
	adminID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var admin models.Admin
	if err := gormDB.Where("id = ?", adminID).First(&admin).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	admin.Username = req.Username
	admin.Email = req.Email
	admin.Contacts = req.Contacts

	if err := gormDB.Save(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusConflict, "An account with this email already exists.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account successfully updated.", "user": admin})
}

// ChangeAdminRole switches an admin between the admin and superuser roles.
// Superuser only. The new role reaches running sessions at token refresh.
func ChangeAdminRole(c *gin.Context) {
	adminID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ChangeAdminRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var admin models.Admin
	if err := gormDB.Where("id = ?", adminID).First(&admin).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	admin.Role = req.Role
	if err := gormDB.Save(&admin).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account successfully updated.", "user": admin})
}

// ResetAdminPassword verifies the old password and stores a new hash. Admins
// rotate their own password; role changes stay a superuser operation.
func ResetAdminPassword(c *gin.Context) {
	adminID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != adminID {
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

	var admin models.Admin
	if err := gormDB.Scopes(models.ActiveOnly).Where("id = ?", adminID).First(&admin).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	if !helpers.CheckPasswordHash(req.OldPassword, admin.Password) || req.NewPassword != req.ConfirmPassword {
		helpers.RespondWithError(c, http.StatusBadRequest, "Please check your passwords.")
		return
	}

	hashedPassword, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	admin.Password = hashedPassword
	if err := gormDB.Save(&admin).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password successfully reset."})
}

// DeleteAdmin soft deletes an admin account. Superuser only.
func DeleteAdmin(c *gin.Context) {
	adminID, ok := pathID(c, "id")
	if !ok {
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	result := gormDB.Where("id = ?", adminID).Delete(&models.Admin{})
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
