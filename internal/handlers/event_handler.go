package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kodzovi/eventbook/internal/helpers"
	"github.com/kodzovi/eventbook/internal/middleware"
	"github.com/kodzovi/eventbook/internal/models"
)

type StoreEventRequest struct {
	Name            string  `form:"name" binding:"required"`
	Location        string  `form:"location" binding:"required"`
	Description     string  `form:"description"`
	Price           float64 `form:"price"`
	AvailablePlaces int     `form:"available_places" binding:"required,gt=0"`
	StartAt         string  `form:"start_at" binding:"required"`
	EndAt           string  `form:"end_at" binding:"required"`
}

type PublicationRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type AuthorizationRequest struct {
	Allow *bool `json:"allow" binding:"required"`
}

// StoreEvent creates an event owned by the calling organizer. New events
// start unpublished with every place remaining.
func StoreEvent(c *gin.Context) {
	var req StoreEventRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid start time format.")
		return
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end time format.")
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Identity not found in token.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	event := models.Event{
		Name:            req.Name,
		Location:        req.Location,
		Description:     req.Description,
		Price:           req.Price,
		AvailablePlaces: req.AvailablePlaces,
		RemainingPlaces: req.AvailablePlaces,
		StartAt:         startAt,
		EndAt:           endAt,
		Active:          false,
		Allow:           true,
		OrganizerID:     identityID,
	}

	if imageFile, err := c.FormFile("image"); err == nil {
		image, err := helpers.UploadFile(c, imageFile, helpers.UploadKindEvent)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		event.Image = image
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Event successfully created.", "event": event})
}

// GetEvent returns a publicly visible event with a snapshot of its
// participants.
func GetEvent(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var event models.Event
	err := gormDB.Scopes(models.Visible).Preload("Participants").Where("id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event does not exist.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// ListPublishedEvents returns every publicly visible event.
func ListPublishedEvents(c *gin.Context) {
	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var events []models.Event
	if err := gormDB.Scopes(models.Visible).Order("start_at").Find(&events).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ListUnpublishedEvents returns the calling organizer's unpublished events.
func ListUnpublishedEvents(c *gin.Context) {
	identityID, ok := middleware.GetIdentityID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Identity not found in token.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var events []models.Event
	if err := gormDB.Where("organizer_id = ? AND active = ?", identityID, false).Find(&events).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ListUnauthorizedEvents returns events an admin has blocked. Admin only.
func ListUnauthorizedEvents(c *gin.Context) {
	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var events []models.Event
	if err := gormDB.Where("allow = ?", false).Find(&events).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// UpdateEvent edits an event the calling organizer owns. Shrinking the
// available places clamps the remaining counter so it never exceeds them.
func UpdateEvent(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Identity not found in token.")
		return
	}

	var req StoreEventRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid start time format.")
		return
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end time format.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND organizer_id = ?", eventID, identityID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithStorageError(c, err)
		return
	}

	event.Name = req.Name
	event.Location = req.Location
	event.Description = req.Description
	event.Price = req.Price
	event.AvailablePlaces = req.AvailablePlaces
	if event.RemainingPlaces > event.AvailablePlaces {
		event.RemainingPlaces = event.AvailablePlaces
	}
	event.StartAt = startAt
	event.EndAt = endAt

	if imageFile, err := c.FormFile("image"); err == nil {
		existingImage := event.Image
		image, err := helpers.UploadFile(c, imageFile, helpers.UploadKindEvent)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		event.Image = image
		if err := helpers.DeleteFile(helpers.UploadKindEvent, existingImage); err != nil {
			log.Printf("failed to delete old image %q: %v", existingImage, err)
		}
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event successfully updated.", "event": event})
}

// DeleteEvent soft deletes an event the calling organizer owns.
func DeleteEvent(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Identity not found in token.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	result := gormDB.Where("id = ? AND organizer_id = ?", eventID, identityID).Delete(&models.Event{})
	if result.Error != nil {
		helpers.RespondWithStorageError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to delete.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event successfully deleted."})
}

// SetEventPublication toggles the organizer's published flag on their own
// event.
func SetEventPublication(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Identity not found in token.")
		return
	}

	var req PublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND organizer_id = ?", eventID, identityID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update.")
		return
	}

	event.Active = *req.Active
	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event successfully updated."})
}

// SetEventAuthorization toggles the admin authorization flag. Admin only.
func SetEventAuthorization(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event does not exist.")
		return
	}

	event.Allow = *req.Allow
	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event successfully updated."})
}
