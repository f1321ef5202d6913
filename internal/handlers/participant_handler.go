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

var (
	errEventFull     = errors.New("event has no remaining places")
	errNotRegistered = errors.New("user is not registered for the event")
)

// AddParticipant registers a client for an event. The guarded decrement and
// the join-row insert run in one transaction so the event cannot be oversold
// under concurrent requests; the composite key on the join table rejects a
// duplicate pair and rolls the decrement back.
func AddParticipant(c *gin.Context) {
	eventID, ok := pathID(c, "event_id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only manage your own registrations.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var event models.Event
	if err := gormDB.Scopes(models.Visible).Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event does not exist.")
		return
	}

	var user models.User
	if err := gormDB.Scopes(models.ActiveOnly).Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Account does not exist.")
		return
	}

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Event{}).
			Where("id = ? AND remaining_places > 0", event.ID).
			UpdateColumn("remaining_places", gorm.Expr("remaining_places - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errEventFull
		}
		return tx.Create(&models.Participation{UserID: user.ID, EventID: event.ID}).Error
	})

	switch {
	case errors.Is(err, errEventFull):
		helpers.RespondWithError(c, http.StatusConflict, "No places remaining for this event.")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		helpers.RespondWithError(c, http.StatusConflict, "You are already registered for this event.")
	case err != nil:
		helpers.RespondWithStorageError(c, err)
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Registration completed successfully."})
	}
}

// RemoveParticipant withdraws a client's registration and frees the place,
// never pushing the counter past the available places.
func RemoveParticipant(c *gin.Context) {
	eventID, ok := pathID(c, "event_id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only manage your own registrations.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var event models.Event
	if err := gormDB.Scopes(models.Visible).Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event does not exist.")
		return
	}

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND event_id = ?", userID, event.ID).Delete(&models.Participation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNotRegistered
		}
		return tx.Model(&models.Event{}).
			Where("id = ? AND remaining_places < available_places", event.ID).
			UpdateColumn("remaining_places", gorm.Expr("remaining_places + 1")).Error
	})

	switch {
	case errors.Is(err, errNotRegistered):
		helpers.RespondWithError(c, http.StatusConflict, "You are not registered for this event.")
	case err != nil:
		helpers.RespondWithStorageError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Registration removed successfully."})
	}
}

// AddFavouriteEvent adds an event to the client's favourites. The operation
// has set semantics: favouriting twice is a no-op, not an error.
func AddFavouriteEvent(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "event_id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only manage your own favourites.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	var event models.Event
	if err := gormDB.Scopes(models.Visible).Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event does not exist.")
		return
	}

	favourite := models.Favourite{UserID: userID, EventID: event.ID}
	if err := gormDB.FirstOrCreate(&favourite, favourite).Error; err != nil {
		helpers.RespondWithStorageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Event added to your favourites."})
}

// RemoveFavouriteEvent removes an event from the client's favourites.
func RemoveFavouriteEvent(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "event_id")
	if !ok {
		return
	}

	identityID, ok := middleware.GetIdentityID(c)
	if !ok || identityID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only manage your own favourites.")
		return
	}

	gormDB := database(c)
	if gormDB == nil {
		return
	}

	result := gormDB.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&models.Favourite{})
	if result.Error != nil {
		helpers.RespondWithStorageError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Event is not in your favourites.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event removed from your favourites."})
}
