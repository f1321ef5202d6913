package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kodzovi/eventbook/internal/helpers"
	"github.com/kodzovi/eventbook/internal/middleware"
)

// database fetches the gorm handle injected by DatabaseMiddleware. On failure
// the error response has already been written and nil is returned.
func database(c *gin.Context) *gorm.DB {
	gormDB := middleware.GetDB(c)
	if gormDB == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
	}
	return gormDB
}

// pathID parses a uuid path parameter, writing a 400 response when invalid.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" parameter.")
		return uuid.Nil, false
	}
	return id, true
}
