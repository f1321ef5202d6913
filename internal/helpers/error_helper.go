package helpers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondWithError writes the fixed error shape shared by every handler.
func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// RespondWithStorageError logs an unexpected database failure and returns a
// generic message so internal detail never reaches the client.
func RespondWithStorageError(c *gin.Context, err error) {
	log.Printf("storage failure on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	RespondWithError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
