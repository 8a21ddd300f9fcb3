package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvault/dicom-server/internal/model"
)

// respondError maps service sentinel errors to HTTP status codes. This is
// the only place transport codes are assigned.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
	case errors.Is(err, model.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already taken"})
	case errors.Is(err, model.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
	case errors.Is(err, model.ErrInvalidToken):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "DICOM not found"})
	case errors.Is(err, model.ErrExtractionFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading DICOM file"})
	case errors.Is(err, model.ErrFileMissing):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File not found on server"})
	case errors.Is(err, model.ErrDeletionFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
