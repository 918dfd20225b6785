package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/gin-gonic/gin"
)

// writeError maps domain errors to HTTP responses. Anything unrecognized is
// a store/internal failure: logged in full, surfaced as an opaque 500.
func writeError(c *gin.Context, err error) {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, errs.ErrSlotFull):
		c.JSON(http.StatusConflict, gin.H{"error": errs.ErrSlotFull.Error()})
	case errors.Is(err, errs.ErrDuplicateTaxID):
		c.JSON(http.StatusConflict, gin.H{"error": errs.ErrDuplicateTaxID.Error()})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "no permission for this action"})
	case errors.Is(err, errs.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, errs.ErrAppointmentNotFound),
		errors.Is(err, errs.ErrCarrierNotFound),
		errors.Is(err, errs.ErrTenantNotFound),
		errors.Is(err, errs.ErrIncidentNotFound),
		errors.Is(err, errs.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("handler: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
