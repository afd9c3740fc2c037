package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"homestay/internal/app/handlers/support"
	"homestay/internal/app/middleware"
	"homestay/internal/domain/booking"
	"homestay/internal/domain/listings"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, support.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, listings.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, listings.ErrNotBookable),
		errors.Is(err, middleware.ErrReplayedFailure):
		return http.StatusConflict
	case errors.Is(err, booking.ErrNotSubmittable),
		errors.Is(err, booking.ErrTooManyGuests),
		errors.Is(err, booking.ErrGuestsInvalid),
		errors.Is(err, booking.ErrCheckInInPast),
		errors.Is(err, booking.ErrMessageLength):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError hides internal failures behind a generic message; the cause goes to the log.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
