package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/calendar"
	"github.com/clinicbook/appointment-platform/internal/service"
)

// respondError переводит доменные ошибки в HTTP-статусы.
// Каждая отклонённая операция получает различимое условие,
// а не общий failure: фронту нужны точные сообщения.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidDateRange),
		errors.Is(err, calendar.ErrInvalidTimeOfDay),
		errors.Is(err, calendar.ErrInvalidTimeRange),
		errors.Is(err, calendar.ErrInvalidProviderID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, calendar.ErrProviderNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})

	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, calendar.ErrAlreadyCancelled),
		errors.Is(err, calendar.ErrProviderInactive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, calendar.ErrNoticeWindow),
		errors.Is(err, service.ErrPastSlot):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	default:
		logger.Error("http.internal_error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
