package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicbook/appointment-platform/internal/calendar"
	"github.com/clinicbook/appointment-platform/internal/model"
	"github.com/clinicbook/appointment-platform/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
	loc      *time.Location
	logger   *zap.Logger
}

func NewBookingHandler(bookings *service.BookingService, loc *time.Location, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, loc: loc, logger: logger}
}

func (h *BookingHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/bookings", h.reserve)
	api.GET("/bookings/:token", h.getByToken)
	api.POST("/bookings/:token/cancel", h.cancel)
}

type reserveRequest struct {
	ProviderID string `json:"providerId" binding:"required"`
	ServiceID  string `json:"serviceId"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"startTime" binding:"required"`
	Comment    string `json:"comment"`
}

func (h *BookingHandler) reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}
	var serviceID *uuid.UUID
	if req.ServiceID != "" {
		id, err := uuid.Parse(req.ServiceID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
			return
		}
		serviceID = &id
	}
	date, err := calendar.ParseDate(req.Date, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}
	start, err := calendar.ParseTimeOfDay(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.Reserve(c.Request.Context(), service.ReserveRequest{
		ProviderID: providerID,
		ServiceID:  serviceID,
		Date:       date,
		StartTime:  start,
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, bookingResponse(booking))
}

func (h *BookingHandler) getByToken(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
		return
	}

	booking, err := h.bookings.GetByToken(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bookingResponse(booking))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
		return
	}

	booking, err := h.bookings.Cancel(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bookingResponse(booking))
}

func bookingResponse(b *model.Booking) gin.H {
	resp := gin.H{
		"bookingRef":        b.ID.String(),
		"providerId":        b.ProviderID.String(),
		"date":              time.Time(b.Date).Format("2006-01-02"),
		"startTime":         b.StartTime.String(),
		"endTime":           b.EndTime.String(),
		"status":            string(b.Status),
		"cancellationToken": b.CancellationToken.String(),
	}
	if b.ServiceID != nil {
		resp["serviceId"] = b.ServiceID.String()
	}
	return resp
}
