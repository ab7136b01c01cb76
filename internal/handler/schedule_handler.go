package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/clinicbook/appointment-platform/internal/calendar"
	"github.com/clinicbook/appointment-platform/internal/model"
	"github.com/clinicbook/appointment-platform/internal/service"
)

type ScheduleHandler struct {
	schedule *service.ScheduleService
	logger   *zap.Logger
}

func NewScheduleHandler(schedule *service.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, logger: logger}
}

func (h *ScheduleHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/providers/:providerId/slots", h.getSlots)
	api.PUT("/providers/:providerId/availability", h.updateAvailability)
	api.POST("/providers/:providerId/blocked", h.addBlockedInterval)
}

// getSlots — вычисленные окна провайдера за диапазон дат.
// Формат дат и порядок границ проверяются здесь, до ядра.
func (h *ScheduleHandler) getSlots(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	loc := h.schedule.Location()
	from, err := calendar.ParseDate(c.Query("from"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date, want YYYY-MM-DD"})
		return
	}
	to, err := calendar.ParseDate(c.Query("to"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date, want YYYY-MM-DD"})
		return
	}
	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must not be after 'to'"})
		return
	}

	var serviceID *uuid.UUID
	if raw := c.Query("serviceId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
			return
		}
		serviceID = &id
	}

	slots, err := h.schedule.GetSlots(c.Request.Context(), providerID, serviceID, from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	result := calendar.Paginate(slots, page, pageSize)

	c.JSON(http.StatusOK, gin.H{
		"slots":    slotsResponse(result.Items),
		"page":     result.Page,
		"pageSize": result.PageSize,
		"total":    result.Total,
		"hasNext":  result.HasNext,
		"hasPrev":  result.HasPrev,
	})
}

type slotView struct {
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	SessionStart string  `json:"sessionStart"`
	SessionEnd   string  `json:"sessionEnd"`
	BreakStart   string  `json:"breakStart"`
	BreakEnd     string  `json:"breakEnd"`
	Status       string  `json:"status"`
	BookingRef   *string `json:"bookingRef,omitempty"`
}

func slotsResponse(slots []calendar.TimeSlot) []slotView {
	out := make([]slotView, 0, len(slots))
	for _, s := range slots {
		view := slotView{
			Date:         s.Date.Format("2006-01-02"),
			StartTime:    s.SessionStart.String(),
			EndTime:      s.BreakEnd.String(),
			SessionStart: s.SessionStart.String(),
			SessionEnd:   s.SessionEnd.String(),
			BreakStart:   s.BreakStart.String(),
			BreakEnd:     s.BreakEnd.String(),
			Status:       string(s.Status),
		}
		if s.BookingRef != nil {
			ref := s.BookingRef.String()
			view.BookingRef = &ref
		}
		out = append(out, view)
	}
	return out
}

type availabilityEntryRequest struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// updateAvailability — коллаборатор обновления еженедельных правил:
// весь набор заменяется атомарно.
func (h *ScheduleHandler) updateAvailability(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var req []availabilityEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := make([]model.AvailabilityEntry, 0, len(req))
	for _, e := range req {
		start, err := calendar.ParseTimeOfDay(e.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		end, err := calendar.ParseTimeOfDay(e.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entries = append(entries, model.AvailabilityEntry{
			Weekday:   e.Weekday,
			StartTime: start,
			EndTime:   end,
		})
	}

	if err := h.schedule.UpdateAvailability(c.Request.Context(), providerID, entries); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": len(entries)})
}

type blockedIntervalRequest struct {
	FromDate  string `json:"fromDate" binding:"required"`
	ToDate    string `json:"toDate" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Reason    string `json:"reason"`
}

func (h *ScheduleHandler) addBlockedInterval(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var req blockedIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := h.schedule.Location()
	fromDate, err := calendar.ParseDate(req.FromDate, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fromDate, want YYYY-MM-DD"})
		return
	}
	toDate, err := calendar.ParseDate(req.ToDate, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid toDate, want YYYY-MM-DD"})
		return
	}
	start, err := calendar.ParseTimeOfDay(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := calendar.ParseTimeOfDay(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interval := &model.BlockedInterval{
		ProviderID: providerID,
		FromDate:   datatypes.Date(fromDate),
		ToDate:     datatypes.Date(toDate),
		StartTime:  start,
		EndTime:    end,
		Reason:     req.Reason,
	}
	if err := h.schedule.AddBlockedInterval(c.Request.Context(), interval); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": interval.ID.String()})
}
