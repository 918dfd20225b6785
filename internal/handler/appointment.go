package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/kafka"
	"github.com/andeslogistics/dock-scheduler/internal/middleware"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	svc      service.AppointmentServicer
	capacity int
	producer kafka.AppointmentEventProducer
}

func NewAppointmentHandler(svc service.AppointmentServicer, capacity int, producer kafka.AppointmentEventProducer) *AppointmentHandler {
	if capacity <= 0 {
		capacity = service.DefaultSlotCapacity
	}
	return &AppointmentHandler{svc: svc, capacity: capacity, producer: producer}
}

type createAppointmentRequest struct {
	ScheduledAt          time.Time `json:"scheduled_at"`
	TenantID             uint64    `json:"tenant_id"`
	CarrierID            *uint64   `json:"carrier_id"`
	Description          string    `json:"description"`
	AcceptedTerms        bool      `json:"accepted_terms"`
	RequiresConfirmation bool      `json:"requires_confirmation"`
	Plate                string    `json:"plate"`
	DriverName           string    `json:"driver_name"`
	DriverNationalID     string    `json:"driver_national_id"`
	Companions           []string  `json:"companions"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	appt, err := h.svc.Create(c.Request.Context(), service.CreateAppointmentInput{
		ScheduledAt:          req.ScheduledAt,
		TenantID:             req.TenantID,
		CarrierID:            req.CarrierID,
		Description:          req.Description,
		AcceptedTerms:        req.AcceptedTerms,
		RequiresConfirmation: req.RequiresConfirmation,
		Plate:                req.Plate,
		DriverName:           req.DriverName,
		DriverNationalID:     req.DriverNationalID,
		Companions:           req.Companions,
	}, claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	h.emit("cita.created", appt)
	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("fechaInicio"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fechaInicio"})
			return
		}
		from = &t
	}
	if v := c.Query("fechaFin"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fechaFin"})
			return
		}
		to = &t
	}
	items, err := h.svc.List(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListMine returns the caller tenant's appointments over the portal window.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	items, err := h.svc.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// SlotAvailability reports how many bookings the hour window around fecha
// already holds, so the booking form can grey out full hours.
func (h *AppointmentHandler) SlotAvailability(c *gin.Context) {
	v := c.Query("fecha")
	if v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fecha is required"})
		return
	}
	t, err := parseTimeParam(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fecha"})
		return
	}
	count, err := h.svc.CountInHour(c.Request.Context(), t)
	if err != nil {
		writeError(c, err)
		return
	}
	available := int64(h.capacity) - count
	if available < 0 {
		available = 0
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     count,
		"capacity":  h.capacity,
		"available": available,
	})
}

type advanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AppointmentHandler) Advance(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req advanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	appt, err := h.svc.Advance(c.Request.Context(), id, model.AppointmentStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	h.emit("cita.status_changed", appt)
	c.JSON(http.StatusOK, appt)
}

type confirmAppointmentRequest struct {
	CarrierID        *uint64  `json:"carrier_id"`
	Description      string   `json:"description"`
	Plate            string   `json:"plate"`
	DriverName       string   `json:"driver_name"`
	DriverNationalID string   `json:"driver_national_id"`
	Companions       []string `json:"companions"`
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req confirmAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	appt, err := h.svc.Confirm(c.Request.Context(), id, service.ConfirmAppointmentInput{
		CarrierID:        req.CarrierID,
		Description:      req.Description,
		Plate:            req.Plate,
		DriverName:       req.DriverName,
		DriverNationalID: req.DriverNationalID,
		Companions:       req.Companions,
	}, claims.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	h.emit("cita.confirmed", appt)
	c.JSON(http.StatusOK, appt)
}

// emit fires the event in the background; it must go out even if the request
// context is already done, but with a timeout.
func (h *AppointmentHandler) emit(event string, appt *model.Appointment) {
	if h.producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		defer cancel()
		h.producer.ProduceAppointmentEvent(ctx, event, appt)
	}()
}

// parseTimeParam accepts RFC 3339 timestamps and bare dates.
func parseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
