package handler

import (
	"net/http"
	"strconv"

	"github.com/andeslogistics/dock-scheduler/internal/middleware"
	"github.com/andeslogistics/dock-scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

type CarrierHandler struct {
	svc service.CarrierServicer
}

func NewCarrierHandler(svc service.CarrierServicer) *CarrierHandler {
	return &CarrierHandler{svc: svc}
}

func (h *CarrierHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CarrierHandler) ListMine(c *gin.Context) {
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

type carrierRequest struct {
	Name      string   `json:"name"`
	TaxID     string   `json:"ruc"`
	TenantIDs []uint64 `json:"tenant_ids"`
}

func (h *CarrierHandler) Create(c *gin.Context) {
	var req carrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	carrier, err := h.svc.Create(c.Request.Context(), req.Name, req.TaxID, req.TenantIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, carrier)
}

// CreateForTenant registers a carrier from the booking form and associates it
// with the caller's tenant.
func (h *CarrierHandler) CreateForTenant(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	var req carrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	carrier, err := h.svc.CreateForTenantUser(c.Request.Context(), req.Name, req.TaxID, claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, carrier)
}

func (h *CarrierHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req carrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	carrier, err := h.svc.Update(c.Request.Context(), id, req.Name, req.TaxID, req.TenantIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, carrier)
}

func (h *CarrierHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "carrier deleted"})
}
