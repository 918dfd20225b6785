package handler

import (
	"errors"
	"net/http"

	"github.com/andeslogistics/dock-scheduler/internal/lookup"
	"github.com/gin-gonic/gin"
)

type LookupHandler struct {
	client *lookup.Client
}

func NewLookupHandler(client *lookup.Client) *LookupHandler {
	return &LookupHandler{client: client}
}

func (h *LookupHandler) DNI(c *gin.Context) {
	dni := c.Param("dni")
	if len(dni) != 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dni must have 8 digits"})
		return
	}
	h.forward(c, func() (*lookup.Result, error) {
		return h.client.DNI(c.Request.Context(), dni)
	})
}

func (h *LookupHandler) RUC(c *gin.Context) {
	ruc := c.Param("ruc")
	if len(ruc) != 11 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ruc must have 11 digits"})
		return
	}
	h.forward(c, func() (*lookup.Result, error) {
		return h.client.RUC(c.Request.Context(), ruc)
	})
}

// forward relays the upstream response, status code included, without ever
// exposing the API token.
func (h *LookupHandler) forward(c *gin.Context, query func() (*lookup.Result, error)) {
	res, err := query()
	if err != nil {
		if errors.Is(err, lookup.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "identity lookups not configured"})
			return
		}
		writeError(c, err)
		return
	}
	c.Data(res.StatusCode, "application/json", res.Body)
}
