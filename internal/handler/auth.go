package handler

import (
	"net/http"

	"github.com/andeslogistics/dock-scheduler/internal/auth"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc    service.AuthServicer
	tokens *auth.Manager
}

func NewAuthHandler(svc service.AuthServicer, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	u, err := h.svc.Register(c.Request.Context(), req.Name, req.Username, req.Password, model.Role(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	u, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	token, err := h.tokens.Issue(u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "rol": u.Role})
}
