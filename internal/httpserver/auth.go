package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authsvc "secondhand-marketplace/internal/service/auth"
)

type loginRequest struct {
	// Identifier is an email address or a display name.
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
}

func (h *handlers) register(c *gin.Context) {
	var req authsvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.deps.AuthSvc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "registration successful", gin.H{"user": user})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	res, err := h.deps.AuthSvc.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "login successful", gin.H{
		"user":      res.User,
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
	})
}

func (h *handlers) logout(c *gin.Context) {
	token := c.GetString(ctxTokenKey)
	if err := h.deps.AuthSvc.Logout(c.Request.Context(), token); err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "logged out", nil)
}

func (h *handlers) logoutAll(c *gin.Context) {
	token := c.GetString(ctxTokenKey)
	if err := h.deps.AuthSvc.LogoutAll(c.Request.Context(), token); err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "logged out on all devices", nil)
}
