package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	dashboardsvc "secondhand-marketplace/internal/service/dashboard"
)

func (h *handlers) getProfile(c *gin.Context) {
	user, err := h.deps.DashboardSvc.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "profile loaded", gin.H{"user": user})
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req dashboardsvc.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.deps.DashboardSvc.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "profile updated", gin.H{"user": user})
}
