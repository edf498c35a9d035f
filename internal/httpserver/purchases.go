package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) checkout(c *gin.Context) {
	userID, err := actingUser(c, c.Param("userId"), "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.deps.PurchaseSvc.Checkout(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "purchase completed", gin.H{"purchase": p})
}

func (h *handlers) purchaseHistory(c *gin.Context) {
	userID, err := actingUser(c, c.Param("userId"), "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	purchases, err := h.deps.PurchaseSvc.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "purchase history loaded", gin.H{"purchases": purchases, "count": len(purchases)})
}

func (h *handlers) getPurchase(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.deps.PurchaseSvc.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "purchase loaded", gin.H{"purchase": p})
}
