package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	cartsvc "secondhand-marketplace/internal/service/cart"
)

type addToCartRequest struct {
	// UserID is optional and must match the signed-in user when present.
	UserID    *int64 `json:"userId"`
	ProductID int64  `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

type updateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	raw := ""
	if req.UserID != nil {
		raw = strconv.FormatInt(*req.UserID, 10)
	}
	userID, err := actingUser(c, raw, "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	line, err := h.deps.CartSvc.Add(c.Request.Context(), userID, cartsvc.AddInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "added to cart", gin.H{"cartItem": line})
}

func (h *handlers) cartItems(c *gin.Context) {
	userID, err := actingUser(c, c.Param("userId"), "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	summary, err := h.deps.CartSvc.Items(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "cart loaded", gin.H{
		"items": summary.Items,
		"count": summary.Count,
		"total": summary.Total,
	})
}

func (h *handlers) updateCartItem(c *gin.Context) {
	lineID, err := pathID(c, "cartItemId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	line, err := h.deps.CartSvc.Update(c.Request.Context(), currentUser(c).ID, lineID, *req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	if line == nil {
		respondOK(c, http.StatusOK, "item removed from cart", nil)
		return
	}
	respondOK(c, http.StatusOK, "cart updated", gin.H{"cartItem": line})
}

func (h *handlers) removeCartItem(c *gin.Context) {
	lineID, err := pathID(c, "cartItemId")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.deps.CartSvc.Remove(c.Request.Context(), currentUser(c).ID, lineID); err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "item removed from cart", nil)
}

func (h *handlers) clearCart(c *gin.Context) {
	userID, err := actingUser(c, c.Param("userId"), "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.deps.CartSvc.Clear(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "cart cleared", nil)
}

func (h *handlers) cartCount(c *gin.Context) {
	userID, err := actingUser(c, c.Param("userId"), "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	n, err := h.deps.CartSvc.Count(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "cart count loaded", gin.H{"count": n})
}
