package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"secondhand-marketplace/internal/domain"
	productsvc "secondhand-marketplace/internal/service/product"
)

func productList(c *gin.Context, products []domain.Product, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "products loaded", gin.H{"products": products, "count": len(products)})
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.ProductSvc.List(c.Request.Context())
	productList(c, products, err)
}

func (h *handlers) listProductsByCategory(c *gin.Context) {
	products, err := h.deps.ProductSvc.ListByCategory(c.Request.Context(), c.Param("category"))
	productList(c, products, err)
}

func (h *handlers) searchProducts(c *gin.Context) {
	products, err := h.deps.ProductSvc.Search(c.Request.Context(), c.Query("keyword"), c.Query("category"))
	productList(c, products, err)
}

func (h *handlers) listSellerProducts(c *gin.Context) {
	sellerID, err := pathID(c, "sellerId")
	if err != nil {
		writeError(c, err)
		return
	}
	products, err := h.deps.ProductSvc.ListBySeller(c.Request.Context(), sellerID)
	productList(c, products, err)
}

func (h *handlers) getProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "product loaded", gin.H{"product": p})
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.ProductSvc.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "categories loaded", gin.H{"categories": categories})
}

func (h *handlers) listConditions(c *gin.Context) {
	respondOK(c, http.StatusOK, "conditions loaded", gin.H{"conditions": h.deps.ProductSvc.Conditions()})
}

func (h *handlers) createProduct(c *gin.Context) {
	sellerID, err := actingUser(c, c.Query("sellerId"), "sellerId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req productsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.deps.ProductSvc.Create(c.Request.Context(), sellerID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "product created", gin.H{"product": p})
}

func (h *handlers) updateProduct(c *gin.Context) {
	sellerID, err := actingUser(c, c.Query("sellerId"), "sellerId")
	if err != nil {
		writeError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req productsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.deps.ProductSvc.Update(c.Request.Context(), sellerID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "product updated", gin.H{"product": p})
}

func (h *handlers) deleteProduct(c *gin.Context) {
	sellerID, err := actingUser(c, c.Query("sellerId"), "sellerId")
	if err != nil {
		writeError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.deps.ProductSvc.Delete(c.Request.Context(), sellerID, id); err != nil {
		writeError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "product deleted", nil)
}
