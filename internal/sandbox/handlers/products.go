package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/client/internal/models"
	"marketplace/client/internal/sandbox/middleware"
)

func (h HandlerSet) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.products.List(c.Request.Context()))
}

func (h HandlerSet) GetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h HandlerSet) ListProductsByUser(c *gin.Context) {
	c.JSON(http.StatusOK, h.products.ListByUser(c.Request.Context(), c.Param("userId")))
}

func (h HandlerSet) SearchProducts(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		badRequest(c, "Required parameter 'name' is not present")
		return
	}
	c.JSON(http.StatusOK, h.products.Search(c.Request.Context(), name))
}

func (h HandlerSet) CreateProduct(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	p, err := h.products.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h HandlerSet) UpdateProduct(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	p, err := h.products.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h HandlerSet) DeleteProduct(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	if err := h.products.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
