package handler

import (
	"net/http"

	"invoicehub/internal/middleware"
	"invoicehub/internal/model"
	"invoicehub/internal/service"
	"invoicehub/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/catalog-items")
	{
		items.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.CreateItem)
		items.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.UpdateItem)
		items.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.DeleteItem)
	}

	// Public storefront catalog — no auth, active items only
	router.GET("/api/business/:id/catalog", h.GetBusinessCatalog)

	// Authenticated owner view — includes inactive items
	router.GET("/api/catalog-items", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListCatalogItems)
}

// CreateItem adds an item to a business catalog
// @Summary      Create catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CatalogItemRequest  true  "Catalog Item Payload"
// @Success      201      {object}  response.Response{data=service.CatalogItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/catalog-items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req service.CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem updates a catalog item
// @Summary      Update catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Catalog Item ID"
// @Param        payload  body      service.CatalogItemRequest  true  "Catalog Item Payload"
// @Success      200      {object}  response.Response{data=service.CatalogItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/catalog-items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	var req service.CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), c.Param("id"), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem soft-deletes a catalog item
// @Summary      Delete catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Catalog Item ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/catalog-items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.catalogService.DeleteItem(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// GetBusinessCatalog returns the active catalog of a business for the public order form
// @Summary      Get public business catalog
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Business ID"
// @Success      200  {object}  response.Response{data=[]service.CatalogItemResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/business/{id}/catalog [get]
func (h *CatalogHandler) GetBusinessCatalog(c *gin.Context) {
	items, err := h.catalogService.ListBusinessCatalog(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// ListCatalogItems returns all items of a business, including inactive ones
// @Summary      List catalog items
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        business_id  query     string  true  "Business ID"
// @Success      200          {object}  response.Response{data=[]service.CatalogItemResponse}
// @Failure      400          {object}  response.Response
// @Router       /api/catalog-items [get]
func (h *CatalogHandler) ListCatalogItems(c *gin.Context) {
	items, err := h.catalogService.ListBusinessCatalog(c.Request.Context(), c.Query("business_id"), false)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}
