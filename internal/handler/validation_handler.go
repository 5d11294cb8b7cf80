package handler

import (
	"net/http"

	"invoicehub/internal/middleware"
	"invoicehub/internal/model"
	"invoicehub/internal/service"
	"invoicehub/pkg/response"

	"github.com/gin-gonic/gin"
)

type ValidationHandler struct {
	validationService service.ValidationService
}

func NewValidationHandler(validationService service.ValidationService) *ValidationHandler {
	return &ValidationHandler{validationService: validationService}
}

func (h *ValidationHandler) RegisterRoutes(router *gin.RouterGroup) {
	validations := router.Group("/api/validations")
	{
		validations.PUT("/:id/resolve", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ResolveFinding)
	}
}

// ResolveFinding marks a validation finding as resolved and recounts the invoice flag
// @Summary      Resolve validation finding
// @Description  Marks a finding resolved; clears the invoice flag when no unresolved findings remain
// @Tags         validations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Validation Finding ID"
// @Success      200  {object}  response.Response{data=service.ResolveResult}
// @Failure      400  {object}  response.Response
// @Router       /api/validations/{id}/resolve [put]
func (h *ValidationHandler) ResolveFinding(c *gin.Context) {
	result, err := h.validationService.ResolveFinding(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
