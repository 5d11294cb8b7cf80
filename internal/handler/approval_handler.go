package handler

import (
	"net/http"

	"invoicehub/internal/middleware"
	"invoicehub/internal/model"
	"invoicehub/internal/service"
	"invoicehub/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.POST("/:id/approvals", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ProcessApproval)
		invoices.GET("/:id/approvals", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListApprovals)
	}
}

// ProcessApproval records an approve/reject decision on a pending invoice
// @Summary      Approve or reject invoice
// @Description  Records a decision on a pending invoice and updates its status
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Invoice ID"
// @Param        payload  body      service.ProcessApprovalRequest  true  "Approval Decision Payload"
// @Success      201      {object}  response.Response{data=service.ApprovalDecision}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices/{id}/approvals [post]
func (h *ApprovalHandler) ProcessApproval(c *gin.Context) {
	var req service.ProcessApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	decision, err := h.approvalService.ProcessApproval(c.Request.Context(), c.Param("id"), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, decision))
}

// ListApprovals returns the approval history for an invoice, newest first
// @Summary      List approvals
// @Description  Retrieves the full approval history of an invoice
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=[]service.ApprovalResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id}/approvals [get]
func (h *ApprovalHandler) ListApprovals(c *gin.Context) {
	approvals, err := h.approvalService.ListApprovals(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, approvals))
}
