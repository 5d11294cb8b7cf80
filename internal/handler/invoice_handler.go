package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"invoicehub/internal/middleware"
	"invoicehub/internal/model"
	"invoicehub/internal/service"
	"invoicehub/pkg/pagination"
	"invoicehub/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.CreateInvoice)
		invoices.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListInvoices)
		invoices.GET("/export", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ExportInvoices)
		invoices.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.GetInvoice)
		invoices.POST("/:id/submit", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.SubmitInvoice)
	}
}

// CreateInvoice creates a new invoice with line items and runs validation
// @Summary      Create invoice
// @Description  Creates a draft invoice with its line items and runs the validation rules
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceDetailResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated list of invoices
// @Summary      List invoices
// @Description  Retrieves a paginated list of invoices, optionally filtered by status or search term
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (draft, pending_approval, approved, rejected)"
// @Param        search  query     string  false  "Search by invoice number or supplier name"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.InvoiceResponse}
// @Failure      500     {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.InvoiceFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, invoices, params.Page, params.Limit, total))
}

// GetInvoice returns a single invoice with line items, validations and approvals
// @Summary      Get invoice
// @Description  Retrieves an invoice by ID including line items, validation findings and approval history
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceDetailResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// SubmitInvoice moves a draft invoice into the approval queue
// @Summary      Submit invoice for approval
// @Description  Transitions a draft invoice to pending_approval
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id}/submit [post]
func (h *InvoiceHandler) SubmitInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.SubmitInvoice(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ExportInvoices streams the invoice list as a CSV file
// @Summary      Export invoices
// @Description  Downloads invoices as CSV, optionally filtered by status
// @Tags         invoices
// @Security     BearerAuth
// @Produce      text/csv
// @Param        status  query  string  false  "Filter by status"
// @Success      200
// @Failure      500  {object}  response.Response
// @Router       /api/invoices/export [get]
func (h *InvoiceHandler) ExportInvoices(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))

	// Build the file in memory first so a mid-export failure yields a clean
	// error response instead of a truncated CSV body.
	var buf bytes.Buffer
	if err := h.invoiceService.ExportCSV(c.Request.Context(), status, &buf); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	fileName := fmt.Sprintf("invoices_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
