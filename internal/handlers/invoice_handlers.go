package handlers

import (
	"net/http"

	"garagepro/internal/common"
	"garagepro/internal/models"
	"garagepro/internal/services"

	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceServiceInterface
	exportService  services.ExportServiceInterface
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface, exportService services.ExportServiceInterface) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		exportService:  exportService,
	}
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	invoices, err := h.invoiceService.ListInvoices(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, invoices)
}

// CreateInvoice handles POST /invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	var req models.CreateInvoiceData
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request().Context(), req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	invoice, err := h.invoiceService.GetInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice handles PUT /invoices/:id
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	var req models.UpdateInvoiceData
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoiceStatus handles PUT /invoices/:id/status
func (h *InvoiceHandlers) UpdateInvoiceStatus(c echo.Context) error {
	var req models.UpdateInvoiceStatusData
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendError(c, err)
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request().Context(), c.Param("id"), string(req.Status))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles DELETE /invoices/:id
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	deleted, err := h.invoiceService.DeleteInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return common.SendError(c, err)
	}
	if !deleted {
		return common.SendNotFoundError(c, "Invoice")
	}
	return c.JSON(http.StatusOK, common.MessageResponse{Message: "Invoice deleted successfully"})
}

// ExportInvoice handles POST /invoices/:id/export
func (h *InvoiceHandlers) ExportInvoice(c echo.Context) error {
	export, err := h.exportService.ExportInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, export)
}

// RegisterRoutes mounts the invoice endpoints on g.
func (h *InvoiceHandlers) RegisterRoutes(g *echo.Group) {
	invoices := g.Group("/invoices")
	invoices.GET("", h.ListInvoices)
	invoices.POST("", h.CreateInvoice)
	invoices.GET("/:id", h.GetInvoice)
	invoices.PUT("/:id", h.UpdateInvoice)
	invoices.PUT("/:id/status", h.UpdateInvoiceStatus)
	invoices.DELETE("/:id", h.DeleteInvoice)
	invoices.POST("/:id/export", h.ExportInvoice)
}
