package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
)

// AlertsHandler expone la vista de stock bajo (protegido, solo lectura).
type AlertsHandler struct {
	uc *stock.AlertsUseCase
}

// NewAlertsHandler construye el handler.
func NewAlertsHandler(uc *stock.AlertsUseCase) *AlertsHandler {
	return &AlertsHandler{uc: uc}
}

// LowStock godoc
// @Summary      Ingredientes en o bajo su umbral de stock bajo
// @Description  Lectura snapshot: puede quedar desactualizada respecto a
//	escritores concurrentes; tratar como advisory.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  stock.LowStockAlert
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts/low-stock [get]
func (h *AlertsHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	alerts, err := h.uc.GetLowStockAlerts(c.Context(), companyID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}

// LowStockReport godoc
// @Summary      Informe PDF de stock bajo
// @Tags         alerts
// @Security     Bearer
// @Produce      application/pdf
// @Param        company_name  query  string  false  "Nombre a mostrar en el encabezado"
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts/low-stock/report [get]
func (h *AlertsHandler) LowStockReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	companyName := c.Query("company_name")
	if companyName == "" {
		companyName = companyID
	}
	pdfBytes, err := h.uc.LowStockReportPDF(c.Context(), companyID, companyName)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-bajo.pdf"`)
	return c.Send(pdfBytes)
}
