package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
)

// SaleHandler maneja la deducción de stock por ventas (protegido).
type SaleHandler struct {
	uc *stock.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *stock.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// ProcessSale godoc
// @Summary      Procesar la deducción de una venta multi-ingrediente
// @Description  Valida la receta completa contra el stock disponible y, si todo
//	alcanza, deduce todos los ingredientes en una sola transacción;
//	si algo falta responde success=false sin aplicar mutaciones.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProcessSaleRequest  true  "cups_sold e ingredientes con usage_per_cup"
// @Success      200   {object}  stock.SaleResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) ProcessSale(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.ProcessSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ingredients := make([]stock.SaleIngredient, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		ingredients = append(ingredients, stock.SaleIngredient{
			Name:        ing.Name,
			Unit:        ing.Unit,
			UsagePerCup: ing.UsagePerCup,
		})
	}
	result, err := h.uc.ProcessSale(c.Context(), companyID, in.CupsSold, ingredients)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(result)
}
