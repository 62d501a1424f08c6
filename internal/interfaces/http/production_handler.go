package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductionHandler maneja la asignación de ingredientes a lotes de producción
// (protegido).
type ProductionHandler struct {
	uc *stock.ProductionUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *stock.ProductionUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// productionOp firma común de las tres transiciones del lote.
type productionOp func(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	qty decimal.Decimal,
	productionBatchID string,
	batchNumber int,
) (decimal.Decimal, error)

// run parsea el body común de producción y ejecuta la transición.
func (h *ProductionHandler) run(c *fiber.Ctx, op productionOp) error {
	companyID := GetCompanyID(c)
	var in dto.ProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := entity.StockKey{IngredientName: in.IngredientName, Unit: in.Unit}
	available, err := op(c.Context(), companyID, key, in.Quantity, in.ProductionBatchID, in.BatchNumber)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MutationResponse{Success: true, AvailableStock: available})
}

// Allocate godoc
// @Summary      Reservar un ingrediente para un lote de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductionRequest  true  "ingredient_name, unit, quantity, production_batch_id, batch_number"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/allocate [post]
func (h *ProductionHandler) Allocate(c *fiber.Ctx) error {
	return h.run(c, h.uc.AllocateForProduction)
}

// Complete godoc
// @Summary      Completar la producción: convertir la reserva en deducción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductionRequest  true  "ingredient_name, unit, quantity, production_batch_id, batch_number"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/complete [post]
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	return h.run(c, h.uc.CompleteProduction)
}

// Cancel godoc
// @Summary      Cancelar la asignación: liberar la reserva sin deducir
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductionRequest  true  "ingredient_name, unit, quantity, production_batch_id, batch_number"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/cancel [post]
func (h *ProductionHandler) Cancel(c *fiber.Ctx) error {
	return h.run(c, h.uc.CancelAllocation)
}
