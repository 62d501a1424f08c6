package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ReservationHandler maneja las peticiones HTTP de reservas (protegido).
type ReservationHandler struct {
	uc *stock.ReservationUseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *stock.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Reserve godoc
// @Summary      Reservar stock contra consumo futuro
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveStockRequest  true  "ingredient_name, unit, quantity, reason y correlaciones opcionales"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := entity.StockKey{IngredientName: in.IngredientName, Unit: in.Unit}
	available, err := h.uc.ReserveStock(c.Context(), companyID, key, in.Quantity, in.Reason, stock.ReserveOptions{
		ReservationID:     in.ReservationID,
		Purpose:           in.Purpose,
		ProductionBatchID: in.ProductionBatchID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MutationResponse{Success: true, AvailableStock: available})
}

// Release godoc
// @Summary      Liberar una reserva
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveStockRequest  true  "ingredient_name, unit, quantity, reason"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations/release [post]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := entity.StockKey{IngredientName: in.IngredientName, Unit: in.Unit}
	available, err := h.uc.UnreserveStock(c.Context(), companyID, key, in.Quantity, in.Reason, stock.ReserveOptions{
		ReservationID:     in.ReservationID,
		Purpose:           in.Purpose,
		ProductionBatchID: in.ProductionBatchID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MutationResponse{Success: true, AvailableStock: available})
}

// Update godoc
// @Summary      Redimensionar una reserva a una cantidad absoluta
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateReservationRequest  true  "ingredient_name, unit, new_quantity, reason, reservation_id"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [put]
func (h *ReservationHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.UpdateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := entity.StockKey{IngredientName: in.IngredientName, Unit: in.Unit}
	available, err := h.uc.UpdateReservation(c.Context(), companyID, key, in.NewQuantity, in.Reason, in.ReservationID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MutationResponse{Success: true, AvailableStock: available})
}
