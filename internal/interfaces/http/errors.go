package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// domainError mapea los errores de dominio del motor de stock a respuestas HTTP.
// Los errores de validación y de dominio nunca dejan mutaciones visibles, así
// que siempre es seguro devolverlos sin más limpieza.
func domainError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	var overReservation *domain.OverReservationError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente: disponible " + insufficient.Available.String(),
		})
	case errors.As(err, &overReservation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "OVER_RESERVATION",
			Message: "liberación excede lo reservado: " + overReservation.Reserved.String(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
