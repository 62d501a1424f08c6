package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrOverReservation   = errors.New("liberación excede lo reservado")
)

// InsufficientStockError indica que la cantidad solicitada supera el stock
// disponible. Lleva el disponible actual para que el caller lo muestre.
type InsufficientStockError struct {
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %s", e.Available.String())
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// OverReservationError indica un intento de liberar más de lo reservado.
// Lleva lo reservado actual.
type OverReservationError struct {
	Reserved decimal.Decimal
}

func (e *OverReservationError) Error() string {
	return fmt.Sprintf("no se puede liberar más de lo reservado: reservado %s", e.Reserved.String())
}

// Is permite errors.Is(err, ErrOverReservation).
func (e *OverReservationError) Is(target error) bool {
	return target == ErrOverReservation
}
