package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica un nivel de stock por (ingrediente, unidad).
// Tipo compuesto dedicado: evita claves concatenadas como "Milk|ml" y los
// errores de formato que producen en runtime.
type StockKey struct {
	IngredientName string
	Unit           string
}

// Valid verifica que ambos campos de la clave estén presentes.
func (k StockKey) Valid() bool {
	return k.IngredientName != "" && k.Unit != ""
}

// DefaultLowStockThreshold umbral de stock bajo asignado al crear una fila.
var DefaultLowStockThreshold = decimal.NewFromInt(10)

// StockLevel representa el estado vivo de stock de un ingrediente en una unidad.
// Invariante: 0 <= ReservedStock <= CurrentStock antes y después de cada operación.
// La fila se crea perezosamente en la primera mutación y nunca se elimina.
type StockLevel struct {
	CompanyID         string
	Key               StockKey
	CurrentStock      decimal.Decimal
	ReservedStock     decimal.Decimal
	LowStockThreshold decimal.Decimal
	LastUpdated       time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Available devuelve el stock libre para vender, reservar o asignar.
func (s *StockLevel) Available() decimal.Decimal {
	return s.CurrentStock.Sub(s.ReservedStock)
}

// IsLowStock indica si el stock físico está en o bajo el umbral.
func (s *StockLevel) IsLowStock() bool {
	return s.CurrentStock.LessThanOrEqual(s.LowStockThreshold)
}
