package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de stock.
const (
	TransactionTypeADD       = "ADD"       // entrada física (recepción de bodega)
	TransactionTypeDEDUCT    = "DEDUCT"    // salida física (venta, producción)
	TransactionTypeRESERVE   = "RESERVE"   // retención blanda contra consumo futuro
	TransactionTypeUNRESERVE = "UNRESERVE" // liberación de una retención
)

// StockTransaction es una entrada inmutable del libro mayor de stock.
// Quantity es firmada: positiva para ADD/RESERVE, negativa para DEDUCT/UNRESERVE.
// Se escribe en la misma transacción de almacenamiento que el StockLevel que explica;
// nunca se actualiza ni se elimina.
type StockTransaction struct {
	ID        string
	CompanyID string
	Key       StockKey
	Type      string
	Quantity  decimal.Decimal
	Reason    string

	// Campos de correlación opcionales.
	BatchID            string // recepción de bodega
	ReservationID      string
	ReservationPurpose string
	ProductionBatchID  string

	TransactionDate time.Time
	CreatedAt       time.Time
}
