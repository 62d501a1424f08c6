package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AddStockRequest body para POST /api/stock/add.
type AddStockRequest struct {
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason"`
	BatchID        string          `json:"batch_id,omitempty"`
}

// DeductStockRequest body para POST /api/stock/deduct.
type DeductStockRequest struct {
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason"`
}

// ReserveStockRequest body para POST /api/reservations y /api/reservations/release.
type ReserveStockRequest struct {
	IngredientName    string          `json:"ingredient_name"`
	Unit              string          `json:"unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	Reason            string          `json:"reason"`
	ReservationID     string          `json:"reservation_id,omitempty"`
	Purpose           string          `json:"purpose,omitempty"`
	ProductionBatchID string          `json:"production_batch_id,omitempty"`
}

// UpdateReservationRequest body para PUT /api/reservations.
type UpdateReservationRequest struct {
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	NewQuantity    decimal.Decimal `json:"new_quantity"`
	Reason         string          `json:"reason"`
	ReservationID  string          `json:"reservation_id,omitempty"`
}

// ProductionRequest body para los endpoints de /api/production.
type ProductionRequest struct {
	IngredientName    string          `json:"ingredient_name"`
	Unit              string          `json:"unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	ProductionBatchID string          `json:"production_batch_id"`
	BatchNumber       int             `json:"batch_number"`
}

// SaleIngredientRequest un ingrediente de la receta de la venta.
type SaleIngredientRequest struct {
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	UsagePerCup decimal.Decimal `json:"usage_per_cup"`
}

// ProcessSaleRequest body para POST /api/sales.
type ProcessSaleRequest struct {
	CupsSold    int64                   `json:"cups_sold"`
	Ingredients []SaleIngredientRequest `json:"ingredients"`
}

// MutationResponse resultado de una mutación de stock.
type MutationResponse struct {
	Success        bool            `json:"success"`
	AvailableStock decimal.Decimal `json:"available_stock"`
}

// StockLevelDTO representación de un nivel de stock en respuestas.
type StockLevelDTO struct {
	IngredientName    string          `json:"ingredient_name"`
	Unit              string          `json:"unit"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ReservedStock     decimal.Decimal `json:"reserved_stock"`
	AvailableStock    decimal.Decimal `json:"available_stock"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	LastUpdated       time.Time       `json:"last_updated"`
}

// NewStockLevelDTO convierte la entidad a su DTO.
func NewStockLevelDTO(level *entity.StockLevel) StockLevelDTO {
	return StockLevelDTO{
		IngredientName:    level.Key.IngredientName,
		Unit:              level.Key.Unit,
		CurrentStock:      level.CurrentStock,
		ReservedStock:     level.ReservedStock,
		AvailableStock:    level.Available(),
		LowStockThreshold: level.LowStockThreshold,
		LastUpdated:       level.LastUpdated,
	}
}

// StockTransactionDTO representación de un asiento del libro mayor en respuestas.
type StockTransactionDTO struct {
	ID                 string          `json:"id"`
	IngredientName     string          `json:"ingredient_name"`
	Unit               string          `json:"unit"`
	Type               string          `json:"type"`
	Quantity           decimal.Decimal `json:"quantity"`
	Reason             string          `json:"reason"`
	BatchID            string          `json:"batch_id,omitempty"`
	ReservationID      string          `json:"reservation_id,omitempty"`
	ReservationPurpose string          `json:"reservation_purpose,omitempty"`
	ProductionBatchID  string          `json:"production_batch_id,omitempty"`
	TransactionDate    time.Time       `json:"transaction_date"`
}

// NewStockTransactionDTO convierte la entidad a su DTO.
func NewStockTransactionDTO(tx *entity.StockTransaction) StockTransactionDTO {
	return StockTransactionDTO{
		ID:                 tx.ID,
		IngredientName:     tx.Key.IngredientName,
		Unit:               tx.Key.Unit,
		Type:               tx.Type,
		Quantity:           tx.Quantity,
		Reason:             tx.Reason,
		BatchID:            tx.BatchID,
		ReservationID:      tx.ReservationID,
		ReservationPurpose: tx.ReservationPurpose,
		ProductionBatchID:  tx.ProductionBatchID,
		TransactionDate:    tx.TransactionDate,
	}
}
