package stock

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductionUseCase lleva la asignación de ingredientes a lotes de producción
// como máquina de estados por (lote, ingrediente):
//
//	Unallocated → Reserved → {Completed | Released}
//
// Allocate reserva, Complete convierte la reserva en deducción permanente y
// Cancel la libera sin deducir. El orden liberar-antes-de-deducir en Complete
// mantiene reservado <= actual en cada paso intermedio: una liberación fallida
// aborta sin intentar la deducción y el stock nunca queda contado doble.
type ProductionUseCase struct {
	reservations *ReservationUseCase
	stock        *StockUseCase
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(reservations *ReservationUseCase, stock *StockUseCase) *ProductionUseCase {
	return &ProductionUseCase{reservations: reservations, stock: stock}
}

// AllocateForProduction reserva cantidad de un ingrediente para un lote.
// Transición Unallocated → Reserved. Devuelve el disponible resultante.
func (uc *ProductionUseCase) AllocateForProduction(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	qty decimal.Decimal,
	productionBatchID string,
	batchNumber int,
) (decimal.Decimal, error) {
	return uc.reservations.ReserveStock(ctx, companyID, key, qty,
		fmt.Sprintf("Allocated for Production Batch #%d", batchNumber),
		ReserveOptions{
			Purpose:           fmt.Sprintf("Production Batch #%d", batchNumber),
			ProductionBatchID: productionBatchID,
		})
}

// CompleteProduction convierte la reserva del lote en una deducción permanente.
// Primero libera la reserva; si la liberación falla se aborta y NO se intenta
// la deducción. Transición Reserved → Completed. Devuelve el disponible resultante.
func (uc *ProductionUseCase) CompleteProduction(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	qty decimal.Decimal,
	productionBatchID string,
	batchNumber int,
) (decimal.Decimal, error) {
	_, err := uc.reservations.UnreserveStock(ctx, companyID, key, qty,
		fmt.Sprintf("Completed Production Batch #%d", batchNumber),
		ReserveOptions{
			Purpose:           fmt.Sprintf("Production Batch #%d", batchNumber),
			ProductionBatchID: productionBatchID,
		})
	if err != nil {
		return decimal.Zero, err
	}
	return uc.stock.DeductStock(ctx, companyID, key, qty,
		fmt.Sprintf("Completed Production Batch #%d", batchNumber))
}

// CancelAllocation libera la reserva del lote sin deducir stock.
// Transición Reserved → Released. Devuelve el disponible resultante.
func (uc *ProductionUseCase) CancelAllocation(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	qty decimal.Decimal,
	productionBatchID string,
	batchNumber int,
) (decimal.Decimal, error) {
	return uc.reservations.UnreserveStock(ctx, companyID, key, qty,
		fmt.Sprintf("Released Production Batch #%d", batchNumber),
		ReserveOptions{
			Purpose:           fmt.Sprintf("Production Batch #%d", batchNumber),
			ProductionBatchID: productionBatchID,
		})
}
