package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReservationUseCase administra retenciones blandas (reservas) contra el stock
// disponible: reservar, liberar y redimensionar. Cada operación corre en una
// transacción atómica sobre la fila de stock y su asiento en el libro mayor,
// de modo que el invariante reservado <= actual se sostiene en todo momento.
type ReservationUseCase struct {
	txRunner TxRunner
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(txRunner TxRunner) *ReservationUseCase {
	return &ReservationUseCase{txRunner: txRunner}
}

// ReserveOptions campos de correlación opcionales para una reserva.
type ReserveOptions struct {
	ReservationID     string
	Purpose           string
	ProductionBatchID string
}

// ReserveStock retiene cantidad contra consumo futuro. Falla con ErrNotFound si
// la fila no existe y con InsufficientStockError si la cantidad supera el
// disponible (actual - reservado). Devuelve el disponible resultante.
func (uc *ReservationUseCase) ReserveStock(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	qty decimal.Decimal,
	reason string,
	opts ReserveOptions,
) (decimal.Decimal, error) {
	if companyID == "" || !key.Valid() || !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	now := time.Now()

	var available decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		levelRepo repository.StockLevelRepository,
		ledgerRepo repository.StockTransactionRepository,
	) error {
		level, err := levelRepo.GetForUpdate(ctx, companyID, key)
		if err != nil {
			return err
		}
		if level == nil {
			return domain.ErrNotFound
		}
		if level.Available().LessThan(qty) {
			return &domain.InsufficientStockError{Available: level.Available()}
		}
		level.ReservedStock = level.ReservedStock.Add(qty)
		level.LastUpdated = now
		if err := levelRepo.Upsert(ctx, level); err != nil {
			return err
		}
		available = level.Available()
		return ledgerRepo.Create(ctx, &entity.StockTransaction{
			CompanyID:          companyID,
			Key:                key,
			Type:               entity.TransactionTypeRESERVE,
			Quantity:           qty,
			Reason:             reason,
			ReservationID:      opts.ReservationID,
			ReservationPurpose: opts.Purpose,
			ProductionBatchID:  opts.ProductionBatchID,
			TransactionDate:    now,
			CreatedAt:          now,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return available, nil
}

// UnreserveStock libera una retención. Falla con OverReservationError si la
// cantidad supera lo reservado. Devuelve el disponible resultante.
func (uc *ReservationUseCase) UnreserveStock(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	qty decimal.Decimal,
	reason string,
	opts ReserveOptions,
) (decimal.Decimal, error) {
	if companyID == "" || !key.Valid() || !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	now := time.Now()

	var available decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		levelRepo repository.StockLevelRepository,
		ledgerRepo repository.StockTransactionRepository,
	) error {
		level, err := levelRepo.GetForUpdate(ctx, companyID, key)
		if err != nil {
			return err
		}
		if level == nil {
			return domain.ErrNotFound
		}
		if level.ReservedStock.LessThan(qty) {
			return &domain.OverReservationError{Reserved: level.ReservedStock}
		}
		level.ReservedStock = level.ReservedStock.Sub(qty)
		level.LastUpdated = now
		if err := levelRepo.Upsert(ctx, level); err != nil {
			return err
		}
		available = level.Available()
		return ledgerRepo.Create(ctx, &entity.StockTransaction{
			CompanyID:          companyID,
			Key:                key,
			Type:               entity.TransactionTypeUNRESERVE,
			Quantity:           qty.Neg(),
			Reason:             reason,
			ReservationID:      opts.ReservationID,
			ReservationPurpose: opts.Purpose,
			ProductionBatchID:  opts.ProductionBatchID,
			TransactionDate:    now,
			CreatedAt:          now,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return available, nil
}

// UpdateReservation fija lo reservado en newQty. Si el aumento (newQty - reservado)
// supera el disponible falla con InsufficientStockError. Registra un solo asiento
// RESERVE o UNRESERVE por |diff|; ninguno si newQty ya es lo reservado.
// Devuelve el disponible resultante.
func (uc *ReservationUseCase) UpdateReservation(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	newQty decimal.Decimal,
	reason string,
	reservationID string,
) (decimal.Decimal, error) {
	if companyID == "" || !key.Valid() || newQty.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	now := time.Now()

	var available decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		levelRepo repository.StockLevelRepository,
		ledgerRepo repository.StockTransactionRepository,
	) error {
		level, err := levelRepo.GetForUpdate(ctx, companyID, key)
		if err != nil {
			return err
		}
		if level == nil {
			return domain.ErrNotFound
		}
		diff := newQty.Sub(level.ReservedStock)
		if diff.GreaterThan(decimal.Zero) && diff.GreaterThan(level.Available()) {
			return &domain.InsufficientStockError{Available: level.Available()}
		}
		level.ReservedStock = newQty
		level.LastUpdated = now
		if err := levelRepo.Upsert(ctx, level); err != nil {
			return err
		}
		available = level.Available()
		if diff.IsZero() {
			return nil
		}
		entryType := entity.TransactionTypeRESERVE
		if diff.IsNegative() {
			entryType = entity.TransactionTypeUNRESERVE
		}
		return ledgerRepo.Create(ctx, &entity.StockTransaction{
			CompanyID:       companyID,
			Key:             key,
			Type:            entryType,
			Quantity:        diff,
			Reason:          reason,
			ReservationID:   reservationID,
			TransactionDate: now,
			CreatedAt:       now,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return available, nil
}
