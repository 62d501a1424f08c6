package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockUseCase expone los mutadores primitivos del motor de stock (ADD/DEDUCT)
// y las lecturas de niveles e historial. Cada mutación corre en una transacción
// atómica que cubre la fila de stock_levels y el asiento en stock_transactions,
// con bloqueo de fila (SELECT FOR UPDATE) para serializar escritores concurrentes.
type StockUseCase struct {
	txRunner   TxRunner
	levelRepo  repository.StockLevelRepository
	ledgerRepo repository.StockTransactionRepository
}

// NewStockUseCase construye el caso de uso. levelRepo y ledgerRepo van atados al
// pool y se usan solo para lecturas; las mutaciones reciben repos atados a la tx.
func NewStockUseCase(
	txRunner TxRunner,
	levelRepo repository.StockLevelRepository,
	ledgerRepo repository.StockTransactionRepository,
) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, levelRepo: levelRepo, ledgerRepo: ledgerRepo}
}

// AddOptions campos de correlación opcionales para AddStock.
type AddOptions struct {
	BatchID string // recepción de bodega
}

// AddStock suma cantidad al stock físico y registra un asiento ADD positivo.
// Crea la fila perezosamente con los valores por defecto si no existe.
// Devuelve el stock disponible resultante.
func (uc *StockUseCase) AddStock(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	qty decimal.Decimal,
	reason string,
	opts AddOptions,
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
			// FOR UPDATE sobre cero filas no bloquea nada: dos creaciones
			// concurrentes de la misma clave leerían nil a la vez y la segunda
			// pisaría la suma de la primera. Insertar la fila vacía y
			// re-bloquearla serializa la creación perezosa.
			if err := levelRepo.CreateIfAbsent(ctx, newStockLevel(companyID, key, now)); err != nil {
				return err
			}
			level, err = levelRepo.GetForUpdate(ctx, companyID, key)
			if err != nil {
				return err
			}
			if level == nil {
				return fmt.Errorf("lock stock level after insert: fila no encontrada")
			}
		}
		level.CurrentStock = level.CurrentStock.Add(qty)
		level.LastUpdated = now
		if err := levelRepo.Upsert(ctx, level); err != nil {
			return err
		}
		available = level.Available()
		return ledgerRepo.Create(ctx, &entity.StockTransaction{
			CompanyID:       companyID,
			Key:             key,
			Type:            entity.TransactionTypeADD,
			Quantity:        qty,
			Reason:          reason,
			BatchID:         opts.BatchID,
			TransactionDate: now,
			CreatedAt:       now,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return available, nil
}

// DeductStock resta cantidad del stock físico y registra un asiento DEDUCT negativo.
// Falla con ErrNotFound si la fila no existe y con InsufficientStockError si la
// cantidad supera el disponible; en ambos casos no se escribe nada.
// Devuelve el stock disponible resultante.
func (uc *StockUseCase) DeductStock(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	qty decimal.Decimal,
	reason string,
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
		newAvailable, err := deductLocked(ctx, levelRepo, ledgerRepo, companyID, key, qty, reason, now)
		if err != nil {
			return err
		}
		available = newAvailable
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return available, nil
}

// GetLevel devuelve el nivel de stock de un (ingrediente, unidad), o ErrNotFound.
// Lectura snapshot: un escritor concurrente puede confirmar entre esta lectura y
// una decisión posterior del caller.
func (uc *StockUseCase) GetLevel(ctx context.Context, companyID string, key entity.StockKey) (*entity.StockLevel, error) {
	if companyID == "" || !key.Valid() {
		return nil, domain.ErrInvalidInput
	}
	level, err := uc.levelRepo.Get(ctx, companyID, key)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, domain.ErrNotFound
	}
	return level, nil
}

// ListLevels lista los niveles de stock de la empresa.
func (uc *StockUseCase) ListLevels(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockLevel, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.levelRepo.List(ctx, companyID, limit, offset)
}

// GetStockHistory lista los asientos del libro mayor de un (ingrediente, unidad)
// en un rango de fechas, más reciente primero.
func (uc *StockUseCase) GetStockHistory(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	from, to *time.Time,
	limit, offset int,
) ([]*entity.StockTransaction, error) {
	if companyID == "" || !key.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.ledgerRepo.ListByKey(ctx, companyID, key, from, to, limit, offset)
}

// GetTransaction devuelve un asiento del libro mayor por ID, o ErrNotFound.
func (uc *StockUseCase) GetTransaction(ctx context.Context, companyID, id string) (*entity.StockTransaction, error) {
	if companyID == "" || id == "" {
		return nil, domain.ErrInvalidInput
	}
	tx, err := uc.ledgerRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	return tx, nil
}

// newStockLevel crea una fila nueva con los valores por defecto
// (reservado 0, umbral de stock bajo 10).
func newStockLevel(companyID string, key entity.StockKey, now time.Time) *entity.StockLevel {
	return &entity.StockLevel{
		CompanyID:         companyID,
		Key:               key,
		CurrentStock:      decimal.Zero,
		ReservedStock:     decimal.Zero,
		LowStockThreshold: entity.DefaultLowStockThreshold,
		LastUpdated:       now,
		CreatedAt:         now,
	}
}

// deductLocked ejecuta la deducción sobre repos ya atados a una transacción:
// bloquea la fila, verifica disponible y escribe nivel + asiento DEDUCT.
// Compartido por DeductStock y por la fase de commit de ProcessSale.
func deductLocked(
	ctx context.Context,
	levelRepo repository.StockLevelRepository,
	ledgerRepo repository.StockTransactionRepository,
	companyID string,
	key entity.StockKey,
	qty decimal.Decimal,
	reason string,
	now time.Time,
) (decimal.Decimal, error) {
	level, err := levelRepo.GetForUpdate(ctx, companyID, key)
	if err != nil {
		return decimal.Zero, err
	}
	if level == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	available := level.Available()
	if available.LessThan(qty) {
		return decimal.Zero, &domain.InsufficientStockError{Available: available}
	}
	level.CurrentStock = level.CurrentStock.Sub(qty)
	level.LastUpdated = now
	if err := levelRepo.Upsert(ctx, level); err != nil {
		return decimal.Zero, err
	}
	err = ledgerRepo.Create(ctx, &entity.StockTransaction{
		CompanyID:       companyID,
		Key:             key,
		Type:            entity.TransactionTypeDEDUCT,
		Quantity:        qty.Neg(),
		Reason:          reason,
		TransactionDate: now,
		CreatedAt:       now,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return level.Available(), nil
}
