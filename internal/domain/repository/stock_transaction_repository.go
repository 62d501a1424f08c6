package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockTransactionRepository define el puerto de persistencia del libro mayor.
// Solo inserta y lista: las entradas son inmutables.
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	GetByID(ctx context.Context, companyID, id string) (*entity.StockTransaction, error)
	// ListByKey lista las entradas de un (ingrediente, unidad) en un rango de fechas,
	// más reciente primero.
	ListByKey(ctx context.Context, companyID string, key entity.StockKey, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error)
	// ListByProductionBatch lista las entradas correlacionadas a un lote de producción.
	ListByProductionBatch(ctx context.Context, companyID, productionBatchID string) ([]*entity.StockTransaction, error)
}
