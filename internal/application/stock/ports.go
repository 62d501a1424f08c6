package stock

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad entre el nivel de stock y el libro mayor:
// o se confirman ambas escrituras o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		levelRepo repository.StockLevelRepository,
		ledgerRepo repository.StockTransactionRepository,
	) error) error
}
