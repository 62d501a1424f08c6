package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockLevelRepository define el puerto para consultar/actualizar niveles de stock
// por (ingrediente, unidad). Usado dentro de transacciones para garantizar consistencia.
// No valida el invariante reservado <= actual: eso es responsabilidad de los casos de uso.
type StockLevelRepository interface {
	// Get devuelve el nivel o nil si no existe.
	Get(ctx context.Context, companyID string, key entity.StockKey) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Nil si no existe.
	GetForUpdate(ctx context.Context, companyID string, key entity.StockKey) (*entity.StockLevel, error)
	// CreateIfAbsent inserta la fila si no existe y no hace nada si ya existe
	// (INSERT ... ON CONFLICT DO NOTHING). No la bloquea: el caller debe
	// re-bloquearla con GetForUpdate antes de mutar.
	CreateIfAbsent(ctx context.Context, level *entity.StockLevel) error
	// Upsert inserta o actualiza el nivel; siempre estampa LastUpdated/UpdatedAt.
	Upsert(ctx context.Context, level *entity.StockLevel) error
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockLevel, error)
	// ListBelowThreshold devuelve las filas con current_stock <= low_stock_threshold,
	// ordenadas por mayor déficit primero. Lectura snapshot, sin bloqueos.
	ListBelowThreshold(ctx context.Context, companyID string) ([]*entity.StockLevel, error)
}
