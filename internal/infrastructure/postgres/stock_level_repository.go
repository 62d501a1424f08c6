package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL
// (usable con pool o tx). La tabla stock_levels tiene índice compuesto único
// en (company_id, ingredient_name, unit): las búsquedas calientes no escanean.
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `company_id, ingredient_name, unit, current_stock, reserved_stock, low_stock_threshold, last_updated, created_at, updated_at`

// Get obtiene el nivel de stock de un (ingrediente, unidad). Nil si no existe.
func (r *StockLevelRepo) Get(ctx context.Context, companyID string, key entity.StockKey) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE company_id = $1 AND ingredient_name = $2 AND unit = $3`
	level, err := r.scanOne(r.q.QueryRow(ctx, query, companyID, key.IngredientName, key.Unit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return level, nil
}

// GetForUpdate obtiene el nivel y bloquea la fila para update (SELECT FOR UPDATE).
// Nil si no existe.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, companyID string, key entity.StockKey) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE company_id = $1 AND ingredient_name = $2 AND unit = $3
		FOR UPDATE`
	level, err := r.scanOne(r.q.QueryRow(ctx, query, companyID, key.IngredientName, key.Unit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return level, nil
}

// CreateIfAbsent inserta la fila si no existe; si ya existe no hace nada.
// Ante dos creaciones concurrentes el índice único bloquea la segunda hasta
// que la primera confirme, y su GetForUpdate posterior ya encuentra la fila.
func (r *StockLevelRepo) CreateIfAbsent(ctx context.Context, level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (company_id, ingredient_name, unit, current_stock, reserved_stock, low_stock_threshold, last_updated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (company_id, ingredient_name, unit) DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		level.CompanyID, level.Key.IngredientName, level.Key.Unit,
		level.CurrentStock, level.ReservedStock, level.LowStockThreshold,
		level.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("create stock level: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza el nivel (por empresa, ingrediente y unidad).
// created_at se conserva en el update; updated_at siempre se estampa.
func (r *StockLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (company_id, ingredient_name, unit, current_stock, reserved_stock, low_stock_threshold, last_updated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (company_id, ingredient_name, unit)
		DO UPDATE SET
			current_stock = EXCLUDED.current_stock,
			reserved_stock = EXCLUDED.reserved_stock,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			last_updated = EXCLUDED.last_updated,
			updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		level.CompanyID, level.Key.IngredientName, level.Key.Unit,
		level.CurrentStock, level.ReservedStock, level.LowStockThreshold,
		level.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// List lista los niveles de la empresa ordenados por ingrediente y unidad.
func (r *StockLevelRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE company_id = $1
		ORDER BY ingredient_name, unit
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListBelowThreshold devuelve las filas con stock físico en o bajo su umbral,
// mayor déficit primero.
func (r *StockLevelRepo) ListBelowThreshold(ctx context.Context, companyID string) ([]*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE company_id = $1 AND current_stock <= low_stock_threshold
		ORDER BY (low_stock_threshold - current_stock) DESC, ingredient_name, unit`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list below threshold: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *StockLevelRepo) scanOne(row pgx.Row) (*entity.StockLevel, error) {
	var s entity.StockLevel
	err := row.Scan(
		&s.CompanyID, &s.Key.IngredientName, &s.Key.Unit,
		&s.CurrentStock, &s.ReservedStock, &s.LowStockThreshold,
		&s.LastUpdated, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockLevelRepo) scanAll(rows pgx.Rows) ([]*entity.StockLevel, error) {
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(
			&s.CompanyID, &s.Key.IngredientName, &s.Key.Unit,
			&s.CurrentStock, &s.ReservedStock, &s.LowStockThreshold,
			&s.LastUpdated, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
