package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo adaptador del libro mayor sobre PostgreSQL (usable con
// pool o tx). La tabla stock_transactions es append-only; las listas consultan
// el índice secundario (company_id, ingredient_name, unit).
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

const stockTxColumns = `id, company_id, ingredient_name, unit, type, quantity, reason, batch_id, reservation_id, reservation_purpose, production_batch_id, transaction_date, created_at`

// Create persiste un asiento del libro mayor. Asigna ID si viene vacío.
func (r *StockTransactionRepo) Create(ctx context.Context, tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (` + stockTxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.CompanyID, tx.Key.IngredientName, tx.Key.Unit,
		tx.Type, tx.Quantity, tx.Reason,
		nullable(tx.BatchID), nullable(tx.ReservationID),
		nullable(tx.ReservationPurpose), nullable(tx.ProductionBatchID),
		tx.TransactionDate, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID. Nil si no existe.
func (r *StockTransactionRepo) GetByID(ctx context.Context, companyID, id string) (*entity.StockTransaction, error) {
	query := `
		SELECT ` + stockTxColumns + `
		FROM stock_transactions WHERE company_id = $1 AND id = $2`
	tx, err := scanStockTx(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	return tx, nil
}

// ListByKey lista los asientos de un (ingrediente, unidad) en un rango de fechas,
// más reciente primero.
func (r *StockTransactionRepo) ListByKey(
	ctx context.Context,
	companyID string,
	key entity.StockKey,
	from, to *time.Time,
	limit, offset int,
) ([]*entity.StockTransaction, error) {
	query := `
		SELECT ` + stockTxColumns + `
		FROM stock_transactions
		WHERE company_id = $1 AND ingredient_name = $2 AND unit = $3`
	args := []any{companyID, key.IngredientName, key.Unit}
	pos := 4
	if from != nil {
		query += fmt.Sprintf(" AND transaction_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND transaction_date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY transaction_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by key: %w", err)
	}
	defer rows.Close()
	return scanStockTxRows(rows)
}

// ListByProductionBatch lista los asientos correlacionados a un lote de producción,
// en orden cronológico.
func (r *StockTransactionRepo) ListByProductionBatch(ctx context.Context, companyID, productionBatchID string) ([]*entity.StockTransaction, error) {
	query := `
		SELECT ` + stockTxColumns + `
		FROM stock_transactions
		WHERE company_id = $1 AND production_batch_id = $2
		ORDER BY transaction_date`
	rows, err := r.q.Query(ctx, query, companyID, productionBatchID)
	if err != nil {
		return nil, fmt.Errorf("list by production batch: %w", err)
	}
	defer rows.Close()
	return scanStockTxRows(rows)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanStockTx(row pgx.Row) (*entity.StockTransaction, error) {
	var t entity.StockTransaction
	var batchID, reservationID, purpose, productionBatchID *string
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.Key.IngredientName, &t.Key.Unit,
		&t.Type, &t.Quantity, &t.Reason,
		&batchID, &reservationID, &purpose, &productionBatchID,
		&t.TransactionDate, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if batchID != nil {
		t.BatchID = *batchID
	}
	if reservationID != nil {
		t.ReservationID = *reservationID
	}
	if purpose != nil {
		t.ReservationPurpose = *purpose
	}
	if productionBatchID != nil {
		t.ProductionBatchID = *productionBatchID
	}
	return &t, nil
}

func scanStockTxRows(rows pgx.Rows) ([]*entity.StockTransaction, error) {
	var list []*entity.StockTransaction
	for rows.Next() {
		tx, err := scanStockTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}
