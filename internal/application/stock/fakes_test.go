package stock_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// fakeStore: repositorio en memoria que implementa StockLevelRepository,
// StockTransactionRepository y stock.TxRunner. Run toma un snapshot del estado
// y lo restaura si fn falla, emulando el Rollback de la transacción real: los
// tests pueden afirmar que una operación fallida no deja mutaciones visibles.
// ──────────────────────────────────────────────────────────────────────────────

type levelKey struct {
	companyID string
	key       entity.StockKey
}

type fakeStore struct {
	levels    map[levelKey]*entity.StockLevel
	ledger    []*entity.StockTransaction
	createErr error // si no es nil, Create del libro mayor falla
}

var (
	_ repository.StockLevelRepository       = (*fakeStore)(nil)
	_ repository.StockTransactionRepository = (*fakeStore)(nil)
	_ stock.TxRunner                        = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{levels: make(map[levelKey]*entity.StockLevel)}
}

func (f *fakeStore) Run(_ context.Context, fn func(
	levelRepo repository.StockLevelRepository,
	ledgerRepo repository.StockTransactionRepository,
) error) error {
	snapLevels := make(map[levelKey]*entity.StockLevel, len(f.levels))
	for k, v := range f.levels {
		snapLevels[k] = cloneLevel(v)
	}
	snapLedger := append([]*entity.StockTransaction(nil), f.ledger...)

	if err := fn(f, f); err != nil {
		f.levels = snapLevels
		f.ledger = snapLedger
		return err
	}
	return nil
}

func (f *fakeStore) Get(_ context.Context, companyID string, key entity.StockKey) (*entity.StockLevel, error) {
	level, ok := f.levels[levelKey{companyID, key}]
	if !ok {
		return nil, nil
	}
	return cloneLevel(level), nil
}

func (f *fakeStore) GetForUpdate(ctx context.Context, companyID string, key entity.StockKey) (*entity.StockLevel, error) {
	return f.Get(ctx, companyID, key)
}

func (f *fakeStore) CreateIfAbsent(_ context.Context, level *entity.StockLevel) error {
	k := levelKey{level.CompanyID, level.Key}
	if _, ok := f.levels[k]; ok {
		return nil
	}
	stored := cloneLevel(level)
	stored.UpdatedAt = time.Now()
	f.levels[k] = stored
	return nil
}

func (f *fakeStore) Upsert(_ context.Context, level *entity.StockLevel) error {
	stored := cloneLevel(level)
	stored.UpdatedAt = time.Now()
	if existing, ok := f.levels[levelKey{level.CompanyID, level.Key}]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	f.levels[levelKey{level.CompanyID, level.Key}] = stored
	return nil
}

func (f *fakeStore) List(_ context.Context, companyID string, limit, offset int) ([]*entity.StockLevel, error) {
	var list []*entity.StockLevel
	for k, v := range f.levels {
		if k.companyID == companyID {
			list = append(list, cloneLevel(v))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Key.IngredientName != list[j].Key.IngredientName {
			return list[i].Key.IngredientName < list[j].Key.IngredientName
		}
		return list[i].Key.Unit < list[j].Key.Unit
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeStore) ListBelowThreshold(_ context.Context, companyID string) ([]*entity.StockLevel, error) {
	var list []*entity.StockLevel
	for k, v := range f.levels {
		if k.companyID == companyID && v.CurrentStock.LessThanOrEqual(v.LowStockThreshold) {
			list = append(list, cloneLevel(v))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		defI := list[i].LowStockThreshold.Sub(list[i].CurrentStock)
		defJ := list[j].LowStockThreshold.Sub(list[j].CurrentStock)
		if !defI.Equal(defJ) {
			return defI.GreaterThan(defJ)
		}
		return list[i].Key.IngredientName < list[j].Key.IngredientName
	})
	return list, nil
}

func (f *fakeStore) Create(_ context.Context, tx *entity.StockTransaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	stored := *tx
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	f.ledger = append(f.ledger, &stored)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, companyID, id string) (*entity.StockTransaction, error) {
	for _, tx := range f.ledger {
		if tx.CompanyID == companyID && tx.ID == id {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListByKey(
	_ context.Context,
	companyID string,
	key entity.StockKey,
	from, to *time.Time,
	limit, offset int,
) ([]*entity.StockTransaction, error) {
	var list []*entity.StockTransaction
	for _, tx := range f.ledger {
		if tx.CompanyID != companyID || tx.Key != key {
			continue
		}
		if from != nil && tx.TransactionDate.Before(*from) {
			continue
		}
		if to != nil && tx.TransactionDate.After(*to) {
			continue
		}
		clone := *tx
		list = append(list, &clone)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].TransactionDate.After(list[j].TransactionDate)
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeStore) ListByProductionBatch(_ context.Context, companyID, productionBatchID string) ([]*entity.StockTransaction, error) {
	var list []*entity.StockTransaction
	for _, tx := range f.ledger {
		if tx.CompanyID == companyID && tx.ProductionBatchID == productionBatchID {
			clone := *tx
			list = append(list, &clone)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].TransactionDate.Before(list[j].TransactionDate)
	})
	return list, nil
}

// entriesFor filtra el libro mayor por clave (helper de aserciones).
func (f *fakeStore) entriesFor(companyID string, key entity.StockKey) []*entity.StockTransaction {
	var list []*entity.StockTransaction
	for _, tx := range f.ledger {
		if tx.CompanyID == companyID && tx.Key == key {
			list = append(list, tx)
		}
	}
	return list
}

func cloneLevel(level *entity.StockLevel) *entity.StockLevel {
	clone := *level
	return &clone
}
