package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// SaleUseCase procesa la deducción de stock de una venta multi-ingrediente en
// dos fases: una pasada de validación sin mutaciones y, si todo alcanza, una
// fase de commit dentro de UNA sola transacción de almacenamiento que cubre
// todas las filas de stock y todos los asientos del libro mayor. Cualquier
// fallo a mitad del commit revierte la venta completa: nunca queda una venta
// deducida a medias.
type SaleUseCase struct {
	txRunner  TxRunner
	levelRepo repository.StockLevelRepository
}

// NewSaleUseCase construye el caso de uso. levelRepo va atado al pool y se usa
// solo para la pasada de validación (lectura snapshot, sin bloqueos).
func NewSaleUseCase(txRunner TxRunner, levelRepo repository.StockLevelRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, levelRepo: levelRepo}
}

// SaleIngredient un ingrediente de la receta con su consumo por taza.
type SaleIngredient struct {
	Name        string
	Unit        string
	UsagePerCup decimal.Decimal
}

// SaleError error de validación de un ingrediente de la venta.
type SaleError struct {
	Ingredient string          `json:"ingredient"`
	Unit       string          `json:"unit"`
	Required   decimal.Decimal `json:"required"`
	Available  decimal.Decimal `json:"available"`
	Message    string          `json:"message"`
}

// SaleDeduction deducción aplicada a un ingrediente.
type SaleDeduction struct {
	Ingredient string          `json:"ingredient"`
	Unit       string          `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"`
	NewStock   decimal.Decimal `json:"new_stock"`
}

// SaleResult resultado de ProcessSale.
type SaleResult struct {
	Success    bool            `json:"success"`
	Errors     []SaleError     `json:"errors,omitempty"`
	Deductions []SaleDeduction `json:"deductions,omitempty"`
}

// errSaleAborted señal interna para revertir la transacción de la venta cuando
// la verificación bajo bloqueo encuentra faltantes; los detalles quedan en la
// lista de errores capturada por el closure.
var errSaleAborted = errors.New("venta abortada por stock insuficiente")

// ProcessSale valida y deduce los ingredientes de una venta de cupsSold tazas.
// La pasada de validación no toca estado; si algún ingrediente falta devuelve
// Success=false con los errores y cero mutaciones. La fase de commit vuelve a
// verificar cada ingrediente bajo bloqueo de fila dentro de una sola transacción
// y deduce todos o ninguno.
func (uc *SaleUseCase) ProcessSale(
	ctx context.Context,
	companyID string,
	cupsSold int64,
	ingredients []SaleIngredient,
) (*SaleResult, error) {
	if companyID == "" || cupsSold <= 0 || len(ingredients) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, ing := range ingredients {
		key := entity.StockKey{IngredientName: ing.Name, Unit: ing.Unit}
		if !key.Valid() || !ing.UsagePerCup.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	cups := decimal.NewFromInt(cupsSold)

	// Fase 1: validación advisory sobre lecturas snapshot, sin mutaciones.
	valErrs := uc.validate(ctx, companyID, cups, ingredients)
	if len(valErrs) > 0 {
		return &SaleResult{Success: false, Errors: valErrs}, nil
	}

	// Fase 2: commit. Una sola transacción cubre todos los ingredientes; la
	// verificación se repite bajo FOR UPDATE porque la fase 1 es solo advisory.
	now := time.Now()
	var deductions []SaleDeduction
	var commitErrs []SaleError
	err := uc.txRunner.Run(ctx, func(
		levelRepo repository.StockLevelRepository,
		ledgerRepo repository.StockTransactionRepository,
	) error {
		for _, ing := range ingredients {
			key := entity.StockKey{IngredientName: ing.Name, Unit: ing.Unit}
			required := ing.UsagePerCup.Mul(cups)
			reason := fmt.Sprintf("Sale: %d cups", cupsSold)
			newAvailable, err := deductLocked(ctx, levelRepo, ledgerRepo, companyID, key, required, reason, now)
			if err != nil {
				if saleErr, ok := asSaleError(ing, required, err); ok {
					commitErrs = append(commitErrs, saleErr)
					return errSaleAborted
				}
				return err
			}
			deductions = append(deductions, SaleDeduction{
				Ingredient: ing.Name,
				Unit:       ing.Unit,
				Quantity:   required,
				NewStock:   newAvailable,
			})
		}
		return nil
	})
	if errors.Is(err, errSaleAborted) {
		return &SaleResult{Success: false, Errors: commitErrs}, nil
	}
	if err != nil {
		return nil, err
	}
	return &SaleResult{Success: true, Deductions: deductions}, nil
}

// validate recorre los ingredientes y acumula un error por cada uno que falte
// o no alcance. required = usagePerCup * cupsSold.
func (uc *SaleUseCase) validate(
	ctx context.Context,
	companyID string,
	cups decimal.Decimal,
	ingredients []SaleIngredient,
) []SaleError {
	var errs []SaleError
	for _, ing := range ingredients {
		key := entity.StockKey{IngredientName: ing.Name, Unit: ing.Unit}
		required := ing.UsagePerCup.Mul(cups)
		level, err := uc.levelRepo.Get(ctx, companyID, key)
		if err != nil || level == nil {
			errs = append(errs, SaleError{
				Ingredient: ing.Name,
				Unit:       ing.Unit,
				Required:   required,
				Available:  decimal.Zero,
				Message:    "ingrediente sin nivel de stock",
			})
			continue
		}
		if level.Available().LessThan(required) {
			errs = append(errs, SaleError{
				Ingredient: ing.Name,
				Unit:       ing.Unit,
				Required:   required,
				Available:  level.Available(),
				Message:    "stock insuficiente",
			})
		}
	}
	return errs
}

// asSaleError traduce los errores de dominio de la deducción a un SaleError.
func asSaleError(ing SaleIngredient, required decimal.Decimal, err error) (SaleError, bool) {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return SaleError{
			Ingredient: ing.Name,
			Unit:       ing.Unit,
			Required:   required,
			Available:  insufficient.Available,
			Message:    "stock insuficiente",
		}, true
	case errors.Is(err, domain.ErrNotFound):
		return SaleError{
			Ingredient: ing.Name,
			Unit:       ing.Unit,
			Required:   required,
			Available:  decimal.Zero,
			Message:    "ingrediente sin nivel de stock",
		}, true
	}
	return SaleError{}, false
}
