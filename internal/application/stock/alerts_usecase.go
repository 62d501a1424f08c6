package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LowStockAlert una fila en o bajo su umbral de stock bajo.
type LowStockAlert struct {
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	ReservedStock  decimal.Decimal `json:"reserved_stock"`
	Available      decimal.Decimal `json:"available"`
	Threshold      decimal.Decimal `json:"threshold"`
	Deficit        decimal.Decimal `json:"deficit"` // threshold - current
}

// LowStockReportGenerator puerto para renderizar el informe de stock bajo.
type LowStockReportGenerator interface {
	GenerateLowStockReport(ctx context.Context, companyName string, generatedAt time.Time, alerts []LowStockAlert) ([]byte, error)
}

// AlertsUseCase vista derivada de solo lectura sobre los niveles de stock:
// marca los ingredientes en o bajo su umbral. Sin estado ni efectos; puede
// correr contra un snapshot desactualizado respecto a escritores concurrentes.
type AlertsUseCase struct {
	levelRepo repository.StockLevelRepository
	reports   LowStockReportGenerator
}

// NewAlertsUseCase construye el caso de uso.
func NewAlertsUseCase(levelRepo repository.StockLevelRepository, reports LowStockReportGenerator) *AlertsUseCase {
	return &AlertsUseCase{levelRepo: levelRepo, reports: reports}
}

// GetLowStockAlerts devuelve las filas con current_stock <= low_stock_threshold,
// mayor déficit primero.
func (uc *AlertsUseCase) GetLowStockAlerts(ctx context.Context, companyID string) ([]LowStockAlert, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	levels, err := uc.levelRepo.ListBelowThreshold(ctx, companyID)
	if err != nil {
		return nil, err
	}
	alerts := make([]LowStockAlert, 0, len(levels))
	for _, level := range levels {
		alerts = append(alerts, LowStockAlert{
			IngredientName: level.Key.IngredientName,
			Unit:           level.Key.Unit,
			CurrentStock:   level.CurrentStock,
			ReservedStock:  level.ReservedStock,
			Available:      level.Available(),
			Threshold:      level.LowStockThreshold,
			Deficit:        level.LowStockThreshold.Sub(level.CurrentStock),
		})
	}
	return alerts, nil
}

// LowStockReportPDF genera el informe PDF de las alertas actuales.
func (uc *AlertsUseCase) LowStockReportPDF(ctx context.Context, companyID, companyName string) ([]byte, error) {
	alerts, err := uc.GetLowStockAlerts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.reports.GenerateLowStockReport(ctx, companyName, time.Now(), alerts)
}
