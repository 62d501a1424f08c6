package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// stubReportGenerator captura los argumentos y devuelve bytes fijos.
type stubReportGenerator struct {
	companyName string
	alerts      []stock.LowStockAlert
	out         []byte
}

func (s *stubReportGenerator) GenerateLowStockReport(_ context.Context, companyName string, _ time.Time, alerts []stock.LowStockAlert) ([]byte, error) {
	s.companyName = companyName
	s.alerts = alerts
	return s.out, nil
}

// Solo las filas con current <= threshold entran al informe, ordenadas por
// déficit descendente, y el déficit es threshold - current.
func TestGetLowStockAlerts_FiltraYOrdena(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	ctx := context.Background()

	// Milk: 5 <= 10 (déficit 5); Coffee: 2 <= 10 (déficit 8); Water: 500 > 10
	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(5), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = stockUC.AddStock(ctx, testCompanyID, coffeeKey, dec(2), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = stockUC.AddStock(ctx, testCompanyID, waterKey, dec(500), "r", stock.AddOptions{})
	require.NoError(t, err)

	uc := stock.NewAlertsUseCase(store, &stubReportGenerator{})
	alerts, err := uc.GetLowStockAlerts(ctx, testCompanyID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, "Coffee", alerts[0].IngredientName, "mayor déficit primero")
	assert.True(t, alerts[0].Deficit.Equal(dec(8)))
	assert.Equal(t, "Milk", alerts[1].IngredientName)
	assert.True(t, alerts[1].Deficit.Equal(dec(5)))
}

// El umbral es inclusivo: current == threshold también alerta.
func TestGetLowStockAlerts_UmbralInclusivo(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(10), "r", stock.AddOptions{})
	require.NoError(t, err)

	uc := stock.NewAlertsUseCase(store, &stubReportGenerator{})
	alerts, err := uc.GetLowStockAlerts(ctx, testCompanyID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].Deficit.IsZero())
}

// La alerta mira current_stock, no el disponible: 500 actuales con 495
// reservados no alertan con umbral 10.
func TestGetLowStockAlerts_IgnoraReservas(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	reservations := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(500), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = reservations.ReserveStock(ctx, testCompanyID, milkKey, dec(495), "hold", stock.ReserveOptions{})
	require.NoError(t, err)

	uc := stock.NewAlertsUseCase(store, &stubReportGenerator{})
	alerts, err := uc.GetLowStockAlerts(ctx, testCompanyID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestGetLowStockAlerts_CompanyVacia(t *testing.T) {
	uc := stock.NewAlertsUseCase(newFakeStore(), &stubReportGenerator{})
	_, err := uc.GetLowStockAlerts(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El informe PDF delega en el generador con las alertas vigentes.
func TestLowStockReportPDF_DelegaAlGenerador(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, entity.StockKey{IngredientName: "Sugar", Unit: "g"}, dec(3), "r", stock.AddOptions{})
	require.NoError(t, err)

	gen := &stubReportGenerator{out: []byte("%PDF-1.7")}
	uc := stock.NewAlertsUseCase(store, gen)

	pdf, err := uc.LowStockReportPDF(ctx, testCompanyID, "Cafetería La Loma")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), pdf)
	assert.Equal(t, "Cafetería La Loma", gen.companyName)
	require.Len(t, gen.alerts, 1)
	assert.Equal(t, "Sugar", gen.alerts[0].IngredientName)
}
