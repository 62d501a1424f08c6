package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ReserveStock
// ──────────────────────────────────────────────────────────────────────────────

// Con 1000 actuales, reservar 200 deja 800 disponibles; una segunda reserva de
// 900 debe fallar con el disponible (800) en el error.
func TestReserveStock_DisponibleLimitaLaReserva(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	uc := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(1000), "initial receipt", stock.AddOptions{})
	require.NoError(t, err)

	available, err := uc.ReserveStock(ctx, testCompanyID, milkKey, dec(200), "order A", stock.ReserveOptions{ReservationID: "res-a"})
	require.NoError(t, err)
	assert.True(t, available.Equal(dec(800)))

	_, err = uc.ReserveStock(ctx, testCompanyID, milkKey, dec(900), "order B", stock.ReserveOptions{})
	require.Error(t, err)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(dec(800)), "el error debe reportar 800 disponibles")

	// la reserva fallida no deja rastro ni en el nivel ni en el libro mayor
	level := mustLevel(t, store, milkKey)
	assert.True(t, level.ReservedStock.Equal(dec(200)))
	assert.True(t, level.CurrentStock.Equal(dec(1000)), "reservar nunca toca current_stock")
	assert.Len(t, store.entriesFor(testCompanyID, milkKey), 2, "ADD + un solo RESERVE")
}

func TestReserveStock_NoExiste(t *testing.T) {
	store := newFakeStore()
	uc := stock.NewReservationUseCase(store)

	_, err := uc.ReserveStock(context.Background(), testCompanyID, milkKey, dec(10), "r", stock.ReserveOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserveStock_CantidadInvalida(t *testing.T) {
	store := newFakeStore()
	uc := stock.NewReservationUseCase(store)

	_, err := uc.ReserveStock(context.Background(), testCompanyID, milkKey, decimal.Zero, "r", stock.ReserveOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ReserveStock(context.Background(), testCompanyID, milkKey, dec(-3), "r", stock.ReserveOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El asiento RESERVE lleva los campos de correlación de la reserva.
func TestReserveStock_AsientoConCorrelacion(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	uc := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(500), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = uc.ReserveStock(ctx, testCompanyID, milkKey, dec(100), "hold for order", stock.ReserveOptions{
		ReservationID: "res-42",
		Purpose:       "Order #42",
	})
	require.NoError(t, err)

	entries := store.entriesFor(testCompanyID, milkKey)
	require.Len(t, entries, 2)
	reserve := entries[1]
	assert.Equal(t, entity.TransactionTypeRESERVE, reserve.Type)
	assert.True(t, reserve.Quantity.Equal(dec(100)), "RESERVE se registra en positivo")
	assert.Equal(t, "res-42", reserve.ReservationID)
	assert.Equal(t, "Order #42", reserve.ReservationPurpose)
}

// ──────────────────────────────────────────────────────────────────────────────
// UnreserveStock
// ──────────────────────────────────────────────────────────────────────────────

// Reservar y liberar la misma cantidad restaura el estado y deja exactamente
// un par RESERVE +q / UNRESERVE -q en el libro mayor.
func TestUnreserveStock_RestauraEstado(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	uc := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(1000), "r", stock.AddOptions{})
	require.NoError(t, err)

	_, err = uc.ReserveStock(ctx, testCompanyID, milkKey, dec(300), "hold", stock.ReserveOptions{ReservationID: "res-1"})
	require.NoError(t, err)
	available, err := uc.UnreserveStock(ctx, testCompanyID, milkKey, dec(300), "release", stock.ReserveOptions{ReservationID: "res-1"})
	require.NoError(t, err)
	assert.True(t, available.Equal(dec(1000)))

	level := mustLevel(t, store, milkKey)
	assert.True(t, level.ReservedStock.IsZero())
	assert.True(t, level.CurrentStock.Equal(dec(1000)))

	entries := store.entriesFor(testCompanyID, milkKey)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.TransactionTypeRESERVE, entries[1].Type)
	assert.True(t, entries[1].Quantity.Equal(dec(300)))
	assert.Equal(t, entity.TransactionTypeUNRESERVE, entries[2].Type)
	assert.True(t, entries[2].Quantity.Equal(dec(-300)), "UNRESERVE se registra en negativo")
}

// Liberar más de lo reservado falla con OverReservationError y no muta nada.
func TestUnreserveStock_SobreLiberacion(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	uc := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(1000), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = uc.ReserveStock(ctx, testCompanyID, milkKey, dec(100), "hold", stock.ReserveOptions{})
	require.NoError(t, err)

	_, err = uc.UnreserveStock(ctx, testCompanyID, milkKey, dec(150), "release", stock.ReserveOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverReservation)

	var over *domain.OverReservationError
	require.ErrorAs(t, err, &over)
	assert.True(t, over.Reserved.Equal(dec(100)), "el error debe llevar lo reservado")

	level := mustLevel(t, store, milkKey)
	assert.True(t, level.ReservedStock.Equal(dec(100)), "lo reservado no debe cambiar")
	assert.Len(t, store.entriesFor(testCompanyID, milkKey), 2, "sin asiento UNRESERVE")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateReservation
// ──────────────────────────────────────────────────────────────────────────────

// Redimensionar hacia arriba registra un solo RESERVE por la diferencia.
func TestUpdateReservation_Aumenta(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	uc := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(1000), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = uc.ReserveStock(ctx, testCompanyID, milkKey, dec(200), "hold", stock.ReserveOptions{ReservationID: "res-1"})
	require.NoError(t, err)

	available, err := uc.UpdateReservation(ctx, testCompanyID, milkKey, dec(350), "resize", "res-1")
	require.NoError(t, err)
	assert.True(t, available.Equal(dec(650)))

	level := mustLevel(t, store, milkKey)
	assert.True(t, level.ReservedStock.Equal(dec(350)))

	entries := store.entriesFor(testCompanyID, milkKey)
	require.Len(t, entries, 3)
	last := entries[2]
	assert.Equal(t, entity.TransactionTypeRESERVE, last.Type)
	assert.True(t, last.Quantity.Equal(dec(150)), "asiento por la diferencia, no por el total")
	assert.Equal(t, "res-1", last.ReservationID)
}

// Redimensionar hacia abajo registra un solo UNRESERVE por la diferencia.
func TestUpdateReservation_Reduce(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	uc := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(1000), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = uc.ReserveStock(ctx, testCompanyID, milkKey, dec(200), "hold", stock.ReserveOptions{})
	require.NoError(t, err)

	available, err := uc.UpdateReservation(ctx, testCompanyID, milkKey, dec(50), "resize", "res-1")
	require.NoError(t, err)
	assert.True(t, available.Equal(dec(950)))

	entries := store.entriesFor(testCompanyID, milkKey)
	require.Len(t, entries, 3)
	last := entries[2]
	assert.Equal(t, entity.TransactionTypeUNRESERVE, last.Type)
	assert.True(t, last.Quantity.Equal(dec(-150)))
}

// Si la nueva cantidad coincide con lo reservado no se registra asiento alguno.
func TestUpdateReservation_SinCambioSinAsiento(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	uc := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(1000), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = uc.ReserveStock(ctx, testCompanyID, milkKey, dec(200), "hold", stock.ReserveOptions{})
	require.NoError(t, err)

	_, err = uc.UpdateReservation(ctx, testCompanyID, milkKey, dec(200), "resize", "res-1")
	require.NoError(t, err)
	assert.Len(t, store.entriesFor(testCompanyID, milkKey), 2, "diff cero no genera asiento")
}

// Fijar la reserva en cero es válido y libera todo.
func TestUpdateReservation_ACero(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	uc := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(1000), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = uc.ReserveStock(ctx, testCompanyID, milkKey, dec(200), "hold", stock.ReserveOptions{})
	require.NoError(t, err)

	available, err := uc.UpdateReservation(ctx, testCompanyID, milkKey, decimal.Zero, "cancel", "res-1")
	require.NoError(t, err)
	assert.True(t, available.Equal(dec(1000)))
	assert.True(t, mustLevel(t, store, milkKey).ReservedStock.IsZero())
}

// Un aumento que supera el disponible falla sin mutar.
func TestUpdateReservation_AumentoInsuficiente(t *testing.T) {
	store := newFakeStore()
	stockUC := newStockUC(store)
	uc := stock.NewReservationUseCase(store)
	ctx := context.Background()

	_, err := stockUC.AddStock(ctx, testCompanyID, milkKey, dec(300), "r", stock.AddOptions{})
	require.NoError(t, err)
	_, err = uc.ReserveStock(ctx, testCompanyID, milkKey, dec(200), "hold", stock.ReserveOptions{})
	require.NoError(t, err)

	// disponible = 100; subir la reserva de 200 a 350 pide 150 más
	_, err = uc.UpdateReservation(ctx, testCompanyID, milkKey, dec(350), "resize", "res-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, mustLevel(t, store, milkKey).ReservedStock.Equal(dec(200)))
}

func TestUpdateReservation_NegativaInvalida(t *testing.T) {
	store := newFakeStore()
	uc := stock.NewReservationUseCase(store)

	_, err := uc.UpdateReservation(context.Background(), testCompanyID, milkKey, dec(-1), "resize", "res-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
