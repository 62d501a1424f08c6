package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP de niveles de stock y mutadores
// primitivos (protegido).
type StockHandler struct {
	uc *stock.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// AddStock godoc
// @Summary      Sumar stock físico (recepción de bodega)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "ingredient_name, unit, quantity, reason, batch_id opcional"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/add [post]
func (h *StockHandler) AddStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := entity.StockKey{IngredientName: in.IngredientName, Unit: in.Unit}
	available, err := h.uc.AddStock(c.Context(), companyID, key, in.Quantity, in.Reason, stock.AddOptions{BatchID: in.BatchID})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MutationResponse{Success: true, AvailableStock: available})
}

// DeductStock godoc
// @Summary      Deducir stock físico
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductStockRequest  true  "ingredient_name, unit, quantity, reason"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/deduct [post]
func (h *StockHandler) DeductStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.DeductStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := entity.StockKey{IngredientName: in.IngredientName, Unit: in.Unit}
	available, err := h.uc.DeductStock(c.Context(), companyID, key, in.Quantity, in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MutationResponse{Success: true, AvailableStock: available})
}

// GetLevel godoc
// @Summary      Nivel de stock de un (ingrediente, unidad)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        ingredient  query  string  true  "Nombre del ingrediente"
// @Param        unit        query  string  true  "Unidad de medida"
// @Success      200  {object}  dto.StockLevelDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/level [get]
func (h *StockHandler) GetLevel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	key := entity.StockKey{IngredientName: c.Query("ingredient"), Unit: c.Query("unit")}
	level, err := h.uc.GetLevel(c.Context(), companyID, key)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewStockLevelDTO(level))
}

// ListLevels godoc
// @Summary      Listar niveles de stock de la empresa
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite de página (default 20)"
// @Param        offset  query  int  false  "Offset de página"
// @Success      200  {array}  dto.StockLevelDTO
// @Router       /api/stock [get]
func (h *StockHandler) ListLevels(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	levels, err := h.uc.ListLevels(c.Context(), companyID, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.StockLevelDTO, 0, len(levels))
	for _, level := range levels {
		out = append(out, dto.NewStockLevelDTO(level))
	}
	return c.JSON(fiber.Map{"total": len(out), "levels": out})
}

// GetHistory godoc
// @Summary      Historial del libro mayor de un (ingrediente, unidad)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        ingredient  query  string  true   "Nombre del ingrediente"
// @Param        unit        query  string  true   "Unidad de medida"
// @Param        from        query  string  false  "Fecha inicial (RFC 3339)"
// @Param        to          query  string  false  "Fecha final (RFC 3339)"
// @Success      200  {array}  dto.StockTransactionDTO
// @Router       /api/stock/history [get]
func (h *StockHandler) GetHistory(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	key := entity.StockKey{IngredientName: c.Query("ingredient"), Unit: c.Query("unit")}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido (RFC 3339)"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido (RFC 3339)"})
	}

	txs, err := h.uc.GetStockHistory(c.Context(), companyID, key, from, to, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.StockTransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, dto.NewStockTransactionDTO(tx))
	}
	return c.JSON(fiber.Map{"total": len(out), "transactions": out})
}

// GetTransaction godoc
// @Summary      Detalle de un asiento del libro mayor
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del asiento"
// @Success      200  {object}  dto.StockTransactionDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/history/{id} [get]
func (h *StockHandler) GetTransaction(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	tx, err := h.uc.GetTransaction(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewStockTransactionDTO(tx))
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
