package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	appinventory "github.com/22Jason22/ferremateriales/internal/application/inventory"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles catalog and stock endpoints
type ProductHandler struct {
	BaseHandler
	productService *appinventory.ProductService
	stockService   *appinventory.StockService
	now            func() time.Time
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *appinventory.ProductService, stockService *appinventory.StockService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		stockService:   stockService,
		now:            time.Now,
	}
}

// CreateCategory handles POST /categories
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req appinventory.CreateCategoryInput
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.productService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Create handles POST /products. A positive initial_stock is posted as an
// opening movement.
func (h *ProductHandler) Create(c *gin.Context) {
	var req appinventory.CreateProductInput
	if !h.bindJSON(c, &req) {
		return
	}
	req.Actor = actorOr(c, req.Actor)

	product, err := h.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var filter appinventory.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	products, total, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Update handles PUT /products/:id. Stock cannot be changed here.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appinventory.UpdateProductInput
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Summary handles GET /products/summary
func (h *ProductHandler) Summary(c *gin.Context) {
	summary, err := h.productService.StockSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// CreateMovement handles POST /products/:id/movements
func (h *ProductHandler) CreateMovement(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appinventory.CreateStockMovementInput
	if !h.bindJSON(c, &req) {
		return
	}
	req.Actor = actorOr(c, req.Actor)

	movement, err := h.stockService.CreateStockMovement(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ListMovements handles GET /products/:id/movements
func (h *ProductHandler) ListMovements(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var filter appinventory.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// GetStock handles GET /products/:id/stock
func (h *ProductHandler) GetStock(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	level, err := h.stockService.GetStockLevel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// VerifyStock handles POST /products/:id/stock/verify
func (h *ProductHandler) VerifyStock(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	level, err := h.stockService.VerifyStock(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// ExportMovements handles GET /products/:id/movements.xlsx
func (h *ProductHandler) ExportMovements(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	product, movements, err := h.stockService.MovementHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteStockMovements(&buf, *product, movements, h.now()); err != nil {
		h.HandleError(c, fmt.Errorf("export movements: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="movimientos-%s.xlsx"`, product.ID))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
