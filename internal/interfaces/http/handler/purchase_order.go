package handler

import (
	apppurchasing "github.com/22Jason22/ferremateriales/internal/application/purchasing"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler handles purchasing endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	purchaseOrderService *apppurchasing.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(purchaseOrderService *apppurchasing.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchaseOrderService: purchaseOrderService}
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req apppurchasing.PurchaseOrderInput
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.purchaseOrderService.CreatePurchaseOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter apppurchasing.PurchaseOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	orders, total, err := h.purchaseOrderService.ListPurchaseOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// GetByID handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.purchaseOrderService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Transition handles POST /purchase-orders/:id/transition
func (h *PurchaseOrderHandler) Transition(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req apppurchasing.TransitionPurchaseOrderInput
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.purchaseOrderService.TransitionPurchaseOrder(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Receive handles POST /purchase-orders/:id/receipts
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req apppurchasing.ReceiveGoodsInput
	if !h.bindJSON(c, &req) {
		return
	}
	req.ReceivedBy = actorOr(c, req.ReceivedBy)

	result, err := h.purchaseOrderService.ReceiveGoods(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Delete handles DELETE /purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.purchaseOrderService.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
