package http

import (
	"errors"
	"net/http"
	"strconv"

	"firstbite/internal/domain"
	"firstbite/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	orders  *services.OrderService
	tables  *services.TableService
	charges *services.ChargeService
}

func NewHandler(orders *services.OrderService, tables *services.TableService, charges *services.ChargeService) *Handler {
	return &Handler{orders: orders, tables: tables, charges: charges}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.GetOrderByNumber)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/items", h.AddItems)
	r.PATCH("/orders/:id/items/:itemId/status", h.SetItemStatus)
	r.POST("/orders/:id/bill", h.GenerateBill)
	r.POST("/orders/:id/payment", h.CompletePayment)
	r.PUT("/orders/:id/cancel", h.CancelOrder)
	r.POST("/charges/calculate", h.CalculateCharges)
	r.PUT("/charges/config", h.UpdateChargeConfig)
	r.GET("/tables", h.ListTables)
	r.POST("/tables", h.CreateTable)
	r.GET("/tables/:tableNumber/orders", h.ListTableOrders)
	r.PATCH("/tables/:tableNumber/merge", h.MergeTables)
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		unavailable   *domain.ItemUnavailableError
		occupied      *domain.TableOccupiedError
	)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyPaid), errors.Is(err, domain.ErrOrderClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &occupied):
		c.JSON(http.StatusConflict, gin.H{
			"error": occupied.Error(),
			"existingOrder": gin.H{
				"orderNumber": occupied.OrderNumber,
				"status":      occupied.OrderStatus,
			},
		})
	case errors.As(err, &validationErr), errors.As(err, &unavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func orderItemInputs(items []OrderItemRequest) []services.OrderItemInput {
	out := make([]services.OrderItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, services.OrderItemInput{
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		})
	}
	return out
}

func actorFrom(c *gin.Context) string {
	if actor := c.GetHeader("X-Actor-Id"); actor != "" {
		return actor
	}
	return "system"
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		Channel:       domain.Channel(req.Channel),
		Items:         orderItemInputs(req.Items),
		UserID:        req.UserID,
		TableNumber:   req.TableNumber,
		CustomerName:  req.CustomerName,
		GuestCount:    req.GuestCount,
		CustomerNotes: req.CustomerNotes,
		PaymentMethod: req.PaymentMethod,
		Options: domain.ChargeOptions{
			DistanceKm:      req.DistanceKm,
			DiscountAmount:  req.DiscountAmount,
			DiscountPercent: req.DiscountPercent,
		},
		Actor: actorFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetOrderByNumber(c *gin.Context) {
	number := c.Query("number")
	if number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number query parameter is required"})
		return
	}

	order, err := h.orders.GetOrderByNumber(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListTableOrders(c *gin.Context) {
	orders, err := h.orders.ListTableOrders(c.Request.Context(), c.Param("tableNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (h *Handler) AddItems(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, needsRegen, err := h.orders.AddItems(c.Request.Context(), id, orderItemInputs(req.Items), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AddItemsResponse{Order: order, NeedsBillRegeneration: needsRegen})
}

func (h *Handler) SetItemStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req SetItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.SetItemStatus(c.Request.Context(), id, itemID, domain.ItemStatus(req.Status), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GenerateBill(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	bill, err := h.orders.GenerateBill(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *Handler) CompletePayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var detail *domain.PaymentDetail
	if req.MachineID != "" || req.TransactionID != "" || req.ApprovalCode != "" {
		detail = &domain.PaymentDetail{
			MachineID:     req.MachineID,
			TransactionID: req.TransactionID,
			ApprovalCode:  req.ApprovalCode,
		}
	}

	order, err := h.orders.CompletePayment(c.Request.Context(), id, req.PaymentMethod, detail, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.orders.CancelOrder(c.Request.Context(), id, req.Reason, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CalculateCharges(c *gin.Context) {
	var req CalculateChargesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	breakdown, err := h.charges.Calculate(c.Request.Context(), req.Subtotal, domain.Channel(req.Channel), domain.ChargeOptions{
		ItemCount:       req.ItemCount,
		DistanceKm:      req.DistanceKm,
		DiscountAmount:  req.DiscountAmount,
		DiscountPercent: req.DiscountPercent,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (h *Handler) UpdateChargeConfig(c *gin.Context) {
	var cfg domain.TaxConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg.UpdatedBy = actorFrom(c)

	if err := h.charges.UpdateConfig(c.Request.Context(), &cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) ListTables(c *gin.Context) {
	tables, summary, err := h.tables.ListTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tables, "summary": summary})
}

func (h *Handler) CreateTable(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table := &domain.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Location:    req.Location,
		Notes:       req.Notes,
	}
	if err := h.tables.CreateTable(c.Request.Context(), table); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *Handler) MergeTables(c *gin.Context) {
	var req MergeTablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := h.tables.Merge(c.Request.Context(), c.Param("tableNumber"), req.MergeTables)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}
