package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"firstbite/internal/domain"
	"firstbite/internal/infra"
	rabbit "firstbite/internal/infra/rabbitmq"
	"firstbite/internal/repository"

	"github.com/go-redis/redis/v8"
)

type OrderItemInput struct {
	MenuItemID          uint64
	Quantity            int
	SpecialInstructions string
}

type CreateOrderInput struct {
	Channel       domain.Channel
	Items         []OrderItemInput
	UserID        string
	TableNumber   string
	CustomerName  string
	GuestCount    int
	CustomerNotes string
	PaymentMethod string
	Options       domain.ChargeOptions
	Actor         string
}

// OrderService owns the order lifecycle. All mutations to one order are
// serialized behind a per-order mutex, so concurrent status updates cannot
// interleave stale reads.
type OrderService struct {
	repo        repository.OrderRepository
	tables      repository.TableRepository
	menu        infra.MenuClientInterface
	charges     *ChargeService
	numbers     *OrderNumberGenerator
	publisher   rabbit.PublisherInterface
	redisClient *redis.Client

	mu         sync.Mutex
	orderLocks map[uint64]*sync.Mutex
}

func NewOrderService(
	repo repository.OrderRepository,
	tables repository.TableRepository,
	menu infra.MenuClientInterface,
	charges *ChargeService,
	numbers *OrderNumberGenerator,
	pub rabbit.PublisherInterface,
) *OrderService {
	return &OrderService{
		repo:       repo,
		tables:     tables,
		menu:       menu,
		charges:    charges,
		numbers:    numbers,
		publisher:  pub,
		orderLocks: make(map[uint64]*sync.Mutex),
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *OrderService) lockOrder(id uint64) func() {
	s.mu.Lock()
	l, ok := s.orderLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.orderLocks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	items, err := s.enrichItems(ctx, in.Items, 0)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		Channel:       in.Channel,
		UserID:        in.UserID,
		CustomerName:  in.CustomerName,
		GuestCount:    in.GuestCount,
		TableNumber:   in.TableNumber,
		DistanceKm:    in.Options.DistanceKm,
		Items:         items,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: domain.PaymentPending,
		CustomerNotes: in.CustomerNotes,
	}

	opts := in.Options
	opts.ItemCount = order.TotalQuantity()
	breakdown, err := s.charges.Calculate(ctx, order.Subtotal(), in.Channel, opts)
	if err != nil {
		return nil, err
	}
	applyBreakdown(order, breakdown)

	number, err := s.numbers.Next(ctx, in.Channel)
	if err != nil {
		return nil, err
	}
	order.OrderNumber = number

	if in.Channel == domain.ChannelInHouse {
		order.SetStatus(domain.StatusConfirmed, fmt.Sprintf("Order placed for Table %s", in.TableNumber), in.Actor)
		if _, err := s.repo.CreateDineIn(ctx, order); err != nil {
			return nil, err
		}
	} else {
		order.SetStatus(domain.StatusPlaced, "Order placed successfully", in.Actor)
		if err := s.repo.Create(ctx, order); err != nil {
			return nil, err
		}
	}

	go s.publishEvent(context.Background(), "order.created", domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Channel:     order.Channel,
		TableNumber: order.TableNumber,
		FinalAmount: order.FinalAmount,
		CreatedAt:   order.CreatedAt,
	})

	return order, nil
}

// AddItems appends new lines to an open order and recomputes its totals.
// The returned flag reports whether a previously generated bill must be
// regenerated. Item lookups are all-or-nothing: one unavailable item rejects
// the whole request before anything is appended.
func (s *OrderService) AddItems(ctx context.Context, orderID uint64, items []OrderItemInput, actor string) (*domain.Order, bool, error) {
	if len(items) == 0 {
		return nil, false, domain.NewValidationError("no items supplied")
	}

	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if order.Closed() || order.OrderStatus == domain.StatusCompleted {
		return nil, false, domain.ErrOrderClosed
	}

	enriched, err := s.enrichItems(ctx, items, order.NextItemID())
	if err != nil {
		return nil, false, err
	}
	order.Items = append(order.Items, enriched...)

	needsRegen := order.BillGenerated
	if needsRegen {
		order.BillGenerated = false
		order.BillGeneratedAt = nil
	}

	if err := s.recomputeCharges(ctx, order); err != nil {
		return nil, false, err
	}

	order.StatusHistory = append(order.StatusHistory, domain.StatusEntry{
		Status:    order.OrderStatus,
		Timestamp: time.Now(),
		Note:      fmt.Sprintf("Added %d new item(s) to order", len(items)),
		UpdatedBy: actor,
	})

	oldStatus := order.OrderStatus
	changed, billInvalidated := order.Rederive()
	needsRegen = needsRegen || billInvalidated

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, false, err
	}
	if changed {
		s.publishStatusChange(order, oldStatus)
	}

	return order, needsRegen, nil
}

// SetItemStatus advances one line's preparation status and cascades the
// order's aggregate status through the derivation rule.
func (s *OrderService) SetItemStatus(ctx context.Context, orderID, itemID uint64, status domain.ItemStatus, actor string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("invalid item status %q", status)
	}

	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Closed() || order.OrderStatus == domain.StatusCompleted {
		return nil, domain.ErrOrderClosed
	}

	item := order.Item(itemID)
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if !item.Status.CanAdvanceTo(status) {
		return nil, domain.NewValidationError("item cannot move back from %s to %s", item.Status, status)
	}
	item.Status = status

	oldStatus := order.OrderStatus
	changed, _ := order.Rederive()

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	if changed {
		s.publishStatusChange(order, oldStatus)
	}

	return order, nil
}

// GenerateBill freezes the order's charges into an invoice and forces the
// order into billing. Re-invocable: a later call after items changed produces
// a regeneration, noted distinctly in history.
func (s *OrderService) GenerateBill(ctx context.Context, orderID uint64, actor string) (*domain.Bill, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Closed() || order.OrderStatus.Terminal() {
		return nil, domain.ErrOrderClosed
	}

	note := "Bill generated"
	if order.BillGenerated {
		note = "Bill regenerated"
	}

	now := time.Now()
	order.BillGenerated = true
	order.BillGeneratedAt = &now
	order.OrderStatus = domain.StatusBilling
	// Bill events are explicit operator actions; record each one, even when
	// the last history entry is already "billing".
	order.StatusHistory = append(order.StatusHistory, domain.StatusEntry{
		Status:    domain.StatusBilling,
		Timestamp: now,
		Note:      note,
		UpdatedBy: actor,
	})

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order.BillView(), nil
}

// CompletePayment closes the order and frees its table.
func (s *OrderService) CompletePayment(ctx context.Context, orderID uint64, method string, detail *domain.PaymentDetail, actor string) (*domain.Order, error) {
	if method == "" {
		return nil, domain.NewValidationError("payment method is required")
	}

	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentCompleted {
		return nil, domain.ErrAlreadyPaid
	}
	if order.OrderStatus == domain.StatusCancelled {
		return nil, domain.ErrOrderClosed
	}

	order.PaymentMethod = method
	order.PaymentStatus = domain.PaymentCompleted
	if detail != nil {
		detail.Timestamp = time.Now()
		order.PaymentDetail = detail
	}
	order.SetStatus(domain.StatusCompleted, fmt.Sprintf("Payment completed via %s", method), actor)

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	if order.Channel == domain.ChannelInHouse && order.TableNumber != "" {
		if _, err := s.tables.Release(ctx, order.TableNumber); err != nil {
			// The payment is already committed; failing here would make the
			// caller retry into AlreadyPaid. The table gets freed manually.
			log.Printf("Failed to release table %s after payment: %v", order.TableNumber, err)
		}
	}

	go s.publishEvent(context.Background(), "order.payment_completed", domain.PaymentCompletedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Method:      method,
		Amount:      order.FinalAmount,
		CompletedAt: time.Now(),
	})

	return order, nil
}

// CancelOrder terminates an order from any pre-completed state.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint64, reason, actor string) (*domain.Order, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Closed() || order.OrderStatus == domain.StatusCompleted {
		return nil, domain.ErrOrderClosed
	}

	if reason == "" {
		reason = "Order cancelled"
	}
	oldStatus := order.OrderStatus
	order.SetStatus(domain.StatusCancelled, reason, actor)

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	if order.Channel == domain.ChannelInHouse && order.TableNumber != "" {
		if _, err := s.tables.Release(ctx, order.TableNumber); err != nil {
			log.Printf("Failed to release table %s after cancellation: %v", order.TableNumber, err)
		}
	}

	s.publishStatusChange(order, oldStatus)
	return order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uint64) (*domain.Order, error) {
	return s.loadOrder(ctx, id)
}

// ListTableOrders returns a table's order history, newest first.
func (s *OrderService) ListTableOrders(ctx context.Context, tableNumber string) ([]domain.Order, error) {
	return s.repo.ListByTable(ctx, tableNumber)
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	o, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) loadOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// enrichItems resolves every requested line against the menu catalog before
// any of them is accepted. startID of 0 numbers lines from 1.
func (s *OrderService) enrichItems(ctx context.Context, items []OrderItemInput, startID uint64) ([]domain.OrderItem, error) {
	if startID == 0 {
		startID = 1
	}
	enriched := make([]domain.OrderItem, 0, len(items))
	for i, in := range items {
		if in.Quantity < 1 {
			return nil, domain.NewValidationError("item quantity must be at least 1")
		}
		menuItem, err := s.getMenuItemWithCache(ctx, in.MenuItemID)
		if err != nil {
			return nil, err
		}
		if menuItem == nil {
			return nil, &domain.ItemUnavailableError{MenuItemID: in.MenuItemID, Reason: "not found"}
		}
		if !menuItem.IsAvailable {
			return nil, &domain.ItemUnavailableError{MenuItemID: in.MenuItemID, Name: menuItem.Name}
		}
		enriched = append(enriched, domain.OrderItem{
			ItemID:              startID + uint64(i),
			MenuItemID:          in.MenuItemID,
			Name:                menuItem.Name,
			Quantity:            in.Quantity,
			Price:               menuItem.Price,
			SpecialInstructions: in.SpecialInstructions,
			Status:              domain.ItemPending,
		})
	}
	return enriched, nil
}

func (s *OrderService) getMenuItemWithCache(ctx context.Context, id uint64) (*infra.MenuItemInfo, error) {
	cacheKey := fmt.Sprintf("menu:item:%d", id)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var m infra.MenuItemInfo
			if err := json.Unmarshal([]byte(cached), &m); err == nil {
				return &m, nil
			}
		}
	}

	m, err := s.menu.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil && m != nil {
		if data, err := json.Marshal(m); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, time.Minute)
		}
	}

	return m, nil
}

// recomputeCharges re-runs the calculator after the item set changed,
// preserving the order's existing discount and delivery distance.
func (s *OrderService) recomputeCharges(ctx context.Context, order *domain.Order) error {
	breakdown, err := s.charges.Calculate(ctx, order.Subtotal(), order.Channel, domain.ChargeOptions{
		ItemCount:      order.TotalQuantity(),
		DistanceKm:     order.DistanceKm,
		DiscountAmount: order.DiscountAmount,
	})
	if err != nil {
		return err
	}
	applyBreakdown(order, breakdown)
	return nil
}

// applyBreakdown copies the calculator output onto the order's monetary
// fields so finalAmount is computed once, never re-derived lazily.
func applyBreakdown(order *domain.Order, b *domain.ChargeBreakdown) {
	order.TotalAmount = b.Subtotal
	order.Taxes = b.TotalTax
	order.ServiceCharge = b.ServiceCharge
	order.DeliveryCharges = b.DeliveryCharges
	order.PackagingCharges = b.PackagingCharges
	order.DiscountAmount = b.Discount
	order.RoundOff = b.RoundOff
	order.FinalAmount = b.GrandTotal
}

func validateCreateInput(in CreateOrderInput) error {
	if !in.Channel.Valid() {
		return domain.NewValidationError("unknown channel %q", in.Channel)
	}
	if len(in.Items) == 0 {
		return domain.NewValidationError("order must contain at least one item")
	}
	if in.Channel == domain.ChannelInHouse && in.TableNumber == "" {
		return domain.NewValidationError("tableNumber is required for in-house orders")
	}
	if in.Channel != domain.ChannelInHouse && in.TableNumber != "" {
		return domain.NewValidationError("tableNumber is only valid for in-house orders")
	}
	if in.Channel == domain.ChannelOnline && in.UserID == "" {
		return domain.NewValidationError("userId is required for online orders")
	}
	if in.Channel != domain.ChannelOnline && in.UserID != "" {
		return domain.NewValidationError("userId is only valid for online orders")
	}
	return nil
}

func (s *OrderService) publishStatusChange(order *domain.Order, old domain.OrderStatus) {
	go s.publishEvent(context.Background(), "order.status_changed", domain.OrderStatusChangedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldStatus:   old,
		NewStatus:   order.OrderStatus,
		ChangedAt:   time.Now(),
	})
}

func (s *OrderService) publishEvent(ctx context.Context, pattern string, evt any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		log.Printf("Failed to publish %s event: %v", pattern, err)
	}
}
