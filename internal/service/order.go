package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/money"
	"github.com/jpcardenas/tienda/internal/repo"
	"github.com/jpcardenas/tienda/internal/snapshot"
	"github.com/jpcardenas/tienda/internal/transport"
	"github.com/jpcardenas/tienda/internal/util"
)

const (
	maxCodeAttempts   = 5
	defaultListLimit  = 20
	historyActorLabel = "system"
)

type OrderService struct {
	Repo       *repo.GormRepo
	CodePrefix string

	// newCode is swappable so collision handling can be exercised in tests.
	newCode func(prefix string) string
}

func NewOrderService(r *repo.GormRepo, codePrefix string) *OrderService {
	return &OrderService{
		Repo:       r,
		CodePrefix: codePrefix,
		newCode:    GenerateOrderCode,
	}
}

// Create freezes the user's cart (or an explicit item list when no active
// cart exists) into an immutable order. Everything persists in one
// transaction; a failed assembly leaves no order, no items, no history and an
// untouched cart.
func (s *OrderService) Create(ctx context.Context, userID uint, req transport.CreateOrderRequest) (*transport.OrderView, error) {
	if err := validateCustomer(req.Customer); err != nil {
		return nil, err
	}

	items, cartID, currency, err := s.resolveItems(ctx, userID, req.Items)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	for _, it := range items {
		subtotal += it.LineTotalCents
	}
	if len(items) == 0 || subtotal <= 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	var shippingCost int64
	var shippingView *transport.ShippingOptionView
	if req.ShippingOptionID != nil {
		opt, err := s.Repo.ActiveShippingOption(ctx, *req.ShippingOptionID)
		if err != nil {
			return nil, err
		}
		if opt == nil {
			return nil, fmt.Errorf("%w: invalid shipping option", ErrValidation)
		}
		shippingCost = opt.PriceCents
		shippingView = &transport.ShippingOptionView{ID: opt.ID, Code: opt.Code, Label: opt.Label, PriceCents: opt.PriceCents}
	}

	var paymentView *transport.PaymentMethodView
	if req.PaymentMethodID != nil {
		pm, err := s.Repo.ActivePaymentMethod(ctx, *req.PaymentMethodID)
		if err != nil {
			return nil, err
		}
		if pm == nil {
			return nil, fmt.Errorf("%w: invalid payment method", ErrValidation)
		}
		paymentView = &transport.PaymentMethodView{ID: pm.ID, Code: pm.Code, Label: pm.Label}
	}

	const discount = int64(0)

	order := models.Order{
		UserID: &userID,
		CartID: cartID,

		CustomerName:    strings.TrimSpace(req.Customer.Name),
		CustomerEmail:   strings.TrimSpace(req.Customer.Email),
		CustomerPhone:   strings.TrimSpace(req.Customer.Phone),
		CustomerCity:    strings.TrimSpace(req.Customer.City),
		CustomerAddress: strings.TrimSpace(req.Customer.Address),
		CustomerNotes:   strings.TrimSpace(req.Customer.Notes),

		ShippingOptionID: req.ShippingOptionID,
		PaymentMethodID:  req.PaymentMethodID,

		SubtotalCents:     subtotal,
		ShippingCostCents: shippingCost,
		DiscountCents:     discount,
		TotalCents:        subtotal + shippingCost - discount,
		Currency:          currency,

		Status:      models.OrderStatusPending,
		SubmittedAt: time.Now(),

		Items: items,
	}

	created := false
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		order.Code = s.newCode(s.CodePrefix)
		err := s.Repo.CreateOrder(ctx, &order)
		if err == nil {
			created = true
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			resetOrderIDs(&order)
			continue
		}
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("%w: could not generate order, retry", ErrConflict)
	}

	view := buildOrderView(order, shippingView, paymentView)
	return &view, nil
}

// List returns the user's orders newest first with resolved shipping/payment
// descriptors and rehydrated item snapshots. limit clamps to 1..100.
func (s *OrderService) List(ctx context.Context, userID uint, limit int) ([]transport.OrderView, error) {
	limit = util.ClampLimit(limit, defaultListLimit)

	orders, err := s.Repo.ListOrders(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	var shippingIDs, paymentIDs []uint
	for _, o := range orders {
		if o.ShippingOptionID != nil {
			shippingIDs = append(shippingIDs, *o.ShippingOptionID)
		}
		if o.PaymentMethodID != nil {
			paymentIDs = append(paymentIDs, *o.PaymentMethodID)
		}
	}

	shippingByID, err := s.Repo.ShippingOptionsByIDs(ctx, shippingIDs)
	if err != nil {
		return nil, err
	}
	paymentByID, err := s.Repo.PaymentMethodsByIDs(ctx, paymentIDs)
	if err != nil {
		return nil, err
	}

	views := make([]transport.OrderView, 0, len(orders))
	for _, o := range orders {
		var sv *transport.ShippingOptionView
		if o.ShippingOptionID != nil {
			if opt, ok := shippingByID[*o.ShippingOptionID]; ok {
				sv = &transport.ShippingOptionView{ID: opt.ID, Code: opt.Code, Label: opt.Label, PriceCents: opt.PriceCents}
			}
		}
		var pv *transport.PaymentMethodView
		if o.PaymentMethodID != nil {
			if pm, ok := paymentByID[*o.PaymentMethodID]; ok {
				pv = &transport.PaymentMethodView{ID: pm.ID, Code: pm.Code, Label: pm.Label}
			}
		}
		views = append(views, buildOrderView(o, sv, pv))
	}
	return views, nil
}

// resolveItems prefers the active cart; client-supplied items are only used
// when no cart line exists. Either way every line is re-normalized and its
// total recomputed before it can enter an order.
func (s *OrderService) resolveItems(ctx context.Context, userID uint, fallback []transport.ItemInput) ([]models.OrderItem, *uint, string, error) {
	cart, err := s.Repo.ActiveCart(ctx, userID)
	if err != nil {
		return nil, nil, "", err
	}

	if cart != nil && len(cart.Items) > 0 {
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, ci := range cart.Items {
			if ci.Quantity <= 0 {
				continue
			}
			if ci.UnitPriceCents < 0 {
				return nil, nil, "", fmt.Errorf("%w: negative unit price", ErrValidation)
			}
			fb := snapshot.Fallback{PriceCents: ci.UnitPriceCents}
			if ci.ProductID != nil {
				fb.ID = *ci.ProductID
			}
			snap := snapshot.Build(ci.ProductSnapshot, fb)
			items = append(items, models.OrderItem{
				ProductID:       ci.ProductID,
				Name:            snap.Name,
				SKU:             skuFrom(snap),
				Quantity:        ci.Quantity,
				UnitPriceCents:  ci.UnitPriceCents,
				LineTotalCents:  ci.Quantity * ci.UnitPriceCents,
				ProductSnapshot: snap.JSON(),
			})
		}
		currency := cart.Currency
		if currency == "" {
			currency = models.DefaultCurrency
		}
		return items, &cart.ID, currency, nil
	}

	items := make([]models.OrderItem, 0, len(fallback))
	currency := ""
	for _, in := range fallback {
		qty := money.NonNegativeInt(in.Quantity, 0)
		if qty <= 0 {
			continue
		}

		raw := string(in.Product)
		if obj := money.ParseObject(raw); obj != nil {
			if p, ok := obj["price"].(float64); ok && p < 0 {
				return nil, nil, "", fmt.Errorf("%w: negative unit price", ErrValidation)
			}
		}

		snap := snapshot.Build(raw, snapshot.Fallback{})
		var productID *int64
		if obj := money.ParseObject(raw); obj != nil {
			if id := money.NonNegativeFromAny(obj["id"], 0); id > 0 {
				productID = &id
			}
		}
		if currency == "" {
			currency = snap.Currency
		}

		items = append(items, models.OrderItem{
			ProductID:       productID,
			Name:            snap.Name,
			SKU:             skuFrom(snap),
			Quantity:        qty,
			UnitPriceCents:  snap.PriceCents,
			LineTotalCents:  qty * snap.PriceCents,
			ProductSnapshot: snap.JSON(),
		})
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return items, nil, currency, nil
}

func validateCustomer(c transport.CustomerInput) error {
	required := []struct{ field, value string }{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"city", c.City},
		{"address", c.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, r.field)
		}
	}
	if !strings.Contains(c.Email, "@") {
		return fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	return nil
}

func skuFrom(snap snapshot.Snapshot) string {
	if sku, ok := snap.Extra["sku"].(string); ok {
		return sku
	}
	return ""
}

// resetOrderIDs clears primary keys assigned by a rolled-back insert so the
// next attempt starts clean.
func resetOrderIDs(order *models.Order) {
	order.ID = 0
	for i := range order.Items {
		order.Items[i].ID = 0
		order.Items[i].OrderID = 0
	}
}

func buildOrderView(order models.Order, shipping *transport.ShippingOptionView, payment *transport.PaymentMethodView) transport.OrderView {
	items := make([]transport.OrderItemView, 0, len(order.Items))
	for _, oi := range order.Items {
		fb := snapshot.Fallback{Name: oi.Name, PriceCents: oi.UnitPriceCents}
		if oi.ProductID != nil {
			fb.ID = *oi.ProductID
		}
		snap := snapshot.Build(oi.ProductSnapshot, fb)
		items = append(items, transport.OrderItemView{
			ProductID: oi.ProductID,
			Name:      snap.Name,
			SKU:       oi.SKU,
			Product:   snap.Map(),
			Quantity:  oi.Quantity,
			UnitPrice: oi.UnitPriceCents,
			LineTotal: oi.LineTotalCents,
		})
	}

	return transport.OrderView{
		ID:     order.ID,
		Code:   order.Code,
		Status: order.Status,
		Customer: transport.CustomerInput{
			Name:    order.CustomerName,
			Email:   order.CustomerEmail,
			Phone:   order.CustomerPhone,
			City:    order.CustomerCity,
			Address: order.CustomerAddress,
			Notes:   order.CustomerNotes,
		},
		Subtotal:    order.SubtotalCents,
		ShippingFee: order.ShippingCostCents,
		Discount:    order.DiscountCents,
		Total:       order.TotalCents,
		Currency:    order.Currency,
		Shipping:    shipping,
		Payment:     payment,
		Items:       items,
		SubmittedAt: order.SubmittedAt,
	}
}
