package service

import (
	"context"

	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/money"
	"github.com/jpcardenas/tienda/internal/repo"
	"github.com/jpcardenas/tienda/internal/snapshot"
	"github.com/jpcardenas/tienda/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

// Get returns the user's active cart in API shape. A user without an active
// cart gets an empty item list, not an error.
func (s *CartService) Get(ctx context.Context, userID uint) (transport.CartResponse, error) {
	cart, err := s.Repo.ActiveCart(ctx, userID)
	if err != nil {
		return transport.CartResponse{}, err
	}
	if cart == nil {
		return transport.CartResponse{Items: []transport.CartItemView{}}, nil
	}
	if err := s.Repo.TouchCart(ctx, cart.ID); err != nil {
		return transport.CartResponse{}, err
	}
	return cartView(cart), nil
}

// Replace normalizes the incoming item list and rewrites the active cart in
// one transaction. Calling it twice with the same input yields the same
// persisted totals.
func (s *CartService) Replace(ctx context.Context, userID uint, items []transport.ItemInput) (*models.Cart, error) {
	normalized, currency := NormalizeItems(items)
	return s.Repo.ReplaceCartItems(ctx, userID, normalized, currency)
}

// NormalizeItems coerces untrusted cart input into persistable line items.
// Zero and negative quantities are dropped, prices clamp to ≥0 and line
// totals are always recomputed server-side. The returned currency is the
// first item's, for carts that have none yet.
func NormalizeItems(items []transport.ItemInput) ([]models.CartItem, string) {
	out := make([]models.CartItem, 0, len(items))
	currency := ""
	for _, in := range items {
		qty := money.NonNegativeInt(in.Quantity, 0)
		if qty <= 0 {
			continue
		}

		raw := string(in.Product)
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

		out = append(out, models.CartItem{
			ProductID:       productID,
			ProductSnapshot: snap.JSON(),
			Quantity:        qty,
			UnitPriceCents:  snap.PriceCents,
			LineTotalCents:  qty * snap.PriceCents,
		})
	}
	return out, currency
}

func cartView(cart *models.Cart) transport.CartResponse {
	items := make([]transport.CartItemView, 0, len(cart.Items))
	for _, ci := range cart.Items {
		fb := snapshot.Fallback{Name: "", PriceCents: ci.UnitPriceCents}
		if ci.ProductID != nil {
			fb.ID = *ci.ProductID
		}
		snap := snapshot.Build(ci.ProductSnapshot, fb)
		items = append(items, transport.CartItemView{
			ProductID: ci.ProductID,
			Product:   snap.Map(),
			Quantity:  ci.Quantity,
			UnitPrice: ci.UnitPriceCents,
			LineTotal: ci.LineTotalCents,
		})
	}
	return transport.CartResponse{
		CartID:      cart.ID,
		Status:      cart.Status,
		TotalItems:  cart.TotalItems,
		TotalAmount: cart.TotalCents,
		Currency:    cart.Currency,
		Items:       items,
	}
}
