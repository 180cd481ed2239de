package service

import (
	"context"

	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/money"
	"github.com/jpcardenas/tienda/internal/transport"
)

// Merge reconciles a guest's locally kept cart with the user's server cart.
// It runs once per guest→user transition: an empty local list is a no-op, a
// non-empty one is merged, clamped to stock and persisted as the new active
// cart so the client can clear its local copy exactly once.
func (s *CartService) Merge(ctx context.Context, userID uint, local []transport.ItemInput) (transport.CartResponse, error) {
	if len(local) == 0 {
		return s.Get(ctx, userID)
	}

	var serverItems []models.CartItem
	currency := ""
	cart, err := s.Repo.ActiveCart(ctx, userID)
	if err != nil {
		return transport.CartResponse{}, err
	}
	if cart != nil {
		serverItems = cart.Items
		currency = cart.Currency
	}

	localItems, localCurrency := NormalizeItems(local)
	if currency == "" {
		currency = localCurrency
	}

	ids := collectProductIDs(serverItems, localItems)
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return transport.CartResponse{}, err
	}

	stock := make(map[int64]int64, len(products))
	for id, p := range products {
		stock[id] = p.Stock
	}
	// The catalog row wins; a blob-embedded stock field is only a fallback
	// ceiling for products no longer in the catalog.
	for _, it := range append(append([]models.CartItem{}, serverItems...), localItems...) {
		if it.ProductID == nil {
			continue
		}
		if _, ok := stock[*it.ProductID]; ok {
			continue
		}
		if obj := money.ParseObject(it.ProductSnapshot); obj != nil {
			if _, has := obj["stock"]; has {
				stock[*it.ProductID] = money.NonNegativeFromAny(obj["stock"], 0)
			}
		}
	}

	merged := MergeCartItems(serverItems, localItems, stock)

	replaced, err := s.Repo.ReplaceCartItems(ctx, userID, merged, currency)
	if err != nil {
		return transport.CartResponse{}, err
	}
	return cartView(replaced), nil
}

// MergeCartItems unions two item lists keyed by product id. Items present in
// both sum their quantities; every item with a known stock ceiling is clamped
// to it. Server items keep their position and snapshot; new local items
// append after them. Items clamped to zero are dropped.
func MergeCartItems(server, local []models.CartItem, stock map[int64]int64) []models.CartItem {
	out := make([]models.CartItem, 0, len(server)+len(local))
	byProduct := make(map[int64]int, len(server))

	for _, it := range server {
		if it.ProductID != nil {
			byProduct[*it.ProductID] = len(out)
		}
		out = append(out, it)
	}

	for _, it := range local {
		if it.ProductID != nil {
			if idx, ok := byProduct[*it.ProductID]; ok {
				out[idx].Quantity += it.Quantity
				continue
			}
			byProduct[*it.ProductID] = len(out)
		}
		out = append(out, it)
	}

	kept := out[:0]
	for _, it := range out {
		if it.ProductID != nil {
			if ceiling, ok := stock[*it.ProductID]; ok && it.Quantity > ceiling {
				it.Quantity = ceiling
			}
		}
		if it.Quantity <= 0 {
			continue
		}
		it.LineTotalCents = it.Quantity * it.UnitPriceCents
		kept = append(kept, it)
	}
	return kept
}

func collectProductIDs(lists ...[]models.CartItem) []int64 {
	seen := map[int64]bool{}
	var ids []int64
	for _, list := range lists {
		for _, it := range list {
			if it.ProductID != nil && !seen[*it.ProductID] {
				seen[*it.ProductID] = true
				ids = append(ids, *it.ProductID)
			}
		}
	}
	return ids
}
