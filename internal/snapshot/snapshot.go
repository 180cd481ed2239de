// Package snapshot builds the frozen product descriptor stored with cart and
// order line items. The descriptor stays usable even when the catalog row it
// came from was edited or deleted.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/money"
)

// Snapshot is the normalized descriptor. Extra keeps whatever decorative
// fields (image, sku, descripcion...) the raw blob carried, without trusting
// their shape.
type Snapshot struct {
	ID         int64
	Name       string
	PriceCents int64
	Currency   string
	Extra      map[string]any
}

// Fallback supplies values taken from the owning line item when the raw blob
// is missing a field.
type Fallback struct {
	ID         int64
	Name       string
	PriceCents int64
	Currency   string
}

// Build resolves each field raw → fallback → synthesized default. The result
// always has a non-zero ID, a non-empty name, a price ≥ 0 and a currency code.
func Build(raw string, fb Fallback) Snapshot {
	obj := money.ParseObject(raw)

	s := Snapshot{
		ID:         fb.ID,
		Name:       fb.Name,
		PriceCents: fb.PriceCents,
		Currency:   fb.Currency,
	}

	if obj != nil {
		if id := money.NonNegativeFromAny(obj["id"], 0); id > 0 {
			s.ID = id
		}
		if name, ok := obj["name"].(string); ok && name != "" {
			s.Name = name
		}
		if _, ok := obj["price"]; ok {
			s.PriceCents = money.NonNegativeFromAny(obj["price"], fb.PriceCents)
		}
		if cur, ok := obj["currency"].(string); ok && cur != "" {
			s.Currency = cur
		}
		for k, v := range obj {
			switch k {
			case "id", "name", "price", "currency":
			default:
				if s.Extra == nil {
					s.Extra = map[string]any{}
				}
				s.Extra[k] = v
			}
		}
	}

	if s.ID <= 0 {
		s.ID = time.Now().UnixMilli()
	}
	if s.Name == "" {
		s.Name = fmt.Sprintf("Producto %d", s.ID)
	}
	if s.PriceCents < 0 {
		s.PriceCents = 0
	}
	if s.Currency == "" {
		s.Currency = models.DefaultCurrency
	}
	return s
}

// JSON serializes the snapshot for storage, decorative fields included.
func (s Snapshot) JSON() string {
	out := make(map[string]any, len(s.Extra)+4)
	for k, v := range s.Extra {
		out[k] = v
	}
	out["id"] = s.ID
	out["name"] = s.Name
	out["price"] = s.PriceCents
	out["currency"] = s.Currency

	data, err := json.Marshal(out)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Map returns the API-shaped representation used when rehydrating carts and
// orders for responses.
func (s Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.Extra)+4)
	for k, v := range s.Extra {
		out[k] = v
	}
	out["id"] = s.ID
	out["name"] = s.Name
	out["price"] = s.PriceCents
	out["currency"] = s.Currency
	return out
}
