package transport

import (
	"encoding/json"
	"time"
)

// ItemInput is a client-supplied cart line: an opaque product blob plus a
// quantity. Both are normalized server-side before anything is persisted.
type ItemInput struct {
	Product  json.RawMessage `json:"product"`
	Quantity float64         `json:"quantity"`
}

type ReplaceCartRequest struct {
	Items []ItemInput `json:"items"`
}

type MergeCartRequest struct {
	Items []ItemInput `json:"items"`
}

type CartItemView struct {
	ProductID *int64         `json:"productId"`
	Product   map[string]any `json:"product"`
	Quantity  int64          `json:"quantity"`
	UnitPrice int64          `json:"unitPrice"`
	LineTotal int64          `json:"lineTotal"`
}

type CartResponse struct {
	CartID      uint           `json:"cartId"`
	Status      string         `json:"status"`
	TotalItems  int64          `json:"totalItems"`
	TotalAmount int64          `json:"totalAmount"`
	Currency    string         `json:"currency"`
	Items       []CartItemView `json:"items"`
}

type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type CreateOrderRequest struct {
	Customer         CustomerInput `json:"customer"`
	ShippingOptionID *uint         `json:"shippingOptionId"`
	PaymentMethodID  *uint         `json:"paymentMethodId"`
	Items            []ItemInput   `json:"items"`
}

type ShippingOptionView struct {
	ID         uint   `json:"id"`
	Code       string `json:"code"`
	Label      string `json:"label"`
	PriceCents int64  `json:"priceCents"`
}

type PaymentMethodView struct {
	ID    uint   `json:"id"`
	Code  string `json:"code"`
	Label string `json:"label"`
}

type OrderItemView struct {
	ProductID *int64         `json:"productId"`
	Name      string         `json:"name"`
	SKU       string         `json:"sku,omitempty"`
	Product   map[string]any `json:"product"`
	Quantity  int64          `json:"quantity"`
	UnitPrice int64          `json:"unitPrice"`
	LineTotal int64          `json:"lineTotal"`
}

// OrderView is the receipt shape the checkout UI renders: generated code,
// computed totals and the resolved shipping/payment descriptors, not just ids.
type OrderView struct {
	ID          uint                `json:"id"`
	Code        string              `json:"code"`
	Status      string              `json:"status"`
	Customer    CustomerInput       `json:"customer"`
	Subtotal    int64               `json:"subtotalCents"`
	ShippingFee int64               `json:"shippingCostCents"`
	Discount    int64               `json:"discountCents"`
	Total       int64               `json:"totalCents"`
	Currency    string              `json:"currency"`
	Shipping    *ShippingOptionView `json:"shipping,omitempty"`
	Payment     *PaymentMethodView  `json:"payment,omitempty"`
	Items       []OrderItemView     `json:"items"`
	SubmittedAt time.Time           `json:"submittedAt"`
}

type CreateOrderResponse struct {
	Order OrderView `json:"order"`
}

type ListOrdersResponse struct {
	Orders []OrderView `json:"orders"`
}
