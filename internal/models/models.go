package models

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	CartStatusActive    = "active"
	CartStatusSubmitted = "submitted"
	CartStatusAbandoned = "abandoned"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

const DefaultCurrency = "COP"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string    `gorm:"unique;not null"           json:"email"`
	Name         string    `gorm:"not null"                  json:"name"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Role         string    `gorm:"not null;default:customer" json:"role"`
	IsActive     bool      `gorm:"not null;default:true"     json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	JTI       string `gorm:"index"           json:"jti"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string `gorm:"not null"                    json:"name"`
	Description string `json:"description"`
	SKU         string `gorm:"index"                       json:"sku"`
	PriceCents  int64  `gorm:"not null"                    json:"price_cents"`
	Currency    string `gorm:"size:3;not null;default:COP" json:"currency"`
	Stock       int64  `gorm:"not null;default:0"          json:"stock"`
	IsActive    bool   `gorm:"not null;default:true"       json:"is_active"`
}

// Cart caches its aggregate totals so reads never touch cart_items. At most
// one cart per user may hold status "active"; every cart write abandons the
// others.
type Cart struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"      json:"id"`
	UserID         uint       `gorm:"index;not null"                json:"user_id"`
	Status         string     `gorm:"not null;default:active;index" json:"status"`
	TotalItems     int64      `gorm:"not null;default:0"            json:"total_items"`
	TotalCents     int64      `gorm:"not null;default:0"            json:"total_cents"`
	Currency       string     `gorm:"size:3;not null;default:COP"   json:"currency"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// CartItem freezes the product descriptor as JSON at write time. ProductID is
// nullable: the catalog row may be deleted later, the snapshot survives.
type CartItem struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID          uint   `gorm:"index;not null"           json:"cart_id"`
	ProductID       *int64 `json:"product_id,omitempty"`
	ProductSnapshot string `gorm:"type:text"                json:"product_snapshot"`
	Quantity        int64  `gorm:"not null"                 json:"quantity"`
	UnitPriceCents  int64  `gorm:"not null"                 json:"unit_price_cents"`
	LineTotalCents  int64  `gorm:"not null"                 json:"line_total_cents"`
}

// Order is immutable after creation except for Status, which only moves
// through appended OrderStatusHistory rows. TotalCents is computed once as
// subtotal + shipping - discount.
type Order struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code   string `gorm:"uniqueIndex;not null"     json:"code"`
	UserID *uint  `gorm:"index"                    json:"user_id,omitempty"`
	CartID *uint  `json:"cart_id,omitempty"`

	CustomerName    string `gorm:"not null" json:"customer_name"`
	CustomerEmail   string `gorm:"not null" json:"customer_email"`
	CustomerPhone   string `gorm:"not null" json:"customer_phone"`
	CustomerCity    string `gorm:"not null" json:"customer_city"`
	CustomerAddress string `gorm:"not null" json:"customer_address"`
	CustomerNotes   string `json:"customer_notes"`

	ShippingOptionID *uint `json:"shipping_option_id,omitempty"`
	PaymentMethodID  *uint `json:"payment_method_id,omitempty"`

	SubtotalCents     int64  `gorm:"not null"                    json:"subtotal_cents"`
	ShippingCostCents int64  `gorm:"not null;default:0"          json:"shipping_cost_cents"`
	DiscountCents     int64  `gorm:"not null;default:0"          json:"discount_cents"`
	TotalCents        int64  `gorm:"not null"                    json:"total_cents"`
	Currency          string `gorm:"size:3;not null;default:COP" json:"currency"`

	Status      string    `gorm:"not null;default:pending;index" json:"status"`
	SubmittedAt time.Time `gorm:"not null"                       json:"submitted_at"`

	BillingAddress  string `gorm:"type:text" json:"billing_address"`
	ShippingAddress string `gorm:"type:text" json:"shipping_address"`
	Metadata        string `gorm:"type:text" json:"metadata"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         uint   `gorm:"index;not null"           json:"order_id"`
	ProductID       *int64 `json:"product_id,omitempty"`
	Name            string `gorm:"not null"                 json:"name"`
	SKU             string `json:"sku"`
	Quantity        int64  `gorm:"not null"                 json:"quantity"`
	UnitPriceCents  int64  `gorm:"not null"                 json:"unit_price_cents"`
	LineTotalCents  int64  `gorm:"not null"                 json:"line_total_cents"`
	ProductSnapshot string `gorm:"type:text"                json:"product_snapshot"`
}

// OrderStatusHistory is append-only. The first row for every order carries
// FromStatus nil and ToStatus "pending".
type OrderStatusHistory struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    uint      `gorm:"index;not null"           json:"order_id"`
	FromStatus *string   `json:"from_status,omitempty"`
	ToStatus   string    `gorm:"not null"                 json:"to_status"`
	ChangedBy  string    `gorm:"not null"                 json:"changed_by"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

type ShippingOption struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"    json:"id"`
	Code       string `gorm:"uniqueIndex;not null"        json:"code"`
	Label      string `gorm:"not null"                    json:"label"`
	PriceCents int64  `gorm:"not null"                    json:"price_cents"`
	Currency   string `gorm:"size:3;not null;default:COP" json:"currency"`
	IsActive   bool   `gorm:"not null;default:true"       json:"is_active"`
}

type PaymentMethod struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code     string `gorm:"uniqueIndex;not null"     json:"code"`
	Label    string `gorm:"not null"                 json:"label"`
	IsActive bool   `gorm:"not null;default:true"    json:"is_active"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&ShippingOption{},
		&PaymentMethod{},
	}
}
