package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string          `gorm:"not null"                  json:"name"`
	Description string          `gorm:"not null"                  json:"description"`
	Category    string          `gorm:"index;not null"            json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric;not null"     json:"price"`
	Sizes       string          `json:"sizes"`
	Colors      string          `json:"colors"`
	ImageURL    string          `json:"image_url"`
}

// Inventory is the authoritative stock counter for one product. At most one
// record exists per product; quantity never goes below zero because every
// decrement is a conditional update, not a read-then-write.
type Inventory struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint `gorm:"uniqueIndex;not null"     json:"product_id"`
	Quantity  uint `gorm:"not null;default:0"       json:"quantity"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

// Order records one purchased cart line. TotalPrice is frozen at creation,
// so later price changes never touch existing orders. Only Status is ever
// updated afterwards.
type Order struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Number     string          `gorm:"uniqueIndex;not null"     json:"number"`
	UserID     uint            `gorm:"index;not null"           json:"user_id"`
	ProductID  uint            `gorm:"not null"                 json:"product_id"`
	Quantity   uint            `gorm:"not null"                 json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:numeric;not null"    json:"total_price"`
	Status     string          `gorm:"not null;default:pending" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
