package model

import (
	"time"

	"gorm.io/gorm"
)

// CouponType define a regra de desconto do cupom.
type CouponType string

const (
	CouponPercentage   CouponType = "percentage"
	CouponFixed        CouponType = "fixed"
	CouponFreeDelivery CouponType = "free_delivery"
)

// Coupon representa um cupom de desconto. O código é imutável após a criação
// e sempre armazenado em minúsculas.
type Coupon struct {
	ID    uint       `gorm:"primaryKey" json:"id"`
	Code  string     `gorm:"uniqueIndex;not null;size:40" json:"code"`
	Type  CouponType `gorm:"type:varchar(20);not null" json:"type"`
	Value float64    `json:"value"`

	MinOrder    float64 `json:"min_order"`
	MaxDiscount float64 `json:"max_discount"` // 0 = sem teto

	UsageLimit int `json:"usage_limit"` // 0 = ilimitado
	UsageCount int `json:"usage_count"`

	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	FirstPurchaseOnly bool `json:"first_purchase_only"`
	Active            bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
