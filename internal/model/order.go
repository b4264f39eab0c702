package model

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus define os possíveis status do ciclo de vida de um pedido.
type OrderStatus string

const (
	StatusPending     OrderStatus = "PENDING"
	StatusConfirmed   OrderStatus = "CONFIRMED"
	StatusPreparing   OrderStatus = "PREPARING"
	StatusReady       OrderStatus = "READY"
	StatusOutDelivery OrderStatus = "OUT_DELIVERY"
	StatusDelivered   OrderStatus = "DELIVERED"
	StatusCancelled   OrderStatus = "CANCELLED"
)

// Terminal informa se o status encerra o ciclo de vida do pedido.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentStatus é o status do pagamento, distinto do status do pedido.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

const (
	MetodoPix    = "pix"
	MetodoCartao = "credit_card"
)

// Order representa um pedido feito na loja.
type Order struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Number string `gorm:"uniqueIndex;size:20" json:"number"`

	// Dados do cliente no momento do pedido (snapshot, sem FK).
	ClienteNome     string `gorm:"not null;size:100" json:"cliente_nome"`
	ClienteWhatsapp string `gorm:"not null;size:20;index" json:"cliente_whatsapp"`
	Endereco        string `gorm:"size:255" json:"endereco"`
	Observacao      string `gorm:"type:text" json:"observacao"`

	Subtotal    float64 `gorm:"not null" json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Discount    float64 `json:"discount"`
	Total       float64 `gorm:"not null" json:"total"` // Total = Subtotal + DeliveryFee - Discount

	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentMethod string        `gorm:"size:30" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	// ID do pagamento no Mercado Pago (ponteiro para ser opcional no início).
	PaymentID         *int64 `gorm:"uniqueIndex" json:"payment_id,omitempty"`
	ExternalReference string `gorm:"uniqueIndex;size:64" json:"external_reference"`

	CouponCode string `gorm:"size:40" json:"coupon_code,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	// Marcos do ciclo de vida.
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	PreparingAt      *time.Time `json:"preparing_at,omitempty"`
	ReadyAt          *time.Time `json:"ready_at,omitempty"`
	OutForDeliveryAt *time.Time `json:"out_for_delivery_at,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem representa um item dentro de um Order.
// Nome e preço são copiados do produto no momento da compra, para que
// edições futuras do cardápio não alterem pedidos antigos.
type OrderItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	ProductID     uint      `gorm:"not null" json:"product_id"`
	NomeProduto   string    `gorm:"not null;size:100" json:"nome_produto"`
	Quantidade    int       `gorm:"not null" json:"quantidade"`
	PrecoUnitario float64   `gorm:"not null" json:"preco_unitario"`
	Subtotal      float64   `gorm:"not null" json:"subtotal"`
	CreatedAt     time.Time `json:"-"`
}
