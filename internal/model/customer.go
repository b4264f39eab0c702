package model

import "time"

// Customer agrega o histórico de compras de um cliente, identificado pelo
// número de WhatsApp. Os totais são atualizados na mesma transação que cria
// o pedido.
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nome        string    `gorm:"size:100" json:"nome"`
	Whatsapp    string    `gorm:"uniqueIndex;not null;size:20" json:"whatsapp"`
	Endereco    string    `gorm:"size:255" json:"endereco"`
	TotalOrders int       `json:"total_orders"`
	TotalSpent  float64   `json:"total_spent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}
