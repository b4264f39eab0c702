package model

import "time"

// Settings guarda a configuração do estabelecimento. Existe uma única linha,
// criada pelo seed. OrderSeq é o contador atômico usado para gerar o número
// legível dos pedidos.
type Settings struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nome        string    `gorm:"not null;size:100" json:"nome"`
	Whatsapp    string    `gorm:"size:20" json:"whatsapp"`
	DeliveryFee float64   `json:"delivery_fee"`
	MinOrder    float64   `json:"min_order"`
	Aberto      bool      `gorm:"default:true" json:"aberto"`
	OrderSeq    int64     `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName mantém o nome usado desde a primeira migração.
func (Settings) TableName() string { return "establishment_settings" }
