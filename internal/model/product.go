package model

import (
	"time"

	"gorm.io/gorm"
)

// Product representa um item do cardápio do restaurante.
type Product struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Nome       string         `gorm:"not null;size:100" json:"nome"`
	Descricao  string         `gorm:"type:text" json:"descricao"`
	Categoria  string         `gorm:"size:50;index" json:"categoria"`
	Preco      float64        `gorm:"not null" json:"preco"`
	ImagemURL  string         `json:"imagem_url"`
	Disponivel bool           `gorm:"default:true" json:"disponivel"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"-"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"` // Para "soft delete"
}
