package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

type CustomerRepository interface {
	FindByWhatsapp(ctx context.Context, whatsapp string) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)

	// RecordOrder cria ou atualiza o cliente e soma o pedido nos agregados.
	// Chamado dentro da transação do checkout para não perder contagem sob
	// pedidos concorrentes do mesmo cliente.
	RecordOrder(ctx context.Context, c *model.Customer, orderTotal float64) error
}

type customerRepo struct{ db *gorm.DB }

func (r *customerRepo) FindByWhatsapp(ctx context.Context, whatsapp string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, "whatsapp = ?", whatsapp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *customerRepo) List(ctx context.Context) ([]model.Customer, error) {
	var list []model.Customer
	err := r.db.WithContext(ctx).Order("total_spent DESC").Find(&list).Error
	return list, err
}

func (r *customerRepo) RecordOrder(ctx context.Context, c *model.Customer, orderTotal float64) error {
	c.TotalOrders = 1
	c.TotalSpent = orderTotal
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "whatsapp"}},
		DoUpdates: clause.Assignments(map[string]any{
			"nome":         c.Nome,
			"endereco":     c.Endereco,
			"total_orders": gorm.Expr("customers.total_orders + 1"),
			"total_spent":  gorm.Expr("customers.total_spent + ?", orderTotal),
		}),
	}).Create(c).Error
}
