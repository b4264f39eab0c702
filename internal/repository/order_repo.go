package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

type OrderListFilter struct {
	Status   *model.OrderStatus
	Whatsapp string
	Limit    int
	Offset   int
}

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	GetByPaymentID(ctx context.Context, paymentID int64) (*model.Order, error)
	GetByExternalReference(ctx context.Context, ref string) (*model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	SetPayment(ctx context.Context, id uint, paymentID int64, method string) error

	// UpdateStatusWhere aplica updates somente se o pedido ainda estiver em
	// um dos status informados e devolve quantas linhas mudaram. É o guarda
	// condicional que impede um sinal atrasado de sobrescrever um status já
	// terminal.
	UpdateStatusWhere(ctx context.Context, id uint, from []model.OrderStatus, updates map[string]any) (int64, error)
}

type orderRepo struct{ db *gorm.DB }

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	var ord model.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByPaymentID(ctx context.Context, paymentID int64) (*model.Order, error) {
	var ord model.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "payment_id = ?", paymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByExternalReference(ctx context.Context, ref string) (*model.Order, error) {
	var ord model.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "external_reference = ?", ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Whatsapp != "" {
		q = q.Where("cliente_whatsapp = ?", f.Whatsapp)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []model.Order
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Preload("Items").Find(&list).Error
	return list, total, err
}

func (r *orderRepo) SetPayment(ctx context.Context, id uint, paymentID int64, method string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(map[string]any{
		"payment_id":     paymentID,
		"payment_method": method,
	}).Error
}

func (r *orderRepo) UpdateStatusWhere(ctx context.Context, id uint, from []model.OrderStatus, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}
