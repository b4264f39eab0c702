package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, onlyAvailable bool) ([]model.Product, error)
	AvailableByIDs(ctx context.Context, ids []uint) ([]model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) List(ctx context.Context, onlyAvailable bool) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Order("categoria, nome")
	if onlyAvailable {
		q = q.Where("disponivel = ?", true)
	}
	var list []model.Product
	err := q.Find(&list).Error
	return list, err
}

func (r *productRepo) AvailableByIDs(ctx context.Context, ids []uint) ([]model.Product, error) {
	var list []model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ? AND disponivel = ?", ids, true).
		Find(&list).Error
	return list, err
}
