package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

type CouponRepository interface {
	Create(ctx context.Context, c *model.Coupon) error
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)

	// RegisterUse incrementa o contador de uso respeitando o limite. Retorna
	// false quando o cupom já atingiu usage_limit (outro pedido pode ter
	// consumido a última vaga entre a validação e o checkout).
	RegisterUse(ctx context.Context, id uint) (bool, error)
}

type couponRepo struct{ db *gorm.DB }

func (r *couponRepo) Create(ctx context.Context, c *model.Coupon) error {
	c.Code = strings.ToLower(strings.TrimSpace(c.Code))
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *couponRepo) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).
		First(&c, "code = ?", strings.ToLower(strings.TrimSpace(code))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *couponRepo) List(ctx context.Context) ([]model.Coupon, error) {
	var list []model.Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *couponRepo) RegisterUse(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR usage_count < usage_limit)", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
