package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, s *model.Settings) error

	// NextOrderSeq incrementa o contador de pedidos e devolve o novo valor.
	// Deve rodar dentro da transação do checkout: o lock de linha serializa
	// escritores concorrentes e cada um enxerga um valor distinto.
	NextOrderSeq(ctx context.Context, settingsID uint) (int64, error)
}

type settingsRepo struct{ db *gorm.DB }

func (r *settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	err := r.db.WithContext(ctx).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *settingsRepo) Update(ctx context.Context, s *model.Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *settingsRepo) NextOrderSeq(ctx context.Context, settingsID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Settings{}).
		Where("id = ?", settingsID).
		UpdateColumn("order_seq", gorm.Expr("order_seq + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var s model.Settings
	if err := r.db.WithContext(ctx).First(&s, settingsID).Error; err != nil {
		return 0, err
	}
	return s.OrderSeq, nil
}
