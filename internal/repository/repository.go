package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository agrupa os repositórios da aplicação sobre uma mesma conexão.
type Repository struct {
	Orders    OrderRepository
	Products  ProductRepository
	Coupons   CouponRepository
	Customers CustomerRepository
	Settings  SettingsRepository

	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{
		Orders:    &orderRepo{db: db},
		Products:  &productRepo{db: db},
		Coupons:   &couponRepo{db: db},
		Customers: &customerRepo{db: db},
		Settings:  &settingsRepo{db: db},
		db:        db,
	}
}

// WithTx executa fn com um conjunto de repositórios amarrados à mesma
// transação. Qualquer erro retornado faz rollback de tudo.
func (r *Repository) WithTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
