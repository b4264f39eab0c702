package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

// Seed garante a linha de configuração do estabelecimento e alguns dados
// iniciais quando o banco está vazio.
func Seed(db *gorm.DB, log *zap.Logger) error {
	if err := seedSettings(db, log); err != nil {
		return err
	}
	if err := seedProducts(db, log); err != nil {
		return err
	}
	return seedCoupons(db, log)
}

func seedSettings(db *gorm.DB, log *zap.Logger) error {
	var s model.Settings
	err := db.First(&s).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	log.Info("configuração do estabelecimento não encontrada, criando padrão")
	return db.Create(&model.Settings{
		Nome:        "Meu Restaurante",
		DeliveryFee: 10.0,
		MinOrder:    20.0,
		Aberto:      true,
	}).Error
}

func seedProducts(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Info("cardápio vazio, criando produtos de exemplo")
	produtos := []model.Product{
		{Nome: "X-Burguer da Casa", Descricao: "Pão brioche, 160g de blend, queijo prato", Categoria: "lanches", Preco: 28.90, Disponivel: true},
		{Nome: "Batata Frita Grande", Descricao: "Porção para dividir, com cheddar", Categoria: "porcoes", Preco: 24.00, Disponivel: true},
		{Nome: "Refrigerante Lata", Descricao: "350ml, sabores variados", Categoria: "bebidas", Preco: 6.50, Disponivel: true},
	}
	return db.Create(&produtos).Error
}

func seedCoupons(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Coupon{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Info("criando cupons de exemplo")
	until := time.Now().AddDate(0, 1, 0)
	cupons := []model.Coupon{
		{Code: "bemvindo10", Type: model.CouponPercentage, Value: 10, FirstPurchaseOnly: true, Active: true, ValidUntil: &until},
		{Code: "fretegratis", Type: model.CouponFreeDelivery, MinOrder: 50, Active: true, ValidUntil: &until},
	}
	return db.Create(&cupons).Error
}
