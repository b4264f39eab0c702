package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

// Connect abre a conexão com o Postgres e roda as migrações automáticas.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate executa o AutoMigrate de todos os modelos. Separado de Connect
// para os testes poderem migrar um banco sqlite em memória.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Settings{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Coupon{},
		&model.Customer{},
	)
	if err != nil {
		return fmt.Errorf("falha ao executar migrações: %w", err)
	}
	return nil
}
