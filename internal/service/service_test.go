package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ericoliveiras/meu-restaurante/internal/database"
	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/repository"
)

// newTestDB abre um sqlite em memória com o schema migrado. Cada teste usa
// um banco próprio (nomeado pelo teste) para poder rodar em paralelo.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedSettings(t *testing.T, db *gorm.DB, deliveryFee float64) model.Settings {
	t.Helper()
	s := model.Settings{Nome: "Restaurante Teste", DeliveryFee: deliveryFee, Aberto: true}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedProduct(t *testing.T, db *gorm.DB, nome string, preco float64) model.Product {
	t.Helper()
	p := model.Product{Nome: nome, Preco: preco, Disponivel: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// captureBus registra os eventos publicados, no lugar do hub WebSocket.
type captureBus struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	Topic string
	Event Event
}

func (b *captureBus) Publish(topic string, message any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ev, ok := message.(Event); ok {
		b.events = append(b.events, capturedEvent{Topic: topic, Event: ev})
	}
}

func (b *captureBus) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

func (b *captureBus) byType(eventType string) []capturedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []capturedEvent
	for _, e := range b.events {
		if e.Event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestServices(t *testing.T, db *gorm.DB) (*OrderService, *Reconciler, *captureBus) {
	t.Helper()
	repo := repository.New(db)
	bus := &captureBus{}
	log := zap.NewNop()
	reconciler := NewReconciler(repo, bus, log)
	orders := NewOrderService(repo, nil, reconciler, bus, log)
	return orders, reconciler, bus
}

func checkout(t *testing.T, orders *OrderService, in CheckoutInput) *model.Order {
	t.Helper()
	order, err := orders.Checkout(context.Background(), in)
	require.NoError(t, err)
	return order
}
