package service

import (
	"fmt"
	"time"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

const (
	EventNewOrder            = "NEW_ORDER"
	EventOrderStatusUpdate   = "ORDER_STATUS_UPDATE"
	EventPaymentStatusUpdate = "PAYMENT_STATUS_UPDATE"
)

// TopicOrders é o tópico assinado pelo painel do lojista: recebe todos os
// eventos de todos os pedidos.
const TopicOrders = "orders"

func TopicOrder(id uint) string    { return fmt.Sprintf("order:%d", id) }
func TopicPayment(id int64) string { return fmt.Sprintf("payment:%d", id) }

// Event é a mensagem enviada pelo canal WebSocket.
type Event struct {
	Type      string       `json:"type"`
	OrderID   uint         `json:"orderId,omitempty"`
	PaymentID int64        `json:"paymentId,omitempty"`
	Status    string       `json:"status,omitempty"`
	Order     *model.Order `json:"order,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Broadcaster abstrai o hub WebSocket para os serviços.
type Broadcaster interface {
	Publish(topic string, message any)
}

// noopBroadcaster é usado quando nenhum hub foi ligado (testes).
type noopBroadcaster struct{}

func (noopBroadcaster) Publish(string, any) {}
