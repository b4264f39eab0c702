package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/repository"
)

// Reconciler converge os sinais de status de pagamento (webhook do
// provedor, poller do servidor, conferência manual e retorno síncrono do
// cartão) em uma única transição de status do pedido.
//
// Todos os caminhos passam por Apply. A transição é uma escrita condicional
// (WHERE status = 'PENDING'): o primeiro sinal terminal vence e os demais
// viram no-op, inclusive um webhook atrasado com status conflitante. O
// pedido nunca regride de CONFIRMED/CANCELLED de volta para PENDING.
type Reconciler struct {
	repo *repository.Repository
	bus  Broadcaster
	log  *zap.Logger
	now  func() time.Time
}

func NewReconciler(repo *repository.Repository, bus Broadcaster, log *zap.Logger) *Reconciler {
	if bus == nil {
		bus = noopBroadcaster{}
	}
	return &Reconciler{repo: repo, bus: bus, log: log, now: time.Now}
}

// Apply aplica o status de pagamento ao pedido. Retorna true quando este
// sinal foi o vencedor (o pedido mudou de status); false quando o sinal é
// redundante, atrasado ou o pagamento segue pendente.
func (r *Reconciler) Apply(ctx context.Context, order *model.Order, status model.PaymentStatus) (bool, error) {
	var (
		next    model.OrderStatus
		updates map[string]any
		now     = r.now()
	)

	switch status {
	case model.PaymentApproved:
		next = model.StatusConfirmed
		updates = map[string]any{
			"status":         model.StatusConfirmed,
			"payment_status": model.PaymentApproved,
			"confirmed_at":   now,
		}
	case model.PaymentRejected:
		next = model.StatusCancelled
		updates = map[string]any{
			"status":         model.StatusCancelled,
			"payment_status": model.PaymentRejected,
			"cancelled_at":   now,
		}
	default:
		// pending / in_process: nada a fazer, o pedido já está PENDING.
		return false, nil
	}

	rows, err := r.repo.Orders.UpdateStatusWhere(ctx, order.ID, []model.OrderStatus{model.StatusPending}, updates)
	if err != nil {
		return false, err
	}
	if rows == 0 {
		r.log.Debug("sinal de pagamento descartado, pedido já saiu de PENDING",
			zap.Uint("order_id", order.ID),
			zap.String("payment_status", string(status)))
		return false, nil
	}

	order.Status = next
	order.PaymentStatus = status
	if next == model.StatusConfirmed {
		order.ConfirmedAt = &now
	} else {
		order.CancelledAt = &now
	}

	r.log.Info("pagamento reconciliado",
		zap.Uint("order_id", order.ID),
		zap.String("payment_status", string(status)),
		zap.String("order_status", string(next)))

	if order.PaymentID != nil {
		ev := Event{
			Type:      EventPaymentStatusUpdate,
			OrderID:   order.ID,
			PaymentID: *order.PaymentID,
			Status:    string(status),
			Timestamp: now,
		}
		r.bus.Publish(TopicPayment(*order.PaymentID), ev)
		r.bus.Publish(TopicOrders, ev)
	}

	ev := Event{
		Type:      EventOrderStatusUpdate,
		OrderID:   order.ID,
		Status:    string(next),
		Timestamp: now,
	}
	r.bus.Publish(TopicOrder(order.ID), ev)
	r.bus.Publish(TopicOrders, ev)

	return true, nil
}
