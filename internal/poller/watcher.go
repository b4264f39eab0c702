package poller

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

const (
	// Intervalo entre consultas enquanto o pagamento segue pendente.
	DefaultInterval = 2 * time.Second
	// Janela máxima de acompanhamento, a mesma do QR code exibido no
	// frontend. Pagamento que ficar pendente além dela fica por conta do
	// webhook e da conferência manual.
	DefaultMaxWatch = 30 * time.Minute
	// Depois de maxRetries falhas consecutivas o watcher desiste; sobra o
	// caminho manual do "já paguei" (check-payment).
	maxRetries = 5
	maxBackoff = 30 * time.Second
)

// CheckFunc consulta o status atual de um pagamento no provedor.
type CheckFunc func(ctx context.Context, paymentID int64) (model.PaymentStatus, error)

// ApplyFunc entrega o status ao reconciliador.
type ApplyFunc func(ctx context.Context, order *model.Order, status model.PaymentStatus) (bool, error)

// Watcher acompanha pagamentos PIX pendentes direto do servidor, como um
// dos canais que alimentam o reconciliador (os outros são o webhook e a
// conferência manual). Um goroutine por pagamento, encerrado no primeiro
// status terminal ou no cancelamento do contexto.
type Watcher struct {
	check    CheckFunc
	apply    ApplyFunc
	interval time.Duration
	maxWatch time.Duration
	backoff  func(retry int) time.Duration
	log      *zap.Logger
}

func New(check CheckFunc, apply ApplyFunc, log *zap.Logger) *Watcher {
	return &Watcher{
		check:    check,
		apply:    apply,
		interval: DefaultInterval,
		maxWatch: DefaultMaxWatch,
		backoff:  RetryDelay,
		log:      log,
	}
}

// Watch inicia o acompanhamento em background.
func (w *Watcher) Watch(ctx context.Context, order *model.Order, paymentID int64) {
	go w.run(ctx, order, paymentID)
}

func (w *Watcher) run(ctx context.Context, order *model.Order, paymentID int64) {
	ctx, cancel := context.WithTimeout(ctx, w.maxWatch)
	defer cancel()

	retries := 0
	delay := w.interval

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				w.log.Info("janela de acompanhamento do PIX encerrada, aguardando webhook ou conferência manual",
					zap.Int64("payment_id", paymentID),
					zap.Uint("order_id", order.ID))
			}
			return
		case <-time.After(delay):
		}

		status, err := w.check(ctx, paymentID)
		if err != nil {
			retries++
			if retries >= maxRetries {
				w.log.Warn("watcher desistiu após falhas consecutivas, aguardando webhook ou conferência manual",
					zap.Int64("payment_id", paymentID),
					zap.Uint("order_id", order.ID),
					zap.Error(err))
				return
			}
			delay = w.backoff(retries)
			w.log.Debug("consulta de pagamento falhou, aplicando backoff",
				zap.Int64("payment_id", paymentID),
				zap.Int("retry", retries),
				zap.Duration("delay", delay))
			continue
		}

		retries = 0
		delay = w.interval

		if status == model.PaymentPending {
			continue
		}

		if _, err := w.apply(ctx, order, status); err != nil {
			w.log.Error("falha ao aplicar status vindo do watcher",
				zap.Int64("payment_id", paymentID), zap.Error(err))
		}
		return
	}
}

// RetryDelay calcula o backoff exponencial: min(1s * 2^retry, 30s).
func RetryDelay(retry int) time.Duration {
	d := time.Second
	for i := 0; i < retry; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
