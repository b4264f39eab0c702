package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/repository"
)

// OrderService materializa o checkout em pedido e cuida do ciclo de vida.
type OrderService struct {
	repo       *repository.Repository
	gateway    *PaymentGateway
	reconciler *Reconciler
	bus        Broadcaster
	log        *zap.Logger
	now        func() time.Time
}

func NewOrderService(repo *repository.Repository, gateway *PaymentGateway, reconciler *Reconciler, bus Broadcaster, log *zap.Logger) *OrderService {
	if bus == nil {
		bus = noopBroadcaster{}
	}
	return &OrderService{
		repo:       repo,
		gateway:    gateway,
		reconciler: reconciler,
		bus:        bus,
		log:        log,
		now:        time.Now,
	}
}

type CheckoutItem struct {
	ProductID  uint `json:"product_id" binding:"required"`
	Quantidade int  `json:"quantidade" binding:"required"`
}

type CheckoutInput struct {
	ClienteNome     string         `json:"cliente_nome" binding:"required"`
	ClienteWhatsapp string         `json:"cliente_whatsapp" binding:"required"`
	Endereco        string         `json:"endereco"`
	Observacao      string         `json:"observacao"`
	PaymentMethod   string         `json:"payment_method"`
	CouponCode      string         `json:"coupon_code"`
	Items           []CheckoutItem `json:"items" binding:"required"`
}

// Checkout valida o carrinho contra o banco, recalcula todos os valores e
// cria pedido, itens, uso de cupom e agregados do cliente em uma única
// transação. Nada que o frontend mandou de preço é aproveitado.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range in.Items {
		if it.Quantidade <= 0 {
			return nil, ErrQuantityInvalid
		}
	}

	var order *model.Order
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		settings, err := tx.Settings.Get(ctx)
		if err != nil {
			return err
		}
		if settings == nil {
			return ErrSettingsNotFound
		}
		if !settings.Aberto {
			return ErrStoreClosed
		}

		ids := make([]uint, 0, len(in.Items))
		for _, it := range in.Items {
			ids = append(ids, it.ProductID)
		}
		products, err := tx.Products.AvailableByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		var subtotal float64
		items := make([]model.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			p, found := byID[it.ProductID]
			if !found {
				return ErrProductUnavailable
			}
			lineTotal := round2(p.Preco * float64(it.Quantidade))
			items = append(items, model.OrderItem{
				ProductID:     p.ID,
				NomeProduto:   p.Nome,
				Quantidade:    it.Quantidade,
				PrecoUnitario: p.Preco,
				Subtotal:      lineTotal,
			})
			subtotal += lineTotal
		}
		subtotal = round2(subtotal)

		if settings.MinOrder > 0 && subtotal < settings.MinOrder {
			return ErrMinOrder
		}

		deliveryFee := settings.DeliveryFee
		var discount float64
		var couponCode string
		if in.CouponCode != "" {
			coupons := &CouponService{repo: tx, log: s.log, now: s.now}
			coupon, err := coupons.Validate(ctx, in.CouponCode, in.ClienteWhatsapp)
			if err != nil {
				return err
			}
			discount, deliveryFee, err = Discount(coupon, subtotal, deliveryFee)
			if err != nil {
				return err
			}
			ok, err := tx.Coupons.RegisterUse(ctx, coupon.ID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrCouponExhausted
			}
			couponCode = coupon.Code
		}

		total := round2(subtotal + deliveryFee - discount)
		if total < 0 {
			total = 0
		}

		seq, err := tx.Settings.NextOrderSeq(ctx, settings.ID)
		if err != nil {
			return err
		}

		order = &model.Order{
			Number:            fmt.Sprintf("PED-%06d", seq),
			ClienteNome:       in.ClienteNome,
			ClienteWhatsapp:   in.ClienteWhatsapp,
			Endereco:          in.Endereco,
			Observacao:        in.Observacao,
			Subtotal:          subtotal,
			DeliveryFee:       deliveryFee,
			Discount:          discount,
			Total:             total,
			Status:            model.StatusPending,
			PaymentMethod:     in.PaymentMethod,
			PaymentStatus:     model.PaymentPending,
			ExternalReference: uuid.NewString(),
			CouponCode:        couponCode,
			Items:             items,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		return tx.Customers.RecordOrder(ctx, &model.Customer{
			Nome:     in.ClienteNome,
			Whatsapp: in.ClienteWhatsapp,
			Endereco: in.Endereco,
		}, total)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("pedido criado",
		zap.Uint("order_id", order.ID),
		zap.String("number", order.Number),
		zap.Float64("total", order.Total))

	s.bus.Publish(TopicOrders, Event{
		Type:      EventNewOrder,
		OrderID:   order.ID,
		Status:    string(order.Status),
		Order:     order,
		Timestamp: s.now(),
	})

	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, f repository.OrderListFilter) ([]model.Order, int64, error) {
	return s.repo.Orders.List(ctx, f)
}

// Transições permitidas do ciclo de vida. CANCELLED entra em qualquer
// estado não terminal; DELIVERED direto de READY cobre retirada no balcão.
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.StatusPending:     {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed:   {model.StatusPreparing, model.StatusCancelled},
	model.StatusPreparing:   {model.StatusReady, model.StatusCancelled},
	model.StatusReady:       {model.StatusOutDelivery, model.StatusDelivered, model.StatusCancelled},
	model.StatusOutDelivery: {model.StatusDelivered, model.StatusCancelled},
}

var milestoneColumns = map[model.OrderStatus]string{
	model.StatusConfirmed:   "confirmed_at",
	model.StatusPreparing:   "preparing_at",
	model.StatusReady:       "ready_at",
	model.StatusOutDelivery: "out_for_delivery_at",
	model.StatusDelivered:   "delivered_at",
	model.StatusCancelled:   "cancelled_at",
}

// AdvanceStatus aplica uma transição pedida pelo painel. A escrita é
// condicionada ao status atual: se outro operador (ou o reconciliador)
// mudou o pedido no meio do caminho, a transição falha em vez de
// sobrescrever.
func (s *OrderService) AdvanceStatus(ctx context.Context, id uint, next model.OrderStatus) (*model.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, st := range allowedTransitions[order.Status] {
		if st == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	updates := map[string]any{"status": next}
	if col, ok := milestoneColumns[next]; ok {
		updates[col] = now
	}

	rows, err := s.repo.Orders.UpdateStatusWhere(ctx, id, []model.OrderStatus{order.Status}, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidTransition
	}

	order, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ev := Event{
		Type:      EventOrderStatusUpdate,
		OrderID:   order.ID,
		Status:    string(order.Status),
		Timestamp: now,
	}
	s.bus.Publish(TopicOrder(order.ID), ev)
	s.bus.Publish(TopicOrders, ev)

	return order, nil
}

// CheckPayment é o fallback manual ("já paguei"): consulta o provedor na
// hora e aplica o resultado pelo mesmo caminho dos outros sinais.
func (s *OrderService) CheckPayment(ctx context.Context, id uint) (*model.Order, bool, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if order.PaymentID == nil {
		return nil, false, ErrPaymentNotCreated
	}
	if order.Status != model.StatusPending {
		return order, false, nil
	}

	status, _, err := s.gateway.Status(ctx, *order.PaymentID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	changed, err := s.reconciler.Apply(ctx, order, status)
	if err != nil {
		return nil, false, err
	}
	return order, changed, nil
}
