package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/repository"
)

func TestCheckout(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 10)
	burger := seedProduct(t, db, "X-Burguer", 40)
	soda := seedProduct(t, db, "Refrigerante", 10)
	orders, _, bus := newTestServices(t, db)
	ctx := context.Background()

	t.Run("Pedido simples fecha a conta", func(t *testing.T) {
		order := checkout(t, orders, CheckoutInput{
			ClienteNome:     "João",
			ClienteWhatsapp: "5511999991111",
			Endereco:        "Rua A, 123",
			PaymentMethod:   model.MetodoPix,
			Items: []CheckoutItem{
				{ProductID: burger.ID, Quantidade: 2},
				{ProductID: soda.ID, Quantidade: 2},
			},
		})

		assert.Equal(t, "PED-000001", order.Number)
		assert.Equal(t, 100.0, order.Subtotal)
		assert.Equal(t, 10.0, order.DeliveryFee)
		assert.Equal(t, 0.0, order.Discount)
		assert.Equal(t, order.Subtotal+order.DeliveryFee-order.Discount, order.Total)
		assert.Equal(t, model.StatusPending, order.Status)
		assert.Equal(t, model.PaymentPending, order.PaymentStatus)
		assert.NotEmpty(t, order.ExternalReference)

		// Snapshot dos itens com preço do momento da compra.
		require.Len(t, order.Items, 2)
		assert.Equal(t, "X-Burguer", order.Items[0].NomeProduto)
		assert.Equal(t, 80.0, order.Items[0].Subtotal)

		// NEW_ORDER no firehose do painel.
		events := bus.byType(EventNewOrder)
		require.Len(t, events, 1)
		assert.Equal(t, TopicOrders, events[0].Topic)
		assert.Equal(t, order.ID, events[0].Event.OrderID)
	})

	t.Run("Números de pedido são sequenciais", func(t *testing.T) {
		order := checkout(t, orders, CheckoutInput{
			ClienteNome:     "João",
			ClienteWhatsapp: "5511999991111",
			Items:           []CheckoutItem{{ProductID: soda.ID, Quantidade: 1}},
		})
		assert.Equal(t, "PED-000002", order.Number)
	})

	t.Run("Agregados do cliente acompanham os pedidos", func(t *testing.T) {
		repo := repository.New(db)
		customer, err := repo.Customers.FindByWhatsapp(ctx, "5511999991111")
		require.NoError(t, err)
		require.NotNil(t, customer)
		// 110 do primeiro pedido + 20 do segundo (10 de item + 10 de entrega).
		assert.Equal(t, 2, customer.TotalOrders)
		assert.Equal(t, 130.0, customer.TotalSpent)
	})

	t.Run("Carrinho vazio é rejeitado", func(t *testing.T) {
		_, err := orders.Checkout(ctx, CheckoutInput{ClienteNome: "X", ClienteWhatsapp: "1"})
		assert.ErrorIs(t, err, ErrEmptyItems)
	})

	t.Run("Quantidade zero é rejeitada", func(t *testing.T) {
		_, err := orders.Checkout(ctx, CheckoutInput{
			ClienteNome: "X", ClienteWhatsapp: "1",
			Items: []CheckoutItem{{ProductID: burger.ID, Quantidade: 0}},
		})
		assert.ErrorIs(t, err, ErrQuantityInvalid)
	})

	t.Run("Produto indisponível cancela o checkout", func(t *testing.T) {
		_, err := orders.Checkout(ctx, CheckoutInput{
			ClienteNome: "X", ClienteWhatsapp: "1",
			Items: []CheckoutItem{{ProductID: 9999, Quantidade: 1}},
		})
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})
}

func TestCheckoutComCupom(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 10)
	burger := seedProduct(t, db, "X-Burguer", 50)
	orders, _, _ := newTestServices(t, db)
	repo := repository.New(db)
	ctx := context.Background()
	until := time.Now().Add(24 * time.Hour)

	t.Run("Cenário PERCENT10: subtotal 100, entrega 10", func(t *testing.T) {
		require.NoError(t, repo.Coupons.Create(ctx, &model.Coupon{
			Code: "percent10", Type: model.CouponPercentage, Value: 10, Active: true, ValidUntil: &until,
		}))

		order := checkout(t, orders, CheckoutInput{
			ClienteNome:     "Ana",
			ClienteWhatsapp: "5511777770000",
			CouponCode:      "PERCENT10",
			Items:           []CheckoutItem{{ProductID: burger.ID, Quantidade: 2}},
		})

		assert.Equal(t, 100.0, order.Subtotal)
		assert.Equal(t, 10.0, order.Discount)
		assert.Equal(t, 100.0, order.Total)
		assert.Equal(t, "percent10", order.CouponCode)

		stored, err := repo.Coupons.FindByCode(ctx, "percent10")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.UsageCount)
	})

	t.Run("Frete grátis zera a entrega", func(t *testing.T) {
		require.NoError(t, repo.Coupons.Create(ctx, &model.Coupon{
			Code: "fretegratis", Type: model.CouponFreeDelivery, Active: true, ValidUntil: &until,
		}))

		order := checkout(t, orders, CheckoutInput{
			ClienteNome:     "Ana",
			ClienteWhatsapp: "5511777770000",
			CouponCode:      "fretegratis",
			Items:           []CheckoutItem{{ProductID: burger.ID, Quantidade: 1}},
		})

		assert.Equal(t, 0.0, order.DeliveryFee)
		assert.Equal(t, 0.0, order.Discount)
		assert.Equal(t, 50.0, order.Total)
	})

	t.Run("Limite de uso estoura no segundo pedido", func(t *testing.T) {
		require.NoError(t, repo.Coupons.Create(ctx, &model.Coupon{
			Code: "umavez", Type: model.CouponFixed, Value: 5, Active: true, UsageLimit: 1, ValidUntil: &until,
		}))

		in := CheckoutInput{
			ClienteNome:     "Ana",
			ClienteWhatsapp: "5511777770000",
			CouponCode:      "umavez",
			Items:           []CheckoutItem{{ProductID: burger.ID, Quantidade: 1}},
		}
		checkout(t, orders, in)

		_, err := orders.Checkout(ctx, in)
		assert.ErrorIs(t, err, ErrCouponExhausted)
	})

	t.Run("Cupom inválido não cria pedido nem consome sequência", func(t *testing.T) {
		var before int64
		require.NoError(t, db.Model(&model.Order{}).Count(&before).Error)

		_, err := orders.Checkout(ctx, CheckoutInput{
			ClienteNome:     "Ana",
			ClienteWhatsapp: "5511777770000",
			CouponCode:      "naoexiste",
			Items:           []CheckoutItem{{ProductID: burger.ID, Quantidade: 1}},
		})
		assert.ErrorIs(t, err, ErrCouponNotFound)

		var after int64
		require.NoError(t, db.Model(&model.Order{}).Count(&after).Error)
		assert.Equal(t, before, after)
	})
}

func TestCheckoutSemEstabelecimento(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Lanche", 10)
	orders, _, _ := newTestServices(t, db)

	_, err := orders.Checkout(context.Background(), CheckoutInput{
		ClienteNome: "X", ClienteWhatsapp: "1",
		Items: []CheckoutItem{{ProductID: p.ID, Quantidade: 1}},
	})
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestAdvanceStatus(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 0)
	p := seedProduct(t, db, "Lanche", 30)
	orders, _, bus := newTestServices(t, db)
	ctx := context.Background()

	order := checkout(t, orders, CheckoutInput{
		ClienteNome: "Bia", ClienteWhatsapp: "5511666660000",
		Items: []CheckoutItem{{ProductID: p.ID, Quantidade: 1}},
	})

	t.Run("Fluxo feliz até a entrega", func(t *testing.T) {
		steps := []model.OrderStatus{
			model.StatusConfirmed,
			model.StatusPreparing,
			model.StatusReady,
			model.StatusOutDelivery,
			model.StatusDelivered,
		}
		for _, next := range steps {
			updated, err := orders.AdvanceStatus(ctx, order.ID, next)
			require.NoError(t, err)
			assert.Equal(t, next, updated.Status)
		}

		final, err := orders.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.NotNil(t, final.ConfirmedAt)
		assert.NotNil(t, final.DeliveredAt)

		// Cada transição publicada no tópico do pedido e no firehose.
		events := bus.byType(EventOrderStatusUpdate)
		assert.Len(t, events, len(steps)*2)
	})

	t.Run("Pedido entregue não anda mais", func(t *testing.T) {
		_, err := orders.AdvanceStatus(ctx, order.ID, model.StatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Pular etapa é rejeitado", func(t *testing.T) {
		other := checkout(t, orders, CheckoutInput{
			ClienteNome: "Bia", ClienteWhatsapp: "5511666660000",
			Items: []CheckoutItem{{ProductID: p.ID, Quantidade: 1}},
		})
		_, err := orders.AdvanceStatus(ctx, other.ID, model.StatusReady)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Cancelamento vale de estado não terminal", func(t *testing.T) {
		other := checkout(t, orders, CheckoutInput{
			ClienteNome: "Bia", ClienteWhatsapp: "5511666660000",
			Items: []CheckoutItem{{ProductID: p.ID, Quantidade: 1}},
		})
		updated, err := orders.AdvanceStatus(ctx, other.ID, model.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, updated.Status)
		assert.NotNil(t, updated.CancelledAt)
	})
}
