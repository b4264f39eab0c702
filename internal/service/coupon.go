package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/repository"
)

// CouponService valida cupons e calcula o desconto. O cálculo acontece
// sempre no servidor, contra os valores recalculados do carrinho. O total
// enviado pelo frontend nunca é usado.
type CouponService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewCouponService(repo *repository.Repository, log *zap.Logger) *CouponService {
	return &CouponService{repo: repo, log: log, now: time.Now}
}

// Validate busca o cupom pelo código (case-insensitive) e aplica todas as
// regras de elegibilidade. Cada falha tem um erro próprio para o handler
// devolver uma mensagem específica.
func (s *CouponService) Validate(ctx context.Context, code, whatsapp string) (*model.Coupon, error) {
	coupon, err := s.repo.Coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil || !coupon.Active {
		return nil, ErrCouponNotFound
	}

	now := s.now()
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return nil, ErrCouponNotStarted
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return nil, ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
		return nil, ErrCouponExhausted
	}

	if coupon.FirstPurchaseOnly && whatsapp != "" {
		customer, err := s.repo.Customers.FindByWhatsapp(ctx, whatsapp)
		if err != nil {
			return nil, err
		}
		if customer != nil && customer.TotalOrders > 0 {
			return nil, ErrCouponFirstPurchase
		}
	}

	return coupon, nil
}

// Discount calcula o desconto sobre o subtotal e a taxa de entrega
// resultante. Retorna sempre desconto >= 0; cupom de frete grátis zera a
// taxa e não gera desconto sobre itens.
func Discount(c *model.Coupon, subtotal, deliveryFee float64) (discount, fee float64, err error) {
	if c.MinOrder > 0 && subtotal < c.MinOrder {
		return 0, deliveryFee, ErrCouponMinOrder
	}

	switch c.Type {
	case model.CouponPercentage:
		discount = subtotal * c.Value / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case model.CouponFixed:
		discount = c.Value
		if discount > subtotal {
			discount = subtotal
		}
	case model.CouponFreeDelivery:
		return 0, 0, nil
	}

	return round2(discount), deliveryFee, nil
}

// round2 arredonda para centavos. Dinheiro como float64 segue o restante da
// aplicação (e o SDK do Mercado Pago, que espera float64).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
