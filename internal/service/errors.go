package service

import "errors"

var (
	ErrSettingsNotFound = errors.New("estabelecimento não configurado")
	ErrStoreClosed      = errors.New("o estabelecimento está fechado no momento")

	ErrEmptyItems         = errors.New("o pedido precisa ter pelo menos um item")
	ErrQuantityInvalid    = errors.New("quantidade deve ser maior que zero")
	ErrProductUnavailable = errors.New("um ou mais itens não estão mais disponíveis")
	ErrMinOrder           = errors.New("o pedido não atinge o valor mínimo")

	ErrCouponNotFound      = errors.New("cupom não encontrado")
	ErrCouponNotStarted    = errors.New("cupom ainda não está valendo")
	ErrCouponExpired       = errors.New("cupom expirado")
	ErrCouponExhausted     = errors.New("cupom esgotado")
	ErrCouponFirstPurchase = errors.New("cupom válido apenas para a primeira compra")
	ErrCouponMinOrder      = errors.New("cupom exige um valor mínimo de pedido")

	ErrOrderNotFound      = errors.New("pedido não encontrado")
	ErrInvalidTransition  = errors.New("transição de status inválida")
	ErrPaymentNotCreated  = errors.New("pedido ainda não tem pagamento associado")
	ErrPaymentUnavailable = errors.New("erro ao processar pagamento com o provedor")
)
