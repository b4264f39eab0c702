package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

// Tempo de exibição do QR code no frontend. Apenas informativo: o pedido
// não é cancelado no servidor quando o prazo passa.
const pixDisplayTTL = 30 * time.Minute

// PaymentGateway concentra as chamadas ao Mercado Pago: PIX, cartão e
// consulta de status. Recebe os clients do SDK por interface, o que permite
// substituí-los nos testes.
type PaymentGateway struct {
	payments        payment.Client
	preferences     preference.Client
	notificationURL string
	log             *zap.Logger
}

func NewPaymentGateway(payments payment.Client, preferences preference.Client, notificationURL string, log *zap.Logger) *PaymentGateway {
	return &PaymentGateway{
		payments:        payments,
		preferences:     preferences,
		notificationURL: notificationURL,
		log:             log,
	}
}

type PixPayer struct {
	Email string `json:"email"`
	Nome  string `json:"nome"`
}

// PixResult é a resposta da criação de um pagamento PIX. Quando o provedor
// não aceita PIX direto, FallbackToPreference indica que o cliente deve
// redirecionar para InitPoint e encerrar o fluxo local (sem polling).
type PixResult struct {
	FallbackToPreference bool      `json:"fallback_to_preference,omitempty"`
	InitPoint            string    `json:"init_point,omitempty"`
	PaymentID            int64     `json:"payment_id,omitempty"`
	Status               string    `json:"status,omitempty"`
	QRCode               string    `json:"qr_code,omitempty"`
	QRCodeBase64         string    `json:"qr_code_base64,omitempty"`
	ExpiresAt            time.Time `json:"expires_at,omitempty"`
}

// CreatePix cria o pagamento PIX para um pedido já materializado.
func (g *PaymentGateway) CreatePix(ctx context.Context, order *model.Order, payer PixPayer, description string) (*PixResult, error) {
	req := payment.Request{
		TransactionAmount: order.Total,
		Description:       description,
		PaymentMethodID:   model.MetodoPix,
		ExternalReference: order.ExternalReference,
		NotificationURL:   g.notificationURL,
		Payer: &payment.PayerRequest{
			Email:     payer.Email,
			FirstName: payer.Nome,
		},
	}

	resource, err := g.payments.Create(ctx, req)
	if err != nil {
		g.log.Warn("criação de PIX falhou, tentando checkout preference",
			zap.Uint("order_id", order.ID), zap.Error(err))
		return g.pixFallback(ctx, order)
	}

	return &PixResult{
		PaymentID:    int64(resource.ID),
		Status:       resource.Status,
		QRCode:       resource.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64: resource.PointOfInteraction.TransactionData.QRCodeBase64,
		ExpiresAt:    time.Now().Add(pixDisplayTTL),
	}, nil
}

// pixFallback cria uma Checkout Preference quando a conta não tem PIX
// habilitado. O pagamento passa a acontecer fora da aplicação; o webhook
// continua chegando pelo external_reference.
func (g *PaymentGateway) pixFallback(ctx context.Context, order *model.Order) (*PixResult, error) {
	items := make([]preference.ItemRequest, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, preference.ItemRequest{
			Title:     it.NomeProduto,
			Quantity:  it.Quantidade,
			UnitPrice: it.PrecoUnitario,
		})
	}
	if order.DeliveryFee > 0 {
		items = append(items, preference.ItemRequest{
			Title:     "Taxa de entrega",
			Quantity:  1,
			UnitPrice: order.DeliveryFee,
		})
	}

	pref, err := g.preferences.Create(ctx, preference.Request{
		Items:             items,
		ExternalReference: order.ExternalReference,
		NotificationURL:   g.notificationURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	return &PixResult{
		FallbackToPreference: true,
		InitPoint:            pref.InitPoint,
	}, nil
}

type CardInput struct {
	Token           string `json:"token" binding:"required"`
	IssuerID        string `json:"issuer_id"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	Installments    int    `json:"installments"`
	Payer           struct {
		Email          string `json:"email" binding:"required"`
		Identification struct {
			Type   string `json:"type"`
			Number string `json:"number"`
		} `json:"identification"`
	} `json:"payer"`
}

type CardResult struct {
	PaymentID    int64  `json:"payment_id"`
	Status       string `json:"status"`
	StatusDetail string `json:"status_detail"`
	Message      string `json:"message"`
}

// ChargeCard cobra um cartão tokenizado de forma síncrona.
func (g *PaymentGateway) ChargeCard(ctx context.Context, order *model.Order, in CardInput, description string) (*CardResult, error) {
	if in.Installments <= 0 {
		in.Installments = 1
	}

	req := payment.Request{
		TransactionAmount: order.Total,
		Token:             in.Token,
		Description:       description,
		Installments:      in.Installments,
		PaymentMethodID:   in.PaymentMethodID,
		IssuerID:          in.IssuerID,
		ExternalReference: order.ExternalReference,
		NotificationURL:   g.notificationURL,
		Payer: &payment.PayerRequest{
			Email: in.Payer.Email,
			Identification: &payment.IdentificationRequest{
				Type:   in.Payer.Identification.Type,
				Number: in.Payer.Identification.Number,
			},
		},
	}

	resource, err := g.payments.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	res := &CardResult{
		PaymentID:    int64(resource.ID),
		Status:       resource.Status,
		StatusDetail: resource.StatusDetail,
	}
	switch MapProviderStatus(resource.Status) {
	case model.PaymentApproved:
		res.Message = "Pagamento aprovado!"
	case model.PaymentRejected:
		res.Message = RejectionMessage(resource.StatusDetail)
	default:
		res.Message = "Pagamento pendente de confirmação."
	}
	return res, nil
}

// Status consulta o status atual de um pagamento no provedor.
func (g *PaymentGateway) Status(ctx context.Context, paymentID int64) (model.PaymentStatus, *payment.Response, error) {
	resource, err := g.payments.Get(ctx, int(paymentID))
	if err != nil {
		return "", nil, err
	}
	return MapProviderStatus(resource.Status), resource, nil
}

// MapProviderStatus reduz o vocabulário de status do Mercado Pago para o
// nosso: pending, approved ou rejected.
func MapProviderStatus(s string) model.PaymentStatus {
	switch s {
	case "approved":
		return model.PaymentApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return model.PaymentRejected
	default:
		// pending, in_process, authorized, in_mediation...
		return model.PaymentPending
	}
}

// Mensagens exibidas para cada status_detail de recusa do Mercado Pago.
// Código desconhecido cai na mensagem genérica.
var rejectionMessages = map[string]string{
	"cc_rejected_insufficient_amount":      "Cartão sem saldo suficiente.",
	"cc_rejected_bad_filled_card_number":   "Número do cartão inválido.",
	"cc_rejected_bad_filled_date":          "Data de validade incorreta.",
	"cc_rejected_bad_filled_security_code": "Código de segurança incorreto.",
	"cc_rejected_bad_filled_other":         "Revise os dados do cartão.",
	"cc_rejected_call_for_authorize":       "Autorize o pagamento junto ao seu banco.",
	"cc_rejected_card_disabled":            "Cartão desabilitado. Fale com seu banco.",
	"cc_rejected_duplicated_payment":       "Você já fez um pagamento com esse valor.",
	"cc_rejected_high_risk":                "Pagamento recusado por análise de segurança.",
	"cc_rejected_max_attempts":             "Limite de tentativas atingido. Tente mais tarde.",
	"cc_rejected_other_reason":             "O cartão recusou o pagamento.",
}

func RejectionMessage(statusDetail string) string {
	if msg, ok := rejectionMessages[statusDetail]; ok {
		return msg
	}
	return "Pagamento não aprovado. Revise os dados ou tente outro cartão."
}
