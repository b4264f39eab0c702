package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/poller"
	"github.com/ericoliveiras/meu-restaurante/internal/repository"
	"github.com/ericoliveiras/meu-restaurante/internal/service"
)

// PaymentHandler concentra as rotas do Mercado Pago: criação de PIX,
// cobrança de cartão, consulta de status e webhook.
type PaymentHandler struct {
	Repo       *repository.Repository
	Gateway    *service.PaymentGateway
	Reconciler *service.Reconciler
	Watcher    *poller.Watcher
	Log        *zap.Logger

	// Contexto de vida do servidor, usado pelos watchers de PIX para não
	// morrerem junto com a requisição que os criou.
	BaseCtx context.Context
}

func (h *PaymentHandler) baseCtx() context.Context {
	if h.BaseCtx != nil {
		return h.BaseCtx
	}
	return context.Background()
}

// amountMatches compara o valor que o frontend exibiu com o total real do
// pedido, com tolerância de um centavo para ruído de float.
func amountMatches(a, b float64) bool {
	diff := a - b
	return diff < 0.01 && diff > -0.01
}

type pixRequest struct {
	OrderID     uint             `json:"order_id" binding:"required"`
	Amount      float64          `json:"amount"`
	Description string           `json:"description"`
	Payer       service.PixPayer `json:"payer"`
}

// CreatePix gera o pagamento PIX de um pedido pendente e liga o watcher
// que acompanha o status direto no provedor.
func (h *PaymentHandler) CreatePix(c *gin.Context) {
	var req pixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados do pagamento inválidos.", "details": err.Error()})
		return
	}

	order, err := h.Repo.Orders.GetByID(c.Request.Context(), req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		respondError(c, service.ErrOrderNotFound)
		return
	}
	if order.Status != model.StatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Este pedido não está mais aguardando pagamento."})
		return
	}
	if req.Amount != 0 && !amountMatches(req.Amount, order.Total) {
		h.Log.Warn("valor do frontend difere do total do pedido",
			zap.Uint("order_id", order.ID),
			zap.Float64("frontend", req.Amount),
			zap.Float64("backend", order.Total))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "O valor total do pedido foi modificado."})
		return
	}

	description := req.Description
	if description == "" {
		description = "Pedido " + order.Number
	}

	result, err := h.Gateway.CreatePix(c.Request.Context(), order, req.Payer, description)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.FallbackToPreference {
		// Pagamento segue pelo checkout externo do MP; nada de polling aqui.
		c.JSON(http.StatusOK, gin.H{
			"success":                true,
			"fallback_to_preference": true,
			"init_point":             result.InitPoint,
		})
		return
	}

	if err := h.Repo.Orders.SetPayment(c.Request.Context(), order.ID, result.PaymentID, model.MetodoPix); err != nil {
		h.Log.Error("falha ao gravar payment_id no pedido", zap.Uint("order_id", order.ID), zap.Error(err))
		respondError(c, err)
		return
	}
	order.PaymentID = &result.PaymentID

	h.Watcher.Watch(h.baseCtx(), order, result.PaymentID)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"id":             result.PaymentID,
		"status":         result.Status,
		"qr_code":        result.QRCode,
		"qr_code_base64": result.QRCodeBase64,
		"expires_at":     result.ExpiresAt,
	})
}

type cardRequest struct {
	OrderID uint    `json:"order_id" binding:"required"`
	Amount  float64 `json:"transaction_amount"`
	service.CardInput
}

// ProcessPayment cobra o cartão de forma síncrona e já aplica o resultado
// ao pedido. Cobrança recusada não tem retry automático: o cliente revisa
// os dados e envia de novo.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados do pagamento inválidos.", "details": err.Error()})
		return
	}

	order, err := h.Repo.Orders.GetByID(c.Request.Context(), req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		respondError(c, service.ErrOrderNotFound)
		return
	}
	if order.Status != model.StatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Este pedido não está mais aguardando pagamento."})
		return
	}
	if req.Amount != 0 && !amountMatches(req.Amount, order.Total) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "O valor total do pedido foi modificado."})
		return
	}

	result, err := h.Gateway.ChargeCard(c.Request.Context(), order, req.CardInput, "Pedido "+order.Number)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Repo.Orders.SetPayment(c.Request.Context(), order.ID, result.PaymentID, model.MetodoCartao); err != nil {
		h.Log.Error("falha ao gravar payment_id no pedido", zap.Uint("order_id", order.ID), zap.Error(err))
	}
	order.PaymentID = &result.PaymentID

	if _, err := h.Reconciler.Apply(c.Request.Context(), order, service.MapProviderStatus(result.Status)); err != nil {
		h.Log.Error("falha ao aplicar resultado do cartão", zap.Uint("order_id", order.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"status":        result.Status,
		"status_detail": result.StatusDetail,
		"message":       result.Message,
		"paymentId":     result.PaymentID,
		"order_status":  order.Status,
	})
}

// GetPayment é a rota consultada pelo polling do frontend.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID do pagamento inválido."})
		return
	}

	status, resource, err := h.Gateway.Status(c.Request.Context(), id)
	if err != nil {
		h.Log.Warn("consulta de pagamento falhou", zap.Int64("payment_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao consultar o pagamento."})
		return
	}

	// O polling é mais um sinal alimentando o reconciliador: se esta
	// consulta viu um status terminal primeiro, ela ganha a transição.
	if status != model.PaymentPending {
		if order, err := h.Repo.Orders.GetByPaymentID(c.Request.Context(), id); err == nil && order != nil {
			if _, err := h.Reconciler.Apply(c.Request.Context(), order, status); err != nil {
				h.Log.Error("falha ao reconciliar via polling", zap.Int64("payment_id", id), zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"id":            id,
		"status":        string(status),
		"status_detail": resource.StatusDetail,
	})
}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Webhook recebe a notificação servidor-a-servidor do Mercado Pago. A
// resposta é sempre 200 para o provedor não reenviar indefinidamente; o
// status aplicado é o consultado na API, nunca o do corpo da notificação.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var payload webhookPayload
	_ = c.ShouldBindJSON(&payload)

	idStr := payload.Data.ID
	if idStr == "" {
		// Formato antigo: ?topic=payment&id=123
		idStr = c.Query("id")
	}
	if payload.Type != "" && payload.Type != "payment" {
		c.Status(http.StatusOK)
		return
	}

	paymentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Log.Debug("webhook sem id de pagamento utilizável", zap.String("id", idStr))
		c.Status(http.StatusOK)
		return
	}

	ctx := c.Request.Context()
	status, resource, err := h.Gateway.Status(ctx, paymentID)
	if err != nil {
		h.Log.Warn("webhook: falha ao consultar pagamento", zap.Int64("payment_id", paymentID), zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	order, err := h.Repo.Orders.GetByPaymentID(ctx, paymentID)
	if err == nil && order == nil && resource.ExternalReference != "" {
		// Pagamento criado fora daqui (fallback de preference): localiza
		// pelo external_reference e adota o payment_id.
		order, err = h.Repo.Orders.GetByExternalReference(ctx, resource.ExternalReference)
		if err == nil && order != nil && order.PaymentID == nil {
			if setErr := h.Repo.Orders.SetPayment(ctx, order.ID, paymentID, order.PaymentMethod); setErr == nil {
				order.PaymentID = &paymentID
			}
		}
	}
	if err != nil || order == nil {
		h.Log.Debug("webhook para pagamento desconhecido", zap.Int64("payment_id", paymentID))
		c.Status(http.StatusOK)
		return
	}

	if _, err := h.Reconciler.Apply(ctx, order, status); err != nil {
		h.Log.Error("falha ao reconciliar via webhook", zap.Int64("payment_id", paymentID), zap.Error(err))
	}

	c.Status(http.StatusOK)
}
