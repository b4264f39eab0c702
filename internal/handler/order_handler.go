package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/service"
)

type OrderHandler struct {
	Orders *service.OrderService
	Log    *zap.Logger
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID do pedido inválido."})
		return 0, false
	}
	return uint(id64), true
}

// CreateOrder materializa o carrinho enviado pelo frontend em um pedido.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var in service.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados do pedido inválidos.", "details": err.Error()})
		return
	}

	order, err := h.Orders.Checkout(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

// GetOrder é usado pela página de acompanhamento do pedido.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// CheckPayment é o botão "já paguei": consulta o provedor na hora.
func (h *OrderHandler) CheckPayment(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, changed, err := h.Orders.CheckPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Pagamento ainda não identificado. Aguarde alguns instantes."
	if changed || order.Status != model.StatusPending {
		message = "Pagamento confirmado!"
		if order.PaymentStatus == model.PaymentRejected {
			message = "Pagamento recusado pelo provedor."
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"order":   order,
	})
}
