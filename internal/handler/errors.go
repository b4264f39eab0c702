package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericoliveiras/meu-restaurante/internal/service"
)

// respondError traduz os erros dos serviços para status HTTP e mensagem em
// português. Tudo que não é conhecido vira 500 genérico.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrSettingsNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})

	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrMinOrder),
		errors.Is(err, service.ErrStoreClosed),
		errors.Is(err, service.ErrCouponNotStarted),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrCouponExhausted),
		errors.Is(err, service.ErrCouponFirstPurchase),
		errors.Is(err, service.ErrCouponMinOrder),
		errors.Is(err, service.ErrPaymentNotCreated),
		errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})

	case errors.Is(err, service.ErrPaymentUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   service.ErrPaymentUnavailable.Error(),
			"details": err.Error(),
		})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro interno. Tente novamente."})
	}
}
