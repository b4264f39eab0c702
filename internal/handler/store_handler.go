package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/repository"
	"github.com/ericoliveiras/meu-restaurante/internal/service"
)

// StoreHandler atende a vitrine: cardápio, dados do estabelecimento e
// validação de cupom.
type StoreHandler struct {
	Repo    *repository.Repository
	Coupons *service.CouponService
	Log     *zap.Logger
}

func (h *StoreHandler) ListProducts(c *gin.Context) {
	products, err := h.Repo.Products.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func (h *StoreHandler) GetSettings(c *gin.Context) {
	settings, err := h.Repo.Settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if settings == nil {
		respondError(c, service.ErrSettingsNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

// ValidateCoupon valida o código e, se o cliente mandar o subtotal, devolve
// uma prévia do desconto calculada no servidor.
func (h *StoreHandler) ValidateCoupon(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Informe o código do cupom."})
		return
	}

	coupon, err := h.Coupons.Validate(c.Request.Context(), code, c.Query("whatsapp"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"success": true, "coupon": coupon}

	if subStr := c.Query("subtotal"); subStr != "" {
		subtotal, convErr := strconv.ParseFloat(subStr, 64)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Subtotal inválido."})
			return
		}
		settings, err := h.Repo.Settings.Get(c.Request.Context())
		if err != nil || settings == nil {
			respondError(c, service.ErrSettingsNotFound)
			return
		}
		discount, fee, err := service.Discount(coupon, subtotal, settings.DeliveryFee)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["discount"] = discount
		resp["delivery_fee"] = fee
	}

	c.JSON(http.StatusOK, resp)
}
