package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/repository"
	"github.com/ericoliveiras/meu-restaurante/internal/service"
)

// AdminHandler atende o painel do lojista: pedidos, cardápio, cupons,
// clientes e configuração.
type AdminHandler struct {
	Orders *service.OrderService
	Repo   *repository.Repository
	Log    *zap.Logger
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	var f repository.OrderListFilter
	if st := c.Query("status"); st != "" {
		status := model.OrderStatus(st)
		f.Status = &status
	}
	f.Whatsapp = c.Query("whatsapp")
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, total, err := h.Orders.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "total": total})
}

// UpdateOrderStatus avança o pedido no ciclo de vida (CONFIRMED →
// PREPARING → READY → ...). A transição é validada no serviço.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	var body struct {
		Status model.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Informe o novo status."})
		return
	}

	order, err := h.Orders.AdvanceStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// --- Cardápio ---

func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.Repo.Products.List(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var p model.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados do produto inválidos.", "details": err.Error()})
		return
	}
	if p.Nome == "" || p.Preco <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Produto precisa de nome e preço maior que zero."})
		return
	}

	if err := h.Repo.Products.Create(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": p})
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	existing, err := h.Repo.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Produto não encontrado."})
		return
	}

	var p model.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados do produto inválidos."})
		return
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt

	if err := h.Repo.Products.Update(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}
	if err := h.Repo.Products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Produto removido."})
}

// --- Cupons ---

func (h *AdminHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.Repo.Coupons.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "coupons": coupons})
}

func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var coupon model.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados do cupom inválidos.", "details": err.Error()})
		return
	}
	if coupon.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Cupom precisa de um código."})
		return
	}
	switch coupon.Type {
	case model.CouponPercentage, model.CouponFixed, model.CouponFreeDelivery:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tipo de cupom inválido."})
		return
	}
	coupon.UsageCount = 0

	if err := h.Repo.Coupons.Create(c.Request.Context(), &coupon); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "coupon": coupon})
}

// --- Clientes e configuração ---

func (h *AdminHandler) ListCustomers(c *gin.Context) {
	customers, err := h.Repo.Customers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "customers": customers})
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	settings, err := h.Repo.Settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if settings == nil {
		respondError(c, service.ErrSettingsNotFound)
		return
	}

	var body struct {
		Nome        *string  `json:"nome"`
		Whatsapp    *string  `json:"whatsapp"`
		DeliveryFee *float64 `json:"delivery_fee"`
		MinOrder    *float64 `json:"min_order"`
		Aberto      *bool    `json:"aberto"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Dados inválidos."})
		return
	}

	if body.Nome != nil {
		settings.Nome = *body.Nome
	}
	if body.Whatsapp != nil {
		settings.Whatsapp = *body.Whatsapp
	}
	if body.DeliveryFee != nil {
		settings.DeliveryFee = *body.DeliveryFee
	}
	if body.MinOrder != nil {
		settings.MinOrder = *body.MinOrder
	}
	if body.Aberto != nil {
		settings.Aberto = *body.Aberto
	}

	if err := h.Repo.Settings.Update(c.Request.Context(), settings); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}
