package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers agrupa tudo que o router precisa.
type Handlers struct {
	Store    *StoreHandler
	Cart     *CartHandler
	Orders   *OrderHandler
	Payments *PaymentHandler
	Admin    *AdminHandler
	WS       *WSHandler
}

// NewRouter monta o gin.Engine com todas as rotas da aplicação.
func NewRouter(h Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	api := router.Group("/api")
	{
		api.GET("/products", h.Store.ListProducts)
		api.GET("/settings", h.Store.GetSettings)
		api.GET("/coupons/validate", h.Store.ValidateCoupon)

		api.POST("/cart/add/:id", h.Cart.AddToCart)
		api.POST("/cart/decrease/:id", h.Cart.DecreaseQuantity)
		api.POST("/cart/remove/:id", h.Cart.RemoveFromCart)
		api.POST("/cart/clear", h.Cart.ClearCart)
		api.GET("/cart", h.Cart.ShowCart)

		api.POST("/orders", h.Orders.CreateOrder)
		api.GET("/orders/:id", h.Orders.GetOrder)
		api.POST("/orders/:id/check-payment", h.Orders.CheckPayment)

		mp := api.Group("/mercadopago")
		{
			mp.POST("/create-pix", h.Payments.CreatePix)
			mp.POST("/process-payment", h.Payments.ProcessPayment)
			mp.GET("/payment/:id", h.Payments.GetPayment)
			mp.POST("/webhook", h.Payments.Webhook)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/orders", h.Admin.ListOrders)
			admin.PATCH("/orders/:id/status", h.Admin.UpdateOrderStatus)

			admin.GET("/products", h.Admin.ListProducts)
			admin.POST("/products", h.Admin.CreateProduct)
			admin.PUT("/products/:id", h.Admin.UpdateProduct)
			admin.DELETE("/products/:id", h.Admin.DeleteProduct)

			admin.GET("/coupons", h.Admin.ListCoupons)
			admin.POST("/coupons", h.Admin.CreateCoupon)

			admin.GET("/customers", h.Admin.ListCustomers)
			admin.PUT("/settings", h.Admin.UpdateSettings)
		}
	}

	router.GET("/ws", h.WS.Subscribe)
	router.GET("/ws/admin", h.WS.SubscribeAdmin)

	return router
}
