package main

import (
	"context"
	"encoding/gob"
	"log"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/config"
	"github.com/ericoliveiras/meu-restaurante/internal/database"
	"github.com/ericoliveiras/meu-restaurante/internal/handler"
	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/poller"
	"github.com/ericoliveiras/meu-restaurante/internal/repository"
	"github.com/ericoliveiras/meu-restaurante/internal/service"
	"github.com/ericoliveiras/meu-restaurante/internal/ws"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("falha ao criar logger: %v", err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("arquivo .env não encontrado, usando o ambiente")
	}

	cfg := config.Load(logger)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("falha ao conectar ao banco", zap.Error(err))
	}

	if err := database.Seed(db, logger); err != nil {
		logger.Fatal("falha ao executar seed", zap.Error(err))
	}

	// O carrinho vive na sessão como map produto -> quantidade.
	gob.Register(map[uint]int{})
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))

	mpCfg, err := mpconfig.New(cfg.MPAccessToken)
	if err != nil {
		logger.Fatal("falha ao configurar Mercado Pago", zap.Error(err))
	}

	notificationURL := ""
	if cfg.WebhookBaseURL != "" {
		notificationURL = cfg.WebhookBaseURL + "/api/mercadopago/webhook"
	}

	repo := repository.New(db)
	hub := ws.NewHub(logger)
	gateway := service.NewPaymentGateway(payment.NewClient(mpCfg), preference.NewClient(mpCfg), notificationURL, logger)
	reconciler := service.NewReconciler(repo, hub, logger)
	orders := service.NewOrderService(repo, gateway, reconciler, hub, logger)
	coupons := service.NewCouponService(repo, logger)

	watcher := poller.New(
		func(ctx context.Context, paymentID int64) (model.PaymentStatus, error) {
			status, _, err := gateway.Status(ctx, paymentID)
			return status, err
		},
		reconciler.Apply,
		logger,
	)

	router := handler.NewRouter(handler.Handlers{
		Store:    &handler.StoreHandler{Repo: repo, Coupons: coupons, Log: logger},
		Cart:     &handler.CartHandler{Store: store, Repo: repo, Log: logger},
		Orders:   &handler.OrderHandler{Orders: orders, Log: logger},
		Payments: &handler.PaymentHandler{Repo: repo, Gateway: gateway, Reconciler: reconciler, Watcher: watcher, Log: logger, BaseCtx: context.Background()},
		Admin:    &handler.AdminHandler{Orders: orders, Repo: repo, Log: logger},
		WS:       handler.NewWSHandler(hub, logger),
	}, cfg.AllowedOrigins)

	logger.Info("servidor rodando", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("servidor encerrou com erro", zap.Error(err))
	}
}
