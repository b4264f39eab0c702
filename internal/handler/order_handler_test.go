package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
)

func checkoutBody(items ...map[string]any) map[string]any {
	return map[string]any{
		"cliente_nome":     "João",
		"cliente_whatsapp": "5511999991111",
		"endereco":         "Rua A, 123",
		"payment_method":   "pix",
		"items":            items,
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 10)
	burger := env.seedProduct(t, "X-Burguer", 45)

	t.Run("Checkout válido cria o pedido", func(t *testing.T) {
		recorder, body := env.doJSON(t, http.MethodPost, "/api/orders",
			checkoutBody(map[string]any{"product_id": burger.ID, "quantidade": 2}))

		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
		assert.Equal(t, true, body["success"])

		order, ok := body["order"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "PED-000001", order["number"])
		assert.EqualValues(t, 100, order["total"])
		assert.Equal(t, string(model.StatusPending), order["status"])
	})

	t.Run("Corpo sem itens é 400", func(t *testing.T) {
		recorder, _ := env.doJSON(t, http.MethodPost, "/api/orders", map[string]any{
			"cliente_nome":     "João",
			"cliente_whatsapp": "5511999991111",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Produto indisponível é 400", func(t *testing.T) {
		recorder, body := env.doJSON(t, http.MethodPost, "/api/orders",
			checkoutBody(map[string]any{"product_id": 99999, "quantidade": 1}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, false, body["success"])
	})

	t.Run("Loja fechada é 400", func(t *testing.T) {
		require.NoError(t, env.db.Model(&model.Settings{}).Where("1 = 1").Update("aberto", false).Error)
		t.Cleanup(func() {
			require.NoError(t, env.db.Model(&model.Settings{}).Where("1 = 1").Update("aberto", true).Error)
		})

		recorder, _ := env.doJSON(t, http.MethodPost, "/api/orders",
			checkoutBody(map[string]any{"product_id": burger.ID, "quantidade": 1}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGetOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 0)
	p := env.seedProduct(t, "Pizza", 50)

	_, created := env.doJSON(t, http.MethodPost, "/api/orders",
		checkoutBody(map[string]any{"product_id": p.ID, "quantidade": 1}))
	orderID := created["order"].(map[string]any)["id"]

	t.Run("Pedido existente", func(t *testing.T) {
		recorder, body := env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/orders/%v", orderID), nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		order := body["order"].(map[string]any)
		assert.Equal(t, "PED-000001", order["number"])

		items, ok := order["items"].([]any)
		require.True(t, ok)
		assert.Len(t, items, 1)
	})

	t.Run("Pedido inexistente é 404", func(t *testing.T) {
		recorder, _ := env.doJSON(t, http.MethodGet, "/api/orders/99999", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestValidateCouponEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 10)
	require.NoError(t, env.db.Create(&model.Coupon{
		Code: "dez", Type: model.CouponPercentage, Value: 10, Active: true,
	}).Error)

	t.Run("Sem código é 400", func(t *testing.T) {
		recorder, _ := env.doJSON(t, http.MethodGet, "/api/coupons/validate", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Cupom inexistente é 404", func(t *testing.T) {
		recorder, _ := env.doJSON(t, http.MethodGet, "/api/coupons/validate?code=nada", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Prévia do desconto calculada no servidor", func(t *testing.T) {
		recorder, body := env.doJSON(t, http.MethodGet, "/api/coupons/validate?code=DEZ&subtotal=200", nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.EqualValues(t, 20, body["discount"])
		assert.EqualValues(t, 10, body["delivery_fee"])
	})
}

func TestAdminOrderEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 0)
	p := env.seedProduct(t, "Lanche", 30)

	_, created := env.doJSON(t, http.MethodPost, "/api/orders",
		checkoutBody(map[string]any{"product_id": p.ID, "quantidade": 1}))
	orderID := created["order"].(map[string]any)["id"]
	statusPath := fmt.Sprintf("/api/admin/orders/%v/status", orderID)

	t.Run("Transição válida avança o pedido", func(t *testing.T) {
		recorder, body := env.doJSON(t, http.MethodPatch, statusPath,
			map[string]any{"status": string(model.StatusConfirmed)})
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
		order := body["order"].(map[string]any)
		assert.Equal(t, string(model.StatusConfirmed), order["status"])
	})

	t.Run("Pular etapa é 400", func(t *testing.T) {
		recorder, _ := env.doJSON(t, http.MethodPatch, statusPath,
			map[string]any{"status": string(model.StatusDelivered)})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Listagem filtra por status", func(t *testing.T) {
		recorder, body := env.doJSON(t, http.MethodGet, "/api/admin/orders?status=CONFIRMED", nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		orders, ok := body["orders"].([]any)
		require.True(t, ok)
		assert.Len(t, orders, 1)
		assert.EqualValues(t, 1, body["total"])

		recorder, body = env.doJSON(t, http.MethodGet, "/api/admin/orders?status=DELIVERED", nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.EqualValues(t, 0, body["total"])
	})
}

func TestAdminSettingsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedSettings(t, 5)

	recorder, body := env.doJSON(t, http.MethodPut, "/api/admin/settings",
		map[string]any{"delivery_fee": 12.5, "aberto": false})
	require.Equal(t, http.StatusOK, recorder.Code)

	settings := body["settings"].(map[string]any)
	assert.EqualValues(t, 12.5, settings["delivery_fee"])
	assert.Equal(t, false, settings["aberto"])

	// Campo omitido não é tocado.
	assert.Equal(t, "Restaurante Teste", settings["nome"])
}
