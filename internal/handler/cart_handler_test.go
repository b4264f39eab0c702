package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionCookie localiza o cookie de sessão na resposta.
func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionName {
			return cookie
		}
	}
	t.Fatal("cookie de sessão não veio na resposta")
	return nil
}

// decodeCart decodifica o carrinho guardado no cookie de sessão.
func decodeCart(t *testing.T, env *testEnv, cookie *http.Cookie) map[uint]int {
	t.Helper()
	session := sessions.NewSession(env.store, SessionName)
	err := securecookie.DecodeMulti(session.Name(), cookie.Value, &session.Values, env.store.Codecs...)
	require.NoError(t, err)

	cart, ok := session.Values[CartSessionKey].(map[uint]int)
	require.True(t, ok, "carrinho na sessão não é map[uint]int")
	return cart
}

// encodeCart monta um cookie de sessão com um carrinho pré-existente.
func encodeCart(t *testing.T, env *testEnv, cart map[uint]int) *http.Cookie {
	t.Helper()
	session := sessions.NewSession(env.store, SessionName)
	session.Values[CartSessionKey] = cart
	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, env.store.Codecs...)
	require.NoError(t, err)
	return &http.Cookie{Name: session.Name(), Value: encoded}
}

func TestCartAddAndDecrease(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "X-Salada", 25)
	addPath := fmt.Sprintf("/api/cart/add/%d", p.ID)

	t.Run("Adicionar primeiro item", func(t *testing.T) {
		recorder, body := env.doJSON(t, http.MethodPost, addPath, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, true, body["success"])
		assert.EqualValues(t, 1, body["newCartCount"])

		cart := decodeCart(t, env, sessionCookie(t, recorder.Result()))
		assert.Equal(t, 1, cart[p.ID])
	})

	t.Run("Incrementar item existente", func(t *testing.T) {
		cookie := encodeCart(t, env, map[uint]int{p.ID: 1})
		recorder, body := env.doJSON(t, http.MethodPost, addPath, nil, cookie)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.EqualValues(t, 2, body["newCartCount"])

		cart := decodeCart(t, env, sessionCookie(t, recorder.Result()))
		assert.Equal(t, 2, cart[p.ID])
	})

	t.Run("Diminuir até remover", func(t *testing.T) {
		cookie := encodeCart(t, env, map[uint]int{p.ID: 1})
		decreasePath := fmt.Sprintf("/api/cart/decrease/%d", p.ID)
		recorder, body := env.doJSON(t, http.MethodPost, decreasePath, nil, cookie)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.EqualValues(t, 0, body["newCartCount"])

		cart := decodeCart(t, env, sessionCookie(t, recorder.Result()))
		assert.NotContains(t, cart, p.ID)
	})

	t.Run("Produto inexistente", func(t *testing.T) {
		recorder, body := env.doJSON(t, http.MethodPost, "/api/cart/add/99999", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, false, body["success"])
	})

	t.Run("ID inválido", func(t *testing.T) {
		recorder, _ := env.doJSON(t, http.MethodPost, "/api/cart/add/abc", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestShowCart(t *testing.T) {
	env := newTestEnv(t)
	burger := env.seedProduct(t, "X-Burguer", 40)
	soda := env.seedProduct(t, "Refrigerante", 8)

	t.Run("Carrinho vazio", func(t *testing.T) {
		recorder, body := env.doJSON(t, http.MethodGet, "/api/cart", nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.EqualValues(t, 0, body["count"])
	})

	t.Run("Carrinho com itens usa preço atual do banco", func(t *testing.T) {
		cookie := encodeCart(t, env, map[uint]int{burger.ID: 2, soda.ID: 1})
		recorder, body := env.doJSON(t, http.MethodGet, "/api/cart", nil, cookie)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.EqualValues(t, 3, body["count"])
		assert.EqualValues(t, 88, body["subtotal"])
	})

	t.Run("Produto fora do ar some da listagem", func(t *testing.T) {
		require.NoError(t, env.db.Model(&soda).Update("disponivel", false).Error)

		cookie := encodeCart(t, env, map[uint]int{burger.ID: 1, soda.ID: 1})
		recorder, body := env.doJSON(t, http.MethodGet, "/api/cart", nil, cookie)
		require.Equal(t, http.StatusOK, recorder.Code)

		items, ok := body["items"].([]any)
		require.True(t, ok)
		assert.Len(t, items, 1)
		assert.EqualValues(t, 40, body["subtotal"])
	})

	t.Run("Esvaziar carrinho", func(t *testing.T) {
		cookie := encodeCart(t, env, map[uint]int{burger.ID: 3})
		recorder, body := env.doJSON(t, http.MethodPost, "/api/cart/clear", nil, cookie)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.EqualValues(t, 0, body["newCartCount"])
	})
}
