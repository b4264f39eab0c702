package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/model"
	"github.com/ericoliveiras/meu-restaurante/internal/repository"
)

const (
	SessionName    = "meu-restaurante-session"
	CartSessionKey = "shopping_cart"
)

// CartItemView carrega os dados vivos do produto junto da quantidade.
type CartItemView struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
	Subtotal float64       `json:"subtotal"`
}

// CartHandler guarda o carrinho na sessão (cookie) como map produto->qtde.
// O carrinho é só conveniência de navegação: no checkout tudo é revalidado
// e reprecificado contra o banco.
type CartHandler struct {
	Store *sessions.CookieStore
	Repo  *repository.Repository
	Log   *zap.Logger
}

func (h *CartHandler) getCart(c *gin.Context) (*sessions.Session, map[uint]int) {
	session, _ := h.Store.Get(c.Request, SessionName)
	cart, ok := session.Values[CartSessionKey].(map[uint]int)
	if !ok {
		cart = make(map[uint]int)
	}
	return session, cart
}

func (h *CartHandler) saveCart(c *gin.Context, session *sessions.Session, cart map[uint]int) bool {
	session.Values[CartSessionKey] = cart
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao salvar o carrinho."})
		return false
	}
	return true
}

func cartQuantity(cart map[uint]int) int {
	total := 0
	for _, q := range cart {
		total += q
	}
	return total
}

func parseProductID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID do produto inválido."})
		return 0, false
	}
	return uint(id64), true
}

// AddToCart adiciona uma unidade do produto ao carrinho.
func (h *CartHandler) AddToCart(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.Repo.Products.GetByID(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	if product == nil || !product.Disponivel {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Produto não encontrado ou indisponível."})
		return
	}

	session, cart := h.getCart(c)
	cart[productID]++
	if !h.saveCart(c, session, cart) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Item adicionado com sucesso!",
		"newCartCount": cartQuantity(cart),
	})
}

// DecreaseQuantity diminui uma unidade; zero remove o item.
func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	session, cart := h.getCart(c)
	if quantity, exists := cart[productID]; exists {
		if quantity > 1 {
			cart[productID]--
		} else {
			delete(cart, productID)
		}
		if !h.saveCart(c, session, cart) {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Quantidade atualizada.", "newCartCount": cartQuantity(cart)})
}

// RemoveFromCart tira o produto inteiro do carrinho.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	session, cart := h.getCart(c)
	delete(cart, productID)
	if !h.saveCart(c, session, cart) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removido.", "newCartCount": cartQuantity(cart)})
}

// ClearCart esvazia o carrinho.
func (h *CartHandler) ClearCart(c *gin.Context) {
	session, _ := h.getCart(c)
	if !h.saveCart(c, session, make(map[uint]int)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Carrinho esvaziado.", "newCartCount": 0})
}

// ShowCart monta a visão do carrinho com dados atuais do cardápio. Produto
// que saiu do ar some da lista.
func (h *CartHandler) ShowCart(c *gin.Context) {
	_, cart := h.getCart(c)
	if len(cart) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "items": []CartItemView{}, "subtotal": 0.0, "count": 0})
		return
	}

	ids := make([]uint, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}

	products, err := h.Repo.Products.AvailableByIDs(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}

	var subtotal float64
	items := make([]CartItemView, 0, len(products))
	for _, p := range products {
		quantity := cart[p.ID]
		lineTotal := p.Preco * float64(quantity)
		items = append(items, CartItemView{Product: p, Quantity: quantity, Subtotal: lineTotal})
		subtotal += lineTotal
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"items":    items,
		"subtotal": subtotal,
		"count":    cartQuantity(cart),
	})
}
