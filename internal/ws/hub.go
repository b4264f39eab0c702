package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub distribui eventos por tópico. Cada conexão assina só os tópicos que
// lhe interessam (order:<id>, payment:<id> ou o firehose "orders" do
// painel), então nenhum cliente precisa filtrar evento alheio.
//
// Não há garantia de entrega nem replay: quem desconecta perde os eventos
// até reconectar e se atualizar via REST.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
	log    *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[*Client]struct{}),
		log:    log,
	}
}

// Publish envia a mensagem para todos os assinantes do tópico. Cliente com
// buffer cheio é derrubado em vez de travar o publicador.
func (h *Hub) Publish(topic string, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("falha ao serializar evento", zap.String("topic", topic), zap.Error(err))
		return
	}

	h.mu.RLock()
	subs := make([]*Client, 0, len(h.topics[topic]))
	for c := range h.topics[topic] {
		subs = append(subs, c)
	}
	h.mu.RUnlock()

	for _, c := range subs {
		select {
		case c.send <- data:
		default:
			h.log.Warn("cliente lento, desconectando", zap.String("topic", topic))
			h.remove(c)
			c.close()
		}
	}
}

// Subscribers devolve o total de assinantes de um tópico.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range c.topics {
		if h.topics[t] == nil {
			h.topics[t] = make(map[*Client]struct{})
		}
		h.topics[t][c] = struct{}{}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range c.topics {
		delete(h.topics[t], c)
		if len(h.topics[t]) == 0 {
			delete(h.topics, t)
		}
	}
}
