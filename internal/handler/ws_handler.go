package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ericoliveiras/meu-restaurante/internal/service"
	"github.com/ericoliveiras/meu-restaurante/internal/ws"
)

// WSHandler abre as conexões de acompanhamento em tempo real.
type WSHandler struct {
	Hub *ws.Hub
	Log *zap.Logger

	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, log *zap.Logger) *WSHandler {
	return &WSHandler{
		Hub: hub,
		Log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// A origem já é filtrada pelo middleware de CORS nas rotas REST;
			// o canal é broadcast-only e não carrega dado sensível.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe conecta o cliente aos tópicos do pedido/pagamento que ele está
// acompanhando: GET /ws?order=12&payment=345.
func (h *WSHandler) Subscribe(c *gin.Context) {
	var topics []string
	if orderID, err := strconv.ParseUint(c.Query("order"), 10, 32); err == nil {
		topics = append(topics, service.TopicOrder(uint(orderID)))
	}
	if paymentID, err := strconv.ParseInt(c.Query("payment"), 10, 64); err == nil {
		topics = append(topics, service.TopicPayment(paymentID))
	}
	if len(topics) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Informe order ou payment para acompanhar."})
		return
	}
	h.serve(c, topics)
}

// SubscribeAdmin conecta o painel ao firehose de todos os pedidos.
func (h *WSHandler) SubscribeAdmin(c *gin.Context) {
	h.serve(c, []string{service.TopicOrders})
}

func (h *WSHandler) serve(c *gin.Context, topics []string) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("falha no upgrade do websocket", zap.Error(err))
		return
	}
	h.Hub.HandleConn(conn, topics)
}
