package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Client é uma conexão WebSocket assinando um conjunto fixo de tópicos.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	topics    []string
	closeOnce sync.Once
}

// HandleConn registra a conexão nos tópicos e bloqueia até ela cair.
func (h *Hub) HandleConn(conn *websocket.Conn, topics []string) {
	c := &Client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		topics: topics,
	}
	h.add(c)

	go c.writePump()
	c.readPump()

	h.remove(c)
	c.close()
}

// close fecha só a conexão. O canal send nunca é fechado: um Publish
// concorrente ainda pode estar com referência ao cliente, e o writePump
// termina sozinho no próximo write contra a conexão fechada.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}

// readPump só existe para processar pongs e detectar desconexão; o canal é
// broadcast-only e mensagens do cliente são descartadas.
func (c *Client) readPump() {
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
