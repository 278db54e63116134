package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

type delivery struct {
	branches []string
	message  []byte
}

// Hub держит подключённых клиентов, сгруппированных по подразделению.
// Всё состояние меняется только внутри Run.
type Hub struct {
	byBranch   map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	outbound   chan delivery
	done       chan struct{}
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		byBranch:   make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan delivery),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run обслуживает хаб до отмены ctx. После выхода все Send-каналы закрыты.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.byBranch {
				for c := range clients {
					close(c.Send)
				}
			}
			h.byBranch = map[string]map[*Client]struct{}{}
			return
		case c := <-h.register:
			if h.byBranch[c.Branch] == nil {
				h.byBranch[c.Branch] = make(map[*Client]struct{})
			}
			h.byBranch[c.Branch][c] = struct{}{}
			h.logger.Debug("WebSocket: клиент подключен", zap.String("branch", c.Branch), zap.String("userID", c.UserID))
		case c := <-h.unregister:
			h.remove(c)
		case d := <-h.outbound:
			for _, branch := range d.branches {
				for c := range h.byBranch[branch] {
					select {
					case c.Send <- d.message:
					default:
						h.logger.Warn("WebSocket: клиент не успевает читать, отключаем", zap.String("userID", c.UserID))
						h.remove(c)
					}
				}
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	clients, ok := h.byBranch[c.Branch]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.Send)
	if len(clients) == 0 {
		delete(h.byBranch, c.Branch)
	}
}

// Register добавляет клиента. false - хаб уже остановлен.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// SendToBranches рассылает конверт всем клиентам перечисленных подразделений.
func (h *Hub) SendToBranches(ctx context.Context, branches []string, env Envelope) error {
	if len(branches) == 0 {
		return nil
	}
	message, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("сериализация сообщения WebSocket: %w", err)
	}
	select {
	case h.outbound <- delivery{branches: branches, message: message}:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
