package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pv_simulator/internal/model"
	"pv_simulator/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Runner executes the generation pipeline for one building.
type Runner interface {
	Buildings() []string
	Run(building string) (model.GenerationResult, error)
}

// Handler manages WebSocket connections and routes run requests to the
// pipeline runner, caching results in the store.
type Handler struct {
	hub     *Hub
	runner  Runner
	results *store.Store
	logger  *zap.Logger
}

func NewHandler(hub *Hub, runner Runner, results *store.Store, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, runner: runner, results: results, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	h.sendDataLoaded(client)

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		h.handleMessage(msg)
	}
}

func (h *Handler) handleMessage(msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.logger.Warn("invalid message", zap.Error(err))
		return
	}

	switch env.Type {
	case TypeRunRequest:
		var p RunRequestPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.logger.Warn("invalid run:request payload", zap.Error(err))
			return
		}
		go h.runBuilding(p.Building)

	default:
		h.logger.Warn("unknown message type", zap.String("type", env.Type))
	}
}

// runBuilding serves the cached result when available, otherwise runs the
// pipeline. A failed run is reported to clients and does not affect other
// buildings.
func (h *Handler) runBuilding(building string) {
	if res, ok := h.results.Get(building); ok {
		h.broadcast(TypeRunResult, RunResultFromModel(res))
		return
	}

	h.broadcast(TypeRunStarted, RunStartedPayload{Building: building})

	res, err := h.runner.Run(building)
	if err != nil {
		h.logger.Error("pipeline run failed", zap.String("building", building), zap.Error(err))
		h.broadcast(TypeRunError, RunErrorPayload{Building: building, Error: err.Error()})
		return
	}

	h.results.Put(res)
	h.broadcast(TypeRunResult, RunResultFromModel(res))
}

func (h *Handler) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		h.logger.Error("encoding message", zap.String("type", msgType), zap.Error(err))
		return
	}
	h.hub.Broadcast(msg)
}

func (h *Handler) sendDataLoaded(c *Client) {
	msg, err := NewEnvelope(TypeDataLoaded, DataLoadedPayload{
		Buildings: h.runner.Buildings(),
	})
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
