package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/23f3001208/iris-classifier/pkg/domain"
	"github.com/23f3001208/iris-classifier/pkg/ports"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// eventBufferSize is how many events a slow client may lag behind before
// events are dropped
const eventBufferSize = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler handles WebSocket connections
type Handler struct {
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(eventBus ports.EventBus, logger *zap.Logger) *Handler {
	return &Handler{
		eventBus: eventBus,
		logger:   logger,
	}
}

// HandlePredictionStream streams prediction events to the client until
// either side closes the connection
func (h *Handler) HandlePredictionStream(c *gin.Context) {
	eventType := domain.EventType(c.Query("type"))

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Subscribe before the handshake so nothing published after it is missed
	eventChan := make(chan domain.Event, eventBufferSize)
	if err := h.eventBus.Subscribe(ctx, domain.TopicPredictions, h.forwardTo(eventChan)); err != nil {
		h.logger.Error("failed to subscribe to events",
			zap.String("topic", domain.TopicPredictions),
			zap.Error(err))
		c.Status(http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("WebSocket connection established",
		zap.String("client", c.ClientIP()),
		zap.String("event_type", string(eventType)))

	// The client never sends anything; reading only detects the close
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket connection closed", zap.String("client", c.ClientIP()))
			return
		case event := <-eventChan:
			if eventType != "" && event.Type != eventType {
				continue
			}

			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event", zap.Error(err))
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Error("failed to write message", zap.Error(err))
				return
			}
		}
	}
}

// forwardTo returns an event handler feeding ch without blocking the bus
func (h *Handler) forwardTo(ch chan<- domain.Event) ports.EventHandler {
	return func(ctx context.Context, event domain.Event) error {
		select {
		case ch <- event:
		default:
			h.logger.Warn("event channel full, dropping event",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)))
		}
		return nil
	}
}
