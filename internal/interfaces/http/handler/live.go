package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tasklive/backend/internal/infrastructure/config"
	"github.com/tasklive/backend/internal/infrastructure/log"
	hub "github.com/tasklive/backend/internal/infrastructure/websocket"
)

const (
	// writeWait 单次写超时
	writeWait = 10 * time.Second
	// pongWait 等待 Pong 的最长时间
	pongWait = 60 * time.Second
	// pingPeriod 发送 Ping 的周期，需小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize 客户端消息上限，客户端只需发送控制帧
	maxMessageSize = 4 * 1024
)

// LiveHandler 任务快照 WebSocket 推送处理器
type LiveHandler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewLiveHandler 创建推送处理器
func NewLiveHandler(h *hub.Hub, cfg *config.WebSocketConfig) *LiveHandler {
	return &LiveHandler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // 本机与局域网客户端均允许
			},
		},
		logger: log.NewModuleLogger("http", "live_handler"),
	}
}

// Stream 升级为 WebSocket 并持续推送任务快照
// @Summary 订阅任务快照
// @Description 连接建立后立即收到当前快照，此后每次数据或筛选条件变化都会收到完整快照
// @Tags 任务
// @Router /tasks/live [get]
func (h *LiveHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection",
			"error", err,
		)
		return
	}

	clientID := uuid.New().String()
	ctx := log.WithClientID(c.Request.Context(), clientID)
	logger := log.FromContext(ctx, h.logger)

	client := h.hub.NewConnection(clientID)
	h.hub.Register(client)
	logger.Info("live client connected", "remote", c.Request.RemoteAddr)

	go h.writePump(conn, client, logger)
	h.readPump(conn, client, logger)
}

// readPump 读取客户端消息直到连接断开，仅用于处理控制帧
func (h *LiveHandler) readPump(conn *websocket.Conn, client *hub.Connection, logger *slog.Logger) {
	defer func() {
		h.hub.Unregister(client)
		_ = conn.Close()
		logger.Info("live client disconnected")
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		// 收到 Pong 说明对方存活，续期读取超时
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("connection read error",
					"error", err,
				)
			}
			return
		}
	}
}

// writePump 把 Hub 投递的消息写入连接，并定期发送 Ping
func (h *LiveHandler) writePump(conn *websocket.Conn, client *hub.Connection, logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 已关闭该连接
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
