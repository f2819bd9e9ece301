package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/tasklive/backend/internal/infrastructure/config"
	"github.com/tasklive/backend/internal/infrastructure/log"
)

// Hub WebSocket 连接管理中心
// 所有连接订阅同一份任务快照流，新连接注册后立即收到最近一次广播
type Hub struct {
	// 当前连接
	clients map[*Connection]struct{}
	// 注册连接
	register chan *Connection
	// 注销连接
	unregister chan *Connection
	// 广播消息
	broadcast chan []byte
	// 最近一次广播的消息
	last []byte

	sendQueueSize int
	mu            sync.RWMutex
	done          chan struct{}
	stopOnce      sync.Once
	logger        *slog.Logger
}

// Connection WebSocket 连接
type Connection struct {
	ID   string
	Send chan []byte
}

// NewHub 创建 Hub
func NewHub(cfg *config.WebSocketConfig) *Hub {
	size := cfg.SendQueueSize
	if size <= 0 {
		size = 1
	}
	return &Hub{
		clients:       make(map[*Connection]struct{}),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		broadcast:     make(chan []byte),
		sendQueueSize: size,
		done:          make(chan struct{}),
		logger:        log.NewModuleLogger("websocket", "hub"),
	}
}

// NewConnection 创建一个待注册的连接
func (h *Hub) NewConnection(id string) *Connection {
	return &Connection{
		ID:   id,
		Send: make(chan []byte, h.sendQueueSize),
	}
}

// Run 运行 Hub（需要在 goroutine 中运行）
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			last := h.last
			h.mu.Unlock()
			if last != nil {
				offer(conn, last)
			}
			h.logger.Debug("client registered", "client_id", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", "client_id", conn.ID)

		case data := <-h.broadcast:
			h.mu.Lock()
			h.last = data
			for conn := range h.clients {
				offer(conn, data)
			}
			h.mu.Unlock()
		}
	}
}

// offer 投递消息，队列已满时丢弃最旧的一条，慢连接只会错过中间快照
func offer(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
		return
	default:
	}
	select {
	case <-conn.Send:
	default:
	}
	select {
	case conn.Send <- data:
	default:
	}
}

// closeAll 关闭所有连接的发送队列
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		close(conn.Send)
		delete(h.clients, conn)
	}
}

// Start 启动 Hub（启动后台 goroutine）
func (h *Hub) Start() {
	go h.Run()
}

// Stop 停止 Hub 并关闭所有连接，可重复调用
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// Register 注册连接，Hub 已停止时立即关闭其发送队列
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast 向所有连接广播消息
func (h *Hub) Broadcast(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- jsonData:
	case <-h.done:
	}
	return nil
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
