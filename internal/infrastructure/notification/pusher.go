package notification

import (
	appTask "github.com/tasklive/backend/internal/application/task"
	"github.com/tasklive/backend/internal/infrastructure/websocket"
)

// MessageTypeSnapshot 快照消息类型
const MessageTypeSnapshot = "snapshot"

// Message 推送给客户端的消息
type Message struct {
	Type string              `json:"type"`
	Data appTask.SnapshotDTO `json:"data"`
}

// WebSocketPusher WebSocket 推送实现
type WebSocketPusher struct {
	hub *websocket.Hub
}

// NewWebSocketPusher 创建 WebSocket 推送器
func NewWebSocketPusher(hub *websocket.Hub) *WebSocketPusher {
	return &WebSocketPusher{hub: hub}
}

// PushSnapshot 向所有连接广播快照
func (p *WebSocketPusher) PushSnapshot(snapshot appTask.SnapshotDTO) error {
	return p.hub.Broadcast(Message{
		Type: MessageTypeSnapshot,
		Data: snapshot,
	})
}

// 编译时检查接口实现
var _ appTask.Pusher = (*WebSocketPusher)(nil)
