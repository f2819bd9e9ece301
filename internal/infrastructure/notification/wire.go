package notification

import (
	"github.com/google/wire"

	appTask "github.com/tasklive/backend/internal/application/task"
)

// ProviderSet 通知基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	NewWebSocketPusher,
	// 接口绑定：application.Pusher -> infrastructure.WebSocketPusher
	wire.Bind(
		new(appTask.Pusher),
		new(*WebSocketPusher),
	),
)
