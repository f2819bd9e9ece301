package infrastructure

import (
	"github.com/google/wire"

	"github.com/tasklive/backend/internal/infrastructure/config"
	"github.com/tasklive/backend/internal/infrastructure/discovery"
	"github.com/tasklive/backend/internal/infrastructure/notification"
	"github.com/tasklive/backend/internal/infrastructure/storage"
	"github.com/tasklive/backend/internal/infrastructure/watcher"
	"github.com/tasklive/backend/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	watcher.ProviderSet,
	storage.ProviderSet,
	websocket.ProviderSet,
	notification.ProviderSet,
	discovery.ProviderSet,
)
