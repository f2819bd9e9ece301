package watcher

import (
	"github.com/google/wire"

	"github.com/tasklive/backend/internal/domain/events"
	"github.com/tasklive/backend/internal/infrastructure/config"
)

// ProviderSet 事件总线与文件监听 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideEventBus,
	ProvideDBWatcher,
	// 仓储只依赖发布端
	wire.Bind(new(events.Publisher), new(events.EventBus)),
)

// ProvideEventBus 提供事件总线实例
func ProvideEventBus() events.EventBus {
	return NewEventBus()
}

// ProvideDBWatcher 提供数据库文件监听器
// 未启用或使用非文件型数据库（mysql）时返回 nil
func ProvideDBWatcher(cfg *config.WatchConfig, dbCfg *config.DatabaseConfig, bus events.EventBus) (*DBWatcher, error) {
	if !cfg.Enabled || dbCfg.Driver == config.DriverMySQL {
		return nil, nil
	}
	return NewDBWatcher(dbCfg.DBPath(), cfg.DebounceDelay, bus)
}
