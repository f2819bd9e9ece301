package config

import "github.com/google/wire"

// ProviderSet 配置 ProviderSet
// *Config 由调用方加载后作为注入参数传入，启动前需要用它完成单例锁检查
var ProviderSet = wire.NewSet(
	NewDatabaseConfig,
	NewServerConfig,
	NewWebSocketConfig,
	NewWatchConfig,
	NewDiscoveryConfig,
)
