package storage

import "github.com/google/wire"

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideDB,         // 提供数据库连接
	ProvideDialect,    // 按驱动选择 SQL 方言
	NewTaskRepository, // 任务仓储
)
