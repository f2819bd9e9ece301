package application

import (
	"github.com/google/wire"

	"github.com/tasklive/backend/internal/application/task"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	task.ProviderSet,
)
