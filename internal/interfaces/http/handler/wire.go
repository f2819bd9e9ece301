package handler

import "github.com/google/wire"

// ProviderSet Handler ProviderSet
var ProviderSet = wire.NewSet(
	NewTaskHandler,
	NewViewHandler,
	NewLiveHandler,
)
