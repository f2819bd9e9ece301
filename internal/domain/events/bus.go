package events

// Handler 事件处理器接口
// 订阅者需要实现此接口来处理事件
type Handler interface {
	// HandleEvent 处理事件
	// 返回 error 表示处理失败（仅用于日志记录，不会重试）
	HandleEvent(event Event) error
}

// HandlerFunc 函数类型的处理器适配器
type HandlerFunc func(event Event) error

// HandleEvent 实现 Handler 接口
func (f HandlerFunc) HandleEvent(event Event) error {
	return f(event)
}

// Publisher 只负责发布事件的一端（仓储层只依赖它）
type Publisher interface {
	// Publish 异步发布事件
	Publish(event Event)
}

// EventBus 事件总线接口
type EventBus interface {
	Publisher

	// Subscribe 订阅特定类型的事件
	// 返回取消订阅的函数，可重复调用
	Subscribe(eventType EventType, handler Handler) (unsubscribe func())

	// SubscribeMultiple 订阅多个类型的事件
	SubscribeMultiple(eventTypes []EventType, handler Handler) (unsubscribe func())

	// Close 关闭事件总线
	// 停止接收新事件，等待已发布事件处理完成
	Close()
}
