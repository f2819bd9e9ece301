// Package events 定义领域事件类型和接口
// 用于系统内部的事件驱动通信
package events

import "time"

// EventType 事件类型标识
type EventType string

// 任务数据相关事件类型
const (
	// TasksChanged 任务表已提交变更（任意写操作，或外部进程修改了数据库文件）
	TasksChanged EventType = "tasks.changed"
)

// Event 领域事件接口
// 所有事件类型都必须实现此接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Timestamp 返回事件发生时间
	Timestamp() time.Time
}
