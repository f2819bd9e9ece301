package events

import "time"

// ChangeOp 触发变更的写操作
type ChangeOp string

const (
	OpInsert    ChangeOp = "insert"
	OpUpdate    ChangeOp = "update"
	OpDelete    ChangeOp = "delete"
	OpDeleteAll ChangeOp = "delete_all"
	// OpExternal 数据库文件被其他进程修改
	OpExternal ChangeOp = "external"
)

// TasksChangedEvent 任务表变更事件
// 实时查询收到后重新拉取完整快照，因此事件只携带定位信息，不携带行数据
type TasksChangedEvent struct {
	Op ChangeOp
	// TaskID 受影响的任务 ID，批量或外部变更时为 0
	TaskID    int64
	EventTime time.Time
}

// NewTasksChanged 创建任务变更事件
func NewTasksChanged(op ChangeOp, taskID int64) *TasksChangedEvent {
	return &TasksChangedEvent{
		Op:        op,
		TaskID:    taskID,
		EventTime: time.Now(),
	}
}

// Type 实现 Event 接口
func (e *TasksChangedEvent) Type() EventType {
	return TasksChanged
}

// Timestamp 实现 Event 接口
func (e *TasksChangedEvent) Timestamp() time.Time {
	return e.EventTime
}

// IsExternal 是否来自外部进程
func (e *TasksChangedEvent) IsExternal() bool {
	return e.Op == OpExternal
}
