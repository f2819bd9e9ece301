package task

import "github.com/tasklive/backend/internal/domain/task"

// TaskDTO 任务响应
type TaskDTO struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

// SnapshotDTO 快照响应
type SnapshotDTO struct {
	Tasks      []TaskDTO `json:"tasks"`
	Filter     string    `json:"filter"`
	Search     string    `json:"search"`
	Generation uint64    `json:"generation"`
	Error      string    `json:"error,omitempty"`
}

// ViewState 当前筛选条件
type ViewState struct {
	Filter task.FilterType `json:"filter"`
	Search string          `json:"search"`
}

// ToTaskDTO 转换为 DTO
func ToTaskDTO(t task.Task) TaskDTO {
	return TaskDTO{
		ID:          t.ID,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
	}
}
