package task

import (
	"fmt"
	"strings"
)

// Task 任务实体
type Task struct {
	ID          int64  // 唯一标识，由存储层在插入时分配，不可变且不复用
	Description string // 任务描述
	IsCompleted bool   // 是否完成
}

// New 创建一个未完成的新任务（ID 由存储层分配）
func New(description string) *Task {
	return &Task{Description: description}
}

// Toggled 返回完成状态取反后的副本
func (t Task) Toggled() Task {
	t.IsCompleted = !t.IsCompleted
	return t
}

// WithDescription 返回替换描述后的副本，ID 与完成状态保持不变
func (t Task) WithDescription(description string) Task {
	t.Description = description
	return t
}

// Contains 描述是否包含给定子串（区分大小写，空串匹配所有任务）
func (t Task) Contains(substring string) bool {
	return strings.Contains(t.Description, substring)
}

// FilterType 任务筛选类型
type FilterType string

const (
	// FilterAll 全部任务
	FilterAll FilterType = "all"
	// FilterCompleted 已完成任务
	FilterCompleted FilterType = "completed"
	// FilterPending 未完成任务
	FilterPending FilterType = "pending"
)

// String 实现 fmt.Stringer
func (f FilterType) String() string {
	return string(f)
}

// Valid 是否为已知筛选类型
func (f FilterType) Valid() bool {
	switch f {
	case FilterAll, FilterCompleted, FilterPending:
		return true
	}
	return false
}

// Match 判断任务是否满足筛选条件
func (f FilterType) Match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.IsCompleted
	case FilterPending:
		return !t.IsCompleted
	default:
		return true
	}
}

// ParseFilterType 解析筛选类型（大小写不敏感）
func ParseFilterType(s string) (FilterType, error) {
	f := FilterType(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
	return f, nil
}
