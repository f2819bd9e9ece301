package task

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyDescription 任务描述为空
	ErrEmptyDescription = errors.New("task description must not be empty")

	// ErrInvalidFilter 未知的筛选类型
	ErrInvalidFilter = errors.New("invalid filter type")
)

// ValidateDescription 校验任务描述，仅包含空白字符也视为空
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	return nil
}
