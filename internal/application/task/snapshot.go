package task

import "github.com/tasklive/backend/internal/domain/task"

// Snapshot 某一时刻当前查询的完整结果
type Snapshot struct {
	Tasks  []task.Task
	Filter task.FilterType
	Search string
	// Generation 产生该快照的查询代数，筛选条件每变化一次加一
	Generation uint64
	// Err 查询失败时非空，此后该查询不再投递，直到下一次状态变化或写操作
	Err error
}

// ToDTO 转换为 DTO
func (s Snapshot) ToDTO() SnapshotDTO {
	dto := SnapshotDTO{
		Tasks:      make([]TaskDTO, 0, len(s.Tasks)),
		Filter:     s.Filter.String(),
		Search:     s.Search,
		Generation: s.Generation,
	}
	for _, t := range s.Tasks {
		dto.Tasks = append(dto.Tasks, ToTaskDTO(t))
	}
	if s.Err != nil {
		dto.Error = s.Err.Error()
	}
	return dto
}
