package task

import "context"

// Repository 任务仓储接口
//
// 查询结果一律按 ID 升序（即插入顺序）返回。
// 每次成功提交的写操作都会在事件总线上发布 events.TasksChanged，
// 实时查询依赖该事件重新拉取数据。
type Repository interface {
	// FindAll 获取所有任务
	FindAll(ctx context.Context) ([]*Task, error)

	// FindByCompletion 按完成状态查询
	FindByCompletion(ctx context.Context, completed bool) ([]*Task, error)

	// Search 查询描述包含 substring 的任务，空串匹配全部
	Search(ctx context.Context, substring string) ([]*Task, error)

	// FindByID 根据 ID 查找任务，不存在时返回 nil, nil
	FindByID(ctx context.Context, id int64) (*Task, error)

	// Insert 插入任务；ID 为 0 时由存储层分配并回写
	Insert(ctx context.Context, t *Task) error

	// Update 按 ID 覆盖描述与完成状态；ID 不存在时静默忽略并返回 false
	Update(ctx context.Context, t *Task) (bool, error)

	// Delete 删除任务；ID 不存在时静默忽略并返回 false
	Delete(ctx context.Context, id int64) (bool, error)

	// DeleteAll 删除所有任务，返回删除条数
	DeleteAll(ctx context.Context) (int64, error)
}
