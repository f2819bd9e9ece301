package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tasklive/backend/internal/domain/events"
	"github.com/tasklive/backend/internal/domain/task"
	"github.com/tasklive/backend/internal/infrastructure/log"
)

const selectTaskColumns = `SELECT id, description, is_completed FROM tasks`

// taskRepository 任务仓储实现（SQLite / MySQL）
type taskRepository struct {
	db        *sql.DB
	dialect   Dialect
	publisher events.Publisher
	logger    *slog.Logger
}

// NewTaskRepository 创建任务仓储实例，并确保表结构存在
// publisher 可为 nil（不发布变更事件）
func NewTaskRepository(db *sql.DB, dialect Dialect, publisher events.Publisher) (task.Repository, error) {
	if err := initTaskTable(db, dialect); err != nil {
		return nil, err
	}
	return &taskRepository{
		db:        db,
		dialect:   dialect,
		publisher: publisher,
		logger:    log.NewModuleLogger("storage", "task_repository"),
	}, nil
}

// initTaskTable 初始化任务表
func initTaskTable(db *sql.DB, dialect Dialect) error {
	for _, stmt := range dialect.Schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to init tasks table: %w", err)
		}
	}
	return nil
}

// FindAll 获取所有任务
func (r *taskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTaskColumns+`
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	return scanTasks(rows)
}

// FindByCompletion 按完成状态查询
func (r *taskRepository) FindByCompletion(ctx context.Context, completed bool) ([]*task.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTaskColumns+`
		WHERE is_completed = ?
		ORDER BY id ASC`,
		boolToInt(completed),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by completion: %w", err)
	}
	return scanTasks(rows)
}

// Search 查询描述包含 substring 的任务
func (r *taskRepository) Search(ctx context.Context, substring string) ([]*task.Task, error) {
	if substring == "" {
		return r.FindAll(ctx)
	}

	rows, err := r.db.QueryContext(ctx, selectTaskColumns+`
		WHERE `+r.dialect.SearchPredicate+`
		ORDER BY id ASC`,
		substring,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return scanTasks(rows)
}

// FindByID 根据 ID 查找任务
func (r *taskRepository) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	var (
		t         task.Task
		completed int
	)
	err := r.db.QueryRowContext(ctx, selectTaskColumns+`
		WHERE id = ?`,
		id,
	).Scan(
		&t.ID,
		&t.Description,
		&completed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query task: %w", err)
	}
	t.IsCompleted = completed == 1
	return &t, nil
}

// Insert 插入任务
func (r *taskRepository) Insert(ctx context.Context, t *task.Task) error {
	var (
		result sql.Result
		err    error
	)
	if t.ID == 0 {
		result, err = r.db.ExecContext(ctx, `
			INSERT INTO tasks (description, is_completed)
			VALUES (?, ?)`,
			t.Description,
			boolToInt(t.IsCompleted),
		)
	} else {
		result, err = r.db.ExecContext(ctx, `
			INSERT INTO tasks (id, description, is_completed)
			VALUES (?, ?, ?)`,
			t.ID,
			t.Description,
			boolToInt(t.IsCompleted),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	if t.ID == 0 {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted task id: %w", err)
		}
		t.ID = id
	}

	r.logger.Debug("Task inserted", "id", t.ID)
	r.publish(events.OpInsert, t.ID)
	return nil
}

// Update 按 ID 覆盖描述与完成状态
func (r *taskRepository) Update(ctx context.Context, t *task.Task) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET description = ?,
			is_completed = ?
		WHERE id = ?`,
		t.Description,
		boolToInt(t.IsCompleted),
		t.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		r.logger.Debug("Update skipped, task not found", "id", t.ID)
		return false, nil
	}

	r.publish(events.OpUpdate, t.ID)
	return true, nil
}

// Delete 删除任务
func (r *taskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	r.publish(events.OpDelete, id)
	return true, nil
}

// DeleteAll 删除所有任务
func (r *taskRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all tasks: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	r.logger.Info("All tasks deleted", "count", count)
	if count > 0 {
		r.publish(events.OpDeleteAll, 0)
	}
	return count, nil
}

// publish 在提交成功后发布变更事件
func (r *taskRepository) publish(op events.ChangeOp, id int64) {
	if r.publisher == nil {
		return
	}
	r.publisher.Publish(events.NewTasksChanged(op, id))
}

// scanTasks 读取结果集并关闭 rows
// 空结果返回空切片而不是 nil，便于序列化为 []
func scanTasks(rows *sql.Rows) ([]*task.Task, error) {
	defer rows.Close()

	items := make([]*task.Task, 0)
	for rows.Next() {
		var (
			t         task.Task
			completed int
		)
		if err := rows.Scan(
			&t.ID,
			&t.Description,
			&completed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.IsCompleted = completed == 1
		items = append(items, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return items, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// 编译时检查接口实现
var _ task.Repository = (*taskRepository)(nil)
