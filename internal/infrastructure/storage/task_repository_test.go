package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklive/backend/internal/domain/events"
	"github.com/tasklive/backend/internal/domain/task"
)

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.TasksChangedEvent
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := event.(*events.TasksChangedEvent); ok {
		p.events = append(p.events, e)
	}
}

func (p *recordingPublisher) ops() []events.ChangeOp {
	p.mu.Lock()
	defer p.mu.Unlock()
	ops := make([]events.ChangeOp, 0, len(p.events))
	for _, e := range p.events {
		ops = append(ops, e.Op)
	}
	return ops
}

// setupTestDB 创建临时测试数据库
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func setupRepo(t *testing.T) (task.Repository, *recordingPublisher) {
	t.Helper()

	pub := &recordingPublisher{}
	repo, err := NewTaskRepository(setupTestDB(t), SQLiteDialect, pub)
	require.NoError(t, err)
	return repo, pub
}

func insert(t *testing.T, repo task.Repository, description string, completed bool) *task.Task {
	t.Helper()

	item := &task.Task{Description: description, IsCompleted: completed}
	require.NoError(t, repo.Insert(context.Background(), item))
	return item
}

func descriptions(items []*task.Task) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Description)
	}
	return out
}

func TestTaskRepository_InsertAssignsID(t *testing.T) {
	repo, pub := setupRepo(t)
	ctx := context.Background()

	first := insert(t, repo, "buy milk", false)
	second := insert(t, repo, "buy bread", false)

	assert.NotZero(t, first.ID, "插入后应自动分配 ID")
	assert.Greater(t, second.ID, first.ID)

	found, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "buy milk", found.Description)
	assert.False(t, found.IsCompleted)

	assert.Equal(t, []events.ChangeOp{events.OpInsert, events.OpInsert}, pub.ops())
}

func TestTaskRepository_InsertWithExplicitID(t *testing.T) {
	repo, _ := setupRepo(t)

	item := &task.Task{ID: 100, Description: "preset"}
	require.NoError(t, repo.Insert(context.Background(), item))
	assert.Equal(t, int64(100), item.ID)

	next := insert(t, repo, "after preset", false)
	assert.Greater(t, next.ID, int64(100))
}

func TestTaskRepository_IDsNeverReused(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	first := insert(t, repo, "one", false)
	_, err := repo.DeleteAll(ctx)
	require.NoError(t, err)

	second := insert(t, repo, "two", false)
	assert.Greater(t, second.ID, first.ID, "AUTOINCREMENT 保证删除后 ID 不复用")
}

func TestTaskRepository_FindAllOrderedByID(t *testing.T) {
	repo, _ := setupRepo(t)

	insert(t, repo, "c", false)
	insert(t, repo, "a", true)
	insert(t, repo, "b", false)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, descriptions(all))
}

func TestTaskRepository_FindAllEmpty(t *testing.T) {
	repo, _ := setupRepo(t)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestTaskRepository_FindByCompletion(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	insert(t, repo, "pending 1", false)
	insert(t, repo, "done 1", true)
	insert(t, repo, "done 2", true)
	insert(t, repo, "pending 2", false)

	done, err := repo.FindByCompletion(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"done 1", "done 2"}, descriptions(done))
	for _, item := range done {
		assert.True(t, item.IsCompleted)
	}

	pending, err := repo.FindByCompletion(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"pending 1", "pending 2"}, descriptions(pending))
}

func TestTaskRepository_Search(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	insert(t, repo, "buy milk", false)
	insert(t, repo, "Buy bread", true)
	insert(t, repo, "100% done", false)
	insert(t, repo, "file_name", false)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"substring", "buy", []string{"buy milk"}},
		{"case sensitive", "Buy", []string{"Buy bread"}},
		{"percent is literal", "%", []string{"100% done"}},
		{"underscore is literal", "_", []string{"file_name"}},
		{"empty matches all", "", []string{"buy milk", "Buy bread", "100% done", "file_name"}},
		{"no match", "xyz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, descriptions(found))
		})
	}
}

func TestTaskRepository_Update(t *testing.T) {
	repo, pub := setupRepo(t)
	ctx := context.Background()

	item := insert(t, repo, "draft", false)

	item.Description = "final"
	item.IsCompleted = true
	updated, err := repo.Update(ctx, item)
	require.NoError(t, err)
	assert.True(t, updated)

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", found.Description)
	assert.True(t, found.IsCompleted)

	assert.Equal(t, []events.ChangeOp{events.OpInsert, events.OpUpdate}, pub.ops())
}

func TestTaskRepository_UpdateMissingIsNoop(t *testing.T) {
	repo, pub := setupRepo(t)
	ctx := context.Background()

	updated, err := repo.Update(ctx, &task.Task{ID: 404, Description: "ghost"})
	require.NoError(t, err)
	assert.False(t, updated)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "更新不存在的任务不应插入新行")
	assert.Empty(t, pub.ops())
}

func TestTaskRepository_DeleteIdempotent(t *testing.T) {
	repo, pub := setupRepo(t)
	ctx := context.Background()

	keep := insert(t, repo, "keep", false)
	drop := insert(t, repo, "drop", false)

	deleted, err := repo.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)

	// 第二次删除没有提交任何变更，不发布事件
	assert.Equal(t, []events.ChangeOp{events.OpInsert, events.OpInsert, events.OpDelete}, pub.ops())
}

func TestTaskRepository_DeleteAll(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	insert(t, repo, "a", false)
	insert(t, repo, "b", true)

	count, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	count, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTaskRepository_FindByIDMissing(t *testing.T) {
	repo, _ := setupRepo(t)

	found, err := repo.FindByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestTaskRepository_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "durable.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	repo, err := NewTaskRepository(db, SQLiteDialect, nil)
	require.NoError(t, err)
	insert(t, repo, "survives restart", true)
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	repo, err = NewTaskRepository(db, SQLiteDialect, nil)
	require.NoError(t, err)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "survives restart", all[0].Description)
	assert.True(t, all[0].IsCompleted)
}

func TestTaskRepository_ClosedDBReturnsError(t *testing.T) {
	db := setupTestDB(t)
	repo, err := NewTaskRepository(db, SQLiteDialect, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	err = repo.Insert(context.Background(), task.New("lost"))
	assert.Error(t, err)

	_, err = repo.FindAll(context.Background())
	assert.Error(t, err)
}
