package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tasklive/backend/internal/domain/events"
	"github.com/tasklive/backend/internal/domain/task"
	"github.com/tasklive/backend/internal/infrastructure/log"
)

// ErrServiceClosed 服务已关闭
var ErrServiceClosed = errors.New("task service is closed")

// writeOp 交给写协程执行的一次写操作
type writeOp struct {
	ctx    context.Context
	apply  func(ctx context.Context) error
	result chan error
}

// Service 任务查询服务
// 持有筛选类型与搜索词，任一变化都会切换到新的持续查询并向订阅者推送完整快照。
// 写操作在单个写协程中按提交顺序执行。
type Service struct {
	repo   task.Repository
	logger *slog.Logger

	mu          sync.Mutex
	filter      task.FilterType
	search      string
	generation  uint64
	live        *liveQuery
	current     Snapshot
	subscribers map[uint64]chan Snapshot
	nextSubID   uint64
	closed      bool

	ctx         context.Context
	cancel      context.CancelFunc
	writes      chan writeOp
	writerDone  chan struct{}
	liveWG      sync.WaitGroup
	unsubscribe func()
	closeOnce   sync.Once
}

// NewService 创建任务查询服务并启动默认查询（全部任务，无搜索词）
func NewService(repo task.Repository, bus events.EventBus) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		repo:        repo,
		logger:      log.NewModuleLogger("task", "service"),
		filter:      task.FilterAll,
		current:     Snapshot{Tasks: []task.Task{}, Filter: task.FilterAll},
		subscribers: make(map[uint64]chan Snapshot),
		ctx:         ctx,
		cancel:      cancel,
		writes:      make(chan writeOp),
		writerDone:  make(chan struct{}),
	}

	s.unsubscribe = bus.Subscribe(events.TasksChanged, events.HandlerFunc(s.handleTasksChanged))

	go s.writer()

	s.mu.Lock()
	s.recomposeLocked()
	s.mu.Unlock()

	return s
}

// SetFilter 切换筛选类型
func (s *Service) SetFilter(filter task.FilterType) error {
	if !filter.Valid() {
		return fmt.Errorf("%w: %q", task.ErrInvalidFilter, filter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServiceClosed
	}
	if s.filter == filter && s.live != nil && s.live.active() {
		return nil
	}
	s.filter = filter
	s.recomposeLocked()
	return nil
}

// SetSearchQuery 切换搜索词，空串表示不搜索
func (s *Service) SetSearchQuery(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServiceClosed
	}
	if s.search == query && s.live != nil && s.live.active() {
		return nil
	}
	s.search = query
	s.recomposeLocked()
	return nil
}

// State 当前筛选条件
func (s *Service) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ViewState{Filter: s.filter, Search: s.search}
}

// Results 当前筛选条件下的快照
// 条件刚变化、新查询尚未产出结果时会等待其首次投递，不会返回旧条件的结果
func (s *Service) Results() Snapshot {
	for {
		s.mu.Lock()
		if s.closed || s.live == nil || s.current.Generation == s.generation {
			snapshot := s.current
			s.mu.Unlock()
			return snapshot
		}
		q := s.live
		s.mu.Unlock()

		// 被取代或已投递后重新检查
		select {
		case <-q.ready:
		case <-q.ctx.Done():
		}
	}
}

// Subscribe 订阅快照
// 若当前查询已产出结果，返回的通道中立即可读到它。
// 订阅者处理慢时只保留最新快照。取消函数可重复调用。
func (s *Service) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch

	if s.generation != 0 && s.current.Generation == s.generation {
		ch <- s.current
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

// Task 按 ID 查询任务，不存在时返回 nil
func (s *Service) Task(ctx context.Context, id int64) (*task.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// Query 按给定条件执行一次性查询，不影响当前筛选状态
func (s *Service) Query(ctx context.Context, filter task.FilterType, search string) ([]task.Task, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: %q", task.ErrInvalidFilter, filter)
	}

	found, err := composeQuery(s.repo, filter, search)(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]task.Task, 0, len(found))
	for _, t := range found {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

// AddTask 新增未完成任务
func (s *Service) AddTask(ctx context.Context, description string) (*task.Task, error) {
	if err := task.ValidateDescription(description); err != nil {
		return nil, err
	}

	t := task.New(description)
	err := s.write(ctx, func(ctx context.Context) error {
		return s.repo.Insert(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("task added", "id", t.ID)
	return t, nil
}

// ToggleTaskCompletion 切换任务完成状态
func (s *Service) ToggleTaskCompletion(ctx context.Context, t task.Task) error {
	toggled := t.Toggled()
	return s.write(ctx, func(ctx context.Context) error {
		_, err := s.repo.Update(ctx, &toggled)
		return err
	})
}

// EditTask 修改任务描述，ID 与完成状态保持不变
func (s *Service) EditTask(ctx context.Context, t task.Task, description string) error {
	if err := task.ValidateDescription(description); err != nil {
		return err
	}

	edited := t.WithDescription(description)
	return s.write(ctx, func(ctx context.Context) error {
		_, err := s.repo.Update(ctx, &edited)
		return err
	})
}

// DeleteTask 删除任务
func (s *Service) DeleteTask(ctx context.Context, t task.Task) error {
	return s.write(ctx, func(ctx context.Context) error {
		_, err := s.repo.Delete(ctx, t.ID)
		return err
	})
}

// DeleteAllTasks 删除全部任务
func (s *Service) DeleteAllTasks(ctx context.Context) error {
	return s.write(ctx, func(ctx context.Context) error {
		n, err := s.repo.DeleteAll(ctx)
		if err == nil {
			s.logger.Info("all tasks deleted", "count", n)
		}
		return err
	})
}

// Close 停止当前查询与写协程，并关闭所有订阅通道，可重复调用
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()

		s.mu.Lock()
		s.closed = true
		if s.live != nil {
			s.live.stop()
			s.live = nil
		}
		for id, ch := range s.subscribers {
			close(ch)
			delete(s.subscribers, id)
		}
		s.mu.Unlock()

		s.cancel()
		<-s.writerDone
		s.liveWG.Wait()

		s.logger.Info("task service closed")
	})
}

// write 把写操作交给写协程并等待提交结果
func (s *Service) write(ctx context.Context, apply func(ctx context.Context) error) error {
	op := writeOp{ctx: ctx, apply: apply, result: make(chan error, 1)}

	select {
	case s.writes <- op:
	case <-s.ctx.Done():
		return ErrServiceClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// 已交给写协程后必须等待结果：写入可能已经提交，不能以 ctx.Err() 掩盖
	if err := <-op.result; err != nil {
		return err
	}

	// 查询失败后，下一次写操作负责重启它
	s.mu.Lock()
	if !s.closed && s.live != nil && !s.live.active() {
		s.recomposeLocked()
	}
	s.mu.Unlock()
	return nil
}

// writer 写协程，按到达顺序逐个执行写操作
func (s *Service) writer() {
	defer close(s.writerDone)
	for {
		select {
		case <-s.ctx.Done():
			return
		case op := <-s.writes:
			op.result <- op.apply(op.ctx)
		}
	}
}

// handleTasksChanged 数据变更后让当前查询重新执行
func (s *Service) handleTasksChanged(event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if s.live != nil && s.live.active() {
		s.live.trigger()
		return nil
	}
	s.recomposeLocked()
	return nil
}

// recomposeLocked 取消旧查询并按当前条件启动新查询，调用方需持有 s.mu
func (s *Service) recomposeLocked() {
	if s.live != nil {
		s.live.stop()
	}

	// 丢弃订阅通道中尚未读取的旧条件快照
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
	}

	s.generation++
	q := newLiveQuery(s.ctx, s.generation, s.filter, s.search, composeQuery(s.repo, s.filter, s.search))
	s.live = q

	s.liveWG.Add(1)
	go func() {
		defer s.liveWG.Done()
		q.run(s.deliver)
	}()
}

// deliver 发布查询结果，已被取代的查询结果直接丢弃
func (s *Service) deliver(q *liveQuery, tasks []*task.Task, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || q.generation != s.generation {
		return
	}

	snapshot := Snapshot{
		Tasks:      make([]task.Task, 0, len(tasks)),
		Filter:     q.filter,
		Search:     q.search,
		Generation: q.generation,
		Err:        err,
	}
	for _, t := range tasks {
		snapshot.Tasks = append(snapshot.Tasks, *t)
	}

	if err != nil {
		s.logger.Error("live query failed",
			"generation", q.generation,
			"filter", q.filter,
			"error", err,
		)
		snapshot.Tasks = nil
	}

	s.current = snapshot
	for _, ch := range s.subscribers {
		publish(ch, snapshot)
	}
}

// publish 非阻塞投递，通道已满时以新快照替换旧快照
func publish(ch chan Snapshot, snapshot Snapshot) {
	select {
	case ch <- snapshot:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snapshot:
	default:
	}
}
