package task

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tasklive/backend/internal/domain/task"
)

// liveQuery 一次筛选条件对应的持续查询
// 每收到一次变更信号就重新执行查询并投递完整结果
type liveQuery struct {
	generation uint64
	filter     task.FilterType
	search     string
	fetch      fetchFunc

	// notify 容量为 1，查询进行中到达的多次信号合并为一次重查
	notify chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	failed atomic.Bool

	// ready 首次投递后关闭
	ready     chan struct{}
	readyOnce sync.Once
}

func newLiveQuery(parent context.Context, generation uint64, filter task.FilterType, search string, fetch fetchFunc) *liveQuery {
	ctx, cancel := context.WithCancel(parent)
	return &liveQuery{
		generation: generation,
		filter:     filter,
		search:     search,
		fetch:      fetch,
		notify:     make(chan struct{}, 1),
		ready:      make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// run 执行查询直到被取消或失败
func (q *liveQuery) run(deliver func(q *liveQuery, tasks []*task.Task, err error)) {
	for {
		tasks, err := q.fetch(q.ctx)
		if q.ctx.Err() != nil {
			return
		}
		if err != nil {
			q.failed.Store(true)
			deliver(q, nil, err)
			q.markReady()
			return
		}
		deliver(q, tasks, nil)
		q.markReady()

		select {
		case <-q.ctx.Done():
			return
		case <-q.notify:
		}
	}
}

// trigger 请求重新查询
func (q *liveQuery) trigger() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *liveQuery) markReady() {
	q.readyOnce.Do(func() { close(q.ready) })
}

func (q *liveQuery) stop() {
	q.cancel()
}

// active 查询仍在运行（未被取消也未失败）
func (q *liveQuery) active() bool {
	return q.ctx.Err() == nil && !q.failed.Load()
}
