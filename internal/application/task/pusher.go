package task

import (
	"log/slog"
	"sync"

	"github.com/tasklive/backend/internal/infrastructure/log"
)

// Pusher 推送接口（定义在 application 层）
// 这是应用层需要的技术能力，不是领域概念
type Pusher interface {
	PushSnapshot(snapshot SnapshotDTO) error
}

// LivePublisher 把服务发布的每个快照转交给 Pusher
type LivePublisher struct {
	service *Service
	pusher  Pusher
	logger  *slog.Logger

	mu     sync.Mutex
	cancel func()
	done   chan struct{}
}

// NewLivePublisher 创建快照转发器
func NewLivePublisher(service *Service, pusher Pusher) *LivePublisher {
	return &LivePublisher{
		service: service,
		pusher:  pusher,
		logger:  log.NewModuleLogger("task", "live_publisher"),
	}
}

// Start 开始转发，重复调用无副作用
func (p *LivePublisher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ch, cancel := p.service.Subscribe()
	p.cancel = cancel
	p.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		for snapshot := range ch {
			if err := p.pusher.PushSnapshot(snapshot.ToDTO()); err != nil {
				// 推送失败不影响后续快照
				p.logger.Warn("failed to push snapshot",
					"generation", snapshot.Generation,
					"error", err,
				)
			}
		}
	}(p.done)
}

// Stop 停止转发并等待转发协程退出
func (p *LivePublisher) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
