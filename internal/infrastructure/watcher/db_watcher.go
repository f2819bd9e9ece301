package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tasklive/backend/internal/domain/events"
	"github.com/tasklive/backend/internal/infrastructure/log"
)

// DBWatcher 监听 SQLite 数据库文件，把其他进程的写入转换为 TasksChanged 事件
//
// 本进程自己的写入会由仓储直接发布事件，这里再触发一次刷新是无害的（实时查询会合并信号）。
type DBWatcher struct {
	dbPath   string
	names    map[string]bool // 需要关注的文件名：主库、-wal、-journal
	debounce time.Duration
	bus      events.Publisher
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// 防抖相关
	debounceMu sync.Mutex
	timer      *time.Timer

	// 控制
	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewDBWatcher 创建数据库文件监听器
func NewDBWatcher(dbPath string, debounce time.Duration, bus events.Publisher) (*DBWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	base := filepath.Base(dbPath)
	return &DBWatcher{
		dbPath: dbPath,
		names: map[string]bool{
			base:              true,
			base + "-wal":     true,
			base + "-journal": true,
		},
		debounce: debounce,
		bus:      bus,
		watcher:  watcher,
		logger:   log.NewModuleLogger("watcher", "db_watcher"),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start 启动监听
// 监听的是数据库所在目录：-wal 文件可能在启动后才创建
func (w *DBWatcher) Start() error {
	dir := filepath.Dir(w.dbPath)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.logger.Info("Starting database watcher",
		"db_path", w.dbPath,
		"debounce", w.debounce,
	)

	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

// Stop 停止监听，可重复调用
func (w *DBWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.wg.Wait()

		w.debounceMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.debounceMu.Unlock()

		w.logger.Info("Database watcher stopped")
	})
}

// watchLoop 事件监听循环
func (w *DBWatcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleFsEvent 处理文件系统事件（带防抖）
func (w *DBWatcher) handleFsEvent(event fsnotify.Event) {
	if !w.names[filepath.Base(event.Name)] {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return
	}

	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.emit)
}

// emit 发布外部变更事件
func (w *DBWatcher) emit() {
	select {
	case <-w.stopCh:
		return
	default:
	}

	w.logger.Debug("Database file changed", "db_path", w.dbPath)
	w.bus.Publish(events.NewTasksChanged(events.OpExternal, 0))
}
