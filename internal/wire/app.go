package wire

import (
	"database/sql"
	"log/slog"
	"net"

	appTask "github.com/tasklive/backend/internal/application/task"
	"github.com/tasklive/backend/internal/domain/events"
	"github.com/tasklive/backend/internal/infrastructure/config"
	"github.com/tasklive/backend/internal/infrastructure/discovery"
	applog "github.com/tasklive/backend/internal/infrastructure/log"
	"github.com/tasklive/backend/internal/infrastructure/watcher"
	"github.com/tasklive/backend/internal/infrastructure/websocket"
	"github.com/tasklive/backend/internal/interfaces"
	"github.com/tasklive/backend/internal/interfaces/mcp"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer    *interfaces.HTTPServer
	MCPServer     *interfaces.MCPServer
	wsHub         *websocket.Hub
	taskService   *appTask.Service
	livePublisher *appTask.LivePublisher
	advertiser    *discovery.Advertiser
	discoveryCfg  *config.DiscoveryConfig
	db            *sql.DB
	logger        *slog.Logger

	// 数据库文件监听相关
	eventBus  events.EventBus
	dbWatcher *watcher.DBWatcher // 未启用时为 nil
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	wsHub *websocket.Hub,
	taskService *appTask.Service,
	livePublisher *appTask.LivePublisher,
	dbWatcher *watcher.DBWatcher,
	advertiser *discovery.Advertiser,
	discoveryCfg *config.DiscoveryConfig,
	eventBus events.EventBus,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer:    httpServer,
		MCPServer:     mcpServer,
		wsHub:         wsHub,
		taskService:   taskService,
		livePublisher: livePublisher,
		advertiser:    advertiser,
		discoveryCfg:  discoveryCfg,
		db:            db,
		logger:        applog.NewModuleLogger("app", "main"),
		eventBus:      eventBus,
		dbWatcher:     dbWatcher,
	}
}

// Start 启动所有服务，HTTP 服务器在 listener 上提供服务
func (a *App) Start(listener net.Listener) error {
	a.logger.Info("Starting tasklive backend application")

	// 启动 WebSocket Hub，再开始转发快照
	a.wsHub.Start()
	a.livePublisher.Start()

	// 启动数据库文件监听
	if a.dbWatcher != nil {
		if err := a.dbWatcher.Start(); err != nil {
			a.logger.Error("Failed to start database watcher",
				"error", err,
			)
		} else {
			a.logger.Info("Database watcher started successfully")
		}
	}

	if err := a.MCPServer.Start(); err != nil {
		return err
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Serve(listener); err != nil {
			a.logger.Error("HTTP server stopped with error",
				"error", err,
			)
		}
	}()

	// 局域网广播（可选）
	if a.discoveryCfg.Enabled {
		a.startAdvertiser(listener.Addr().String())
	}

	a.logger.Info("tasklive backend application started successfully")
	return nil
}

// startAdvertiser 广播失败不影响主服务
func (a *App) startAdvertiser(addr string) {
	port, err := discovery.PortFromAddr(addr)
	if err != nil {
		a.logger.Error("Failed to resolve advertised port",
			"addr", addr,
			"error", err,
		)
		return
	}

	info := discovery.BuildServiceInfo(a.discoveryCfg.InstanceName, port, mcp.Version)
	if err := a.advertiser.Start(info); err != nil {
		a.logger.Error("Failed to start mDNS advertiser",
			"error", err,
		)
	}
}

// stopStep 关闭流程中的一步
type stopStep struct {
	name string
	stop func() error
}

// Stop 停止所有服务
// 某一步失败时记录日志并继续释放后续资源，返回第一个错误
func (a *App) Stop() error {
	a.logger.Info("Stopping tasklive backend application")

	steps := []stopStep{
		{"mDNS advertiser", a.advertiser.Stop},
		{"HTTP server", a.HTTPServer.Stop},
		{"MCP server", a.MCPServer.Stop},
		{"database watcher", func() error {
			if a.dbWatcher != nil {
				a.dbWatcher.Stop()
			}
			return nil
		}},
		// 先停止转发，再关闭服务（关闭会结束所有订阅）
		{"live publisher", func() error {
			a.livePublisher.Stop()
			return nil
		}},
		{"task service", func() error {
			a.taskService.Close()
			return nil
		}},
		{"websocket hub", func() error {
			a.wsHub.Stop()
			return nil
		}},
		{"event bus", func() error {
			if a.eventBus != nil {
				a.eventBus.Close()
			}
			return nil
		}},
		{"database connection", func() error {
			if a.db == nil {
				return nil
			}
			return a.db.Close()
		}},
	}

	if err := runStopSteps(a.logger, steps); err != nil {
		return err
	}
	a.logger.Info("tasklive backend application stopped successfully")
	return nil
}

// runStopSteps 依次执行所有步骤，失败不中断
func runStopSteps(logger *slog.Logger, steps []stopStep) error {
	var firstErr error
	for _, step := range steps {
		if err := step.stop(); err != nil {
			logger.Error("Failed to stop "+step.name,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Debug("Stopped " + step.name)
	}
	return firstErr
}
