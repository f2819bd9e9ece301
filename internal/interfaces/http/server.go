package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tasklive/backend/docs" // Swagger docs
	"github.com/tasklive/backend/internal/infrastructure/config"
	"github.com/tasklive/backend/internal/infrastructure/log"
	"github.com/tasklive/backend/internal/interfaces/http/handler"
	"github.com/tasklive/backend/internal/interfaces/http/middleware"
	"github.com/tasklive/backend/internal/interfaces/mcp"
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	taskHandler *handler.TaskHandler,
	viewHandler *handler.ViewHandler,
	liveHandler *handler.LiveHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	logger := log.NewModuleLogger("http", "server")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.EnsureUTF8Body(),
	)

	// 注册路由
	api := router.Group("/api/v1")
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.DELETE("", taskHandler.DeleteAll)
			tasks.GET("/query", taskHandler.Query)
			tasks.GET("/live", liveHandler.Stream)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PATCH("/:id", taskHandler.Edit)
			tasks.DELETE("/:id", taskHandler.Delete)
			tasks.POST("/:id/toggle", taskHandler.Toggle)
		}

		view := api.Group("/view")
		{
			view.GET("", viewHandler.Get)
			view.PUT("/filter", viewHandler.SetFilter)
			view.PUT("/search", viewHandler.SetSearch)
		}
	}

	// 健康检查，单例锁依赖 service 字段识别本程序
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": log.ServiceName})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if cfg.MCPEnabled && mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: cfg.HTTPPort,
		server: &http.Server{
			Addr:              cfg.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler 路由处理器
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start 在配置的端口上启动服务器（阻塞）
func (s *HTTPServer) Start() error {
	listener, err := net.Listen("tcp", s.httpPort)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve 在已获取的 listener 上提供服务（阻塞），正常关闭时返回 nil
func (s *HTTPServer) Serve(listener net.Listener) error {
	s.logger.Info("HTTP server starting",
		"addr", listener.Addr().String(),
	)

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
