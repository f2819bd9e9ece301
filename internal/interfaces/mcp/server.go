package mcp

import (
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appTask "github.com/tasklive/backend/internal/application/task"
	"github.com/tasklive/backend/internal/infrastructure/log"
)

// Version 对外声明的服务版本
const Version = "0.1.0"

// MCPServer MCP 服务器
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	service *appTask.Service
	logger  *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(service *appTask.Service) *MCPServer {
	// 创建 MCP 服务器实例
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "tasklive-daemon",
			Version: Version,
		},
		nil, // 使用默认能力
	)

	// 创建服务器实例（用于闭包捕获依赖）
	mcpServer := &MCPServer{
		server:  server,
		service: service,
		logger:  log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name: "list_tasks",
		Description: `List tasks.
Parameters:
- filter (string, optional): all | completed | pending, defaults to the current view filter
- search (string, optional): case-sensitive literal substring of the description, defaults to the current view search

Returns: matching tasks ordered by id, plus the filter and search that were applied.`,
	}, mcpServer.listTasksTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_task",
		Description: "Add a pending task. Parameters: description (string, required) - must not be blank. Returns: the created task with its id.",
	}, mcpServer.addTaskTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_task",
		Description: "Flip the completion state of a task. Parameters: id (int, required) - task id. Returns: the task after the change.",
	}, mcpServer.toggleTaskTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "edit_task",
		Description: "Replace the description of a task, keeping its id and completion state. Parameters: id (int, required); description (string, required) - must not be blank. Returns: the task after the change.",
	}, mcpServer.editTaskTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task. Deleting a missing id is not an error. Parameters: id (int, required). Returns: whether a task existed.",
	}, mcpServer.deleteTaskTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_all_tasks",
		Description: "Delete every task. No parameters required.",
	}, mcpServer.deleteAllTasksTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_filter",
		Description: "Change the filter of the live task view shown to connected clients. Parameters: filter (string, required) - all | completed | pending. Returns: the view state.",
	}, mcpServer.setFilterTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_search",
		Description: "Change the search text of the live task view shown to connected clients. Parameters: query (string, required) - empty string clears the search. Returns: the view state.",
	}, mcpServer.setSearchTool)

	handler := mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	mcpServer.handler = handler
	return mcpServer
}

// GetHandler SSE 处理器
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Server 底层 MCP 服务器
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}

func (s *MCPServer) Start() error {
	s.logger.Info("MCP server ready (HTTP/SSE)")
	return nil
}

func (s *MCPServer) Stop() error {
	return nil
}
