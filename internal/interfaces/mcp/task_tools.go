package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appTask "github.com/tasklive/backend/internal/application/task"
	"github.com/tasklive/backend/internal/domain/task"
)

// ListTasksInput 任务列表工具输入
type ListTasksInput struct {
	Filter string  `json:"filter,omitempty" jsonschema:"all, completed or pending"`
	Search *string `json:"search,omitempty" jsonschema:"Literal substring of the description"`
}

// ListTasksOutput 任务列表工具输出
type ListTasksOutput struct {
	Tasks  []appTask.TaskDTO `json:"tasks" jsonschema:"Matching tasks ordered by id"`
	Filter string            `json:"filter" jsonschema:"Applied filter"`
	Search string            `json:"search" jsonschema:"Applied search text"`
	Total  int               `json:"total" jsonschema:"Number of tasks"`
}

// AddTaskInput 新增任务工具输入
type AddTaskInput struct {
	Description string `json:"description" jsonschema:"Task description"`
}

// TaskIDInput 按 ID 操作任务的工具输入
type TaskIDInput struct {
	ID int64 `json:"id" jsonschema:"Task id"`
}

// EditTaskInput 修改任务工具输入
type EditTaskInput struct {
	ID          int64  `json:"id" jsonschema:"Task id"`
	Description string `json:"description" jsonschema:"New description"`
}

// TaskOutput 单个任务工具输出
type TaskOutput struct {
	Task appTask.TaskDTO `json:"task" jsonschema:"The task"`
}

// DeleteTaskOutput 删除任务工具输出
type DeleteTaskOutput struct {
	Deleted bool `json:"deleted" jsonschema:"Whether the task existed"`
}

// EmptyInput 无参数工具输入
type EmptyInput struct{}

// SuccessOutput 通用成功输出
type SuccessOutput struct {
	Success bool `json:"success" jsonschema:"Operation result"`
}

// SetFilterInput 设置筛选工具输入
type SetFilterInput struct {
	Filter string `json:"filter" jsonschema:"all, completed or pending"`
}

// SetSearchInput 设置搜索工具输入
type SetSearchInput struct {
	Query string `json:"query" jsonschema:"Search text, empty clears the search"`
}

// ViewStateOutput 视图状态工具输出
type ViewStateOutput struct {
	Filter string `json:"filter" jsonschema:"Current filter"`
	Search string `json:"search" jsonschema:"Current search text"`
}

// listTasksTool 查询任务，未给出的条件沿用当前视图
func (s *MCPServer) listTasksTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListTasksInput,
) (*mcp.CallToolResult, ListTasksOutput, error) {
	state := s.service.State()

	filter := state.Filter
	if input.Filter != "" {
		parsed, err := task.ParseFilterType(input.Filter)
		if err != nil {
			return nil, ListTasksOutput{}, err
		}
		filter = parsed
	}
	search := state.Search
	if input.Search != nil {
		search = *input.Search
	}

	tasks, err := s.service.Query(ctx, filter, search)
	if err != nil {
		return nil, ListTasksOutput{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	output := ListTasksOutput{
		Tasks:  make([]appTask.TaskDTO, 0, len(tasks)),
		Filter: filter.String(),
		Search: search,
		Total:  len(tasks),
	}
	for _, t := range tasks {
		output.Tasks = append(output.Tasks, appTask.ToTaskDTO(t))
	}
	return nil, output, nil
}

// addTaskTool 新增任务
func (s *MCPServer) addTaskTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AddTaskInput,
) (*mcp.CallToolResult, TaskOutput, error) {
	created, err := s.service.AddTask(ctx, input.Description)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	s.logger.Info("task added via mcp", "id", created.ID)
	return nil, TaskOutput{Task: appTask.ToTaskDTO(*created)}, nil
}

// toggleTaskTool 切换任务完成状态
func (s *MCPServer) toggleTaskTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TaskIDInput,
) (*mcp.CallToolResult, TaskOutput, error) {
	current, err := s.lookup(ctx, input.ID)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	if err := s.service.ToggleTaskCompletion(ctx, *current); err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, TaskOutput{Task: appTask.ToTaskDTO(current.Toggled())}, nil
}

// editTaskTool 修改任务描述
func (s *MCPServer) editTaskTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EditTaskInput,
) (*mcp.CallToolResult, TaskOutput, error) {
	current, err := s.lookup(ctx, input.ID)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	if err := s.service.EditTask(ctx, *current, input.Description); err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, TaskOutput{Task: appTask.ToTaskDTO(current.WithDescription(input.Description))}, nil
}

// deleteTaskTool 删除任务，不存在时不报错
func (s *MCPServer) deleteTaskTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TaskIDInput,
) (*mcp.CallToolResult, DeleteTaskOutput, error) {
	current, err := s.service.Task(ctx, input.ID)
	if err != nil {
		return nil, DeleteTaskOutput{}, err
	}
	if current == nil {
		return nil, DeleteTaskOutput{Deleted: false}, nil
	}
	if err := s.service.DeleteTask(ctx, *current); err != nil {
		return nil, DeleteTaskOutput{}, err
	}
	return nil, DeleteTaskOutput{Deleted: true}, nil
}

// deleteAllTasksTool 删除全部任务
func (s *MCPServer) deleteAllTasksTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, SuccessOutput, error) {
	if err := s.service.DeleteAllTasks(ctx); err != nil {
		return nil, SuccessOutput{}, err
	}
	return nil, SuccessOutput{Success: true}, nil
}

// setFilterTool 切换视图筛选类型
func (s *MCPServer) setFilterTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SetFilterInput,
) (*mcp.CallToolResult, ViewStateOutput, error) {
	filter, err := task.ParseFilterType(input.Filter)
	if err != nil {
		return nil, ViewStateOutput{}, err
	}
	if err := s.service.SetFilter(filter); err != nil {
		return nil, ViewStateOutput{}, err
	}
	return nil, s.viewState(), nil
}

// setSearchTool 切换视图搜索词
func (s *MCPServer) setSearchTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SetSearchInput,
) (*mcp.CallToolResult, ViewStateOutput, error) {
	if err := s.service.SetSearchQuery(input.Query); err != nil {
		return nil, ViewStateOutput{}, err
	}
	return nil, s.viewState(), nil
}

func (s *MCPServer) lookup(ctx context.Context, id int64) (*task.Task, error) {
	current, err := s.service.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("task %d not found", id)
	}
	return current, nil
}

func (s *MCPServer) viewState() ViewStateOutput {
	state := s.service.State()
	return ViewStateOutput{Filter: state.Filter.String(), Search: state.Search}
}
