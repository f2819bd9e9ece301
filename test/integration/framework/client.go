//go:build integration
// +build integration

// APIClient 基于 resty 封装的 HTTP 客户端，直接复用业务结构体
package framework

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	appTask "github.com/tasklive/backend/internal/application/task"
)

// APIClient 测试用 HTTP 客户端
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAPIClient 创建测试用 HTTP 客户端
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// --- 通用响应结构 ---

// APIResponse 通用 API 响应（复用 response.Response 的 JSON 结构）
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// DeleteData 删除响应 data
type DeleteData struct {
	Deleted bool `json:"deleted"`
}

// do 执行请求并统一处理成功/错误响应的 JSON 解析
// resty 的 SetResult 仅在 2xx 时解析，SetError 在 4xx/5xx 时解析
// 由于两者的 code/message 字段一致，用同类型接收即可
func do[T any](r *resty.Request, result *APIResponse[T]) *resty.Request {
	return r.SetResult(result).SetError(result)
}

// --- 健康检查 ---

// HealthCheck 健康检查
func (c *APIClient) HealthCheck() error {
	resp, err := c.client.R().Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode())
	}
	return nil
}

// --- 任务 ---

// CreateTask 新增任务
func (c *APIClient) CreateTask(description string) (*APIResponse[appTask.TaskDTO], error) {
	var result APIResponse[appTask.TaskDTO]
	_, err := do(c.client.R().SetBody(map[string]string{"description": description}), &result).
		Post("/api/v1/tasks")
	return &result, err
}

// GetTask 获取单个任务
func (c *APIClient) GetTask(id int64) (*APIResponse[appTask.TaskDTO], error) {
	var result APIResponse[appTask.TaskDTO]
	_, err := do(c.client.R(), &result).
		Get(fmt.Sprintf("/api/v1/tasks/%d", id))
	return &result, err
}

// EditTask 修改任务描述
func (c *APIClient) EditTask(id int64, description string) (*APIResponse[appTask.TaskDTO], error) {
	var result APIResponse[appTask.TaskDTO]
	_, err := do(c.client.R().SetBody(map[string]string{"description": description}), &result).
		Patch(fmt.Sprintf("/api/v1/tasks/%d", id))
	return &result, err
}

// ToggleTask 切换完成状态
func (c *APIClient) ToggleTask(id int64) (*APIResponse[appTask.TaskDTO], error) {
	var result APIResponse[appTask.TaskDTO]
	_, err := do(c.client.R(), &result).
		Post(fmt.Sprintf("/api/v1/tasks/%d/toggle", id))
	return &result, err
}

// DeleteTask 删除任务
func (c *APIClient) DeleteTask(id int64) (*APIResponse[DeleteData], error) {
	var result APIResponse[DeleteData]
	_, err := do(c.client.R(), &result).
		Delete(fmt.Sprintf("/api/v1/tasks/%d", id))
	return &result, err
}

// DeleteAllTasks 清空任务
func (c *APIClient) DeleteAllTasks() (*APIResponse[any], error) {
	var result APIResponse[any]
	_, err := do(c.client.R(), &result).
		Delete("/api/v1/tasks")
	return &result, err
}

// QueryTasks 按条件一次性查询
func (c *APIClient) QueryTasks(filter, search string) (*APIResponse[[]appTask.TaskDTO], error) {
	var result APIResponse[[]appTask.TaskDTO]
	_, err := do(c.client.R().
		SetQueryParam("filter", filter).
		SetQueryParam("search", search), &result).
		Get("/api/v1/tasks/query")
	return &result, err
}

// Snapshot 获取当前快照
func (c *APIClient) Snapshot() (*APIResponse[appTask.SnapshotDTO], error) {
	var result APIResponse[appTask.SnapshotDTO]
	_, err := do(c.client.R(), &result).
		Get("/api/v1/tasks")
	return &result, err
}

// --- 筛选状态 ---

// SetFilter 设置筛选类型
func (c *APIClient) SetFilter(filter string) (*APIResponse[appTask.ViewState], error) {
	var result APIResponse[appTask.ViewState]
	_, err := do(c.client.R().SetBody(map[string]string{"filter": filter}), &result).
		Put("/api/v1/view/filter")
	return &result, err
}

// SetSearch 设置搜索词
func (c *APIClient) SetSearch(query string) (*APIResponse[appTask.ViewState], error) {
	var result APIResponse[appTask.ViewState]
	_, err := do(c.client.R().SetBody(map[string]string{"query": query}), &result).
		Put("/api/v1/view/search")
	return &result, err
}

// --- 辅助方法 ---

// MustCreateTasks 批量创建任务（测试辅助），返回按创建顺序排列的 ID
func (c *APIClient) MustCreateTasks(descriptions ...string) ([]int64, error) {
	ids := make([]int64, 0, len(descriptions))
	for _, desc := range descriptions {
		resp, err := c.CreateTask(desc)
		if err != nil {
			return nil, fmt.Errorf("create task: %w", err)
		}
		if resp.Code != 0 {
			return nil, fmt.Errorf("create task failed: %s", resp.Message)
		}
		ids = append(ids, resp.Data.ID)
	}
	return ids, nil
}
