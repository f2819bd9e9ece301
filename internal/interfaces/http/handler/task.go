package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appTask "github.com/tasklive/backend/internal/application/task"
	"github.com/tasklive/backend/internal/domain/task"
	"github.com/tasklive/backend/internal/infrastructure/log"
	"github.com/tasklive/backend/internal/interfaces/http/response"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	service *appTask.Service
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(service *appTask.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Description string `json:"description"`
}

// EditTaskRequest 修改任务请求
type EditTaskRequest struct {
	Description string `json:"description"`
}

// List 获取当前视图的任务快照
// @Summary 获取任务快照
// @Description 返回当前筛选条件下最近一次发布的快照
// @Tags 任务
// @Produce json
// @Success 200 {object} response.Response{data=appTask.SnapshotDTO}
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	response.Success(c, h.service.Results().ToDTO())
}

// Query 按条件一次性查询任务
// @Summary 查询任务
// @Tags 任务
// @Produce json
// @Param filter query string false "all | completed | pending" default(all)
// @Param search query string false "描述子串（区分大小写）"
// @Success 200 {object} response.Response{data=[]appTask.TaskDTO}
// @Failure 400 {object} response.ErrorResponse
// @Router /tasks/query [get]
func (h *TaskHandler) Query(c *gin.Context) {
	filter := task.FilterAll
	if raw := c.Query("filter"); raw != "" {
		parsed, err := task.ParseFilterType(raw)
		if err != nil {
			response.BadRequest(c, response.CodeInvalidFilter, "筛选类型无效")
			return
		}
		filter = parsed
	}

	tasks, err := h.service.Query(c.Request.Context(), filter, c.Query("search"))
	if err != nil {
		writeServiceError(c, err, response.CodeQueryFailed, "查询任务失败")
		return
	}

	dtos := make([]appTask.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, appTask.ToTaskDTO(t))
	}
	response.Success(c, dtos)
}

// Get 获取单个任务
// @Summary 获取任务
// @Tags 任务
// @Produce json
// @Param id path int true "任务ID"
// @Success 200 {object} response.Response{data=appTask.TaskDTO}
// @Failure 404 {object} response.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	current, ok := h.lookup(c)
	if !ok {
		return
	}
	response.Success(c, appTask.ToTaskDTO(*current))
}

// Create 创建任务
// @Summary 创建任务
// @Tags 任务
// @Accept json
// @Produce json
// @Param body body CreateTaskRequest true "任务描述"
// @Success 200 {object} response.Response{data=appTask.TaskDTO}
// @Failure 400 {object} response.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数错误")
		return
	}

	created, err := h.service.AddTask(c.Request.Context(), req.Description)
	if err != nil {
		writeServiceError(c, err, response.CodeCreateFailed, "创建任务失败")
		return
	}

	log.FromContext(c.Request.Context(), log.NewModuleLogger("http", "task_handler")).
		Info("task created", "id", created.ID)
	response.Success(c, appTask.ToTaskDTO(*created))
}

// Edit 修改任务描述
// @Summary 修改任务
// @Tags 任务
// @Accept json
// @Produce json
// @Param id path int true "任务ID"
// @Param body body EditTaskRequest true "新描述"
// @Success 200 {object} response.Response{data=appTask.TaskDTO}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Edit(c *gin.Context) {
	var req EditTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数错误")
		return
	}

	current, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := h.service.EditTask(c.Request.Context(), *current, req.Description); err != nil {
		writeServiceError(c, err, response.CodeUpdateFailed, "更新任务失败")
		return
	}

	response.Success(c, appTask.ToTaskDTO(current.WithDescription(req.Description)))
}

// Toggle 切换任务完成状态
// @Summary 切换完成状态
// @Tags 任务
// @Produce json
// @Param id path int true "任务ID"
// @Success 200 {object} response.Response{data=appTask.TaskDTO}
// @Failure 404 {object} response.ErrorResponse
// @Router /tasks/{id}/toggle [post]
func (h *TaskHandler) Toggle(c *gin.Context) {
	current, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := h.service.ToggleTaskCompletion(c.Request.Context(), *current); err != nil {
		writeServiceError(c, err, response.CodeUpdateFailed, "更新任务失败")
		return
	}

	response.Success(c, appTask.ToTaskDTO(current.Toggled()))
}

// Delete 删除任务，任务不存在时同样返回成功
// @Summary 删除任务
// @Tags 任务
// @Produce json
// @Param id path int true "任务ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	current, err := h.service.Task(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, response.CodeLookupFailed, "查询任务失败")
		return
	}
	if current == nil {
		response.Success(c, gin.H{"deleted": false})
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), *current); err != nil {
		writeServiceError(c, err, response.CodeDeleteFailed, "删除任务失败")
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// DeleteAll 删除全部任务
// @Summary 删除全部任务
// @Tags 任务
// @Produce json
// @Success 200 {object} response.Response
// @Router /tasks [delete]
func (h *TaskHandler) DeleteAll(c *gin.Context) {
	if err := h.service.DeleteAllTasks(c.Request.Context()); err != nil {
		writeServiceError(c, err, response.CodeClearFailed, "清空任务失败")
		return
	}
	response.Success(c, nil)
}

// lookup 解析路径中的任务ID并查询任务，失败时已写入响应
func (h *TaskHandler) lookup(c *gin.Context) (*task.Task, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	current, err := h.service.Task(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, response.CodeLookupFailed, "查询任务失败")
		return nil, false
	}
	if current == nil {
		response.NotFound(c, response.CodeTaskNotFound, "任务不存在")
		return nil, false
	}
	return current, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, response.CodeInvalidParam, "任务ID无效")
		return 0, false
	}
	return id, true
}

// writeServiceError 把服务层错误映射为 HTTP 响应
func writeServiceError(c *gin.Context, err error, code int, message string) {
	switch {
	case errors.Is(err, task.ErrEmptyDescription):
		response.BadRequest(c, response.CodeEmptyDescription, "任务描述不能为空")
	case errors.Is(err, task.ErrInvalidFilter):
		response.BadRequest(c, response.CodeInvalidFilter, "筛选类型无效")
	case errors.Is(err, appTask.ErrServiceClosed):
		response.Error(c, http.StatusServiceUnavailable, response.CodeServiceClosed, "服务正在关闭")
	default:
		log.FromContext(c.Request.Context(), log.NewModuleLogger("http", "task_handler")).
			Error(message, "error", err)
		response.ErrorWithDetail(c, http.StatusInternalServerError, code, message, err.Error())
	}
}
