package handler

import (
	"github.com/gin-gonic/gin"

	appTask "github.com/tasklive/backend/internal/application/task"
	"github.com/tasklive/backend/internal/domain/task"
	"github.com/tasklive/backend/internal/interfaces/http/response"
)

// ViewHandler 视图状态处理器（筛选类型与搜索词）
type ViewHandler struct {
	service *appTask.Service
}

// NewViewHandler 创建视图状态处理器
func NewViewHandler(service *appTask.Service) *ViewHandler {
	return &ViewHandler{service: service}
}

// SetFilterRequest 设置筛选请求
type SetFilterRequest struct {
	Filter string `json:"filter" binding:"required"`
}

// SetSearchRequest 设置搜索请求，query 为空串表示清除搜索
type SetSearchRequest struct {
	Query *string `json:"query" binding:"required"`
}

// Get 获取当前视图状态
// @Summary 获取视图状态
// @Tags 视图
// @Produce json
// @Success 200 {object} response.Response{data=appTask.ViewState}
// @Router /view [get]
func (h *ViewHandler) Get(c *gin.Context) {
	response.Success(c, h.service.State())
}

// SetFilter 设置筛选类型
// @Summary 设置筛选类型
// @Tags 视图
// @Accept json
// @Produce json
// @Param body body SetFilterRequest true "all | completed | pending"
// @Success 200 {object} response.Response{data=appTask.ViewState}
// @Failure 400 {object} response.ErrorResponse
// @Router /view/filter [put]
func (h *ViewHandler) SetFilter(c *gin.Context) {
	var req SetFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数错误")
		return
	}

	filter, err := task.ParseFilterType(req.Filter)
	if err != nil {
		response.BadRequest(c, response.CodeInvalidFilter, "筛选类型无效")
		return
	}

	if err := h.service.SetFilter(filter); err != nil {
		writeServiceError(c, err, response.CodeViewFailed, "设置筛选失败")
		return
	}

	response.Success(c, h.service.State())
}

// SetSearch 设置搜索词
// @Summary 设置搜索词
// @Tags 视图
// @Accept json
// @Produce json
// @Param body body SetSearchRequest true "搜索词"
// @Success 200 {object} response.Response{data=appTask.ViewState}
// @Failure 400 {object} response.ErrorResponse
// @Router /view/search [put]
func (h *ViewHandler) SetSearch(c *gin.Context) {
	var req SetSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数错误")
		return
	}

	if err := h.service.SetSearchQuery(*req.Query); err != nil {
		writeServiceError(c, err, response.CodeViewFailed, "设置搜索失败")
		return
	}

	response.Success(c, h.service.State())
}
