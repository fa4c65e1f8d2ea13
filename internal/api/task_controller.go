package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/RiyazHeadsup/general-service/internal/service"
	"github.com/RiyazHeadsup/general-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskController 任务控制器
type TaskController struct {
	taskService service.TaskService
}

// NewTaskController 创建任务控制器
func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

// validateTaskID 验证任务 ID 并返回错误响应（如果无效）
func (c *TaskController) validateTaskID(ctx *gin.Context, id string) bool {
	if err := utils.ValidateTaskID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid task ID", err.Error())
		return false
	}
	return true
}

// Create 创建任务
func (c *TaskController) Create(ctx *gin.Context) {
	var req service.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := utils.ValidateTaskFrequency(req.TaskFrequency); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid task frequency", err.Error())
		return
	}

	task, err := c.taskService.Create(ctx.Request.Context(), &req)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to create task", err.Error())
		return
	}

	Success(ctx, task)
}

// Get 查询任务
func (c *TaskController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	task, err := c.taskService.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			Error(ctx, http.StatusNotFound, "task not found", "")
			return
		}
		Error(ctx, http.StatusInternalServerError, "failed to get task", err.Error())
		return
	}

	Success(ctx, task)
}

// List 按条件查询任务列表
func (c *TaskController) List(ctx *gin.Context) {
	filter := &repository.TaskFilter{}
	if v := ctx.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := ctx.Query("taskFrequency"); v != "" {
		if err := utils.ValidateTaskFrequency(v); err != nil {
			Error(ctx, http.StatusBadRequest, "invalid task frequency", err.Error())
			return
		}
		filter.TaskFrequency = &v
	}
	if v := ctx.Query("roleId"); v != "" {
		filter.RoleID = &v
	}
	if v := ctx.Query("assignedTo"); v != "" {
		filter.AssignedTo = &v
	}
	if v := ctx.Query("createdFrom"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid createdFrom", err.Error())
			return
		}
		filter.CreatedFrom = &ms
	}
	if v := ctx.Query("createdTo"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid createdTo", err.Error())
			return
		}
		filter.CreatedTo = &ms
	}

	tasks, err := c.taskService.List(ctx.Request.Context(), filter)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to list tasks", err.Error())
		return
	}

	Success(ctx, tasks)
}

// Update 更新任务
func (c *TaskController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	var req service.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.taskService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			Error(ctx, http.StatusNotFound, "task not found", "")
			return
		}
		Error(ctx, http.StatusInternalServerError, "failed to update task", err.Error())
		return
	}

	Success(ctx, task)
}

// Delete 删除任务
func (c *TaskController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	if err := c.taskService.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			Error(ctx, http.StatusNotFound, "task not found", "")
			return
		}
		Error(ctx, http.StatusInternalServerError, "failed to delete task", err.Error())
		return
	}

	Success(ctx, gin.H{"deleted": id})
}
