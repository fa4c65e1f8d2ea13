package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RiyazHeadsup/general-service/internal/model"
	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTaskNotFound 任务不存在
var ErrTaskNotFound = errors.New("task not found")

// TaskService 任务服务接口
type TaskService interface {
	Create(ctx context.Context, req *CreateTaskRequest) (*model.TaskModel, error)
	Get(ctx context.Context, id string) (*model.TaskModel, error)
	List(ctx context.Context, filter *repository.TaskFilter) ([]*model.TaskModel, error)
	Update(ctx context.Context, id string, req *UpdateTaskRequest) (*model.TaskModel, error)
	Delete(ctx context.Context, id string) error
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	TaskName           string               `json:"taskName" binding:"required"`
	Description        string               `json:"description"`
	Priority           string               `json:"priority"`
	TaskFrequency      string               `json:"taskFrequency" binding:"required"`
	ScheduleType       string               `json:"scheduleType"`
	ScheduledDateTime  *int64               `json:"scheduledDateTime"`
	StartDateTime      *int64               `json:"startDateTime"`
	EndDateTime        *int64               `json:"endDateTime"`
	TaskIntervals      []model.TaskInterval `json:"taskIntervals"`
	RoleID             string               `json:"roleId"`
	AssignedTo         []string             `json:"assignedTo"`
	UnitIDs            string               `json:"unitIds"`
	CreatedBy          string               `json:"createdBy"`
	WeekDaysForMonthly []int                `json:"weekDaysForMonthly"`
	MonthWeeks         []int                `json:"monthWeeks"`
	IsCommon           *bool                `json:"isCommon"`
}

// UpdateTaskRequest 更新任务请求,指针字段为空表示不修改
type UpdateTaskRequest struct {
	TaskName           *string               `json:"taskName"`
	Description        *string               `json:"description"`
	Priority           *string               `json:"priority"`
	ScheduleType       *string               `json:"scheduleType"`
	ScheduledDateTime  *int64                `json:"scheduledDateTime"`
	StartDateTime      *int64                `json:"startDateTime"`
	EndDateTime        *int64                `json:"endDateTime"`
	TaskIntervals      *[]model.TaskInterval `json:"taskIntervals"`
	RoleID             *string               `json:"roleId"`
	AssignedTo         *[]string             `json:"assignedTo"`
	UnitIDs            *string               `json:"unitIds"`
	Status             *string               `json:"status"`
	UpdatedBy          *string               `json:"upDatedBy"`
	WeekDaysForMonthly *[]int                `json:"weekDaysForMonthly"`
	MonthWeeks         *[]int                `json:"monthWeeks"`
	IsCommon           *bool                 `json:"isCommon"`
}

// taskService 任务服务实现
type taskService struct {
	tasks repository.TaskRepository
}

// NewTaskService 创建任务服务
func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

// Create 创建任务
func (s *taskService) Create(ctx context.Context, req *CreateTaskRequest) (*model.TaskModel, error) {
	now := time.Now().UnixMilli()

	task := &model.TaskModel{
		ID:                 uuid.NewString(),
		TaskName:           req.TaskName,
		Description:        req.Description,
		Priority:           req.Priority,
		TaskFrequency:      req.TaskFrequency,
		ScheduleType:       req.ScheduleType,
		ScheduledDateTime:  req.ScheduledDateTime,
		StartDateTime:      req.StartDateTime,
		EndDateTime:        req.EndDateTime,
		TaskIntervals:      model.IntervalList(req.TaskIntervals),
		RoleID:             req.RoleID,
		AssignedTo:         model.StringList(req.AssignedTo),
		UnitIDs:            req.UnitIDs,
		Status:             model.TaskStatusActive,
		CreatedBy:          req.CreatedBy,
		WeekDaysForMonthly: model.IntList(req.WeekDaysForMonthly),
		MonthWeeks:         model.IntList(req.MonthWeeks),
		CreatedAt:          now,
		UpdatedAt:          now,
		IsCommon:           true,
	}
	if req.IsCommon != nil {
		task.IsCommon = *req.IsCommon
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Get 查询单个任务
func (s *taskService) Get(ctx context.Context, id string) (*model.TaskModel, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// List 按过滤条件查询任务
func (s *taskService) List(ctx context.Context, filter *repository.TaskFilter) ([]*model.TaskModel, error) {
	return s.tasks.FindByFilter(ctx, filter)
}

// Update 更新任务,只覆盖请求中出现的字段
func (s *taskService) Update(ctx context.Context, id string, req *UpdateTaskRequest) (*model.TaskModel, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TaskName != nil {
		task.TaskName = *req.TaskName
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.ScheduleType != nil {
		task.ScheduleType = *req.ScheduleType
	}
	if req.ScheduledDateTime != nil {
		task.ScheduledDateTime = req.ScheduledDateTime
	}
	if req.StartDateTime != nil {
		task.StartDateTime = req.StartDateTime
	}
	if req.EndDateTime != nil {
		task.EndDateTime = req.EndDateTime
	}
	if req.TaskIntervals != nil {
		task.TaskIntervals = model.IntervalList(*req.TaskIntervals)
	}
	if req.RoleID != nil {
		task.RoleID = *req.RoleID
	}
	if req.AssignedTo != nil {
		task.AssignedTo = model.StringList(*req.AssignedTo)
	}
	if req.UnitIDs != nil {
		task.UnitIDs = *req.UnitIDs
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.UpdatedBy != nil {
		task.UpdatedBy = *req.UpdatedBy
	}
	if req.WeekDaysForMonthly != nil {
		task.WeekDaysForMonthly = model.IntList(*req.WeekDaysForMonthly)
	}
	if req.MonthWeeks != nil {
		task.MonthWeeks = model.IntList(*req.MonthWeeks)
	}
	if req.IsCommon != nil {
		task.IsCommon = *req.IsCommon
	}
	task.UpdatedAt = time.Now().UnixMilli()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete 删除任务
func (s *taskService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}
