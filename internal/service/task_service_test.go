package service_test

import (
	"context"
	"testing"

	"github.com/RiyazHeadsup/general-service/internal/model"
	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/RiyazHeadsup/general-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTaskService(t *testing.T) service.TaskService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.TaskModel{}))
	return service.NewTaskService(repository.NewTaskRepository(db))
}

// TestTaskService_Create 创建任务
func TestTaskService_Create(t *testing.T) {
	svc := setupTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &service.CreateTaskRequest{
		TaskName:      "Daily inspection",
		TaskFrequency: model.FrequencyDaily,
		AssignedTo:    []string{"user-1", "user-2"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, model.TaskStatusActive, task.Status)
	assert.True(t, task.IsCommon) // 未指定时默认共用
	assert.NotZero(t, task.CreatedAt)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	found, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Daily inspection", found.TaskName)
}

// TestTaskService_CreateInvalidFrequency 非法频率创建报错
func TestTaskService_CreateInvalidFrequency(t *testing.T) {
	svc := setupTaskService(t)

	_, err := svc.Create(context.Background(), &service.CreateTaskRequest{
		TaskName:      "Bad task",
		TaskFrequency: "yearly",
	})
	assert.Error(t, err)
}

// TestTaskService_CreateIsCommonFalse 显式非共用
func TestTaskService_CreateIsCommonFalse(t *testing.T) {
	svc := setupTaskService(t)
	isCommon := false

	task, err := svc.Create(context.Background(), &service.CreateTaskRequest{
		TaskName:      "Per-user task",
		TaskFrequency: model.FrequencyDaily,
		IsCommon:      &isCommon,
	})
	require.NoError(t, err)
	assert.False(t, task.IsCommon)
}

// TestTaskService_GetNotFound 查询不存在的任务
func TestTaskService_GetNotFound(t *testing.T) {
	svc := setupTaskService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

// TestTaskService_Update 部分更新只覆盖给定字段
func TestTaskService_Update(t *testing.T) {
	svc := setupTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &service.CreateTaskRequest{
		TaskName:      "Original name",
		Description:   "original description",
		TaskFrequency: model.FrequencyMonthly,
		AssignedTo:    []string{"user-1"},
	})
	require.NoError(t, err)

	newName := "Renamed task"
	status := model.TaskStatusInactive
	updated, err := svc.Update(ctx, task.ID, &service.UpdateTaskRequest{
		TaskName: &newName,
		Status:   &status,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed task", updated.TaskName)
	assert.Equal(t, model.TaskStatusInactive, updated.Status)
	// 未出现在请求中的字段保持原值
	assert.Equal(t, "original description", updated.Description)
	assert.Equal(t, model.StringList{"user-1"}, updated.AssignedTo)
}

// TestTaskService_UpdateNotFound 更新不存在的任务
func TestTaskService_UpdateNotFound(t *testing.T) {
	svc := setupTaskService(t)
	name := "whatever"

	_, err := svc.Update(context.Background(), "missing", &service.UpdateTaskRequest{TaskName: &name})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

// TestTaskService_Delete 删除任务
func TestTaskService_Delete(t *testing.T) {
	svc := setupTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &service.CreateTaskRequest{
		TaskName:      "Short lived",
		TaskFrequency: model.FrequencyOnce,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, task.ID))

	_, err = svc.Get(ctx, task.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, task.ID), service.ErrTaskNotFound)
}
