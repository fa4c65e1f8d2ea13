package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/RiyazHeadsup/general-service/internal/model"
	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDBForTask 创建任务测试数据库
func setupTestDBForTask(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// 迁移数据库
	err = db.AutoMigrate(&model.TaskModel{})
	require.NoError(t, err)

	return db
}

// newDailyTask 构造一个窗口内生效的 daily 任务
func newDailyTask(id string, startMs, endMs int64) *model.TaskModel {
	now := time.Now().UnixMilli()
	return &model.TaskModel{
		ID:            id,
		TaskName:      "Daily checklist " + id,
		TaskFrequency: model.FrequencyDaily,
		Status:        model.TaskStatusActive,
		StartDateTime: &startMs,
		EndDateTime:   &endMs,
		AssignedTo:    model.StringList{"user-1"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TestTaskRepository_SaveAndFindByID 测试保存与按 ID 查找
func TestTaskRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDBForTask(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	task := newDailyTask("task-001", 1000, 2000)
	err := repo.Save(ctx, task)
	assert.NoError(t, err)

	found, err := repo.FindByID(ctx, "task-001")
	require.NoError(t, err)
	assert.Equal(t, "task-001", found.ID)
	assert.Equal(t, model.FrequencyDaily, found.TaskFrequency)
	assert.Equal(t, model.StringList{"user-1"}, found.AssignedTo)
}

// TestTaskRepository_FindByIDNotFound 测试查找不存在的任务
func TestTaskRepository_FindByIDNotFound(t *testing.T) {
	db := setupTestDBForTask(t)
	repo := repository.NewTaskRepository(db)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// TestTaskRepository_FindActiveDaily 测试日任务生效窗口过滤
func TestTaskRepository_FindActiveDaily(t *testing.T) {
	db := setupTestDBForTask(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	dayStart := int64(10_000)
	dayEnd := int64(20_000)

	// 窗口覆盖今天
	require.NoError(t, repo.Save(ctx, newDailyTask("in-window", 5_000, 30_000)))
	// 已过期
	require.NoError(t, repo.Save(ctx, newDailyTask("expired", 1_000, 9_000)))
	// 还未开始
	require.NoError(t, repo.Save(ctx, newDailyTask("future", 25_000, 40_000)))
	// 无结束时间,视为长期有效
	openEnded := newDailyTask("open-ended", 5_000, 0)
	openEnded.EndDateTime = nil
	require.NoError(t, repo.Save(ctx, openEnded))
	// 非激活状态
	inactive := newDailyTask("inactive", 5_000, 30_000)
	inactive.Status = model.TaskStatusInactive
	require.NoError(t, repo.Save(ctx, inactive))
	// monthly 任务不在 daily 结果里
	monthly := newDailyTask("monthly", 5_000, 30_000)
	monthly.TaskFrequency = model.FrequencyMonthly
	require.NoError(t, repo.Save(ctx, monthly))

	tasks, err := repo.FindActiveDaily(ctx, dayStart, dayEnd)
	require.NoError(t, err)

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.ElementsMatch(t, []string{"in-window", "open-ended"}, ids)
}

// TestTaskRepository_FindActiveMonthly 测试月任务筛选
func TestTaskRepository_FindActiveMonthly(t *testing.T) {
	db := setupTestDBForTask(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	monthly := newDailyTask("monthly-1", 0, 0)
	monthly.TaskFrequency = model.FrequencyMonthly
	monthly.StartDateTime = nil
	monthly.EndDateTime = nil
	require.NoError(t, repo.Save(ctx, monthly))

	inactive := newDailyTask("monthly-2", 0, 0)
	inactive.TaskFrequency = model.FrequencyMonthly
	inactive.Status = model.TaskStatusInactive
	require.NoError(t, repo.Save(ctx, inactive))

	require.NoError(t, repo.Save(ctx, newDailyTask("daily-1", 0, 0)))

	tasks, err := repo.FindActiveMonthly(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "monthly-1", tasks[0].ID)
}

// TestTaskRepository_UpdateCreatedForMonth 测试月标记回写
func TestTaskRepository_UpdateCreatedForMonth(t *testing.T) {
	db := setupTestDBForTask(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	task := newDailyTask("task-001", 0, 0)
	task.TaskFrequency = model.FrequencyMonthly
	require.NoError(t, repo.Save(ctx, task))

	stamp := time.Now().UnixMilli()
	err := repo.UpdateCreatedForMonth(ctx, "task-001", stamp)
	assert.NoError(t, err)

	found, err := repo.FindByID(ctx, "task-001")
	require.NoError(t, err)
	require.NotNil(t, found.TaskCreatedForMonth)
	assert.Equal(t, stamp, *found.TaskCreatedForMonth)
}

// TestTaskRepository_FindByFilter 测试过滤查询
func TestTaskRepository_FindByFilter(t *testing.T) {
	db := setupTestDBForTask(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	a := newDailyTask("task-a", 0, 0)
	a.AssignedTo = model.StringList{"user-1", "user-2"}
	require.NoError(t, repo.Save(ctx, a))

	b := newDailyTask("task-b", 0, 0)
	b.AssignedTo = model.StringList{"user-3"}
	b.Status = model.TaskStatusInactive
	require.NoError(t, repo.Save(ctx, b))

	// 按状态过滤
	active := model.TaskStatusActive
	tasks, err := repo.FindByFilter(ctx, &repository.TaskFilter{Status: &active})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "task-a", tasks[0].ID)

	// 按指派用户过滤,JSON 文本元素匹配
	user := "user-2"
	tasks, err = repo.FindByFilter(ctx, &repository.TaskFilter{AssignedTo: &user})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "task-a", tasks[0].ID)

	// 空过滤器返回全部
	tasks, err = repo.FindByFilter(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

// TestTaskRepository_Delete 测试任务删除
func TestTaskRepository_Delete(t *testing.T) {
	db := setupTestDBForTask(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newDailyTask("task-001", 0, 0)))
	assert.NoError(t, repo.Delete(ctx, "task-001"))

	_, err := repo.FindByID(ctx, "task-001")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
