package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/RiyazHeadsup/general-service/internal/model"
	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/RiyazHeadsup/general-service/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupMaterializer 创建内存数据库上的完整生成链路
func setupMaterializer(t *testing.T) (*service.EvidenceMaterializer, repository.EvidenceRepository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.TaskModel{}, &model.TaskEvidenceModel{}))
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS uidx_evidences_task_date_owner ON task_evidences (task_id, created_at, owner_id)").Error)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	evidenceRepo := repository.NewEvidenceRepository(db)
	gate := service.NewEvidenceGate(evidenceRepo)
	return service.NewEvidenceMaterializer(evidenceRepo, gate, logger), evidenceRepo
}

// commonTask 构造共用凭证任务
func commonTask(id string, assignedTo []string) *model.TaskModel {
	now := time.Now().UnixMilli()
	return &model.TaskModel{
		ID:            id,
		TaskName:      "Opening checklist",
		TaskFrequency: model.FrequencyDaily,
		Status:        model.TaskStatusActive,
		AssignedTo:    model.StringList(assignedTo),
		IsCommon:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TestMaterializeCommonTask 共用任务生成一条携带完整指派列表的凭证
func TestMaterializeCommonTask(t *testing.T) {
	materializer, _ := setupMaterializer(t)
	ctx := context.Background()

	now := time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC)
	target := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)

	task := commonTask("task-001", []string{"user-1", "user-2"})
	created, err := materializer.Materialize(ctx, task, target, now, service.MaterializeOptions{})
	require.NoError(t, err)
	require.Len(t, created, 1)

	evidence := created[0]
	assert.Equal(t, "task-001", evidence.TaskID)
	assert.Equal(t, model.StringList{"user-1", "user-2"}, evidence.AssignedTo)
	assert.Equal(t, "", evidence.OwnerID)
	assert.Equal(t, model.EvidenceStatusPending, evidence.Status)
	// created_at 是目标日期零点,不是生成时刻
	assert.Equal(t, target.UnixMilli(), evidence.CreatedAt)
}

// TestMaterializeCommonTaskIdempotent 重复生成直接跳过
func TestMaterializeCommonTaskIdempotent(t *testing.T) {
	materializer, _ := setupMaterializer(t)
	ctx := context.Background()

	now := time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC)
	target := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)
	task := commonTask("task-001", []string{"user-1"})

	created, err := materializer.Materialize(ctx, task, target, now, service.MaterializeOptions{})
	require.NoError(t, err)
	require.Len(t, created, 1)

	created, err = materializer.Materialize(ctx, task, target, now, service.MaterializeOptions{})
	require.NoError(t, err)
	assert.Empty(t, created)
}

// TestMaterializePerUserTask 非共用任务按用户逐条生成
func TestMaterializePerUserTask(t *testing.T) {
	materializer, _ := setupMaterializer(t)
	ctx := context.Background()

	now := time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC)
	target := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)

	task := commonTask("task-001", []string{"user-1", "user-2"})
	task.IsCommon = false

	created, err := materializer.Materialize(ctx, task, target, now, service.MaterializeOptions{})
	require.NoError(t, err)
	require.Len(t, created, 2)

	owners := []string{created[0].OwnerID, created[1].OwnerID}
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, owners)
	for _, evidence := range created {
		require.Len(t, evidence.AssignedTo, 1)
		assert.Equal(t, evidence.OwnerID, evidence.AssignedTo[0])
	}
}

// TestMaterializePerUserTaskNewUserOnly 已覆盖用户不重复生成,只补新用户
func TestMaterializePerUserTaskNewUserOnly(t *testing.T) {
	materializer, _ := setupMaterializer(t)
	ctx := context.Background()

	now := time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC)
	target := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)

	task := commonTask("task-001", []string{"user-1"})
	task.IsCommon = false

	created, err := materializer.Materialize(ctx, task, target, now, service.MaterializeOptions{})
	require.NoError(t, err)
	require.Len(t, created, 1)

	// 任务后来新增了 user-2
	task.AssignedTo = model.StringList{"user-1", "user-2"}
	created, err = materializer.Materialize(ctx, task, target, now, service.MaterializeOptions{})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "user-2", created[0].OwnerID)
}

// TestMaterializeSkipsPastDate 过去的日期不生成
func TestMaterializeSkipsPastDate(t *testing.T) {
	materializer, _ := setupMaterializer(t)
	ctx := context.Background()

	now := time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC)
	past := time.Date(2025, time.December, 14, 0, 0, 0, 0, time.UTC)

	created, err := materializer.Materialize(ctx, commonTask("task-001", []string{"user-1"}), past, now, service.MaterializeOptions{})
	require.NoError(t, err)
	assert.Empty(t, created)
}

// TestMaterializeRedatesIntervals 模板时间段换到目标日期,保留时分
func TestMaterializeRedatesIntervals(t *testing.T) {
	materializer, _ := setupMaterializer(t)
	ctx := context.Background()

	now := time.Date(2025, time.December, 15, 6, 0, 0, 0, time.UTC)
	target := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)

	task := commonTask("task-001", []string{"user-1"})
	// 模板里的时间段挂在历史日期上
	task.TaskIntervals = model.IntervalList{
		{
			Start:           time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC).UnixMilli(),
			End:             time.Date(2025, time.January, 1, 11, 30, 0, 0, time.UTC).UnixMilli(),
			Status:          model.IntervalStatusCompleted,
			Interval:        "morning",
			TaskEvidenceURL: "https://example.com/old.png",
		},
	}

	created, err := materializer.Materialize(ctx, task, target, now, service.MaterializeOptions{})
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Len(t, created[0].TaskIntervals, 1)

	interval := created[0].TaskIntervals[0]
	start := time.UnixMilli(interval.Start).UTC()
	end := time.UnixMilli(interval.End).UTC()
	assert.Equal(t, 15, start.Day())
	assert.Equal(t, 9, start.Hour())
	assert.Equal(t, 15, end.Day())
	assert.Equal(t, 11, end.Hour())
	assert.Equal(t, 30, end.Minute())
	// 状态和凭证地址重置
	assert.Equal(t, model.IntervalStatusPending, interval.Status)
	assert.Empty(t, interval.TaskEvidenceURL)
}

// TestMaterializeFullDayFallback 无时间段模板在 daily 路径合成全天时间段
func TestMaterializeFullDayFallback(t *testing.T) {
	materializer, _ := setupMaterializer(t)
	ctx := context.Background()

	now := time.Date(2025, time.December, 15, 6, 0, 0, 0, time.UTC)
	target := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)

	task := commonTask("task-001", []string{"user-1"})
	created, err := materializer.Materialize(ctx, task, target, now, service.MaterializeOptions{FullDayFallback: true})
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Len(t, created[0].TaskIntervals, 1)

	interval := created[0].TaskIntervals[0]
	start := time.UnixMilli(interval.Start).UTC()
	end := time.UnixMilli(interval.End).UTC()
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, model.FrequencyDaily, interval.Interval)
}

// TestMaterializeFullDayFallbackDisabled 月路径不合成全天时间段
func TestMaterializeFullDayFallbackDisabled(t *testing.T) {
	materializer, _ := setupMaterializer(t)
	ctx := context.Background()

	now := time.Date(2025, time.December, 15, 6, 0, 0, 0, time.UTC)
	target := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)

	created, err := materializer.Materialize(ctx, commonTask("task-001", []string{"user-1"}), target, now, service.MaterializeOptions{})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Empty(t, created[0].TaskIntervals)
}
