package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RiyazHeadsup/general-service/internal/api"
	"github.com/RiyazHeadsup/general-service/internal/config"
	"github.com/RiyazHeadsup/general-service/internal/model"
	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/RiyazHeadsup/general-service/internal/schedule"
	"github.com/RiyazHeadsup/general-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRouter 构建内存数据库上的完整路由
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.TaskModel{}, &model.TaskEvidenceModel{}))
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS uidx_evidences_task_date_owner ON task_evidences (task_id, created_at, owner_id)").Error)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	taskRepo := repository.NewTaskRepository(db)
	evidenceRepo := repository.NewEvidenceRepository(db)
	gate := service.NewEvidenceGate(evidenceRepo)
	materializer := service.NewEvidenceMaterializer(evidenceRepo, gate, logger)
	recurrence := service.NewRecurrenceService(taskRepo, gate, materializer, logger)

	controllers := &api.Controllers{
		Cron:       api.NewCronController(recurrence, logger),
		Task:       api.NewTaskController(service.NewTaskService(taskRepo)),
		Evidence:   api.NewEvidenceController(service.NewEvidenceService(evidenceRepo)),
		Statistics: api.NewStatisticsController(service.NewStatisticsService(db)),
	}

	cfg := config.Default()
	return api.SetupRoutes(cfg, db, controllers), db
}

// seedDailyTask 写入一条覆盖当前时间的 daily 任务
func seedDailyTask(t *testing.T, db *gorm.DB, id string) {
	now := time.Now()
	start := schedule.Millis(schedule.StartOfDay(now).AddDate(0, 0, -1))
	end := schedule.Millis(schedule.EndOfDay(now).AddDate(0, 0, 1))
	nowMs := now.UnixMilli()
	task := &model.TaskModel{
		ID:            id,
		TaskName:      "Daily task " + id,
		TaskFrequency: model.FrequencyDaily,
		Status:        model.TaskStatusActive,
		StartDateTime: &start,
		EndDateTime:   &end,
		AssignedTo:    model.StringList{"user-1"},
		IsCommon:      true,
		CreatedAt:     nowMs,
		UpdatedAt:     nowMs,
	}
	require.NoError(t, db.Create(task).Error)
}

// TestTriggerDailyTask 手动触发日任务生成
func TestTriggerDailyTask(t *testing.T) {
	router, db := setupRouter(t)
	seedDailyTask(t, db, "task-001")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generalservice/trigger-daily-task", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Daily task creation triggered successfully", body["message"])

	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), result["processedCount"])
	assert.Equal(t, float64(1), result["createdCount"])

	var count int64
	require.NoError(t, db.Model(&model.TaskEvidenceModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestTriggerDailyTaskTwice 重复触发按幂等跳过
func TestTriggerDailyTaskTwice(t *testing.T) {
	router, db := setupRouter(t)
	seedDailyTask(t, db, "task-001")

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/generalservice/trigger-daily-task", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	require.NoError(t, db.Model(&model.TaskEvidenceModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestCronStatus 状态接口返回触发入口信息
func TestCronStatus(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/generalservice/cron-status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	triggers, ok := body["triggers"].([]interface{})
	require.True(t, ok)
	assert.Len(t, triggers, 2)
}

// TestDebugMonthlyEndpoint 月任务诊断接口
func TestDebugMonthlyEndpoint(t *testing.T) {
	router, db := setupRouter(t)

	nowMs := time.Now().UnixMilli()
	task := &model.TaskModel{
		ID:                 "monthly-001",
		TaskName:           "Monthly inspection",
		TaskFrequency:      model.FrequencyMonthly,
		Status:             model.TaskStatusActive,
		AssignedTo:         model.StringList{"user-1"},
		WeekDaysForMonthly: model.IntList{1},
		MonthWeeks:         model.IntList{schedule.LastWeekSelector},
		IsCommon:           true,
		CreatedAt:          nowMs,
		UpdatedAt:          nowMs,
	}
	require.NoError(t, db.Create(task).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/generalservice/debug-monthly-tasks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	debug, ok := body["debug"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), debug["totalMonthlyTasks"])
}

// TestRouteNotFound 未匹配路由返回 JSON 404
func TestRouteNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "route not found", body["message"])
}

// TestHealthEndpoint 健康检查
func TestHealthEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}
