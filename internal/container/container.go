package container

import (
	"fmt"
	"time"

	"github.com/RiyazHeadsup/general-service/internal/api"
	"github.com/RiyazHeadsup/general-service/internal/config"
	"github.com/RiyazHeadsup/general-service/internal/database"
	"github.com/RiyazHeadsup/general-service/internal/metrics"
	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/RiyazHeadsup/general-service/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理所有应用依赖,包括数据库、仓储、服务
type Container struct {
	db                *gorm.DB
	logger            *logrus.Logger
	taskRepository    repository.TaskRepository
	evidenceRepo      repository.EvidenceRepository
	taskService       service.TaskService
	evidenceService   service.EvidenceService
	recurrenceService service.RecurrenceService
	statisticsService service.StatisticsService
	metricsCollector  *metrics.Collector
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化日志
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 2. 初始化数据库（带重试机制）
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. 初始化仓储
	taskRepo := repository.NewTaskRepository(db)
	evidenceRepo := repository.NewEvidenceRepository(db)

	// 4. 初始化服务
	gate := service.NewEvidenceGate(evidenceRepo)
	materializer := service.NewEvidenceMaterializer(evidenceRepo, gate, logger)
	recurrenceService := service.NewRecurrenceService(taskRepo, gate, materializer, logger)
	taskService := service.NewTaskService(taskRepo)
	evidenceService := service.NewEvidenceService(evidenceRepo)
	statisticsService := service.NewStatisticsService(db)

	// 5. 启动指标收集器,每 30 秒刷新数据库与任务指标
	collector := metrics.NewCollector(db, 30*time.Second)
	collector.Start()

	return &Container{
		db:                db,
		logger:            logger,
		taskRepository:    taskRepo,
		evidenceRepo:      evidenceRepo,
		taskService:       taskService,
		evidenceService:   evidenceService,
		recurrenceService: recurrenceService,
		statisticsService: statisticsService,
		metricsCollector:  collector,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Logger 获取日志记录器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// TaskRepository 获取任务仓储
func (c *Container) TaskRepository() repository.TaskRepository {
	return c.taskRepository
}

// EvidenceRepository 获取凭证仓储
func (c *Container) EvidenceRepository() repository.EvidenceRepository {
	return c.evidenceRepo
}

// TaskService 获取任务服务
func (c *Container) TaskService() service.TaskService {
	return c.taskService
}

// EvidenceService 获取凭证查询服务
func (c *Container) EvidenceService() service.EvidenceService {
	return c.evidenceService
}

// RecurrenceService 获取周期任务服务
func (c *Container) RecurrenceService() service.RecurrenceService {
	return c.recurrenceService
}

// StatisticsService 获取统计服务
func (c *Container) StatisticsService() service.StatisticsService {
	return c.statisticsService
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.metricsCollector != nil {
		c.metricsCollector.Stop()
	}

	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return nil
}
