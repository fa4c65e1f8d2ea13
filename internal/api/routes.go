package api

import (
	"net/http"

	"github.com/RiyazHeadsup/general-service/internal/config"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controllers 路由所需的控制器集合
type Controllers struct {
	Cron       *CronController
	Task       *TaskController
	Evidence   *EvidenceController
	Statistics *StatisticsController
}

// SetupRoutes 配置路由
func SetupRoutes(cfg *config.Config, db *gorm.DB, controllers *Controllers) *gin.Engine {
	if config.IsProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(ErrorHandlerMiddleware())

	// 健康检查
	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// 周期任务触发入口,限流保护,外部 cron 按计划调用
	gs := router.Group("/generalservice")
	{
		triggerLimit := RateLimitMiddleware(float64(cfg.Cron.TriggerRatePerMinute)/60.0, cfg.Cron.TriggerBurst)
		gs.POST("/trigger-daily-task", triggerLimit, controllers.Cron.TriggerDaily)
		gs.POST("/trigger-monthly-task", triggerLimit, controllers.Cron.TriggerMonthly)
		gs.GET("/debug-monthly-tasks", controllers.Cron.DebugMonthly)
		gs.GET("/cron-status", controllers.Cron.Status)
	}

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		// 任务管理路由
		tasks := v1.Group("/tasks")
		{
			tasks.POST("", controllers.Task.Create)
			tasks.GET("", controllers.Task.List)
			tasks.GET("/:id", controllers.Task.Get)
			tasks.PUT("/:id", controllers.Task.Update)
			tasks.DELETE("/:id", controllers.Task.Delete)
		}

		// 凭证查询路由
		evidences := v1.Group("/evidences")
		{
			evidences.GET("", controllers.Evidence.List)
			evidences.GET("/:id", controllers.Evidence.Get)
		}

		// 统计路由
		statistics := v1.Group("/statistics")
		{
			statistics.GET("/tasks/by-frequency", controllers.Statistics.TasksByFrequency)
			statistics.GET("/tasks/by-status", controllers.Statistics.TasksByStatus)
			statistics.GET("/evidences", controllers.Statistics.Evidences)
		}
	}

	// 未匹配路由统一返回 JSON
	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "route not found", c.Request.URL.Path)
	})

	return router
}
