package api

import (
	"net/http"

	"github.com/RiyazHeadsup/general-service/internal/service"
	"github.com/gin-gonic/gin"
)

// StatisticsController 统计控制器
type StatisticsController struct {
	statisticsService service.StatisticsService
}

// NewStatisticsController 创建统计控制器
func NewStatisticsController(statisticsService service.StatisticsService) *StatisticsController {
	return &StatisticsController{
		statisticsService: statisticsService,
	}
}

// TasksByFrequency 按频率统计任务
func (c *StatisticsController) TasksByFrequency(ctx *gin.Context) {
	stats, err := c.statisticsService.GetTaskStatisticsByFrequency(ctx.Request.Context())
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get task statistics", err.Error())
		return
	}
	Success(ctx, stats)
}

// TasksByStatus 按状态统计任务
func (c *StatisticsController) TasksByStatus(ctx *gin.Context) {
	stats, err := c.statisticsService.GetTaskStatisticsByStatus(ctx.Request.Context())
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get task statistics", err.Error())
		return
	}
	Success(ctx, stats)
}

// Evidences 凭证统计
func (c *StatisticsController) Evidences(ctx *gin.Context) {
	stats, err := c.statisticsService.GetEvidenceStatistics(ctx.Request.Context())
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get evidence statistics", err.Error())
		return
	}
	Success(ctx, stats)
}
