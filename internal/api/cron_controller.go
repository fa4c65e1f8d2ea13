package api

import (
	"net/http"
	"time"

	"github.com/RiyazHeadsup/general-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CronController 周期任务触发控制器
// 对外暴露手工触发入口,真正的定时调度由外部 cron 调用这些接口
type CronController struct {
	recurrence service.RecurrenceService
	logger     *logrus.Logger
	startedAt  time.Time
}

// NewCronController 创建周期任务控制器
func NewCronController(recurrence service.RecurrenceService, logger *logrus.Logger) *CronController {
	return &CronController{
		recurrence: recurrence,
		logger:     logger,
		startedAt:  time.Now(),
	}
}

// TriggerDaily 手动触发日任务凭证生成
func (c *CronController) TriggerDaily(ctx *gin.Context) {
	c.logger.Info("manual daily task trigger requested")

	result, err := c.recurrence.RunDaily(ctx.Request.Context(), time.Now())
	if err != nil {
		c.logger.WithError(err).Error("manual daily task trigger failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Error triggering daily task creation",
			"error":     err.Error(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Daily task creation triggered successfully",
		"timestamp": time.Now().Format(time.RFC3339),
		"result":    result,
	})
}

// TriggerMonthly 手动触发月任务凭证生成
func (c *CronController) TriggerMonthly(ctx *gin.Context) {
	c.logger.Info("manual monthly task trigger requested")

	result, err := c.recurrence.RunMonthly(ctx.Request.Context(), time.Now())
	if err != nil {
		c.logger.WithError(err).Error("manual monthly task trigger failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Error triggering monthly task creation",
			"error":     err.Error(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Monthly task creation triggered successfully",
		"timestamp": time.Now().Format(time.RFC3339),
		"result":    result,
	})
}

// DebugMonthly 月任务排期诊断,只读
func (c *CronController) DebugMonthly(ctx *gin.Context) {
	report, err := c.recurrence.DebugMonthly(ctx.Request.Context(), time.Now())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Error debugging monthly tasks",
			"error":     err.Error(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"timestamp": time.Now().Format(time.RFC3339),
		"debug":     report,
	})
}

// Status 返回触发入口与服务器时间信息
func (c *CronController) Status(ctx *gin.Context) {
	now := time.Now()
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cron trigger status",
		"serverTime": gin.H{
			"iso":      now.Format(time.RFC3339),
			"unixMs":   now.UnixMilli(),
			"timezone": now.Location().String(),
		},
		"uptimeSeconds": int64(time.Since(c.startedAt).Seconds()),
		"triggers": []gin.H{
			{
				"name":        "daily-task-creation",
				"endpoint":    "/generalservice/trigger-daily-task",
				"description": "Creates today's evidence for active daily tasks",
			},
			{
				"name":        "monthly-task-creation",
				"endpoint":    "/generalservice/trigger-monthly-task",
				"description": "Creates this month's evidence for active monthly tasks",
			},
		},
	})
}
