package metrics

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Collector 指标收集器
type Collector struct {
	db       *gorm.DB
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCollector 创建指标收集器
func NewCollector(db *gorm.DB, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		db:       db,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start 启动指标收集器
func (c *Collector) Start() {
	go c.collect()
}

// Stop 停止指标收集器
func (c *Collector) Stop() {
	c.cancel()
	<-c.done
}

// collect 定期收集指标
func (c *Collector) collect() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			// 更新数据库连接数指标
			_ = UpdateDatabaseConnections(c.db)
			// 刷新任务频率分布
			c.refreshTaskGauges()
		}
	}
}

// refreshTaskGauges 按频率统计激活任务数
func (c *Collector) refreshTaskGauges() {
	type row struct {
		TaskFrequency string
		Count         float64
	}
	var rows []row
	err := c.db.WithContext(c.ctx).
		Table("tasks").
		Select("task_frequency, COUNT(*) as count").
		Where("status = ?", "active").
		Group("task_frequency").
		Scan(&rows).Error
	if err != nil {
		return
	}
	for _, r := range rows {
		UpdateTasksByFrequency(r.TaskFrequency, r.Count)
	}
}
