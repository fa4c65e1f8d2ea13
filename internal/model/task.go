package model

import (
	"errors"
)

// 任务频率
const (
	FrequencyOnce    = "once"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly" // 遗留值,没有计算路径消费
	FrequencyMonthly = "monthly"
)

// 任务状态
const (
	TaskStatusActive   = "active"
	TaskStatusInactive = "inactive"
)

// 时间段状态
const (
	IntervalStatusPending   = "pending"
	IntervalStatusCompleted = "completed"
	IntervalStatusMissed    = "missed"
)

// TaskModel 任务数据模型
// 所有日期字段均为毫秒时间戳,范围查询按整数比较
type TaskModel struct {
	ID                  string       `gorm:"primaryKey;type:varchar(64)" json:"id"`
	TaskName            string       `gorm:"type:varchar(255);not null" json:"taskName"`
	Description         string       `gorm:"type:text" json:"description"`
	Priority            string       `gorm:"type:varchar(32)" json:"priority"` // low, medium, high, urgent
	TaskFrequency       string       `gorm:"type:varchar(32);not null;index" json:"taskFrequency"` // once, daily, weekly, monthly
	ScheduleType        string       `gorm:"type:varchar(32)" json:"scheduleType"`
	ScheduledDateTime   *int64       `gorm:"type:bigint" json:"scheduledDateTime"`
	StartDateTime       *int64       `gorm:"type:bigint;index" json:"startDateTime"` // 生效起点,仅 daily 使用
	EndDateTime         *int64       `gorm:"type:bigint;index" json:"endDateTime"`   // 生效终点,null 表示无限期
	TaskIntervals       IntervalList `gorm:"type:text" json:"taskIntervals"`
	RoleID              string       `gorm:"type:varchar(64);index" json:"roleId"`
	AssignedTo          StringList   `gorm:"type:text" json:"assignedTo"`
	UnitIDs             string       `gorm:"type:varchar(64)" json:"unitIds"`
	Status              string       `gorm:"type:varchar(32);not null;index" json:"status"` // active, inactive
	CreatedBy           string       `gorm:"type:varchar(64)" json:"createdBy"`
	UpdatedBy           string       `gorm:"type:varchar(64)" json:"upDatedBy"`
	WeekDays            StringList   `gorm:"type:text" json:"weekDays"`           // 遗留字段,原样透传
	WeekDaysForMonthly  IntList      `gorm:"type:text" json:"weekDaysForMonthly"` // 目标星期几,1=周一..7=周日
	MonthWeeks          IntList      `gorm:"type:text" json:"monthWeeks"`         // 月内周选择器,1-5,5 表示最后一周
	CreatedAt           int64        `gorm:"type:bigint;not null;index" json:"createdAt"`
	UpdatedAt           int64        `gorm:"type:bigint;not null" json:"updatedAt"`
	TaskCreatedForMonth *int64       `gorm:"column:taskcreatedformonth;type:bigint" json:"taskcreatedformonth"` // 当月凭证生成标记
	IsCommon            bool         `gorm:"not null;default:true" json:"isCommon"`                             // true: 所有人共用一条凭证
}

// TableName 指定表名
func (TaskModel) TableName() string {
	return "tasks"
}

// Validate 验证任务模型
func (t *TaskModel) Validate() error {
	if t.ID == "" {
		return errors.New("task ID is required")
	}
	if t.TaskName == "" {
		return errors.New("task name is required")
	}
	switch t.TaskFrequency {
	case FrequencyOnce, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return errors.New("invalid task frequency")
	}
	if t.Status != TaskStatusActive && t.Status != TaskStatusInactive {
		return errors.New("invalid task status")
	}
	return nil
}

// IsActive 判断任务是否激活
func (t *TaskModel) IsActive() bool {
	return t.Status == TaskStatusActive
}
