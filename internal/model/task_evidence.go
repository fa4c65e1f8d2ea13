package model

import (
	"errors"
)

// 凭证状态
const (
	EvidenceStatusPending   = "pending"
	EvidenceStatusApproved  = "approved"
	EvidenceStatusRejected  = "rejected"
	EvidenceStatusCompleted = "completed"
	EvidenceStatusMissed    = "missed"
)

// TaskEvidenceModel 任务凭证数据模型
// 每条记录对应一个具体日期的任务发生;生成时拷贝任务模板的描述字段。
// CreatedAt/UpdatedAt 为目标日期的零点毫秒时间戳(不是生成时的墙钟时间),
// 幂等检查以 CreatedAt 为键。
type TaskEvidenceModel struct {
	ID                 string       `gorm:"primaryKey;type:varchar(64)" json:"id"`
	TaskID             string       `gorm:"type:varchar(64);not null;index" json:"taskId"`
	TaskName           string       `gorm:"type:varchar(255);not null" json:"taskName"`
	Description        string       `gorm:"type:text" json:"description"`
	Priority           string       `gorm:"type:varchar(32)" json:"priority"`
	TaskFrequency      string       `gorm:"type:varchar(32);not null;index" json:"taskFrequency"`
	ScheduleType       string       `gorm:"type:varchar(32)" json:"scheduleType"`
	ScheduledDateTime  *int64       `gorm:"type:bigint" json:"scheduledDateTime"`
	StartDateTime      *int64       `gorm:"type:bigint" json:"startDateTime"`
	EndDateTime        *int64       `gorm:"type:bigint" json:"endDateTime"`
	TaskIntervals      IntervalList `gorm:"type:text" json:"taskIntervals"`
	WeekDays           StringList   `gorm:"type:text" json:"weekDays"`
	WeekDaysForMonthly IntList      `gorm:"type:text" json:"weekDaysForMonthly"`
	MonthWeeks         IntList      `gorm:"type:text" json:"monthWeeks"`
	RoleID             string       `gorm:"type:varchar(64);index" json:"roleId"`
	AssignedTo         StringList   `gorm:"type:text" json:"assignedTo"`
	UnitIDs            string       `gorm:"type:varchar(64)" json:"unitIds"`
	Status             string       `gorm:"type:varchar(32);not null;index" json:"status"`
	// OwnerID 非共用凭证的所属用户;共用凭证为空串。
	// 与 (task_id, created_at) 组成唯一索引,兜底并发下的重复生成。
	OwnerID     string `gorm:"type:varchar(64);not null;default:''" json:"ownerId"`
	SubmittedAt int64  `gorm:"type:bigint" json:"submittedAt"`
	CreatedAt   int64  `gorm:"type:bigint;not null;index" json:"createdAt"`
	UpdatedAt   int64  `gorm:"type:bigint;not null" json:"updatedAt"`
}

// TableName 指定表名
func (TaskEvidenceModel) TableName() string {
	return "task_evidences"
}

// Validate 验证凭证模型
func (e *TaskEvidenceModel) Validate() error {
	if e.ID == "" {
		return errors.New("evidence ID is required")
	}
	if e.TaskID == "" {
		return errors.New("task ID is required")
	}
	if e.TaskName == "" {
		return errors.New("task name is required")
	}
	if e.CreatedAt == 0 {
		return errors.New("created at is required")
	}
	return nil
}
