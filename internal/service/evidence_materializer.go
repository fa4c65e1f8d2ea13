package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RiyazHeadsup/general-service/internal/model"
	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/RiyazHeadsup/general-service/internal/schedule"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EvidenceMaterializer 把任务模板落成指定日期的凭证记录
type EvidenceMaterializer struct {
	evidences repository.EvidenceRepository
	gate      *EvidenceGate
	logger    *logrus.Logger
}

// NewEvidenceMaterializer 创建凭证生成器
func NewEvidenceMaterializer(evidences repository.EvidenceRepository, gate *EvidenceGate, logger *logrus.Logger) *EvidenceMaterializer {
	return &EvidenceMaterializer{
		evidences: evidences,
		gate:      gate,
		logger:    logger,
	}
}

// MaterializeOptions 生成选项
type MaterializeOptions struct {
	// FullDayFallback 模板没有时间段时合成一个覆盖全天的时间段,
	// 仅 daily 路径启用
	FullDayFallback bool
}

// Materialize 为目标日期生成凭证
// 过去的日期不生成(targetDate == 当天 会生成);isCommon 任务生成一条共用记录,
// 否则每个被指派用户一条。单条写入失败不影响同级记录,返回已创建的记录和
// 汇总错误(如有)。唯一键冲突按幂等跳过处理,不算失败。
func (m *EvidenceMaterializer) Materialize(ctx context.Context, task *model.TaskModel, targetDate, now time.Time, opts MaterializeOptions) ([]*model.TaskEvidenceModel, error) {
	todayStart := schedule.StartOfDay(now)
	if targetDate.Before(todayStart) {
		m.logger.WithFields(logrus.Fields{
			"task_id": task.ID,
			"date":    targetDate.Format("2006-01-02"),
		}).Debug("skipping past date")
		return nil, nil
	}

	intervals := m.redateIntervals(task.TaskIntervals, targetDate, opts)
	createdAtMs := schedule.Millis(schedule.StartOfDay(targetDate))

	if task.IsCommon {
		exists, err := m.gate.HasEvidenceForDate(ctx, task.ID, targetDate)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing evidence: %w", err)
		}
		if exists {
			m.logger.WithFields(logrus.Fields{
				"task_id": task.ID,
				"date":    targetDate.Format("2006-01-02"),
			}).Info("common evidence already exists, skipping")
			return nil, nil
		}

		evidence := m.buildEvidence(task, intervals, createdAtMs, task.AssignedTo, "")
		if err := m.evidences.Create(ctx, evidence); err != nil {
			if isDuplicateKeyError(err) {
				m.logger.WithField("task_id", task.ID).Info("duplicate evidence blocked by unique index, skipping")
				return nil, nil
			}
			return nil, fmt.Errorf("failed to create common evidence: %w", err)
		}

		m.logger.WithFields(logrus.Fields{
			"task_id":     task.ID,
			"evidence_id": evidence.ID,
			"date":        targetDate.Format("2006-01-02"),
			"assignees":   len(task.AssignedTo),
		}).Info("common task evidence created")
		return []*model.TaskEvidenceModel{evidence}, nil
	}

	// 非共用任务:每个用户一条凭证,互相独立
	var created []*model.TaskEvidenceModel
	var failures []string
	for _, userID := range task.AssignedTo {
		exists, err := m.gate.HasEvidenceForDateAndUser(ctx, task.ID, targetDate, userID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("user %s: %v", userID, err))
			continue
		}
		if exists {
			m.logger.WithFields(logrus.Fields{
				"task_id": task.ID,
				"user_id": userID,
				"date":    targetDate.Format("2006-01-02"),
			}).Info("individual evidence already exists, skipping user")
			continue
		}

		evidence := m.buildEvidence(task, intervals, createdAtMs, model.StringList{userID}, userID)
		if err := m.evidences.Create(ctx, evidence); err != nil {
			if isDuplicateKeyError(err) {
				m.logger.WithFields(logrus.Fields{
					"task_id": task.ID,
					"user_id": userID,
				}).Info("duplicate evidence blocked by unique index, skipping user")
				continue
			}
			failures = append(failures, fmt.Sprintf("user %s: %v", userID, err))
			continue
		}

		created = append(created, evidence)
		m.logger.WithFields(logrus.Fields{
			"task_id":     task.ID,
			"evidence_id": evidence.ID,
			"user_id":     userID,
			"date":        targetDate.Format("2006-01-02"),
		}).Info("individual task evidence created")
	}

	if len(failures) > 0 {
		return created, fmt.Errorf("failed to create %d evidence record(s): %s", len(failures), strings.Join(failures, "; "))
	}
	return created, nil
}

// redateIntervals 把模板时间段的日期替换为目标日期,保留时分秒
func (m *EvidenceMaterializer) redateIntervals(templates model.IntervalList, targetDate time.Time, opts MaterializeOptions) model.IntervalList {
	intervals := make(model.IntervalList, 0, len(templates))
	for _, tpl := range templates {
		intervals = append(intervals, model.TaskInterval{
			Start:           redate(tpl.Start, targetDate),
			End:             redate(tpl.End, targetDate),
			Status:          model.IntervalStatusPending,
			Interval:        tpl.Interval,
			TaskEvidenceURL: "",
			Remarks:         model.IntervalStatusPending,
		})
	}

	if len(intervals) == 0 && opts.FullDayFallback {
		intervals = append(intervals, model.TaskInterval{
			Start:           schedule.Millis(schedule.StartOfDay(targetDate)),
			End:             schedule.Millis(schedule.EndOfDay(targetDate)),
			Status:          model.IntervalStatusPending,
			Interval:        model.FrequencyDaily,
			TaskEvidenceURL: "",
			Remarks:         model.IntervalStatusPending,
		})
	}

	return intervals
}

// buildEvidence 按任务模板组装一条凭证
// created_at/updated_at 写目标日期零点而不是生成时刻,幂等检查依赖这一点
func (m *EvidenceMaterializer) buildEvidence(task *model.TaskModel, intervals model.IntervalList, createdAtMs int64, assignedTo model.StringList, ownerID string) *model.TaskEvidenceModel {
	return &model.TaskEvidenceModel{
		ID:                 uuid.NewString(),
		TaskID:             task.ID,
		TaskName:           task.TaskName,
		Description:        task.Description,
		Priority:           task.Priority,
		TaskFrequency:      task.TaskFrequency,
		ScheduleType:       task.ScheduleType,
		ScheduledDateTime:  task.ScheduledDateTime,
		StartDateTime:      task.StartDateTime,
		EndDateTime:        task.EndDateTime,
		TaskIntervals:      intervals,
		WeekDays:           task.WeekDays,
		WeekDaysForMonthly: task.WeekDaysForMonthly,
		MonthWeeks:         task.MonthWeeks,
		RoleID:             task.RoleID,
		AssignedTo:         assignedTo,
		UnitIDs:            task.UnitIDs,
		Status:             model.EvidenceStatusPending,
		OwnerID:            ownerID,
		CreatedAt:          createdAtMs,
		UpdatedAt:          createdAtMs,
	}
}

// redate 替换毫秒时间戳的日期部分,保留一天内的时间
func redate(ms int64, targetDate time.Time) int64 {
	t := schedule.FromMillis(ms).In(targetDate.Location())
	return schedule.Millis(time.Date(
		targetDate.Year(), targetDate.Month(), targetDate.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		targetDate.Location(),
	))
}

// isDuplicateKeyError 判断唯一索引冲突
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
