package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RiyazHeadsup/general-service/internal/metrics"
	"github.com/RiyazHeadsup/general-service/internal/model"
	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/RiyazHeadsup/general-service/internal/schedule"
	"github.com/sirupsen/logrus"
)

// 任务处理结果动作
const (
	ActionCreated = "created"
	ActionSkipped = "skipped"
	ActionFailed  = "failed"
)

// 跳过原因,对外回显,措辞与线上保持一致
const (
	ReasonEvidenceExists    = "Evidence already exists for today"
	ReasonNoAssignees       = "No users assigned to task"
	ReasonMonthAlreadyDone  = "Already created for this month"
	ReasonMissingWeekConfig = "Missing weekDaysForMonthly or monthWeeks"
	ReasonNoOccurrences     = "No valid date occurrences calculated"
	ReasonAllDatesPast      = "All calculated dates are in the past"
	ReasonAllUsersCovered   = "No evidence created (all users already have evidence)"
)

// TaskRunDetail 单个任务的处理结果
type TaskRunDetail struct {
	TaskID        string   `json:"taskId"`
	TaskName      string   `json:"taskName"`
	Action        string   `json:"action"` // created, skipped, failed
	Reason        string   `json:"reason,omitempty"`
	EvidenceCount int      `json:"evidenceCount,omitempty"`
	EvidenceIDs   []string `json:"evidenceIds,omitempty"`
	Date          string   `json:"date,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// DailyRunResult 日任务运行结果
type DailyRunResult struct {
	Message        string          `json:"message,omitempty"`
	ProcessedCount int             `json:"processedCount"`
	CreatedCount   int             `json:"createdCount"`
	SkippedCount   int             `json:"skippedCount"`
	Details        []TaskRunDetail `json:"details"`
}

// MonthlyTaskSummary 月任务的排期摘要
type MonthlyTaskSummary struct {
	TaskName          string `json:"taskName"`
	ScheduledWeekdays []int  `json:"scheduledWeekdays"`
	MonthWeeks        []int  `json:"monthWeeks"`
}

// MonthlyRunResult 月任务运行结果
type MonthlyRunResult struct {
	Message             string                     `json:"message,omitempty"`
	TotalTasks          int                        `json:"totalTasks"`
	SuccessfulCreations int                        `json:"successfulCreations"`
	FailedCreations     int                        `json:"failedCreations"`
	CreatedEvidences    []*model.TaskEvidenceModel `json:"createdEvidences"`
	TasksSummary        []MonthlyTaskSummary       `json:"tasksSummary"`
	Details             []TaskRunDetail            `json:"details"`
}

// MonthlyTaskDebug 单个月任务的诊断信息
type MonthlyTaskDebug struct {
	TaskID                     string   `json:"taskId"`
	TaskName                   string   `json:"taskName"`
	Status                     string   `json:"status"`
	WeekDaysForMonthly         []int    `json:"weekDaysForMonthly"`
	MonthWeeks                 []int    `json:"monthWeeks"`
	AssignedToCount            int      `json:"assignedToCount"`
	IsCommon                   bool     `json:"isCommon"`
	TaskCreatedForMonth        *int64   `json:"taskcreatedformonth"`
	HasEvidenceForCurrentMonth bool     `json:"hasEvidenceForCurrentMonth"` // 月级标记命中
	MonthEvidenceInStore       bool     `json:"monthEvidenceInStore"`       // 存储侧辅助信号
	HasRequiredFields          bool     `json:"hasRequiredFields"`
	CalculatedDates            []string `json:"calculatedDates"`
	WillCreateEvidence         bool     `json:"willCreateEvidence"`
	SkipReason                 string   `json:"skipReason,omitempty"`
}

// MonthlyDebugSummary 诊断汇总
type MonthlyDebugSummary struct {
	TasksReadyToCreate  int `json:"tasksReadyToCreate"`
	TasksAlreadyCreated int `json:"tasksAlreadyCreated"`
	TasksMissingFields  int `json:"tasksMissingFields"`
	TasksWithPastDates  int `json:"tasksWithPastDates"`
}

// MonthlyDebugReport 月任务诊断报告
type MonthlyDebugReport struct {
	CurrentDate       string              `json:"currentDate"`
	CurrentMonth      int                 `json:"currentMonth"`
	CurrentYear       int                 `json:"currentYear"`
	TotalMonthlyTasks int                 `json:"totalMonthlyTasks"`
	Tasks             []MonthlyTaskDebug  `json:"tasksDetails"`
	Summary           MonthlyDebugSummary `json:"summary"`
}

// RecurrenceService 重复任务凭证生成服务
// 两个入口分别处理 daily 和 monthly 频率;参考时间由调用方传入,
// 生产路径传当前时间,测试可以固定日期
type RecurrenceService interface {
	RunDaily(ctx context.Context, ref time.Time) (*DailyRunResult, error)
	RunMonthly(ctx context.Context, ref time.Time) (*MonthlyRunResult, error)
	DebugMonthly(ctx context.Context, ref time.Time) (*MonthlyDebugReport, error)
}

// recurrenceService 重复任务服务实现
type recurrenceService struct {
	tasks        repository.TaskRepository
	gate         *EvidenceGate
	materializer *EvidenceMaterializer
	logger       *logrus.Logger
}

// NewRecurrenceService 创建重复任务服务
func NewRecurrenceService(tasks repository.TaskRepository, gate *EvidenceGate, materializer *EvidenceMaterializer, logger *logrus.Logger) RecurrenceService {
	return &recurrenceService{
		tasks:        tasks,
		gate:         gate,
		materializer: materializer,
		logger:       logger,
	}
}

// RunDaily 处理今日生效的 daily 任务
// 单个任务的异常只记入结果明细,不中断其余任务;
// 只有初始任务查询失败才让整次运行失败
func (s *recurrenceService) RunDaily(ctx context.Context, ref time.Time) (*DailyRunResult, error) {
	s.logger.Info("starting daily task evidence creation")

	startMs := schedule.Millis(schedule.StartOfDay(ref))
	endMs := schedule.Millis(schedule.EndOfDay(ref))

	dailyTasks, err := s.tasks.FindActiveDaily(ctx, startMs, endMs)
	if err != nil {
		metrics.RecordRecurrenceRun(model.FrequencyDaily, "error")
		return nil, fmt.Errorf("failed to fetch daily tasks: %w", err)
	}

	s.logger.WithField("count", len(dailyTasks)).Info("found active daily tasks")

	result := &DailyRunResult{Details: []TaskRunDetail{}}
	if len(dailyTasks) == 0 {
		result.Message = "No daily tasks to process"
		metrics.RecordRecurrenceRun(model.FrequencyDaily, "empty")
		return result, nil
	}

	for _, task := range dailyTasks {
		detail := s.processDailyTask(ctx, task, ref)
		result.Details = append(result.Details, detail)
	}

	result.ProcessedCount = len(dailyTasks)
	for _, d := range result.Details {
		switch d.Action {
		case ActionCreated:
			result.CreatedCount++
		case ActionSkipped:
			result.SkippedCount++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"created": result.CreatedCount,
		"skipped": result.SkippedCount,
	}).Info("daily task processing complete")
	metrics.RecordRecurrenceRun(model.FrequencyDaily, "ok")

	return result, nil
}

// processDailyTask 处理单个 daily 任务,今天作为唯一发生日期
func (s *recurrenceService) processDailyTask(ctx context.Context, task *model.TaskModel, ref time.Time) TaskRunDetail {
	date := schedule.StartOfDay(ref).Format("2006-01-02")

	exists, err := s.gate.HasEvidenceForDate(ctx, task.ID, ref)
	if err != nil {
		s.logger.WithError(err).WithField("task_id", task.ID).Error("failed to check daily evidence")
		return TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionFailed, Error: err.Error(), Date: date}
	}
	if exists {
		return TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionSkipped, Reason: ReasonEvidenceExists, Date: date}
	}

	if len(task.AssignedTo) == 0 {
		return TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionSkipped, Reason: ReasonNoAssignees, Date: date}
	}

	created, err := s.materializer.Materialize(ctx, task, schedule.StartOfDay(ref), ref, MaterializeOptions{FullDayFallback: true})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"task_id":   task.ID,
			"task_name": task.TaskName,
		}).Error("failed to create daily evidence")
		return TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionFailed, Error: err.Error(), Date: date}
	}
	if len(created) == 0 {
		return TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionSkipped, Reason: ReasonAllUsersCovered, Date: date}
	}

	ids := make([]string, 0, len(created))
	for _, e := range created {
		ids = append(ids, e.ID)
	}
	metrics.RecordEvidenceCreated(model.FrequencyDaily, len(created))

	return TaskRunDetail{
		TaskID:        task.ID,
		TaskName:      task.TaskName,
		Action:        ActionCreated,
		EvidenceCount: len(created),
		EvidenceIDs:   ids,
		Date:          date,
	}
}

// RunMonthly 处理激活的 monthly 任务
func (s *recurrenceService) RunMonthly(ctx context.Context, ref time.Time) (*MonthlyRunResult, error) {
	s.logger.Info("starting monthly task evidence creation")

	monthlyTasks, err := s.tasks.FindActiveMonthly(ctx)
	if err != nil {
		metrics.RecordRecurrenceRun(model.FrequencyMonthly, "error")
		return nil, fmt.Errorf("failed to fetch monthly tasks: %w", err)
	}

	s.logger.WithField("count", len(monthlyTasks)).Info("found active monthly tasks")

	result := &MonthlyRunResult{
		TotalTasks:       len(monthlyTasks),
		CreatedEvidences: []*model.TaskEvidenceModel{},
		TasksSummary:     []MonthlyTaskSummary{},
		Details:          []TaskRunDetail{},
	}
	if len(monthlyTasks) == 0 {
		result.Message = "No monthly tasks to process"
		metrics.RecordRecurrenceRun(model.FrequencyMonthly, "empty")
		return result, nil
	}

	for _, task := range monthlyTasks {
		created, detail := s.processMonthlyTask(ctx, task, ref)
		result.CreatedEvidences = append(result.CreatedEvidences, created...)
		result.Details = append(result.Details, detail)
		if detail.Action == ActionFailed {
			result.FailedCreations++
		}
		result.TasksSummary = append(result.TasksSummary, MonthlyTaskSummary{
			TaskName:          task.TaskName,
			ScheduledWeekdays: task.WeekDaysForMonthly,
			MonthWeeks:        task.MonthWeeks,
		})
	}

	result.SuccessfulCreations = len(result.CreatedEvidences)

	s.logger.WithFields(logrus.Fields{
		"total_tasks": result.TotalTasks,
		"created":     result.SuccessfulCreations,
		"failed":      result.FailedCreations,
	}).Info("monthly task processing complete")
	metrics.RecordRecurrenceRun(model.FrequencyMonthly, "ok")

	return result, nil
}

// processMonthlyTask 处理单个 monthly 任务:月级闸门、配置校验、
// 发生日期计算、逐日期生成、成功后回写月标记
func (s *recurrenceService) processMonthlyTask(ctx context.Context, task *model.TaskModel, ref time.Time) ([]*model.TaskEvidenceModel, TaskRunDetail) {
	log := s.logger.WithFields(logrus.Fields{
		"task_id":   task.ID,
		"task_name": task.TaskName,
	})

	// 月级闸门:标记月份等于当前月份则整体跳过,避免重复计算
	if task.TaskCreatedForMonth != nil {
		createdAt := schedule.FromMillis(*task.TaskCreatedForMonth)
		if schedule.SameMonth(createdAt, ref) {
			log.Info("monthly evidence already created for current month, skipping")
			return nil, TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionSkipped, Reason: ReasonMonthAlreadyDone}
		}
	}

	if len(task.WeekDaysForMonthly) == 0 || len(task.MonthWeeks) == 0 {
		log.Warn("missing weekday or week configuration, skipping")
		return nil, TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionSkipped, Reason: ReasonMissingWeekConfig}
	}

	if len(task.AssignedTo) == 0 {
		log.Warn("no users assigned, skipping")
		return nil, TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionSkipped, Reason: ReasonNoAssignees}
	}

	occurrences := schedule.CalculateWeekdayOccurrences(task.WeekDaysForMonthly, task.MonthWeeks, ref)
	if schedule.CountOccurrences(occurrences) == 0 {
		log.Warn("no occurrence dates calculated, skipping")
		return nil, TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionSkipped, Reason: ReasonNoOccurrences}
	}

	var created []*model.TaskEvidenceModel
	var lastErr error
	for _, day := range schedule.SortedWeekdays(occurrences) {
		for _, targetDate := range occurrences[day] {
			records, err := s.materializer.Materialize(ctx, task, targetDate, ref, MaterializeOptions{})
			if err != nil {
				// 单个日期失败不阻断其余日期
				log.WithError(err).WithField("date", targetDate.Format("2006-01-02")).Error("failed to create monthly evidence")
				lastErr = err
				continue
			}
			created = append(created, records...)
		}
	}

	// 只有实际生成过凭证才回写月标记;全部重复或全部过期时保持原值,
	// 同月后续运行还有机会补齐
	if len(created) > 0 {
		if err := s.tasks.UpdateCreatedForMonth(ctx, task.ID, schedule.Millis(ref)); err != nil {
			log.WithError(err).Error("failed to update taskcreatedformonth")
			lastErr = err
		} else {
			log.Info("updated taskcreatedformonth")
		}
		metrics.RecordEvidenceCreated(model.FrequencyMonthly, len(created))
	}

	if lastErr != nil {
		return created, TaskRunDetail{
			TaskID:        task.ID,
			TaskName:      task.TaskName,
			Action:        ActionFailed,
			EvidenceCount: len(created),
			Error:         lastErr.Error(),
		}
	}
	if len(created) == 0 {
		return nil, TaskRunDetail{TaskID: task.ID, TaskName: task.TaskName, Action: ActionSkipped, Reason: ReasonAllUsersCovered}
	}

	ids := make([]string, 0, len(created))
	for _, e := range created {
		ids = append(ids, e.ID)
	}
	return created, TaskRunDetail{
		TaskID:        task.ID,
		TaskName:      task.TaskName,
		Action:        ActionCreated,
		EvidenceCount: len(created),
		EvidenceIDs:   ids,
	}
}

// DebugMonthly 输出每个激活月任务的排期诊断,不产生任何写入
func (s *recurrenceService) DebugMonthly(ctx context.Context, ref time.Time) (*MonthlyDebugReport, error) {
	monthlyTasks, err := s.tasks.FindActiveMonthly(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch monthly tasks: %w", err)
	}

	report := &MonthlyDebugReport{
		CurrentDate:       ref.Format(time.RFC3339),
		CurrentMonth:      int(ref.Month()),
		CurrentYear:       ref.Year(),
		TotalMonthlyTasks: len(monthlyTasks),
		Tasks:             []MonthlyTaskDebug{},
	}

	todayStart := schedule.StartOfDay(ref)

	for _, task := range monthlyTasks {
		debug := MonthlyTaskDebug{
			TaskID:              task.ID,
			TaskName:            task.TaskName,
			Status:              task.Status,
			WeekDaysForMonthly:  task.WeekDaysForMonthly,
			MonthWeeks:          task.MonthWeeks,
			AssignedToCount:     len(task.AssignedTo),
			IsCommon:            task.IsCommon,
			TaskCreatedForMonth: task.TaskCreatedForMonth,
			HasRequiredFields:   len(task.WeekDaysForMonthly) > 0 && len(task.MonthWeeks) > 0,
			CalculatedDates:     []string{},
		}

		if task.TaskCreatedForMonth != nil {
			debug.HasEvidenceForCurrentMonth = schedule.SameMonth(schedule.FromMillis(*task.TaskCreatedForMonth), ref)
		}
		if inStore, err := s.gate.HasMonthEvidence(ctx, task.ID, ref); err == nil {
			debug.MonthEvidenceInStore = inStore
		}

		switch {
		case debug.HasEvidenceForCurrentMonth:
			debug.SkipReason = ReasonMonthAlreadyDone
		case !debug.HasRequiredFields:
			debug.SkipReason = ReasonMissingWeekConfig
		case len(task.AssignedTo) == 0:
			debug.SkipReason = ReasonNoAssignees
		default:
			occurrences := schedule.CalculateWeekdayOccurrences(task.WeekDaysForMonthly, task.MonthWeeks, ref)
			for _, day := range schedule.SortedWeekdays(occurrences) {
				for _, date := range occurrences[day] {
					if !date.Before(todayStart) {
						debug.CalculatedDates = append(debug.CalculatedDates, date.Format(time.RFC3339))
					}
				}
			}
			if len(debug.CalculatedDates) == 0 {
				debug.SkipReason = ReasonAllDatesPast
			} else {
				debug.WillCreateEvidence = true
			}
		}

		switch debug.SkipReason {
		case ReasonMonthAlreadyDone:
			report.Summary.TasksAlreadyCreated++
		case ReasonMissingWeekConfig:
			report.Summary.TasksMissingFields++
		case ReasonAllDatesPast:
			report.Summary.TasksWithPastDates++
		}
		if debug.WillCreateEvidence {
			report.Summary.TasksReadyToCreate++
		}

		report.Tasks = append(report.Tasks, debug)
	}

	return report, nil
}
