package service

import (
	"context"
	"fmt"

	"github.com/RiyazHeadsup/general-service/internal/model"
	"gorm.io/gorm"
)

// StatisticsService 统计服务接口
type StatisticsService interface {
	GetTaskStatisticsByFrequency(ctx context.Context) ([]*TaskStatisticsByFrequency, error)
	GetTaskStatisticsByStatus(ctx context.Context) ([]*TaskStatisticsByStatus, error)
	GetEvidenceStatistics(ctx context.Context) (*EvidenceStatistics, error)
}

// TaskStatisticsByFrequency 按频率统计
type TaskStatisticsByFrequency struct {
	TaskFrequency string `json:"taskFrequency"`
	Count         int64  `json:"count"`
}

// TaskStatisticsByStatus 按状态统计
type TaskStatisticsByStatus struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// EvidenceStatistics 凭证统计
type EvidenceStatistics struct {
	TotalEvidences int64   `json:"totalEvidences"`
	CompletedCount int64   `json:"completedCount"`
	PendingCount   int64   `json:"pendingCount"`
	MissedCount    int64   `json:"missedCount"`
	CompletionRate float64 `json:"completionRate"` // 百分比
}

// statisticsService 统计服务实现
type statisticsService struct {
	db *gorm.DB
}

// NewStatisticsService 创建统计服务
func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetTaskStatisticsByFrequency 按频率统计任务
func (s *statisticsService) GetTaskStatisticsByFrequency(ctx context.Context) ([]*TaskStatisticsByFrequency, error) {
	var results []struct {
		TaskFrequency string
		Count         int64
	}

	err := s.db.WithContext(ctx).Model(&model.TaskModel{}).
		Select("task_frequency, COUNT(*) as count").
		Group("task_frequency").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get task statistics by frequency: %w", err)
	}

	stats := make([]*TaskStatisticsByFrequency, 0, len(results))
	for _, r := range results {
		stats = append(stats, &TaskStatisticsByFrequency{
			TaskFrequency: r.TaskFrequency,
			Count:         r.Count,
		})
	}

	return stats, nil
}

// GetTaskStatisticsByStatus 按状态统计任务
func (s *statisticsService) GetTaskStatisticsByStatus(ctx context.Context) ([]*TaskStatisticsByStatus, error) {
	var results []struct {
		Status string
		Count  int64
	}

	err := s.db.WithContext(ctx).Model(&model.TaskModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get task statistics by status: %w", err)
	}

	stats := make([]*TaskStatisticsByStatus, 0, len(results))
	for _, r := range results {
		stats = append(stats, &TaskStatisticsByStatus{
			Status: r.Status,
			Count:  r.Count,
		})
	}

	return stats, nil
}

// GetEvidenceStatistics 获取凭证统计
func (s *statisticsService) GetEvidenceStatistics(ctx context.Context) (*EvidenceStatistics, error) {
	var totalCount int64
	err := s.db.WithContext(ctx).Model(&model.TaskEvidenceModel{}).Count(&totalCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count evidences: %w", err)
	}

	var completedCount int64
	err = s.db.WithContext(ctx).Model(&model.TaskEvidenceModel{}).
		Where("status = ?", model.EvidenceStatusCompleted).
		Count(&completedCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count completed evidences: %w", err)
	}

	var pendingCount int64
	err = s.db.WithContext(ctx).Model(&model.TaskEvidenceModel{}).
		Where("status = ?", model.EvidenceStatusPending).
		Count(&pendingCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending evidences: %w", err)
	}

	var missedCount int64
	err = s.db.WithContext(ctx).Model(&model.TaskEvidenceModel{}).
		Where("status = ?", model.EvidenceStatusMissed).
		Count(&missedCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count missed evidences: %w", err)
	}

	completionRate := 0.0
	if totalCount > 0 {
		completionRate = float64(completedCount) / float64(totalCount) * 100
	}

	return &EvidenceStatistics{
		TotalEvidences: totalCount,
		CompletedCount: completedCount,
		PendingCount:   pendingCount,
		MissedCount:    missedCount,
		CompletionRate: completionRate,
	}, nil
}
