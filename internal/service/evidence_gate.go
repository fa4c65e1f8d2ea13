package service

import (
	"context"
	"time"

	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/RiyazHeadsup/general-service/internal/schedule"
)

// EvidenceGate 凭证幂等检查
// 全部为只读查询,以凭证的 created_at(毫秒)做闭区间比较;
// created_at 在生成时被写成目标日期零点,所以按天的区间检查跨天重跑仍然成立
type EvidenceGate struct {
	evidences repository.EvidenceRepository
}

// NewEvidenceGate 创建幂等检查器
func NewEvidenceGate(evidences repository.EvidenceRepository) *EvidenceGate {
	return &EvidenceGate{evidences: evidences}
}

// HasEvidenceForDate 任务在指定日期是否已有凭证
func (g *EvidenceGate) HasEvidenceForDate(ctx context.Context, taskID string, date time.Time) (bool, error) {
	return g.evidences.ExistsInRange(ctx, taskID,
		schedule.Millis(schedule.StartOfDay(date)),
		schedule.Millis(schedule.EndOfDay(date)))
}

// HasEvidenceForDateAndUser 任务在指定日期针对指定用户是否已有凭证
func (g *EvidenceGate) HasEvidenceForDateAndUser(ctx context.Context, taskID string, date time.Time, userID string) (bool, error) {
	return g.evidences.ExistsInRangeForUser(ctx, taskID,
		schedule.Millis(schedule.StartOfDay(date)),
		schedule.Millis(schedule.EndOfDay(date)),
		userID)
}

// HasMonthEvidence 任务在参考月份内是否已有凭证
// 只作为辅助信号;月级主闸门是任务上的 taskcreatedformonth 标记
func (g *EvidenceGate) HasMonthEvidence(ctx context.Context, taskID string, ref time.Time) (bool, error) {
	return g.evidences.ExistsInRange(ctx, taskID,
		schedule.Millis(schedule.StartOfMonth(ref)),
		schedule.Millis(schedule.EndOfMonth(ref)))
}
