package repository

import (
	"context"

	"github.com/RiyazHeadsup/general-service/internal/model"
	"gorm.io/gorm"
)

// EvidenceRepository 任务凭证仓储接口
// 所有时间范围均为毫秒时间戳的闭区间,按整数比较
type EvidenceRepository interface {
	Create(ctx context.Context, evidence *model.TaskEvidenceModel) error
	FindByID(ctx context.Context, id string) (*model.TaskEvidenceModel, error)
	FindByFilter(ctx context.Context, filter *EvidenceFilter) ([]*model.TaskEvidenceModel, error)
	// ExistsInRange 任务在 [fromMs, toMs] 的 created_at 区间内是否已有凭证
	ExistsInRange(ctx context.Context, taskID string, fromMs, toMs int64) (bool, error)
	// ExistsInRangeForUser 同上,并要求指派列表包含该用户
	ExistsInRangeForUser(ctx context.Context, taskID string, fromMs, toMs int64, userID string) (bool, error)
	// CreatedAtBounds 任务凭证 created_at 的最小/最大值,没有记录时返回 (0, 0)
	CreatedAtBounds(ctx context.Context, taskID string) (minMs, maxMs int64, err error)
}

// EvidenceFilter 凭证查询过滤器
type EvidenceFilter struct {
	TaskID        *string
	Status        *string
	TaskFrequency *string
	AssignedTo    *string
	CreatedFrom   *int64
	CreatedTo     *int64
}

// evidenceRepository 任务凭证仓储实现
type evidenceRepository struct {
	db *gorm.DB
}

// NewEvidenceRepository 创建任务凭证仓储
func NewEvidenceRepository(db *gorm.DB) EvidenceRepository {
	return &evidenceRepository{db: db}
}

// Create 新建凭证
// task_evidences 上的 (task_id, created_at, owner_id) 唯一索引
// 会让并发重复写入报唯一键冲突,调用方按幂等跳过处理
func (r *evidenceRepository) Create(ctx context.Context, evidence *model.TaskEvidenceModel) error {
	return r.db.WithContext(ctx).Create(evidence).Error
}

// FindByID 根据 ID 查找凭证
func (r *evidenceRepository) FindByID(ctx context.Context, id string) (*model.TaskEvidenceModel, error) {
	var evidence model.TaskEvidenceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&evidence).Error; err != nil {
		return nil, err
	}
	return &evidence, nil
}

// FindByFilter 根据过滤器查找凭证
func (r *evidenceRepository) FindByFilter(ctx context.Context, filter *EvidenceFilter) ([]*model.TaskEvidenceModel, error) {
	var evidences []*model.TaskEvidenceModel
	query := r.db.WithContext(ctx).Model(&model.TaskEvidenceModel{})

	if filter != nil {
		if filter.TaskID != nil {
			query = query.Where("task_id = ?", *filter.TaskID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.TaskFrequency != nil {
			query = query.Where("task_frequency = ?", *filter.TaskFrequency)
		}
		if filter.AssignedTo != nil {
			query = query.Where("assigned_to LIKE ?", "%\""+*filter.AssignedTo+"\"%")
		}
		if filter.CreatedFrom != nil {
			query = query.Where("created_at >= ?", *filter.CreatedFrom)
		}
		if filter.CreatedTo != nil {
			query = query.Where("created_at <= ?", *filter.CreatedTo)
		}
	}

	err := query.Order("created_at DESC").Find(&evidences).Error
	return evidences, err
}

// ExistsInRange 按日期区间做存在性检查
func (r *evidenceRepository) ExistsInRange(ctx context.Context, taskID string, fromMs, toMs int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskEvidenceModel{}).
		Where("task_id = ?", taskID).
		Where("created_at >= ? AND created_at <= ?", fromMs, toMs).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsInRangeForUser 按日期区间和用户做存在性检查
// assigned_to 以 JSON 文本存储,元素匹配等价于 Mongo 的数组包含查询
func (r *evidenceRepository) ExistsInRangeForUser(ctx context.Context, taskID string, fromMs, toMs int64, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskEvidenceModel{}).
		Where("task_id = ?", taskID).
		Where("assigned_to LIKE ?", "%\""+userID+"\"%").
		Where("created_at >= ? AND created_at <= ?", fromMs, toMs).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreatedAtBounds 聚合任务凭证 created_at 的最小/最大值
func (r *evidenceRepository) CreatedAtBounds(ctx context.Context, taskID string) (int64, int64, error) {
	var bounds struct {
		MinCreated *int64
		MaxCreated *int64
	}
	err := r.db.WithContext(ctx).Model(&model.TaskEvidenceModel{}).
		Select("MIN(created_at) AS min_created, MAX(created_at) AS max_created").
		Where("task_id = ?", taskID).
		Scan(&bounds).Error
	if err != nil {
		return 0, 0, err
	}
	if bounds.MinCreated == nil || bounds.MaxCreated == nil {
		return 0, 0, nil
	}
	return *bounds.MinCreated, *bounds.MaxCreated, nil
}
