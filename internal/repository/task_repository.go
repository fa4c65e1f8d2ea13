package repository

import (
	"context"

	"github.com/RiyazHeadsup/general-service/internal/model"
	"gorm.io/gorm"
)

// TaskRepository 任务仓储接口
type TaskRepository interface {
	Save(ctx context.Context, task *model.TaskModel) error
	FindByID(ctx context.Context, id string) (*model.TaskModel, error)
	FindByFilter(ctx context.Context, filter *TaskFilter) ([]*model.TaskModel, error)
	// FindActiveDaily 查找生效窗口覆盖 [startMs, endMs] 的激活 daily 任务
	// start_date_time <= endMs 且 (end_date_time >= startMs 或 end_date_time IS NULL)
	FindActiveDaily(ctx context.Context, startMs, endMs int64) ([]*model.TaskModel, error)
	// FindActiveMonthly 查找全部激活的 monthly 任务
	FindActiveMonthly(ctx context.Context) ([]*model.TaskModel, error)
	// UpdateCreatedForMonth 回写当月凭证生成标记
	UpdateCreatedForMonth(ctx context.Context, id string, timestampMs int64) error
	Delete(ctx context.Context, id string) error
}

// TaskFilter 任务查询过滤器
type TaskFilter struct {
	Status        *string
	TaskFrequency *string
	RoleID        *string
	AssignedTo    *string // 匹配被指派用户
	CreatedFrom   *int64  // 创建时间下界,毫秒
	CreatedTo     *int64  // 创建时间上界,毫秒
}

// taskRepository 任务仓储实现
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓储
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Save 保存任务
func (r *taskRepository) Save(ctx context.Context, task *model.TaskModel) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// FindByID 根据 ID 查找任务
func (r *taskRepository) FindByID(ctx context.Context, id string) (*model.TaskModel, error) {
	var task model.TaskModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByFilter 根据过滤器查找任务
func (r *taskRepository) FindByFilter(ctx context.Context, filter *TaskFilter) ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	query := r.db.WithContext(ctx).Model(&model.TaskModel{})

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.TaskFrequency != nil {
			query = query.Where("task_frequency = ?", *filter.TaskFrequency)
		}
		if filter.RoleID != nil {
			query = query.Where("role_id = ?", *filter.RoleID)
		}
		if filter.AssignedTo != nil {
			// assigned_to 以 JSON 文本存储,按序列化后的元素匹配
			query = query.Where("assigned_to LIKE ?", "%\""+*filter.AssignedTo+"\"%")
		}
		if filter.CreatedFrom != nil {
			query = query.Where("created_at >= ?", *filter.CreatedFrom)
		}
		if filter.CreatedTo != nil {
			query = query.Where("created_at <= ?", *filter.CreatedTo)
		}
	}

	err := query.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// FindActiveDaily 查找今日生效的激活 daily 任务
func (r *taskRepository) FindActiveDaily(ctx context.Context, startMs, endMs int64) ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	err := r.db.WithContext(ctx).
		Where("status = ?", model.TaskStatusActive).
		Where("task_frequency = ?", model.FrequencyDaily).
		Where("start_date_time <= ?", endMs).
		Where("end_date_time >= ? OR end_date_time IS NULL", startMs).
		Find(&tasks).Error
	return tasks, err
}

// FindActiveMonthly 查找激活的 monthly 任务
func (r *taskRepository) FindActiveMonthly(ctx context.Context) ([]*model.TaskModel, error) {
	var tasks []*model.TaskModel
	err := r.db.WithContext(ctx).
		Where("status = ?", model.TaskStatusActive).
		Where("task_frequency = ?", model.FrequencyMonthly).
		Find(&tasks).Error
	return tasks, err
}

// UpdateCreatedForMonth 回写 taskcreatedformonth 字段
func (r *taskRepository) UpdateCreatedForMonth(ctx context.Context, id string, timestampMs int64) error {
	return r.db.WithContext(ctx).Model(&model.TaskModel{}).
		Where("id = ?", id).
		Update("taskcreatedformonth", timestampMs).Error
}

// Delete 删除任务
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TaskModel{}).Error
}
