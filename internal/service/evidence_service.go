package service

import (
	"context"
	"errors"

	"github.com/RiyazHeadsup/general-service/internal/model"
	"github.com/RiyazHeadsup/general-service/internal/repository"
	"gorm.io/gorm"
)

// ErrEvidenceNotFound 凭证不存在
var ErrEvidenceNotFound = errors.New("evidence not found")

// EvidenceService 凭证查询服务接口
// 凭证的写入只经由周期任务生成流程,对外只读
type EvidenceService interface {
	Get(ctx context.Context, id string) (*model.TaskEvidenceModel, error)
	List(ctx context.Context, filter *repository.EvidenceFilter) ([]*model.TaskEvidenceModel, error)
}

// evidenceService 凭证查询服务实现
type evidenceService struct {
	evidences repository.EvidenceRepository
}

// NewEvidenceService 创建凭证查询服务
func NewEvidenceService(evidences repository.EvidenceRepository) EvidenceService {
	return &evidenceService{evidences: evidences}
}

// Get 查询单个凭证
func (s *evidenceService) Get(ctx context.Context, id string) (*model.TaskEvidenceModel, error) {
	evidence, err := s.evidences.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvidenceNotFound
		}
		return nil, err
	}
	return evidence, nil
}

// List 按过滤条件查询凭证
func (s *evidenceService) List(ctx context.Context, filter *repository.EvidenceFilter) ([]*model.TaskEvidenceModel, error) {
	return s.evidences.FindByFilter(ctx, filter)
}
