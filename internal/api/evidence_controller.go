package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RiyazHeadsup/general-service/internal/repository"
	"github.com/RiyazHeadsup/general-service/internal/service"
	"github.com/RiyazHeadsup/general-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// EvidenceController 任务凭证控制器,只读
type EvidenceController struct {
	evidenceService service.EvidenceService
}

// NewEvidenceController 创建任务凭证控制器
func NewEvidenceController(evidenceService service.EvidenceService) *EvidenceController {
	return &EvidenceController{
		evidenceService: evidenceService,
	}
}

// Get 查询单个凭证
func (c *EvidenceController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateEvidenceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid evidence ID", err.Error())
		return
	}

	evidence, err := c.evidenceService.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEvidenceNotFound) {
			Error(ctx, http.StatusNotFound, "evidence not found", "")
			return
		}
		Error(ctx, http.StatusInternalServerError, "failed to get evidence", err.Error())
		return
	}

	Success(ctx, evidence)
}

// List 按条件查询凭证列表
func (c *EvidenceController) List(ctx *gin.Context) {
	filter := &repository.EvidenceFilter{}
	if v := ctx.Query("taskId"); v != "" {
		filter.TaskID = &v
	}
	if v := ctx.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := ctx.Query("taskFrequency"); v != "" {
		if err := utils.ValidateTaskFrequency(v); err != nil {
			Error(ctx, http.StatusBadRequest, "invalid task frequency", err.Error())
			return
		}
		filter.TaskFrequency = &v
	}
	if v := ctx.Query("assignedTo"); v != "" {
		filter.AssignedTo = &v
	}
	if v := ctx.Query("createdFrom"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid createdFrom", err.Error())
			return
		}
		filter.CreatedFrom = &ms
	}
	if v := ctx.Query("createdTo"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid createdTo", err.Error())
			return
		}
		filter.CreatedTo = &ms
	}

	evidences, err := c.evidenceService.List(ctx.Request.Context(), filter)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to list evidences", err.Error())
		return
	}

	Success(ctx, evidences)
}
