package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldwise/fsm-api/internal/models"
	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
	"github.com/fieldwise/fsm-api/pkg/response"
)

type jobRepository interface {
	List(ctx context.Context, filter models.ReferenceFilter) ([]models.Job, int, error)
	FindByID(ctx context.Context, id string) (*models.Job, error)
}

// JobHandler exposes the read-only job (commessa) registry.
type JobHandler struct {
	repo jobRepository
}

// NewJobHandler constructs the handler.
func NewJobHandler(repo jobRepository) *JobHandler {
	return &JobHandler{repo: repo}
}

// List returns jobs with optional search/active filters.
func (h *JobHandler) List(c *gin.Context) {
	filter := referenceFilter(c)
	jobs, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, jobs, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total})
}

// Get returns a single job.
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "job not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}
