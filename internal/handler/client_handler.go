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

type clientRepository interface {
	List(ctx context.Context, filter models.ReferenceFilter) ([]models.Client, int, error)
	FindByID(ctx context.Context, id string) (*models.Client, error)
}

// ClientHandler exposes the read-only client registry.
type ClientHandler struct {
	repo clientRepository
}

// NewClientHandler constructs the handler.
func NewClientHandler(repo clientRepository) *ClientHandler {
	return &ClientHandler{repo: repo}
}

// List returns clients with optional search/active filters.
func (h *ClientHandler) List(c *gin.Context) {
	filter := referenceFilter(c)
	clients, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clients, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total})
}

// Get returns a single client.
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "client not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}
