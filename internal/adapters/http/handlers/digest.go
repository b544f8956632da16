package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/anime-digest/internal/adapters/http/dto"
	"github.com/jsamuelsen/anime-digest/internal/app"
	"github.com/jsamuelsen/anime-digest/internal/domain"
)

// DigestHandler exposes digest previews and manual runs.
type DigestHandler struct {
	service   *app.DigestService
	scheduler *app.Scheduler
}

// NewDigestHandler creates a new digest handler. Manual runs go through the
// scheduler so they never overlap a scheduled run.
func NewDigestHandler(service *app.DigestService, scheduler *app.Scheduler) *DigestHandler {
	return &DigestHandler{
		service:   service,
		scheduler: scheduler,
	}
}

// Preview handles GET /api/v1/digest/preview?ranking=&limit=
// It fetches and formats a digest without posting it.
func (h *DigestHandler) Preview(c *gin.Context) {
	var q dto.PreviewQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		if fields := dto.ValidationErrors(err); len(fields) > 0 {
			dto.RespondWithValidationErrors(c, fields)
			return
		}

		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())

		return
	}

	var category domain.RankingType
	if q.Ranking != "" {
		parsed, err := domain.ParseRankingType(q.Ranking)
		if err != nil {
			dto.HandleError(c, err)
			return
		}

		category = parsed
	}

	digest, err := h.service.Preview(c.Request.Context(), category, q.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDigestResponse(digest))
}

// TriggerRun handles POST /api/v1/digest/runs.
// The run outlives a disconnecting caller so a posted digest always gets
// its reactions. A run already in progress yields 409.
func (h *DigestHandler) TriggerRun(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())

	var result *app.RunResult

	err := h.scheduler.RunNow(ctx, func(ctx context.Context) error {
		var runErr error
		result, runErr = h.service.Run(ctx)

		return runErr
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRunResponse(result))
}

// RegisterRoutes registers digest routes on the given router group.
func (h *DigestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	digest := rg.Group("/digest")
	digest.GET("/preview", h.Preview)
	digest.POST("/runs", h.TriggerRun)
}
