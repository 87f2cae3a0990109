package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/pkg/httpErrors"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/labstack/echo/v4"
)

type generationHandler struct {
	generationUC generation.UseCase
	logger       logger.Logger
}

func NewGenerationHandler(generationUC generation.UseCase, logger logger.Logger) generation.Handler {
	return &generationHandler{
		generationUC: generationUC,
		logger:       logger,
	}
}

func (h *generationHandler) Generate() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.GenerateRequest{}
		if err := c.Bind(input); err != nil {
			return httpErrors.ErrorResponse(c, httpErrors.NewBadRequestError("Invalid request payload"))
		}
		job, err := h.generationUC.Submit(c.Request().Context(), input)
		if err != nil {
			return h.errorResponse(c, "", err)
		}
		return c.JSON(http.StatusOK, models.JobResponse{
			JobID:   job.JobID,
			Status:  models.JobStatusQueued,
			Message: fmt.Sprintf("Job submitted. Poll GET /api/status/%s for progress.", job.JobID),
		})
	}
}

func (h *generationHandler) GetStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")
		job, err := h.generationUC.GetJob(c.Request().Context(), jobID)
		if err != nil {
			return h.errorResponse(c, jobID, err)
		}
		return c.JSON(http.StatusOK, models.NewJobStatusResponse(job))
	}
}

func (h *generationHandler) Download() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")
		download, err := h.generationUC.ResolveDownload(c.Request().Context(), jobID)
		if err != nil {
			return h.errorResponse(c, jobID, err)
		}
		if download.RedirectURL != "" {
			return c.Redirect(http.StatusFound, download.RedirectURL)
		}
		c.Response().Header().Set(echo.HeaderContentType, "video/mp4")
		return c.Attachment(download.LocalPath, download.FileName)
	}
}

func (h *generationHandler) ListJobs() echo.HandlerFunc {
	return func(c echo.Context) error {
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return httpErrors.ErrorResponse(c, httpErrors.NewBadRequestError(err.Error()))
		}
		jobs, err := h.generationUC.ListJobs(c.Request().Context(), pagination)
		if err != nil {
			return h.errorResponse(c, "", err)
		}
		return c.JSON(http.StatusOK, jobs)
	}
}

func (h *generationHandler) errorResponse(c echo.Context, jobID string, err error) error {
	switch {
	case errors.Is(err, generation.ErrJobNotFound):
		return httpErrors.ErrorResponse(c, httpErrors.NewNotFoundError(fmt.Sprintf("Job %s not found", jobID)))
	case errors.Is(err, generation.ErrJobNotReady):
		return httpErrors.ErrorResponse(c, httpErrors.NewRestError(http.StatusBadRequest, err.Error(), nil))
	case errors.Is(err, generation.ErrVideoNotFound):
		return httpErrors.ErrorResponse(c, httpErrors.NewNotFoundError("Video file not found"))
	case errors.Is(err, generation.ErrQueueFull):
		return httpErrors.ErrorResponse(c, httpErrors.NewRestError(http.StatusServiceUnavailable, err.Error(), nil))
	}
	restErr := httpErrors.ParseErrors(err)
	if restErr.Status() >= http.StatusInternalServerError {
		h.logger.Errorf("RequestID: %s, error: %v", utils.GetRequestID(c), err)
	}
	return c.JSON(restErr.Status(), restErr)
}
