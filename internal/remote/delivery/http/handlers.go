package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/internal/prompt"
	"github.com/amankumarsingh77/veda-gateway/internal/remote"
	"github.com/amankumarsingh77/veda-gateway/pkg/httpErrors"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultSeed    = 42
	defaultUpscale = true
)

type remoteHandler struct {
	cfg      *config.Config
	remoteUC remote.UseCase
	logger   logger.Logger
}

func NewRemoteHandler(cfg *config.Config, remoteUC remote.UseCase, logger logger.Logger) remote.Handler {
	return &remoteHandler{
		cfg:      cfg,
		remoteUC: remoteUC,
		logger:   logger,
	}
}

func (h *remoteHandler) GetState() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, h.remoteUC.State())
	}
}

func (h *remoteHandler) Connect() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.RemoteConnectInput{}
		if err := c.Bind(input); err != nil {
			return httpErrors.ErrorResponse(c, httpErrors.NewBadRequestError("Invalid request payload"))
		}
		state, err := h.remoteUC.Connect(c.Request().Context(), input.URL)
		if err != nil {
			if errors.Is(err, remote.ErrEmptyURL) {
				return httpErrors.ErrorResponse(c, httpErrors.NewRestError(http.StatusBadRequest, "Please enter a remote URL", nil))
			}
			return httpErrors.ErrorResponse(c, httpErrors.NewRestError(http.StatusBadGateway, fmt.Sprintf("Connection failed: %v", err), nil))
		}
		return c.JSON(http.StatusOK, state)
	}
}

func (h *remoteHandler) Disconnect() echo.HandlerFunc {
	return func(c echo.Context) error {
		h.remoteUC.Disconnect()
		return c.JSON(http.StatusOK, h.remoteUC.State())
	}
}

func (h *remoteHandler) Generate() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.RemoteGenerateInput{}
		if err := c.Bind(input); err != nil {
			return httpErrors.ErrorResponse(c, httpErrors.NewBadRequestError("Invalid request payload"))
		}
		if err := utils.ValidateStruct(c.Request().Context(), input); err != nil {
			return httpErrors.ErrorResponse(c, err)
		}
		if !h.remoteUC.IsConnected() {
			return httpErrors.ErrorResponse(c, httpErrors.NewRestError(http.StatusConflict,
				"Connect to the remote backend first: run the notebook and POST its URL to /api/remote/connect", nil))
		}

		style, _ := prompt.Lookup(input.Style)
		params := remote.GenerateParams{
			Prompt:  input.Prompt,
			Style:   style,
			Frames:  h.cfg.Remote.DefaultFrames,
			Seed:    defaultSeed,
			Upscale: defaultUpscale,
		}
		if input.Frames > 0 {
			params.Frames = input.Frames
		}
		if input.Seed != nil {
			params.Seed = *input.Seed
		}
		if input.Upscale != nil {
			params.Upscale = *input.Upscale
		}

		outputPath := filepath.Join(h.cfg.Outputs.Dir, "remote_"+uuid.New().String()[:8]+".mp4")
		res, err := h.remoteUC.Generate(c.Request().Context(), params, outputPath)
		if err != nil {
			return h.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func (h *remoteHandler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, remote.ErrNotConnected):
		return httpErrors.ErrorResponse(c, httpErrors.NewRestError(http.StatusConflict, "Not connected to the remote backend", nil))
	case errors.Is(err, remote.ErrRemoteBusy):
		return httpErrors.ErrorResponse(c, httpErrors.NewRestError(http.StatusServiceUnavailable,
			"Remote backend is busy. Please wait and try again.", nil))
	case errors.Is(err, remote.ErrEndpointNotFound):
		return httpErrors.ErrorResponse(c, httpErrors.NewRestError(http.StatusBadGateway, err.Error(), nil))
	}
	h.logger.Errorf("RequestID: %s, remote generation failed: %v", utils.GetRequestID(c), err)
	return httpErrors.ErrorResponse(c, httpErrors.NewRestError(http.StatusBadGateway, fmt.Sprintf("Generation failed: %v", err), nil))
}
