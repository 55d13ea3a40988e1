package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/centerhq/appstore-server/api/httpbase"
	"github.com/centerhq/appstore-server/builder/store/s3"
	"github.com/centerhq/appstore-server/common/config"
	"github.com/centerhq/appstore-server/common/types"
	"github.com/centerhq/appstore-server/component"
)

func NewReleaseHandler(config *config.Config, s3Client s3.Client) (*ReleaseHandler, error) {
	return &ReleaseHandler{
		release: component.NewReleaseComponent(config, s3Client),
	}, nil
}

type ReleaseHandler struct {
	release component.ReleaseComponent
}

// Latest serves the single release currently advertised to clients.
func (h *ReleaseHandler) Latest(ctx *gin.Context) {
	release, err := h.release.Latest(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, component.ErrNotFound) {
			httpbase.NotFoundError(ctx, "no release available")
			return
		}
		slog.Error("failed to load latest release", slog.Any("error", err))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{
		"success": true,
		"release": release,
	})
}

// Versions lists up to 10 active releases, newest first.
func (h *ReleaseHandler) Versions(ctx *gin.Context) {
	releases, err := h.release.ListActive(ctx.Request.Context(), 10)
	if err != nil {
		slog.Error("failed to list releases", slog.Any("error", err))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{
		"success":  true,
		"total":    len(releases),
		"releases": releases,
	})
}

// Create publishes a new release; the created release becomes the latest.
func (h *ReleaseHandler) Create(ctx *gin.Context) {
	var req types.CreateReleaseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	release, err := h.release.Create(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, component.ErrBadRequest) {
			httpbase.BadRequest(ctx, err.Error())
			return
		}
		slog.Error("failed to create release", slog.String("version", req.Version), slog.Any("error", err))
		httpbase.ServerError(ctx, err)
		return
	}
	slog.Info("release created", slog.String("version", release.Version), slog.Int64("version_code", release.VersionCode))
	httpbase.Created(ctx, gin.H{
		"success": true,
		"message": "release created",
		"release": release,
	})
}

// Delete retracts a release together with its stored artifacts.
func (h *ReleaseHandler) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("releaseId"), 10, 64)
	if err != nil {
		httpbase.BadRequest(ctx, "invalid release id")
		return
	}
	err = h.release.Delete(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, component.ErrNotFound) {
			httpbase.NotFoundError(ctx, "release not found")
			return
		}
		slog.Error("failed to delete release", slog.Int64("id", id), slog.Any("error", err))
		httpbase.ServerError(ctx, err)
		return
	}
	slog.Info("release deleted", slog.Int64("id", id))
	httpbase.OK(ctx, gin.H{
		"success": true,
		"message": "release deleted",
	})
}
