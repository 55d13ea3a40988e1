package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/centerhq/appstore-server/api/httpbase"
	"github.com/centerhq/appstore-server/common/config"
	"github.com/centerhq/appstore-server/component"
)

func NewDownloadHandler(config *config.Config) (*DownloadHandler, error) {
	return &DownloadHandler{
		download: component.NewDownloadComponent(config),
	}, nil
}

type DownloadHandler struct {
	download component.DownloadComponent
}

// Download records one download event and returns the artifact location;
// the client fetches the binary from the object store itself.
func (h *DownloadHandler) Download(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("releaseId"), 10, 64)
	if err != nil {
		httpbase.BadRequest(ctx, "invalid release id")
		return
	}
	ticket, err := h.download.Record(ctx.Request.Context(), id, ctx.ClientIP(), ctx.Request.UserAgent())
	if err != nil {
		if errors.Is(err, component.ErrNotFound) {
			httpbase.NotFoundError(ctx, "release not found")
			return
		}
		slog.Error("failed to record download", slog.Int64("id", id), slog.Any("error", err))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{
		"success":     true,
		"downloadUrl": ticket.DownloadURL,
		"version":     ticket.Version,
		"size":        ticket.Size,
		"message":     "download started",
	})
}

// Stats aggregates download totals, per-version counts and recent history.
func (h *DownloadHandler) Stats(ctx *gin.Context) {
	stats, err := h.download.Stats(ctx.Request.Context())
	if err != nil {
		slog.Error("failed to load download stats", slog.Any("error", err))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{
		"success": true,
		"stats":   stats,
	})
}
