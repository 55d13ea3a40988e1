package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centerhq/appstore-server/builder/store/database"
	"github.com/centerhq/appstore-server/builder/store/s3"
	"github.com/centerhq/appstore-server/common/config"
)

func NewHealthHandler(config *config.Config, s3Client s3.Client) *HealthHandler {
	return &HealthHandler{
		service: config.ServiceName,
		db:      database.GetDB(),
		s3:      s3Client,
	}
}

type HealthHandler struct {
	service string
	db      *database.DB
	s3      s3.Client
}

// Health reports liveness plus the state of both external collaborators.
// Dependency trouble is surfaced here rather than failing the route.
func (h *HealthHandler) Health(ctx *gin.Context) {
	dbStatus := "connected"
	if h.db == nil || h.db.BunDB.PingContext(ctx.Request.Context()) != nil {
		dbStatus = "disconnected"
	}
	objectStoreStatus := "connected"
	if h.s3 == nil || h.s3.Ping(ctx.Request.Context()) != nil {
		objectStoreStatus = "disconnected"
	}
	ctx.PureJSON(http.StatusOK, gin.H{
		"status":      "ok",
		"service":     h.service,
		"database":    dbStatus,
		"objectStore": objectStoreStatus,
	})
}
