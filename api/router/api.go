package router

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/centerhq/appstore-server/api/handler"
	"github.com/centerhq/appstore-server/api/httpbase"
	"github.com/centerhq/appstore-server/api/middleware"
	"github.com/centerhq/appstore-server/builder/store/s3"
	"github.com/centerhq/appstore-server/common/config"
)

func NewRouter(config *config.Config) (*gin.Engine, error) {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowHeaders:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowOrigins:     []string{config.Frontend.URL},
	}))
	r.Use(gin.Recovery())
	r.Use(middleware.Log())

	s3Client, err := s3.NewMinio(config)
	if err != nil {
		return nil, fmt.Errorf("error creating object store client: %w", err)
	}

	healthHandler := handler.NewHealthHandler(config, s3Client)
	releaseHandler, err := handler.NewReleaseHandler(config, s3Client)
	if err != nil {
		return nil, fmt.Errorf("error creating release handler: %w", err)
	}
	downloadHandler, err := handler.NewDownloadHandler(config)
	if err != nil {
		return nil, fmt.Errorf("error creating download handler: %w", err)
	}

	apiGroup := r.Group("/api")
	apiGroup.GET("/health", healthHandler.Health)

	appGroup := apiGroup.Group("/app")
	{
		appGroup.GET("/latest", releaseHandler.Latest)
		appGroup.GET("/versions", releaseHandler.Versions)
		appGroup.GET("/download/:releaseId", downloadHandler.Download)
	}

	apiGroup.GET("/stats/downloads", downloadHandler.Stats)

	// admin surface is unauthenticated, authorization is an external
	// collaborator when this is deployed for real
	adminGroup := apiGroup.Group("/admin")
	{
		adminGroup.POST("/release", releaseHandler.Create)
		adminGroup.DELETE("/release/:releaseId", releaseHandler.Delete)
	}

	r.NoRoute(func(ctx *gin.Context) {
		ctx.PureJSON(http.StatusNotFound, httpbase.ErrBody{Message: "route not found"})
	})

	return r, nil
}
