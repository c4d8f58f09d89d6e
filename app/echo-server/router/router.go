package router

import (
	"caseLibrary/internal/middleware"
	"caseLibrary/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetInteractionRoutes(api *echo.Group, handler *rest.InteractionHandler) {
	optional := middleware.OptionalIdentity()

	api.POST("/cases/like", handler.ToggleLike, optional)
	api.POST("/cases/bookmark", handler.ToggleBookmark, optional)
	api.POST("/user-action", handler.RecordAction, optional)
}

func SetCaseRoutes(api *echo.Group, handler *rest.CaseHandler) {
	cases := api.Group("/cases")

	cases.POST("", handler.ListCases, middleware.OptionalIdentity())
	cases.GET("/:id", handler.GetCase)
}

func SetRecommendRoutes(api *echo.Group, handler *rest.RecommendHandler) {
	reco := api.Group("/recommendations", middleware.AuthMiddleware())
	reco.GET("", handler.Recommend)
	reco.GET("/debug", handler.DebugRecommend)
}

func SetMigrationRoutes(api *echo.Group, handler *rest.MigrationHandler) {
	api.POST("/migrate-guest-data", handler.MigrateGuestData, middleware.AuthMiddleware())
}

func SetRecommendAdminRoutes(api *echo.Group, handler *rest.RecommendAdminHandler) {
	admin := api.Group("/admin/recommend", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.GET("/policy", handler.GetPolicy)
	admin.PUT("/policy", handler.UpsertPolicy)
}
