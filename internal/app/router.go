package app

import (
	"interview_prep_backend/docs"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/middleware"
	"interview_prep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		a.registerChatRoutes(authGroup, c)
		a.registerTopicRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerChatRoutes(rg *gin.RouterGroup, c *controllers) {
	chat := rg.Group("/chat/sessions")
	{
		chat.POST("", c.chat.CreateSession)
		chat.GET("", c.chat.ListSessions)
		chat.GET("/:id/messages", c.chat.GetMessages)
		chat.POST("/:id/messages", c.chat.SendMessage)
		chat.POST("/:id/stream", c.chat.StreamMessage)
		chat.GET("/:id/code", c.chat.GetLatestCode)
		chat.POST("/:id/code", c.chat.SaveCode)
		chat.POST("/:id/execute", c.chat.ExecuteSessionCode)
		chat.POST("/:id/evaluate", c.chat.EvaluateCode)
		chat.GET("/:id/performance", c.chat.GetPerformance)
	}

	// 代码执行（不关联会话）
	rg.POST("/execute", c.chat.Execute)
}

func (a *App) registerTopicRoutes(rg *gin.RouterGroup, c *controllers) {
	topics := rg.Group("/topics")
	{
		topics.GET("/progress", c.progress.GetHierarchy)
		topics.GET("/:category/target", c.progress.GetTargetSubtopic)
		topics.POST("/:category/subtopics/:subtopicId/complete", c.progress.CompleteSubtopic)
	}

	questions := rg.Group("/questions")
	{
		questions.POST("/hint", c.question.GetHint)
		questions.GET("/:category", c.question.GetQuestion)
	}
}
