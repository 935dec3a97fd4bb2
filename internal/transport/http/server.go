package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "redrose-ai/internal/app"
	"redrose-ai/internal/bootstrap"
	"redrose-ai/internal/repository"
	"redrose-ai/internal/transport/http/handler"
	"redrose-ai/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	logger := app.Logger

	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	router.Use(gin.Recovery(), middleware.RequestLogger(logger), metrics.Middleware())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	userRepo := repository.NewUserRepository(app.MySQL)
	conversationRepo := repository.NewConversationRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	fileRepo := repository.NewFileRepository(app.MySQL)
	contentRepo := repository.NewGeneratedContentRepository(app.MySQL)
	activityRepo := repository.NewActivityRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)
	conversationService := appsvc.NewConversationService(conversationRepo)
	messageService := appsvc.NewMessageService(conversationService, messageRepo, app.Completer, app.HistoryCache, app.Publisher, logger.Named("chat"))
	fileService := appsvc.NewFileService(fileRepo, cfg.MaxUploadBytes(), app.Publisher, logger.Named("files"))
	exportService := appsvc.NewExportService(conversationRepo, messageRepo, fileRepo, contentRepo, userRepo, app.Publisher, logger.Named("export"))
	contentService := appsvc.NewContentService(contentRepo, app.Publisher, logger.Named("content"))
	activityService := appsvc.NewActivityService(activityRepo)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(messageService)
	conversationHandler := handler.NewConversationHandler(conversationService, messageService)
	fileHandler := handler.NewFileHandler(fileService, cfg.MaxUploadBytes())
	downloadHandler := handler.NewDownloadHandler(exportService)
	contentHandler := handler.NewContentHandler(contentService)
	activityHandler := handler.NewActivityHandler(activityService)

	limiter := middleware.NewRateLimiter(cfg.Limits.ChatRPS, cfg.Limits.ChatBurst, logger)
	app.AddCloser(limiter.Close)
	limited := limiter.Middleware()

	api := router.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(cfg.Auth.JWTSecret), authHandler.Me)

	secured := api.Group("")
	secured.Use(middleware.AuthJWT(cfg.Auth.JWTSecret))

	secured.POST("/chat", limited, chatHandler.Chat)
	secured.POST("/conversations", conversationHandler.Create)
	secured.GET("/conversations", conversationHandler.List)
	secured.GET("/messages/:conversationId", conversationHandler.Messages)

	secured.POST("/upload", limited, fileHandler.Upload)
	secured.GET("/files", fileHandler.List)
	secured.GET("/files/:id", fileHandler.Get)
	secured.DELETE("/files", fileHandler.Delete)

	secured.GET("/download/chat", downloadHandler.Chat)
	secured.GET("/download/all-data", downloadHandler.AllData)
	secured.GET("/download/content", downloadHandler.Content)

	secured.POST("/generate/text", limited, contentHandler.GenerateText)
	secured.POST("/generate/image", limited, contentHandler.GenerateImage)
	secured.POST("/generate/code", limited, contentHandler.GenerateCode)
	secured.GET("/generated_content", contentHandler.List)

	secured.GET("/activity", activityHandler.List)

	return router
}
