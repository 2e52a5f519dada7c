package http

import (
	"math/rand/v2"
	"time"

	"github.com/gin-gonic/gin"

	"docassist/internal/ai"
	appsvc "docassist/internal/app"
	"docassist/internal/bootstrap"
	"docassist/internal/cache"
	rabbitmqClient "docassist/internal/platform/rabbitmq"
	"docassist/internal/repository"
	"docassist/internal/transport/http/handler"
	"docassist/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	embConfig := ai.EmbeddingConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.EmbeddingModel,
	}
	chatConfig := ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	}

	otpRepo := repository.NewOTPRepository(app.MySQL)
	docRepo := repository.NewDocumentRepository(app.MySQL)
	emailPublisher := rabbitmqClient.NewEmailPublisher(app.MQConn, app.Config.RabbitMQ.OTPEmailQueue)
	embCache := cache.NewEmbeddingCache(app.Redis, time.Duration(app.Config.Redis.EmbeddingTTLSeconds)*time.Second)

	otpService := appsvc.NewOTPService(
		otpRepo,
		emailPublisher,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	ingestService := appsvc.NewIngestService(app.Index, app.LLM, docRepo, embConfig)
	responderService := appsvc.NewResponderService(
		app.Index,
		app.LLM,
		app.LLM,
		embCache,
		embConfig,
		chatConfig,
		rand.IntN,
	)

	healthHandler := handler.NewHealthHandler(app)
	uploadHandler := handler.NewUploadHandler(ingestService, app.Config.Storage.Dir)
	chatHandler := handler.NewChatHandler(responderService)
	authHandler := handler.NewAuthHandler(otpService)
	documentHandler := handler.NewDocumentHandler(docRepo)

	router.GET("/healthz", healthHandler.Check)
	router.POST("/upload-file", uploadHandler.Upload)
	router.POST("/chat", chatHandler.Chat)
	router.POST("/send-otp", authHandler.SendOTP)
	router.POST("/verify-otp", authHandler.VerifyOTP)
	router.GET("/documents", documentHandler.List)

	return router
}
