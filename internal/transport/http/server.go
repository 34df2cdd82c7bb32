package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"docrag/internal/ai"
	appsvc "docrag/internal/app"
	"docrag/internal/bootstrap"
	"docrag/internal/cache"
	"docrag/internal/event"
	"docrag/internal/transport/http/handler"
	"docrag/internal/vectorstore"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	aiClient := ai.NewOpenAICompatibleClient()

	var embedder vectorstore.Embedder = ai.NewEmbedder(aiClient, ai.EmbeddingConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.EmbeddingModel,
	})
	if app.Redis != nil {
		embedder = cache.NewEmbeddingCache(
			app.Redis,
			embedder,
			app.Config.LLM.EmbeddingModel,
			time.Duration(app.Config.Redis.EmbeddingTTLSeconds)*time.Second,
		)
	}

	store := vectorstore.New(embedder, app.Index)

	var publisher appsvc.EventPublisher
	if app.MQConn != nil {
		publisher = event.NewPublisher(app.MQConn, app.Config.RabbitMQ.DocumentEventsQueue)
	}

	llm := ai.NewChatClient(aiClient, ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	})

	ingestService := appsvc.NewIngestService(store, publisher)
	answerService := appsvc.NewAnswerService(store, llm, app.Config.LLM.Temperature)

	healthHandler := handler.NewHealthHandler(app)
	documentHandler := handler.NewDocumentHandler(ingestService, app.Storage)
	searchHandler := handler.NewSearchHandler(answerService)
	chatHandler := handler.NewChatHandler(answerService)
	statsHandler := handler.NewStatsHandler(app.Index, app.Counters)

	router.GET("/healthz", healthHandler.Check)

	v1 := router.Group("/api/v1")
	v1.POST("/documents", documentHandler.Upload)
	v1.GET("/documents", documentHandler.List)
	v1.GET("/documents/:filename", documentHandler.Download)
	v1.DELETE("/documents/:filename", documentHandler.Delete)
	v1.POST("/search", searchHandler.Search)
	v1.POST("/chat", chatHandler.Chat)
	v1.GET("/stats", statsHandler.Stats)

	return router
}
