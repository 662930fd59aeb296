package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/handler"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/splitter"
	"ai-assistant-be/pkg/topic"

	pktNats "ai-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	SideChatController controller.ISideChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Alerts
	AlertHandler *handler.AlertHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.GeminiEmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Each LLM provider gets its own base URL so pointing one at a
	// custom endpoint never redirects the other.
	llmBaseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "openai" {
		llmBaseURL = cfg.Ai.OpenAIBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.EmbedMessageTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedMessageTopic,
		uowFactory,
		embeddingProvider,
	)

	topicConfig := topic.Config{
		SimilarityThreshold:    cfg.Topic.SimilarityThreshold,
		MinMessagesBeforeSplit: cfg.Topic.MinMessagesBeforeSplit,
		EmbeddingWindow:        cfg.Topic.EmbeddingWindow,
		EmbeddingDecay:         cfg.Topic.EmbeddingDecay,
		UseLLMConfirmation:     cfg.Topic.UseLLMConfirmation,
		AutoTitleOnSplit:       cfg.Split.AutoTitle,
		SplitTimeout:           5 * time.Second,
	}
	splitConfig := splitter.Config{
		AutoTitle:             cfg.Split.AutoTitle,
		IncludeContextSummary: cfg.Split.IncludeContextSummary,
		MaxContextMessages:    cfg.Split.MaxContextMessages,
		SummaryMaxTokens:      cfg.Split.SummaryMaxTokens,
	}

	chatService := service.NewChatService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		publisherService,
		natsPub,
		sysLogger,
		topicConfig,
		splitConfig,
	)
	sideChatService := service.NewSideChatService(uowFactory, llmProvider, natsPub, sysLogger)

	// Split alerts flow through the event bus to the websocket hub.
	alertService := service.NewAlertService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go alertService.Start()
	}

	// Handler
	alertHandler := handler.NewAlertHandler(wsHub, wsLogger)

	return &Container{
		AlertHandler: alertHandler,
		WebSocketHub: wsHub,

		ChatController:     controller.NewChatController(chatService),
		SideChatController: controller.NewSideChatController(sideChatService),

		ConsumerService: consumerService,
	}
}
