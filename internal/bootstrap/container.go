package bootstrap

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"plantpal-be/internal/config"
	"plantpal-be/internal/controller"
	"plantpal-be/internal/dto"
	"plantpal-be/internal/handler"
	"plantpal-be/internal/pkg/logger"
	"plantpal-be/internal/repository/memory"
	"plantpal-be/internal/service"
	"plantpal-be/internal/websocket"
	"plantpal-be/pkg/knowledge"
	"plantpal-be/pkg/llm/factory"
	"plantpal-be/pkg/retry"
	"plantpal-be/pkg/vision"
	"plantpal-be/pkg/vision/openai"
	"plantpal-be/pkg/vision/plantnet"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	PlantController   controller.IPlantController
	ChatController    controller.IChatController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	SessionFeedHandler *handler.SessionFeedHandler
	WebSocketHub       *websocket.Hub

	Logger    logger.ILogger
	EventBus  *gochannel.GoChannel
	Redis     *redis.Client
	Sessions  *memory.SessionRepository
	TierState dto.TierAvailability
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)

	// 3. Remote tiers. A missing key leaves the tier unconfigured.
	var primary vision.Identifier
	if cfg.Keys.PlantNet != "" {
		primary = plantnet.NewProvider(cfg.Ai.PlantNetBaseURL, cfg.Ai.PlantNetProject, cfg.Keys.PlantNet, cfg.Ai.RequestTimeout)
		sysLogger.Info(logger.ModuleIdentify, "Primary vision tier enabled", map[string]interface{}{"provider": plantnet.ProviderName})
	}

	var secondary vision.Identifier
	if cfg.Keys.OpenAI != "" {
		secondary = vision.WithRetry(
			openai.NewVisionProvider(cfg.Ai.OpenAIBaseURL, cfg.Keys.OpenAI, cfg.Ai.VisionModel, cfg.Ai.RequestTimeout),
			retry.DefaultConfig(),
			func(provider string, attempt int, err error, wait time.Duration) {
				sysLogger.Warn(logger.ModuleIdentify, "Retrying vision request", map[string]interface{}{
					"provider": provider,
					"attempt":  attempt,
					"wait":     wait.String(),
					"error":    err.Error(),
				})
			},
		)
		sysLogger.Info(logger.ModuleIdentify, "Secondary vision tier enabled", map[string]interface{}{"provider": openai.ProviderName})
	}

	llmProvider, err := factory.NewLLMProvider(factory.Settings{
		Provider:       cfg.Ai.LLMProvider,
		Model:          cfg.Ai.LLMModel,
		OpenAIKey:      cfg.Keys.OpenAI,
		OpenAIBaseURL:  cfg.Ai.OpenAIBaseURL,
		HuggingFaceKey: cfg.Keys.HuggingFace,
		OllamaBaseURL:  cfg.Ai.OllamaBaseURL,
		Timeout:        cfg.Ai.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	if llmProvider != nil {
		sysLogger.Info(logger.ModuleChat, "Using LLM provider", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"model":    cfg.Ai.LLMModel,
		})
	}

	// 4. Session storage
	sessionRepo := memory.NewSessionRepository(cfg.App.SessionTTL)
	sessionRepo.OnEvicted(func(sessionId uuid.UUID) {
		sysLogger.Info(logger.ModuleSession, "Session expired", map[string]interface{}{"session_id": sessionId.String()})
	})

	// 5. Redis (optional, only for multi-instance websocket fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn(logger.ModuleHub, "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			sysLogger.Warn(logger.ModuleHub, "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
		cancel()
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.HubLogFilePath)
	wsHub := websocket.NewHub(rdb, "", wsLogger)

	// 6. Services
	careService := service.NewCareService(llmProvider, retry.FixedConfig(1, time.Second), sysLogger)
	identificationService := service.NewIdentificationService(
		primary,
		secondary,
		careService,
		knowledge.NewCatalog(),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		sysLogger,
	)
	chatService := service.NewChatService(llmProvider, sysLogger)
	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	sessionService := service.NewSessionService(sessionRepo, identificationService, chatService, publisherService, sysLogger)

	consumerService := service.NewConsumerService(pubSub, cfg.App.EventTopic, wsHub, wsLogger)

	tiers := dto.TierAvailability{
		PrimaryVision:   primary != nil,
		SecondaryVision: secondary != nil,
		CareAdvice:      llmProvider != nil,
		Chat:            llmProvider != nil,
	}

	// 7. Controllers
	return &Container{
		SessionController:  controller.NewSessionController(sessionService),
		PlantController:    controller.NewPlantController(sessionService, cfg.App.MaxImageBytes),
		ChatController:     controller.NewChatController(sessionService),
		HealthController:   controller.NewHealthController(tiers, sessionRepo),
		SessionFeedHandler: handler.NewSessionFeedHandler(sessionService, wsHub, wsLogger),
		WebSocketHub:       wsHub,

		ConsumerService: consumerService,

		Logger:    sysLogger,
		EventBus:  pubSub,
		Redis:     rdb,
		Sessions:  sessionRepo,
		TierState: tiers,
	}, nil
}

// Close releases the event bus and the Redis client.
func (c *Container) Close() error {
	if err := c.EventBus.Close(); err != nil {
		return err
	}
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
