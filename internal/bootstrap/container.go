package bootstrap

import (
	"context"
	"log"

	"lecturelens-be/internal/config"
	"lecturelens-be/internal/controller"
	"lecturelens-be/internal/pkg/logger"
	"lecturelens-be/internal/pkg/mailer"
	"lecturelens-be/internal/repository/memory"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/internal/service"
	"lecturelens-be/internal/websocket"
	"lecturelens-be/pkg/aibackend"
	"lecturelens-be/pkg/notesync"
	"lecturelens-be/pkg/presence"

	pktNats "lecturelens-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// segmentTopic is the in-process topic for ingested transcript segments.
const segmentTopic = "transcript.segment.ingested"

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	OAuthController      controller.IOAuthController
	SessionController    controller.ISessionController
	TranscriptController controller.ITranscriptController
	CitationController   controller.ICitationController
	NoteController       controller.INoteController
	DocumentController   controller.IDocumentController
	BackendController    controller.IBackendController
	WsController         controller.IWsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & notes (exposed for graceful shutdown)
	WebSocketHub *websocket.Hub
	Notes        *notesync.Coordinator
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	presenceTracker := presence.NewTracker(rdb)

	// In-memory live session state
	liveStore := memory.NewLiveSessionRepository()

	// AI backend client + warmup gate
	aiClient := aibackend.NewClient(cfg.Ai.BaseURL, cfg.Ai.APIKey)
	warmup := aibackend.NewWarmupMonitor(aiClient, cfg.Ai.WarmupTimeout, cfg.Ai.WarmupInterval, sysLogger)

	// Note lifecycle coordination
	noteStore := service.NewNoteStore(uowFactory)
	noteGenerator := service.NewNoteGenerator(aiClient, uowFactory)
	notes := notesync.NewCoordinator(noteStore, noteGenerator, warmup, notesync.Options{
		AutoGenerate:  cfg.Notes.AutoGenerate,
		AutoSaveDelay: cfg.Notes.AutoSaveDelay,
		PollInterval:  cfg.Ai.PollInterval,
	}, sysLogger)

	// 3. Services
	publisherService := service.NewPublisherService(segmentTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		segmentTopic,
		uowFactory,
		wsHub,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)

	sessionService := service.NewSessionService(uowFactory, liveStore, presenceTracker, notes, natsPub)
	transcriptService := service.NewTranscriptService(uowFactory, liveStore, publisherService, natsPub)
	citationService := service.NewCitationService(uowFactory)
	noteService := service.NewNoteService(uowFactory, notes, aiClient, warmup, wsHub, natsPub)
	documentService := service.NewDocumentService(uowFactory, natsPub)

	// 4. Controllers
	return &Container{
		AuthController:       controller.NewAuthController(authService),
		OAuthController:      controller.NewOAuthController(oauthService),
		SessionController:    controller.NewSessionController(sessionService),
		TranscriptController: controller.NewTranscriptController(transcriptService),
		CitationController:   controller.NewCitationController(citationService),
		NoteController:       controller.NewNoteController(noteService),
		DocumentController:   controller.NewDocumentController(documentService),
		BackendController:    controller.NewBackendController(transcriptService, noteService, documentService, cfg.App.ServiceKey),
		WsController:         controller.NewWsController(sessionService, wsHub, presenceTracker, wsLogger),

		ConsumerService: consumerService,

		WebSocketHub: wsHub,
		Notes:        notes,
	}
}
