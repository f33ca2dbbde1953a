package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"reversa-be/internal/config"
	"reversa-be/internal/controller"
	"reversa-be/internal/handler"
	"reversa-be/internal/pkg/logger"
	"reversa-be/internal/pkg/mailer"
	"reversa-be/internal/repository/implementation"
	"reversa-be/internal/repository/unitofwork"
	"reversa-be/internal/service"
	"reversa-be/internal/websocket"
	"reversa-be/pkg/integration"
	pktNats "reversa-be/pkg/nats"
	"reversa-be/pkg/syncjob"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	RequestController   controller.IRequestController
	PublicController    controller.IPublicController
	SyncController      controller.ISyncController
	DashboardController controller.IDashboardController
	PolicyController    controller.IPolicyController

	// WebSockets & Notification
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Record change feed (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
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
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// External platform client
	credSource := integration.NewStoredCredentialSource(
		implementation.NewCredentialRepository(db),
		cfg.Integration.ClientID,
		cfg.Integration.ClientSecret,
		cfg.Integration.AuthURL,
		cfg.Integration.TokenURL,
	)
	integrationClient := integration.NewClient(cfg.Integration.BaseURL, credSource, sysLogger)

	// 4. Services
	changeFeed := service.NewChangeFeedService(pubSub)
	authService := service.NewAuthService(uowFactory, cfg.App.JWTSecret)
	policyService := service.NewPolicyService(uowFactory)

	requestService := service.NewRequestService(uowFactory, natsPub, emailService, sysLogger)
	submissionService := service.NewSubmissionService(uowFactory, policyService, natsPub, emailService, sysLogger)

	orchestrator := syncjob.NewOrchestrator(
		implementation.NewSyncJobRepository(db),
		integrationClient,
		sysLogger,
	)
	dashboardService := service.NewDashboardService(uowFactory, pubSub, wsHub, sysLogger)
	syncService := service.NewSyncService(uowFactory, orchestrator, changeFeed, natsPub, sysLogger)

	// 5. Notification worker
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	realtimeHandler := handler.NewRealtimeHandler(dashboardService, wsHub, wsLogger)

	return &Container{
		RealtimeHandler:     realtimeHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService),
		RequestController:   controller.NewRequestController(requestService),
		PublicController:    controller.NewPublicController(submissionService),
		SyncController:      controller.NewSyncController(syncService, dashboardService),
		DashboardController: controller.NewDashboardController(dashboardService),
		PolicyController:    controller.NewPolicyController(policyService),
	}
}
