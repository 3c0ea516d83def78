package bootstrap

import (
	"log"

	"cloudnote-be/internal/config"
	"cloudnote-be/internal/controller"
	"cloudnote-be/internal/pkg/logger"
	"cloudnote-be/internal/repository/contract"
	"cloudnote-be/internal/repository/memory"
	"cloudnote-be/internal/repository/redisrepo"
	"cloudnote-be/internal/repository/unitofwork"
	"cloudnote-be/internal/service"
	adminEvents "cloudnote-be/pkg/admin/events"
	pktNats "cloudnote-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NotebookController controller.INotebookController
	AdminController    controller.IAdminController
	ArchiveController  controller.IArchiveController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure
	SessionRepository contract.SessionRepository
	Logger            logger.ILogger
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

	// 2.5 Infrastructure
	// NATS is optional; admin events are dropped when it is unreachable.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Session storage backend
	var sessionRepo contract.SessionRepository
	if cfg.Session.Backend == "redis" {
		sessionRepo, err = redisrepo.NewSessionRepository(cfg.Session.RedisURL, cfg.Session.TTL)
		if err != nil {
			log.Panicf("Unable to connect to Redis session store: %v", err)
		}
		log.Println("[INFO] Using session backend: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository(cfg.Session.TTL)
		log.Println("[INFO] Using session backend: MEMORY")
	}

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Events.AuditTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Events.AuditTopicName,
		uowFactory,
		sysLogger,
	)

	unlockTokens := service.NewUnlockTokens(cfg.Session.UnlockTokenSecret, cfg.Session.UnlockTokenTTL)

	notebookService := service.NewNotebookService(
		uowFactory,
		sessionRepo,
		publisherService,
		unlockTokens,
	)
	dispatcherService := service.NewDispatcherService(notebookService, sysLogger)

	adminEventPublisher := adminEvents.NewNatsPublisher(natsPub, sysLogger)
	adminService := service.NewAdminService(
		uowFactory,
		sessionRepo,
		service.AdminCredentials{
			PasswordHash: cfg.Admin.PasswordHash,
			Password:     cfg.Admin.Password,
		},
		cfg.App.PageSize,
		adminEventPublisher,
		sysLogger,
	)

	archiveService := service.NewArchiveService(uowFactory, cfg.App.PageSize)

	// 4. Controllers
	return &Container{
		NotebookController: controller.NewNotebookController(dispatcherService, notebookService),
		AdminController:    controller.NewAdminController(adminService, sysLogger),
		ArchiveController:  controller.NewArchiveController(archiveService),

		ConsumerService: consumerService,

		SessionRepository: sessionRepo,
		Logger:            sysLogger,
	}
}
