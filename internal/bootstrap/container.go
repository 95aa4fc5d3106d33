package bootstrap

import (
	"context"
	"log"
	"time"

	"property-rental-be/internal/config"
	"property-rental-be/internal/controller"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/internal/repository/memory"
	"property-rental-be/internal/repository/unitofwork"
	"property-rental-be/internal/service"
	"property-rental-be/pkg/entitlement"
	"property-rental-be/pkg/events"
	pktNats "property-rental-be/pkg/nats"
	"property-rental-be/pkg/viewcounter"
	"property-rental-be/pkg/visibility"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PlanController         controller.PlanController
	SubscriptionController controller.SubscriptionController
	PropertyController     controller.PropertyController

	// Background Services (Exposed for main.go to run)
	EventConsumerService service.IEventConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	var publisher events.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v, using in-process bus", err)
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}
	if publisher == nil {
		channelPub := events.NewChannelPublisher(events.NewGoChannel())
		publisher = channelPub
		c.EventConsumerService = service.NewEventConsumerService(channelPub, sysLogger)
		c.closers = append(c.closers, func() { _ = channelPub.Close() })
	}

	// 3. Infrastructure
	rdb, err := viewcounter.NewClient(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] %v, property view counting disabled", err)
	}
	if rdb != nil {
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}
	counter := viewcounter.NewRedisCounter(rdb)

	// 4. Domain
	engine := entitlement.NewEngine(uowFactory, publisher, sysLogger,
		entitlement.WithDefaultDurationDays(cfg.Catalog.DefaultPlanDurationDays),
	)
	resolver := visibility.NewResolver(engine, service.NewOwnerDirectory(uowFactory), sysLogger)

	// 5. Services
	planCache := memory.NewPlanCache(time.Duration(cfg.Catalog.PlanCacheTTLSeconds) * time.Second)
	planService := service.NewPlanService(uowFactory, planCache, sysLogger)
	subscriptionService := service.NewSubscriptionService(engine, sysLogger)
	propertyService := service.NewPropertyService(uowFactory, resolver, counter, cfg.Catalog, sysLogger)

	// 6. Controllers
	c.PlanController = controller.NewPlanController(planService)
	c.SubscriptionController = controller.NewSubscriptionController(subscriptionService)
	c.PropertyController = controller.NewPropertyController(propertyService)

	return c
}

// Close releases the event bus and cache connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	if zl, ok := c.Logger.(interface{ Sync() error }); ok {
		_ = zl.Sync()
	}
}
