package main

import (
	accountshandler "maitred/internal/accounts/handler"
	accountsrepo "maitred/internal/accounts/repository"
	accountsservice "maitred/internal/accounts/service"
	accountsvalidator "maitred/internal/accounts/validator"
	menuhandler "maitred/internal/menu/handler"
	menurepo "maitred/internal/menu/repository"
	menuservice "maitred/internal/menu/service"
	menuvalidator "maitred/internal/menu/validator"
	reservationshandler "maitred/internal/reservations/handler"
	reservationsrepo "maitred/internal/reservations/repository"
	reservationsservice "maitred/internal/reservations/service"
	reservationsvalidator "maitred/internal/reservations/validator"
	"maitred/pkg/app"
	"maitred/pkg/config"
	"maitred/pkg/events"
	"maitred/pkg/kafka"
	kafka_config "maitred/pkg/kafka/config"
	kafka_middleware "maitred/pkg/kafka/middleware"
	"maitred/pkg/middleware"
)

const ServiceName = "server"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting reservation API")

	producer, publisher := initPublisher(cfg)
	if producer != nil {
		defer producer.Close()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		initReservations(cfg, publisher),
		initAccounts(cfg),
		initMenu(cfg),
	)
	serverApp.Run()
}

// initPublisher degrades to a no-op publisher when Kafka is unreachable;
// reservations still work, only events are lost.
func initPublisher(cfg *config.Config) (*kafka.Producer, events.Publisher) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Warn("Kafka configuration invalid, events disabled", "error", err)
		return nil, events.NoopPublisher{}
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Warn("Kafka unavailable, events disabled", "error", err)
		return nil, events.NoopPublisher{}
	}

	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	cfg.Log.Info("Kafka producer initialized", "brokers", kafkaCfg.Brokers, "topic", kafkaCfg.ReservationsTopic)
	return producer, events.NewKafkaPublisher(producer, ServiceName)
}

func initReservations(cfg *config.Config, publisher events.Publisher) *reservationshandler.ReservationHandler {
	repo := reservationsrepo.NewMongoReservationRepository(cfg)
	svc := reservationsservice.NewReservationService(
		repo,
		reservationsvalidator.NewReservationValidator(cfg.Log),
		publisher,
		cfg,
	)

	var cache *middleware.ResponseCache
	if cfg.Client.Redis != nil {
		cache = middleware.NewResponseCache(cfg.Client.Redis, cfg.AvailabilityCacheTTL, "availability", cfg.Log)
	}

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationshandler.NewReservationHandler(svc, cache, cfg)
}

func initAccounts(cfg *config.Config) *accountshandler.PersonHandler {
	repo := accountsrepo.NewMongoPersonRepository(cfg)
	svc := accountsservice.NewPersonService(repo, accountsvalidator.NewPersonValidator(), cfg)

	cfg.Log.Info("Accounts service initialized")
	return accountshandler.NewPersonHandler(svc, cfg)
}

func initMenu(cfg *config.Config) *menuhandler.MenuHandler {
	repo := menurepo.NewMongoMenuRepository(cfg)
	svc := menuservice.NewMenuService(repo, menuvalidator.NewMenuItemValidator(), cfg)

	cfg.Log.Info("Menu service initialized")
	return menuhandler.NewMenuHandler(svc, cfg)
}
