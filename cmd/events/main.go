package main

import (
	"context"
	"time"

	achievementsrepo "chefly/internal/achievements/repository"
	achievementssvc "chefly/internal/achievements/service"
	catalogrepo "chefly/internal/catalog/repository"
	directoryrepo "chefly/internal/directory/repository"
	eventshandler "chefly/internal/events/handler"
	eventsrepo "chefly/internal/events/repository"
	eventssvc "chefly/internal/events/service"
	"chefly/internal/events/stream"
	"chefly/internal/events/validator"
	"chefly/internal/notify"
	"chefly/internal/reminders"
	remindershandler "chefly/internal/reminders/handler"
	reviewshandler "chefly/internal/reviews/handler"
	reviewsrepo "chefly/internal/reviews/repository"
	reviewssvc "chefly/internal/reviews/service"
	"chefly/pkg/app"
	"chefly/pkg/config"
	"chefly/pkg/kafka"
	kafkaconfig "chefly/pkg/kafka/config"
	"chefly/pkg/model"

	"github.com/joho/godotenv"
)

const ServiceName = "events"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Events service")

	statusPublisher, pushTransport := initMessaging(cfg)

	eventValidator := validator.NewEventValidator(cfg.Log)
	eventRepo := eventsrepo.NewMongoEventRepository(cfg)
	counterRepo := eventsrepo.NewMongoCounterRepository(cfg)
	userRepo := directoryrepo.NewMongoUserRepository(cfg)
	menuRepo := catalogrepo.NewMongoMenuRepository(cfg)
	achievementRepo := achievementsrepo.NewMongoAchievementRepository(cfg)
	reviewRepo := reviewsrepo.NewMongoReviewRepository(cfg)

	ensureCounter(cfg, counterRepo)

	bookingService := eventssvc.NewBookingService(
		eventRepo,
		counterRepo,
		userRepo,
		menuRepo,
		eventValidator,
		statusPublisher,
		cfg,
	)
	achievementService := achievementssvc.NewAchievementService(achievementRepo, userRepo, cfg)
	reviewService := reviewssvc.NewReviewService(
		reviewRepo,
		eventRepo,
		userRepo,
		achievementService,
		eventValidator,
		cfg,
	)

	scanLock := reminders.NewRedisScanLock(cfg.Client.Redis, cfg.ScanLockTTL)
	scheduler := reminders.NewScheduler(eventRepo, userRepo, menuRepo, pushTransport, scanLock, nil, cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		eventshandler.NewEventHandler(bookingService, cfg.Log),
		remindershandler.NewReminderHandler(scheduler, cfg.Log),
		reviewshandler.NewReviewHandler(reviewService, cfg.Log),
	)

	if cfg.SchedulerDisabled {
		cfg.Log.Warn("Reminder scheduler disabled by configuration")
	} else {
		scheduler.Start()
		serverApp.AddWorker(scheduler)
	}

	cfg.Log.Info("Events service initialized", "database", cfg.MongoDatabaseName)
	serverApp.Run()
}

// initMessaging builds the Kafka-backed publisher and push transport.
// Producer construction only validates configuration; it never dials
// the broker. Missing broker config falls back to log-only variants,
// and an unreachable broker surfaces later as per-publish failures,
// which the callers log without blocking bookings.
func initMessaging(cfg *config.Config) (stream.StatusPublisher, notify.Transport) {
	kafkaCfg := kafkaconfig.Load()

	var statusPublisher stream.StatusPublisher = stream.NopStatusPublisher{}
	if producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.StatusTopic); err != nil {
		cfg.Log.Warn("Status topic producer unavailable, status events disabled", "error", err)
	} else {
		statusPublisher = stream.NewKafkaStatusPublisher(producer)
		cfg.Log.Info("Status change publisher configured", "topic", kafkaCfg.StatusTopic)
	}

	var pushTransport notify.Transport = notify.NewLogTransport(cfg.Log)
	if producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.PushTopic); err != nil {
		cfg.Log.Warn("Push topic producer unavailable, using log transport", "error", err)
	} else {
		pushTransport = notify.NewKafkaTransport(producer, cfg.Log)
		cfg.Log.Info("Push dispatch transport configured", "topic", kafkaCfg.PushTopic)
	}

	return statusPublisher, pushTransport
}

func ensureCounter(cfg *config.Config, counters eventsrepo.CounterRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := counters.Ensure(ctx, model.CounterOrderNumber, model.CounterBase); err != nil {
		cfg.Log.Fatal("Failed to ensure order number counter", "error", err)
	}
}
