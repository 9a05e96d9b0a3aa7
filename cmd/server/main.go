package main

import (
	"context"

	availabilityhandler "zinbook/internal/availability/handler"
	availabilityrepo "zinbook/internal/availability/repository"
	availabilityservice "zinbook/internal/availability/service"
	availabilityvalidator "zinbook/internal/availability/validator"
	bookingshandler "zinbook/internal/bookings/handler"
	bookingsrepo "zinbook/internal/bookings/repository"
	bookingsservice "zinbook/internal/bookings/service"
	bookingsvalidator "zinbook/internal/bookings/validator"
	"zinbook/internal/notifications"
	volunteershandler "zinbook/internal/volunteers/handler"
	volunteersrepo "zinbook/internal/volunteers/repository"
	volunteersservice "zinbook/internal/volunteers/service"
	volunteersvalidator "zinbook/internal/volunteers/validator"
	"zinbook/pkg/app"
	"zinbook/pkg/config"
	"zinbook/pkg/kafka"
	kafka_config "zinbook/pkg/kafka/config"
	"zinbook/pkg/mailer"
)

const ServiceName = "zinbook"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting zinbook service")

	serverApp := app.NewApplication(cfg)

	volunteerService := initVolunteers(cfg)
	availabilityService := initAvailability(cfg)

	producer := initProducer(cfg, serverApp)
	bookingService := initBookings(cfg, availabilityService, volunteerService, producer)

	startNotifier(cfg, serverApp)

	serverApp.SetApp(
		volunteershandler.NewVolunteerHandler(volunteerService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.Run()
}

func initVolunteers(cfg *config.Config) volunteersservice.VolunteerService {
	v := volunteersvalidator.NewVolunteerValidator(cfg.Log)
	repo := volunteersrepo.NewMongoVolunteerRepository(cfg)
	return volunteersservice.NewVolunteerService(repo, v, cfg)
}

func initAvailability(cfg *config.Config) availabilityservice.AvailabilityService {
	v := availabilityvalidator.NewRuleValidator(cfg.Log)
	repo := availabilityrepo.NewMongoRuleRepository(cfg)
	return availabilityservice.NewAvailabilityService(repo, v, cfg)
}

func initBookings(
	cfg *config.Config,
	windows bookingsservice.WindowProvider,
	volunteers bookingsservice.VolunteerDirectory,
	publisher bookingsservice.EventPublisher,
) bookingsservice.BookingService {
	v := bookingsvalidator.NewBookingValidator(cfg.Log)
	repo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewBookingLockRepository(cfg)

	svc := bookingsservice.NewBookingService(repo, lockRepo, windows, volunteers, publisher, v, cfg)
	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

// initProducer wires the booking events producer. A broken broker setup
// is fatal: the events pipeline is how confirmations reach clients.
func initProducer(cfg *config.Config, serverApp *app.Application) *kafka.Producer {
	kafkaCfg := kafka_config.Load()

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsTopic+".dlq", cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventsTopic)
	return producer
}

// startNotifier runs the email consumer in-process. Without SMTP settings
// the notifier is skipped and events stay on the topic for an external
// consumer.
func startNotifier(cfg *config.Config, serverApp *app.Application) {
	if cfg.SMTPHost == "" {
		cfg.Log.Warn("SMTP not configured, booking emails disabled")
		return
	}

	m, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}, cfg.Location, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create mailer", "error", err)
	}

	notifier := notifications.NewNotifier(m, cfg.Log)

	kafkaCfg := kafka_config.Load()
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		"zinbook-notifications",
		cfg.BookingEventsTopic+".dlq",
		notifier.HandleMessage,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			cfg.Log.Error("Notifications consumer stopped", "error", err)
		}
	}()

	serverApp.OnShutdown(func() {
		cancel()
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	})

	cfg.Log.Info("Notifications consumer started", "topic", cfg.BookingEventsTopic)
}
