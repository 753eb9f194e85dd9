package main

import (
	"context"

	"frontdesk/internal/activity"
	"frontdesk/internal/appointments/dialog"
	"frontdesk/internal/appointments/errmap"
	"frontdesk/internal/appointments/handler"
	"frontdesk/internal/appointments/service"
	"frontdesk/internal/appointments/slots"
	"frontdesk/internal/appointments/validator"
	"frontdesk/internal/observability/metrics"
	"frontdesk/pkg/app"
	"frontdesk/pkg/client"
	"frontdesk/pkg/config"
	"frontdesk/pkg/contracts"
	"frontdesk/pkg/kafka"
	kafka_config "frontdesk/pkg/kafka/config"
	kafka_middleware "frontdesk/pkg/kafka/middleware"
)

const ServiceName = "frontdesk"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting Front Desk service")
	serverApp := app.NewApplication(cfg)

	clients := initClients(cfg)
	deskMetrics := metrics.NewDeskMetrics(nil)
	recorder, journal, database := initActivity(cfg, serverApp, deskMetrics)

	board := service.NewBoard(clients.Appointments, recorder, deskMetrics, cfg)
	policy := slots.Policy{Hours: cfg.ClinicHours, Step: cfg.SlotStep, LeadTime: cfg.BookingLeadTime}
	desk := service.NewDesk(&dialog.Env{
		Appointments:       clients.Appointments,
		Patients:           clients.Patients,
		Doctors:            clients.Doctors,
		Validator:          validator.NewBookingValidator(cfg.Log, cfg.BookingLeadTime),
		Mapper:             errmap.New(),
		Policy:             policy,
		Recorder:           recorder,
		Metrics:            deskMetrics,
		Logger:             cfg.Log,
		ReferencePageLimit: cfg.ReferencePageLimit,
	}, board)
	desk.StartExpiry(cfg.DialogIdleTTL)
	serverApp.OnShutdown("desk", contracts.CloserFunc(func(context.Context) error {
		desk.Stop()
		return nil
	}))
	cfg.Log.Info("Appointment desk initialized", "clinic_hours", cfg.ClinicHours.String(), "slot_step", cfg.SlotStep, "dialog_idle_ttl", cfg.DialogIdleTTL)

	appHandler := handler.NewAppointmentHandler(board, desk, journal, policy, cfg.Log)
	healthHandler := handler.NewHealthHandler(nil, cfg.Log)
	if database != nil {
		healthHandler = handler.NewHealthHandler(database.Client, cfg.Log)
	}

	serverApp.SetApp(appHandler, healthHandler)
	serverApp.Run()
}

func initClients(cfg *config.Config) *client.Client {
	clients := client.NewClient()
	clients.SetAppointmentClient(cfg.AppointmentAPIURL, cfg.HTTPClientTimeout)
	clients.SetPatientClient(cfg.PatientAPIURL, cfg.HTTPClientTimeout)
	clients.SetDoctorClient(cfg.DoctorAPIURL, cfg.HTTPClientTimeout)
	return clients
}

// initActivity wires the activity trail. Events always reach a journal, the
// Mongo one when configured and an in-process ring otherwise. They are also
// published when Kafka brokers are configured.
func initActivity(
	cfg *config.Config,
	serverApp *app.Application,
	deskMetrics *metrics.DeskMetrics,
) (activity.Recorder, activity.Journal, *client.MongoClient) {
	var recorders activity.Multi
	var journal activity.Journal
	var database *client.MongoClient

	if cfg.JournalEnabled() {
		mongoClient, err := client.ConnectMongo(context.Background(), cfg.MongoURI, cfg.MongoConnTimeout)
		if err != nil {
			cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		serverApp.OnShutdown("mongo", contracts.CloserFunc(mongoClient.Disconnect))

		db := mongoClient.Client.Database(cfg.MongoDatabaseName)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
		if err := activity.EnsureIndexes(ctx, db); err != nil {
			cfg.Log.Warn("Failed to ensure activity indexes", "error", err)
		}
		cancel()

		journal = activity.NewMongoJournal(db, cfg.MongoConnTimeout, dialog.DefaultRecordTimeout)
		database = mongoClient
		cfg.Log.Info("Activity journal stored in MongoDB", "database", cfg.MongoDatabaseName)
	} else {
		journal = activity.NewMemoryJournal(activity.MaxRecent)
		cfg.Log.Info("Activity journal kept in memory")
	}
	recorders = append(recorders, journal)

	if cfg.EventsEnabled() {
		kafkaCfg := kafka_config.Load(cfg.KafkaBrokers, cfg.ActivityTopic)
		kafkaCfg.LogConfiguration(cfg.Log.Info)

		producer, err := kafka.NewProducer(kafkaCfg, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware(deskMetrics))
		serverApp.OnShutdown("kafka", contracts.CloserFunc(func(context.Context) error {
			return producer.Close()
		}))

		recorders = append(recorders, activity.NewKafkaRecorder(producer, ServiceName))
		cfg.Log.Info("Activity events published to Kafka", "topic", cfg.ActivityTopic)
	}

	return recorders, journal, database
}
