package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultPatientAPIURL     = "http://localhost:8001"
	DefaultDoctorAPIURL      = "http://localhost:8002"
	DefaultAppointmentAPIURL = "http://localhost:8003"
	DefaultHTTPClientTimeout = 10 * time.Second

	DefaultClinicOpenHour  = 9
	DefaultClinicCloseHour = 18
	DefaultSlotStep        = 30 * time.Minute
	DefaultBookingLeadTime = 2 * time.Hour

	DefaultAppointmentsPageLimit = 20
	DefaultReferencePageLimit    = 1000

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 64 * 1024
	DefaultIdempotencyTTL = 10 * time.Minute
	DefaultDialogIdleTTL  = 30 * time.Minute

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 35 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMongoDatabaseName = "frontdesk"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultActivityTopic = "frontdesk.activity"
)
