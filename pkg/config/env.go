package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvPatientAPIURL     = "PATIENT_API_URL"
	EnvDoctorAPIURL      = "DOCTOR_API_URL"
	EnvAppointmentAPIURL = "APPOINTMENT_API_URL"
	EnvHTTPClientTimeout = "HTTP_CLIENT_TIMEOUT"

	EnvClinicOpenHour  = "CLINIC_OPEN_HOUR"
	EnvClinicCloseHour = "CLINIC_CLOSE_HOUR"
	EnvSlotStep        = "SLOT_STEP"
	EnvBookingLeadTime = "BOOKING_LEAD_TIME"

	EnvAppointmentsPageLimit = "APPOINTMENTS_PAGE_LIMIT"
	EnvReferencePageLimit    = "REFERENCE_PAGE_LIMIT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvDialogIdleTTL  = "DIALOG_IDLE_TTL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvKafkaBrokers  = "KAFKA_BROKERS"
	EnvActivityTopic = "ACTIVITY_TOPIC"
)
