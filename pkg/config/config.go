package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"frontdesk/pkg/logger"
	"frontdesk/pkg/model"
)

type Config struct {
	Port string

	PatientAPIURL     string
	DoctorAPIURL      string
	AppointmentAPIURL string
	HTTPClientTimeout time.Duration

	ClinicHours     model.ClinicHours
	SlotStep        time.Duration
	BookingLeadTime time.Duration

	AppointmentsPageLimit int
	ReferencePageLimit    int

	RequestTimeout time.Duration
	MaxRequestSize int
	IdempotencyTTL time.Duration
	DialogIdleTTL  time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	KafkaBrokers  []string
	ActivityTopic string

	Log *logger.Logger
}

// Load reads the configuration from the environment. It does not validate;
// callers decide whether a bad configuration is fatal.
func Load(serviceName string) *Config {
	return &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		PatientAPIURL:     strings.TrimSuffix(getEnvStr(EnvPatientAPIURL, DefaultPatientAPIURL), "/"),
		DoctorAPIURL:      strings.TrimSuffix(getEnvStr(EnvDoctorAPIURL, DefaultDoctorAPIURL), "/"),
		AppointmentAPIURL: strings.TrimSuffix(getEnvStr(EnvAppointmentAPIURL, DefaultAppointmentAPIURL), "/"),
		HTTPClientTimeout: getEnvDuration(EnvHTTPClientTimeout, DefaultHTTPClientTimeout),

		ClinicHours: model.ClinicHours{
			Start: getEnvNum(EnvClinicOpenHour, DefaultClinicOpenHour),
			End:   getEnvNum(EnvClinicCloseHour, DefaultClinicCloseHour),
		},
		SlotStep:        getEnvDuration(EnvSlotStep, DefaultSlotStep),
		BookingLeadTime: getEnvDuration(EnvBookingLeadTime, DefaultBookingLeadTime),

		AppointmentsPageLimit: getEnvNum(EnvAppointmentsPageLimit, DefaultAppointmentsPageLimit),
		ReferencePageLimit:    getEnvNum(EnvReferencePageLimit, DefaultReferencePageLimit),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		DialogIdleTTL:  getEnvDuration(EnvDialogIdleTTL, DefaultDialogIdleTTL),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		MongoURI:          getEnvStr(EnvMongoURI, ""),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		KafkaBrokers:  getEnvList(EnvKafkaBrokers),
		ActivityTopic: getEnvStr(EnvActivityTopic, DefaultActivityTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	for name, raw := range map[string]string{
		EnvPatientAPIURL:     cfg.PatientAPIURL,
		EnvDoctorAPIURL:      cfg.DoctorAPIURL,
		EnvAppointmentAPIURL: cfg.AppointmentAPIURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("%s must be an absolute URL, got: %q", name, raw))
		}
	}

	if err := cfg.ClinicHours.Validate(); err != nil {
		errors = append(errors, err.Error())
	}
	if cfg.SlotStep <= 0 || cfg.SlotStep%time.Minute != 0 || (24*time.Hour)%cfg.SlotStep != 0 {
		errors = append(errors, fmt.Sprintf("SlotStep must be a whole number of minutes dividing a day, got: %s", cfg.SlotStep))
	}
	if cfg.BookingLeadTime < 0 {
		errors = append(errors, fmt.Sprintf("BookingLeadTime cannot be negative, got: %s", cfg.BookingLeadTime))
	}

	if cfg.AppointmentsPageLimit <= 0 {
		errors = append(errors, fmt.Sprintf("AppointmentsPageLimit must be positive, got: %d", cfg.AppointmentsPageLimit))
	}
	if cfg.ReferencePageLimit <= 0 {
		errors = append(errors, fmt.Sprintf("ReferencePageLimit must be positive, got: %d", cfg.ReferencePageLimit))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	for name, d := range map[string]time.Duration{
		"HTTPClientTimeout": cfg.HTTPClientTimeout,
		"RequestTimeout":    cfg.RequestTimeout,
		"IdempotencyTTL":    cfg.IdempotencyTTL,
		"DialogIdleTTL":     cfg.DialogIdleTTL,
		"ReadTimeout":       cfg.ReadTimeout,
		"WriteTimeout":      cfg.WriteTimeout,
		"IdleTimeout":       cfg.IdleTimeout,
		"ShutdownTimeout":   cfg.ShutdownTimeout,
	} {
		if d <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.MongoURI != "" {
		if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty when MongoURI is set")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.ActivityTopic == "" {
		errors = append(errors, "ActivityTopic cannot be empty when KafkaBrokers is set")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"patient_api_url", cfg.PatientAPIURL,
		"doctor_api_url", cfg.DoctorAPIURL,
		"appointment_api_url", cfg.AppointmentAPIURL,
		"http_client_timeout", cfg.HTTPClientTimeout,
		"clinic_hours", cfg.ClinicHours.String(),
		"slot_step", cfg.SlotStep,
		"booking_lead_time", cfg.BookingLeadTime,
		"appointments_page_limit", cfg.AppointmentsPageLimit,
		"reference_page_limit", cfg.ReferencePageLimit,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"dialog_idle_ttl", cfg.DialogIdleTTL,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"kafka_brokers", strings.Join(cfg.KafkaBrokers, ","),
		"activity_topic", cfg.ActivityTopic,
	)
}

func (cfg *Config) JournalEnabled() bool {
	return cfg.MongoURI != ""
}

func (cfg *Config) EventsEnabled() bool {
	return len(cfg.KafkaBrokers) > 0
}

// NormalizePage clamps a 1-based page number.
func NormalizePage(page int) int {
	return max(1, page)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
