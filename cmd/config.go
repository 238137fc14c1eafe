package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	HTTPPort   int
	LogLevel   slog.Level
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// KafkaBrokers is a comma separated list; empty disables event publishing.
	KafkaBrokers           string
	KafkaClientID          string
	KafkaOrderChangedTopic string

	BranchRadiusKm float64
	FeeThreshold   float64
	FeeHigh        float64
	FeeLow         float64
	// ReturnPickupFee below zero means no flat return fee.
	ReturnPickupFee float64

	ReconcileSchedule   string
	OfferExpirySchedule string
	// OfferTimeout of zero disables offer expiry.
	OfferTimeout   time.Duration
	OfferBatchSize int
}

func defaultConfig() Config {
	return Config{
		HTTPPort:               8080,
		LogLevel:               slog.LevelInfo,
		DBHost:                 "localhost",
		DBPort:                 "5432",
		DBUser:                 "username",
		DBPassword:             "secret",
		DBName:                 "logistics",
		DBSslMode:              "disable",
		KafkaClientID:          "logistics",
		KafkaOrderChangedTopic: "order.changed",
		BranchRadiusKm:         services.DefaultMaxBranchRadiusKm,
		FeeThreshold:           500,
		FeeHigh:                50,
		FeeLow:                 30,
		ReturnPickupFee:        -1,
		ReconcileSchedule:      "0 */5 * * * *",
		OfferExpirySchedule:    "*/30 * * * * *",
		OfferBatchSize:         100,
	}
}

// LoadConfig reads configuration in order: envFile (if present), environment,
// then command line flags in args.
func LoadConfig(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := defaultConfig()
	env := envReader{}
	env.int("HTTP_PORT", &cfg.HTTPPort)
	env.level("LOG_LEVEL", &cfg.LogLevel)
	env.string("DB_HOST", &cfg.DBHost)
	env.string("DB_PORT", &cfg.DBPort)
	env.string("DB_USER", &cfg.DBUser)
	env.string("DB_PASSWORD", &cfg.DBPassword)
	env.string("DB_NAME", &cfg.DBName)
	env.string("DB_SSLMODE", &cfg.DBSslMode)
	env.string("KAFKA_BROKERS", &cfg.KafkaBrokers)
	env.string("KAFKA_CLIENT_ID", &cfg.KafkaClientID)
	env.string("KAFKA_ORDER_CHANGED_TOPIC", &cfg.KafkaOrderChangedTopic)
	env.float("BRANCH_RADIUS_KM", &cfg.BranchRadiusKm)
	env.float("FEE_THRESHOLD", &cfg.FeeThreshold)
	env.float("FEE_HIGH", &cfg.FeeHigh)
	env.float("FEE_LOW", &cfg.FeeLow)
	env.float("RETURN_PICKUP_FEE", &cfg.ReturnPickupFee)
	env.string("RECONCILE_SCHEDULE", &cfg.ReconcileSchedule)
	env.string("OFFER_EXPIRY_SCHEDULE", &cfg.OfferExpirySchedule)
	env.duration("OFFER_TIMEOUT", &cfg.OfferTimeout)
	env.int("OFFER_BATCH_SIZE", &cfg.OfferBatchSize)
	if err := errors.Join(env.errList...); err != nil {
		return Config{}, err
	}

	flags := pflag.NewFlagSet("logistics", pflag.ContinueOnError)
	flags.IntVarP(&cfg.HTTPPort, "port", "p", cfg.HTTPPort, "port to listen on")
	flags.StringVar(&cfg.KafkaBrokers, "kafka-brokers", cfg.KafkaBrokers, "comma separated Kafka brokers")
	flags.DurationVar(&cfg.OfferTimeout, "offer-timeout", cfg.OfferTimeout, "expire unanswered offers after this long (0 disables)")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errList []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("HTTP_PORT", c.HTTPPort, 1, 65535))
	}
	if c.DBHost == "" {
		errList = append(errList, errs.NewValueIsRequiredError("DB_HOST"))
	}
	if c.DBName == "" {
		errList = append(errList, errs.NewValueIsRequiredError("DB_NAME"))
	}
	if c.KafkaBrokers != "" && c.KafkaOrderChangedTopic == "" {
		errList = append(errList, errs.NewValueIsRequiredError("KAFKA_ORDER_CHANGED_TOPIC"))
	}
	if c.BranchRadiusKm <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("BRANCH_RADIUS_KM", c.BranchRadiusKm, 0, "unbounded"))
	}
	if c.FeeThreshold < 0 || c.FeeHigh < 0 || c.FeeLow < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("fees", errors.New("fees must not be negative")))
	}
	if c.ReconcileSchedule == "" {
		errList = append(errList, errs.NewValueIsRequiredError("RECONCILE_SCHEDULE"))
	}
	if c.OfferTimeout < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("OFFER_TIMEOUT", c.OfferTimeout, 0, "unbounded"))
	}
	if c.OfferTimeout > 0 && c.OfferExpirySchedule == "" {
		errList = append(errList, errs.NewValueIsRequiredError("OFFER_EXPIRY_SCHEDULE"))
	}
	return errors.Join(errList...)
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// envReader reads typed environment variables and collects parse errors.
type envReader struct {
	errList []error
}

func (r *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *envReader) fail(key string, err error) {
	r.errList = append(r.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
}

func (r *envReader) string(key string, dst *string) {
	if v, ok := r.lookup(key); ok {
		*dst = v
	}
}

func (r *envReader) int(key string, dst *int) {
	if v, ok := r.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = n
	}
}

func (r *envReader) float(key string, dst *float64) {
	if v, ok := r.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = f
	}
}

func (r *envReader) duration(key string, dst *time.Duration) {
	if v, ok := r.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = d
	}
}

func (r *envReader) level(key string, dst *slog.Level) {
	if v, ok := r.lookup(key); ok {
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			r.fail(key, err)
		}
	}
}
