package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	awspkg "github.com/dogworld/backend/pkg/aws"
	"github.com/joho/godotenv"
)

const appSecretsName = "dogworld/APP_SECRETS"

// Event bus kinds accepted in EVENT_BUS.
const (
	EventBusNone  = "none"
	EventBusSNS   = "sns"
	EventBusKafka = "kafka"
)

// Config holds all configuration for the marketplace API.
type Config struct {
	Port string
	Env  string

	MongoURI    string
	MongoDBName string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	RedisURL        string
	ProductCacheTTL time.Duration

	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int

	EventBus          string
	EventsSNSTopicARN string
	KafkaBrokers      []string
	KafkaEventsTopic  string

	PaymentEventsQueueURL string

	S3BucketImages  string
	S3PublicBaseURL string
	UploadDir       string

	CloudWatchEnabled  bool
	CloudWatchLogGroup string
	UseSecrets         bool
}

// NeedsAWS reports whether any configured feature talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.UseSecrets || c.CloudWatchEnabled || c.EventBus == EventBusSNS ||
		c.PaymentEventsQueueURL != "" || c.S3BucketImages != ""
}

// LoadConfig reads configuration from the environment (and a local .env file
// when present), with an optional Secrets Manager override.
func LoadConfig(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := configFromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.UseSecrets {
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		secrets, err := awspkg.NewSecretsClient(awsCfg).GetSecretMap(ctx, appSecretsName)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", appSecretsName, err)
		}
		applySecrets(cfg, secrets)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configFromEnv() (*Config, error) {
	accessTTL, err := getDuration("JWT_ACCESS_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := getDuration("JWT_REFRESH_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDuration("PRODUCT_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	perMinute, err := getInt("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	burst, err := getInt("RATE_LIMIT_BURST", 50)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                  getEnv("PORT", "5000"),
		Env:                   getEnv("APP_ENV", "development"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:           getEnv("MONGO_DB_NAME", "dogworld"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		AccessTTL:             accessTTL,
		RefreshTTL:            refreshTTL,
		RedisURL:              os.Getenv("REDIS_URL"),
		ProductCacheTTL:       cacheTTL,
		AllowedOrigins:        splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitPerMinute:    perMinute,
		RateLimitBurst:        burst,
		EventBus:              strings.ToLower(getEnv("EVENT_BUS", EventBusNone)),
		EventsSNSTopicARN:     os.Getenv("EVENTS_SNS_TOPIC_ARN"),
		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaEventsTopic:      getEnv("KAFKA_EVENTS_TOPIC", "dogworld.events"),
		PaymentEventsQueueURL: os.Getenv("PAYMENT_EVENTS_QUEUE_URL"),
		S3BucketImages:        os.Getenv("S3_BUCKET_IMAGES"),
		S3PublicBaseURL:       os.Getenv("S3_PUBLIC_BASE_URL"),
		UploadDir:             getEnv("UPLOAD_DIR", "./uploads"),
		CloudWatchEnabled:     os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchLogGroup:    getEnv("CLOUDWATCH_LOG_GROUP", "/dogworld/backend"),
		UseSecrets:            os.Getenv("AWS_USE_SECRETS") == "true",
	}, nil
}

func applySecrets(cfg *Config, secrets map[string]string) {
	if v := secrets["MONGO_URI"]; v != "" {
		cfg.MongoURI = v
	}
	if v := secrets["JWT_SECRET"]; v != "" {
		cfg.JWTSecret = v
	}
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.EventBus {
	case EventBusNone:
	case EventBusSNS:
		if c.EventsSNSTopicARN == "" {
			return fmt.Errorf("EVENTS_SNS_TOPIC_ARN is required when EVENT_BUS=sns")
		}
	case EventBusKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when EVENT_BUS=kafka")
		}
	default:
		return fmt.Errorf("unknown EVENT_BUS %q", c.EventBus)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
