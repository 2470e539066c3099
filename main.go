package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/dogworld/backend/controllers"
	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/events"
	"github.com/dogworld/backend/middleware"
	"github.com/dogworld/backend/notifier"
	awspkg "github.com/dogworld/backend/pkg/aws"
	"github.com/dogworld/backend/pkg/auth"
	"github.com/dogworld/backend/pkg/logger"
	"github.com/dogworld/backend/repository"
	"github.com/dogworld/backend/routes"
	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "dogworld-backend"

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Initialize(os.Getenv("APP_ENV"))

	cfg, err := LoadConfig(rootCtx)
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}

	// --- AWS (only when a feature needs it) ---
	var awsCfg aws.Config
	var metricsClient *awspkg.MetricsClient
	if cfg.NeedsAWS() {
		awsCfg, err = awspkg.LoadAWSConfig(rootCtx)
		if err != nil {
			log.Fatal("Failed to load AWS config", zap.Error(err))
		}
		if cfg.CloudWatchEnabled {
			metricsClient = awspkg.NewMetricsClient(awsCfg, "DogWorld", true)
			cwLogs, err := awspkg.NewCloudWatchLogsClient(rootCtx, awsCfg, cfg.CloudWatchLogGroup, serviceName)
			if err != nil {
				log.Warn("CloudWatch Logs unavailable (non-fatal)", zap.Error(err))
			} else {
				log = logger.InitializeWithWriter(cfg.Env, cwLogs)
			}
		}
	}
	defer func() { _ = log.Sync() }()

	// --- Database ---
	if err := database.ConnectWithConfig(cfg.MongoURI, cfg.MongoDBName); err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	indexCtx, cancelIndexes := context.WithTimeout(rootCtx, 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, database.DB); err != nil {
		log.Fatal("Index creation failed", zap.Error(err))
	}
	cancelIndexes()

	// --- Product listing cache ---
	var productCache services.ProductCache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(rootCtx).Err(); err != nil {
			log.Warn("Redis unreachable, product cache disabled", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			productCache = services.NewRedisProductCache(redisClient, cfg.ProductCacheTTL, log)
		}
	}

	// --- Notification relay ---
	bus := newEventBus(cfg, awsCfg, log)
	hub := notifier.NewHub(log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)
	relay := notifier.NewRelay(hub, bus, log)

	// --- Dependency injection ---
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		log.Fatal("Token manager init failed", zap.Error(err))
	}

	userRepo := repository.NewMongoUserRepository(database.DB)
	dogRepo := repository.NewMongoDogRepository(database.DB)
	adoptionRepo := repository.NewMongoAdoptionRepository(database.DB)
	productRepo := repository.NewMongoProductRepository(database.DB)
	orderRepo := repository.NewMongoAccessoryOrderRepository(database.DB)
	bookingRepo := repository.NewMongoBookingRepository(database.DB)
	postRepo := repository.NewMongoPostRepository(database.DB)
	healthRepo := repository.NewMongoHealthRepository(database.DB)
	ids := services.NewIDGenerator(repository.NewMongoCounterRepository(database.DB), log)

	orderService := services.NewAccessoryOrderService(productRepo, orderRepo, ids, relay, productCache, metricsClient, log)

	var presigner services.ObjectPresigner
	if cfg.S3BucketImages != "" {
		presigner = awspkg.NewPresigner(awsCfg, cfg.S3BucketImages)
	}

	ctrls := routes.Controllers{
		Auth:            controllers.NewAuthController(services.NewAuthService(userRepo, tokens, log)),
		Dogs:            controllers.NewDogController(services.NewDogService(dogRepo, adoptionRepo, ids, relay, log)),
		Adoptions:       controllers.NewAdoptionController(services.NewAdoptionService(adoptionRepo, dogRepo, relay, metricsClient, log)),
		Products:        controllers.NewProductController(services.NewProductService(productRepo, ids, productCache, relay, log)),
		AccessoryOrders: controllers.NewAccessoryOrderController(orderService),
		Bookings:        controllers.NewBookingController(services.NewBookingService(bookingRepo, ids, relay, log)),
		Posts:           controllers.NewPostController(services.NewPostService(postRepo, ids, relay, log)),
		Health:          controllers.NewHealthController(services.NewHealthService(healthRepo, ids, log)),
		Uploads:         controllers.NewUploadController(services.NewUploadService(presigner, cfg.S3PublicBaseURL, log)),
		WS:              controllers.NewWSController(hub, tokens, middleware.OriginAllowed(cfg.AllowedOrigins)),
	}

	// --- Payment events ---
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	if cfg.PaymentEventsQueueURL != "" {
		consumer := services.NewPaymentConsumer(awspkg.NewSQSConsumer(awsCfg, cfg.PaymentEventsQueueURL, log), orderService, log)
		go func() {
			defer close(consumerDone)
			consumer.Start(consumerCtx)
		}()
	} else {
		close(consumerDone)
	}

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute), cfg.RateLimitBurst, 10*time.Minute)
	go limiter.Run(rootCtx)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		logger.RequestID(),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		middleware.SecurityHeaders(),
		middleware.RequestLogger(log),
		middleware.PrometheusMiddleware(),
		middleware.MetricsMiddleware(metricsClient, serviceName),
		middleware.RateLimitMiddleware(limiter),
		middleware.RequestTimeout(30*time.Second),
	)
	routes.Register(r, ctrls, tokens, cfg.UploadDir)

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Dog World API started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	<-rootCtx.Done()
	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopConsumer()
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		log.Warn("Payment consumer did not stop in time")
	}

	stopHub()
	relay.Wait()
	if err := bus.Close(); err != nil {
		log.Error("Event bus close error", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Dog World API stopped gracefully")
}

func newEventBus(cfg *Config, awsCfg aws.Config, log *zap.Logger) events.Bus {
	switch cfg.EventBus {
	case EventBusSNS:
		log.Info("Mirroring notifications to SNS", zap.String("topic_arn", cfg.EventsSNSTopicARN))
		return events.NewSNSBus(awspkg.NewSNSClient(awsCfg), cfg.EventsSNSTopicARN)
	case EventBusKafka:
		return events.NewKafkaBus(cfg.KafkaBrokers, cfg.KafkaEventsTopic, log)
	default:
		return events.NopBus{}
	}
}
