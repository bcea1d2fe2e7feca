package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"mebelshop-backend/internal/config"
	infraCache "mebelshop-backend/internal/infrastructure/cache"
	"mebelshop-backend/internal/infrastructure/database"
	"mebelshop-backend/pkg/jwt"

	"mebelshop-backend/internal/domains/order"
	orderRepo "mebelshop-backend/internal/domains/order/repository"
	orderService "mebelshop-backend/internal/domains/order/service"

	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/gateway/jusan"
	paymentHandler "mebelshop-backend/internal/domains/payment/handler"
	paymentRepo "mebelshop-backend/internal/domains/payment/repository"
	paymentService "mebelshop-backend/internal/domains/payment/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the whole dependency graph. Everything in it is a
// singleton wired once at startup; initialization order matters
// (config -> infrastructure -> repositories -> services -> handlers).
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	JWTManager *jwt.Manager

	OrderRepo        order.Repository
	PaymentRepo      paymentRepo.PaymentRepoInterface
	CallbackRepo     paymentRepo.CallbackRepoInterface
	IdempotencyStore paymentRepo.IdempotencyStore

	JusanGateway gateway.JusanGateway

	OrderService   order.Service
	PaymentService paymentService.PaymentService
	RefundService  paymentService.RefundService

	PaymentHandler *paymentHandler.PaymentHandler
}

// NewContainer builds and initializes the full dependency graph.
func NewContainer() (*Container, error) {
	log.Println("Initializing DI container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE REDIS
	// ========================================
	redisClient := infraCache.NewRedisClient(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisClient.Connect(context.Background()); err != nil {
		// Redis going down degrades idempotency to the database guard;
		// startup continues.
		log.Printf("WARNING: Redis connection failed (non-critical): %v", err)
	}
	c.Redis = redisClient

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// ========================================
	// STEP 4: INITIALIZE GATEWAY ADAPTER
	// ========================================
	jusanGateway, err := jusan.NewAdapter(&jusan.Config{
		Variant:      jusan.Variant(cfg.Jusan.Variant),
		MerchantID:   cfg.Jusan.MerchantID,
		TerminalID:   cfg.Jusan.TerminalID,
		SharedSecret: cfg.Jusan.SharedSecret,
		PaymentURL:   cfg.Jusan.PaymentURL,
		RefundURL:    cfg.Jusan.RefundURL,
		Descriptor:   cfg.Jusan.Descriptor,
		ClientID:     cfg.Jusan.ClientID,
		Language:     cfg.Jusan.Language,
		ReturnURL:    cfg.Jusan.ReturnURL,
		CancelURL:    cfg.Jusan.CancelURL,
		NotifyURL:    cfg.Jusan.NotifyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure Jusan gateway: %w", err)
	}
	c.JusanGateway = jusanGateway

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	c.initHandlers()

	log.Println("DI container initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.PaymentRepo = paymentRepo.NewPaymentRepository(pool)
	c.CallbackRepo = paymentRepo.NewCallbackRepository(pool)
	c.IdempotencyStore = paymentRepo.NewRedisIdempotencyStore(c.Redis.Client)
}

func (c *Container) initServices() {
	c.OrderService = orderService.NewOrderService(c.OrderRepo)

	c.PaymentService = paymentService.NewPaymentService(
		c.PaymentRepo,
		c.CallbackRepo,
		c.IdempotencyStore,
		c.JusanGateway,
		c.Config.Jusan.Variant,
		c.OrderService,
	)

	c.RefundService = paymentService.NewRefundService(
		c.PaymentRepo,
		c.JusanGateway,
		c.OrderService,
	)
}

func (c *Container) initHandlers() {
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService, c.RefundService)
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	log.Println("Cleaning up container resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("WARNING: failed to close database: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("WARNING: failed to close Redis: %v", err)
		}
	}

	log.Println("Container cleanup completed")
}
