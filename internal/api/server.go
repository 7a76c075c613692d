package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gayanfadna-spec/OMS-backend/internal/config"
	"github.com/gayanfadna-spec/OMS-backend/internal/database"
	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/outbox"
	"github.com/gayanfadna-spec/OMS-backend/internal/pricing"
	"github.com/gayanfadna-spec/OMS-backend/internal/repository"
	"github.com/gayanfadna-spec/OMS-backend/internal/service"
	"github.com/gayanfadna-spec/OMS-backend/pkg/auth"
	"github.com/gayanfadna-spec/OMS-backend/pkg/kafka"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

type Server struct {
	config     *config.Config
	logger     logger.Logger
	router     *mux.Router
	httpServer *http.Server
	db         *database.Database

	userRepo *repository.UserRepository

	outboxProcessor *outbox.Processor
	kafkaProducer   *kafka.Producer
	tokens          *auth.TokenManager

	authService     *service.AuthService
	orderService    *service.OrderService
	customerService *service.CustomerService
	productService  *service.ProductService
	importService   *service.ImportService
	reportService   *service.ReportService
}

// NewServer creates a new API server with the given configuration and logger.
func NewServer(cfg *config.Config, logger logger.Logger) *Server {
	r := mux.NewRouter()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		panic(err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Error("Failed to run database migrations", "error", err)
		panic(err)
	}

	// Repositories
	orderRepo := repository.NewOrderRepository(db, logger)
	customerRepo := repository.NewCustomerRepository(db, logger)
	productRepo := repository.NewProductRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)
	reportLogRepo := repository.NewReportLogRepository(db, logger)
	outboxRepo := repository.NewOutboxRepository(db, logger)

	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	if err != nil {
		logger.Error("Failed to create Kafka producer", "error", err)
		panic(err)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	policy := pricing.Policy{
		FreeDeliveryKeyword: cfg.Pricing.FreeDeliveryKeyword,
		DeliveryThreshold:   cfg.Pricing.DeliveryThreshold,
		DeliveryFee:         cfg.Pricing.DeliveryFee,
	}

	// Services
	authService := service.NewAuthService(userRepo, tokens, logger)
	orderService := service.NewOrderService(orderRepo, customerRepo, userRepo, outboxRepo, policy, logger)
	customerService := service.NewCustomerService(customerRepo, userRepo, logger)
	productService := service.NewProductService(productRepo, logger)
	importService := service.NewImportService(orderRepo, customerRepo, productRepo, userRepo, outboxRepo, policy, cfg.Import, logger)
	reportService := service.NewReportService(orderRepo, customerRepo, userRepo, reportLogRepo, outboxRepo, logger)

	// Outbox processor publishes order lifecycle events to Kafka.
	processorConfig := outbox.ProcessorConfig{
		PollingInterval: 5 * time.Second,
		BatchSize:       10,
		MaxRetries:      3,
	}
	outboxProcessor := outbox.NewProcessor(outboxRepo, processorConfig, logger)

	kafkaHandler := outbox.NewKafkaHandler(kafkaProducer, cfg.Kafka.OrdersTopic, logger)
	outboxProcessor.RegisterHandler(models.EventOrderCreated, kafkaHandler)
	outboxProcessor.RegisterHandler(models.EventOrderUpdated, kafkaHandler)
	outboxProcessor.RegisterHandler(models.EventOrderDeleted, kafkaHandler)
	outboxProcessor.RegisterHandler(models.EventOrderDispatched, kafkaHandler)
	// Import batch summaries have no downstream consumer yet.
	outboxProcessor.RegisterHandler(models.EventOrdersImported, outbox.NewLoggingHandler(logger))

	server := &Server{
		config: cfg,
		logger: logger,
		router: r,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		db:              db,
		userRepo:        userRepo,
		outboxProcessor: outboxProcessor,
		kafkaProducer:   kafkaProducer,
		tokens:          tokens,
		authService:     authService,
		orderService:    orderService,
		customerService: customerService,
		productService:  productService,
		importService:   importService,
		reportService:   reportService,
	}

	server.setupRoutes()
	outboxProcessor.Start()

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.outboxProcessor.Stop()

	if s.kafkaProducer != nil {
		if err := s.kafkaProducer.Close(); err != nil {
			s.logger.Error("Error closing Kafka producer", "error", err)
		}
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("Error closing database connection", "error", err)
	}

	return s.httpServer.Shutdown(ctx)
}

// setupRoutes configures all the routes for our API
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.healthCheckHandler).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", s.loginHandler).Methods(http.MethodPost)

	// Everything below requires a valid token.
	authed := api.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)

	authed.HandleFunc("/auth/me", s.currentUserHandler).Methods(http.MethodGet)
	authed.HandleFunc("/users", s.registerUserHandler).Methods(http.MethodPost)
	authed.HandleFunc("/users/agents", s.listAgentsHandler).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}", s.getUserHandler).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}", s.updateUserHandler).Methods(http.MethodPut)
	authed.HandleFunc("/users/{id}", s.deleteUserHandler).Methods(http.MethodDelete)

	authed.HandleFunc("/customers", s.createCustomerHandler).Methods(http.MethodPost)
	authed.HandleFunc("/customers", s.listCustomersHandler).Methods(http.MethodGet)
	authed.HandleFunc("/customers/bulk-delete", s.bulkDeleteCustomersHandler).Methods(http.MethodPost)
	authed.HandleFunc("/customers/phone/{phone}", s.getCustomerByPhoneHandler).Methods(http.MethodGet)
	authed.HandleFunc("/customers/{id}", s.getCustomerHandler).Methods(http.MethodGet)
	authed.HandleFunc("/customers/{id}", s.updateCustomerHandler).Methods(http.MethodPut)
	authed.HandleFunc("/customers/{id}", s.deleteCustomerHandler).Methods(http.MethodDelete)

	authed.HandleFunc("/products", s.createProductHandler).Methods(http.MethodPost)
	authed.HandleFunc("/products", s.listProductsHandler).Methods(http.MethodGet)
	authed.HandleFunc("/products/{id}", s.getProductHandler).Methods(http.MethodGet)
	authed.HandleFunc("/products/{id}", s.updateProductHandler).Methods(http.MethodPut)
	authed.HandleFunc("/products/{id}", s.deleteProductHandler).Methods(http.MethodDelete)

	authed.HandleFunc("/orders", s.createOrderHandler).Methods(http.MethodPost)
	authed.HandleFunc("/orders", s.listOrdersHandler).Methods(http.MethodGet)
	authed.HandleFunc("/orders/bulk-delete", s.bulkDeleteOrdersHandler).Methods(http.MethodPost)
	authed.HandleFunc("/orders/bulk-status", s.bulkUpdateStatusHandler).Methods(http.MethodPost)
	authed.HandleFunc("/orders/import", s.importOrdersHandler).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{id}", s.getOrderHandler).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id}", s.updateOrderHandler).Methods(http.MethodPut)
	authed.HandleFunc("/orders/{id}", s.deleteOrderHandler).Methods(http.MethodDelete)
	authed.HandleFunc("/orders/{id}/edit-request", s.requestEditHandler).Methods(http.MethodPost)

	authed.HandleFunc("/reports/dashboard", s.dashboardHandler).Methods(http.MethodGet)
	authed.HandleFunc("/reports/matrix", s.matrixHandler).Methods(http.MethodGet)
	authed.HandleFunc("/reports/export", s.exportOrdersHandler).Methods(http.MethodPost)
	authed.HandleFunc("/reports/history", s.exportHistoryHandler).Methods(http.MethodGet)
	authed.HandleFunc("/reports/my", s.myReportHandler).Methods(http.MethodGet)
	authed.HandleFunc("/reports/pending-edits", s.pendingEditsHandler).Methods(http.MethodGet)
}

// Middleware for logging requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		s.logger.Info("Request processed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String())
	})
}
