package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/grubhouse/storefront-api/internal/auth"
	"github.com/grubhouse/storefront-api/internal/chatbot"
	"github.com/grubhouse/storefront-api/internal/config"
	"github.com/grubhouse/storefront-api/internal/deals"
	"github.com/grubhouse/storefront-api/internal/handlers"
	"github.com/grubhouse/storefront-api/internal/middleware"
	"github.com/grubhouse/storefront-api/internal/repository"
	"github.com/grubhouse/storefront-api/internal/service"
	"github.com/grubhouse/storefront-api/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Connect to MongoDB. The client is owned here and handed down to the
	// repositories; nothing else opens connections.
	ctx := context.Background()
	client, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect from mongodb", "error", err)
		}
	}()
	db := client.Database(cfg.Mongo.Database)
	log.Info("connected to mongodb", "database", cfg.Mongo.Database)

	// Initialize repositories
	productRepo := repository.NewMongoProductRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	dealRepo := repository.NewMongoDealRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	storeRepo := repository.NewMongoStoreRepository(db)

	// Initialize deal validator and seed its code prefilter. The filter is
	// an optimization; the validator works without it.
	dealValidator := deals.NewValidator(dealRepo)
	if err := dealValidator.LoadFilter(ctx); err != nil {
		log.Warn("failed to load deal code filter", "error", err)
	}

	// Token manager for bearer auth
	tokens := auth.NewManager(cfg.Auth.JWTSecret)

	// Chat model is optional; without it the chatbot answers via keyword
	// matching only.
	var chatModel llms.Model
	if cfg.AI.APIKey != "" {
		model, err := openai.New(
			openai.WithToken(cfg.AI.APIKey),
			openai.WithBaseURL(cfg.AI.BaseURL),
			openai.WithModel(cfg.AI.Model),
		)
		if err != nil {
			log.Warn("failed to initialize chat model, using keyword fallback", "error", err)
		} else {
			chatModel = model
			log.Info("chat model initialized", "model", cfg.AI.Model)
		}
	}

	// Initialize services
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(productRepo, orderRepo, dealValidator, log)
	storeService := service.NewStoreService(storeRepo)
	userService := service.NewUserService(userRepo, tokens)
	recommendService := service.NewRecommendService(productRepo, orderRepo)
	chatService := chatbot.NewService(chatModel, productRepo, orderRepo, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	authHandler := handlers.NewAuthHandler(userService, log)
	productHandler := handlers.NewProductHandler(productService, log)
	dealHandler := handlers.NewDealHandler(dealRepo, dealValidator, log)
	cartHandler := handlers.NewCartHandler(dealValidator, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	storeHandler := handlers.NewStoreHandler(storeService, log)
	aiHandler := handlers.NewAIHandler(chatService, recommendService, productService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Auth endpoints
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.With(middleware.RequireAuth(tokens)).Get("/auth/me", authHandler.Me)

		// Product endpoints
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{productId}", productHandler.GetProduct)

		// Deal endpoints
		r.Get("/deals", dealHandler.ListDeals)
		r.Post("/deals/validate", dealHandler.ValidateDeal)

		// Cart quote endpoint
		r.Post("/cart/quote", cartHandler.QuoteCart)

		// Order endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Post("/orders", orderHandler.CreateOrder)
			r.Get("/orders", orderHandler.ListOrders)
			r.Get("/orders/{orderId}", orderHandler.GetOrder)
		})

		// Store locator
		r.Get("/stores", storeHandler.ListStores)

		// AI endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(tokens))
			r.Post("/ai/chatbot", aiHandler.Chat)
			r.Post("/ai/recommend", aiHandler.Recommend)
		})
		r.Get("/ai/nutrition", aiHandler.Nutrition)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
