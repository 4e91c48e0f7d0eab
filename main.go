package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"communishare-be/internal/config"
	"communishare-be/internal/handlers"
	"communishare-be/internal/middleware"
	"communishare-be/internal/routes"
	"communishare-be/internal/service"
	"communishare-be/internal/services"
	"communishare-be/internal/store"
	"communishare-be/internal/store/memstore"
	"communishare-be/internal/store/mongostore"
	"communishare-be/internal/store/pgstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load YAML configuration
	if err := config.LoadConfig(); err != nil {
		log.Printf("Warning: Failed to load YAML config: %v", err)
		log.Println("Using default configuration...")
	}
	appConfig := config.GetConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Open the document store
	st, err := openStore(appConfig)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}()

	// Email providers with fallback; both are optional
	var providers []service.EmailProvider
	if appConfig.Email.ResendAPIKey != "" {
		providers = append(providers, service.NewResendService(appConfig.Email.ResendAPIKey, appConfig.Email.FromEmail))
	}
	if appConfig.Email.MailerSendAPIKey != "" {
		providers = append(providers, service.NewMailerSendService(appConfig.Email.MailerSendAPIKey, appConfig.Email.FromEmail, appConfig.Email.FromName))
	}
	emails := service.NewMultiProviderEmailService(providers)

	// Core services
	roles := services.NewRolePolicy(appConfig.Auth.SuperAdminEmails)
	members := services.NewMembershipService(st, logger)
	messages := services.NewMessageService(st, members, logger)

	// Background jobs
	reconciler := services.NewReconciler(st, logger, appConfig.Jobs.ReconcileInterval)
	reconciler.Start()
	defer reconciler.Stop()

	if emails.GetProviderCount() > 0 {
		reminder := services.NewReminder(st, emails, logger, appConfig.Jobs.ReminderInterval)
		reminder.Start()
		defer reminder.Stop()
	} else {
		logger.Info("no email providers configured, renewal reminders disabled")
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(middleware.CustomLoggingMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(st, roles, emails)
	categoryHandler := handlers.NewCategoryHandler(st)
	groupHandler := handlers.NewGroupHandler(st, members)
	messageHandler := handlers.NewMessageHandler(st, messages)
	paymentHandler := handlers.NewPaymentHandler(st, members)
	adminHandler := handlers.NewAdminHandler(st, reconciler)

	// Setup routes
	routes.SetupRoutes(r, authHandler, categoryHandler, groupHandler, messageHandler, paymentHandler, adminHandler)

	// Start server
	addr := fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port)
	logger.Info("server starting", zap.String("addr", addr), zap.String("storage", appConfig.Storage.Driver))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memstore.Open(cfg.Storage.SnapshotPath)
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return mongostore.Open(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
	case "postgres":
		return pgstore.Open(pgstore.Config{
			Host:     cfg.Storage.Postgres.Host,
			Port:     cfg.Storage.Postgres.Port,
			User:     cfg.Storage.Postgres.User,
			Password: cfg.Storage.Postgres.Password,
			Name:     cfg.Storage.Postgres.Name,
			SSLMode:  cfg.Storage.Postgres.SSLMode,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
