package routes

import (
	"communishare-be/internal/handlers"
	"communishare-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authHandler *handlers.AuthHandler, categoryHandler *handlers.CategoryHandler, groupHandler *handlers.GroupHandler, messageHandler *handlers.MessageHandler, paymentHandler *handlers.PaymentHandler, adminHandler *handlers.AdminHandler) {
	// API v1
	v1 := r.Group("/api/v1")

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/profile", middleware.AuthRequired(), authHandler.GetProfile)
		auth.PUT("/profile", middleware.AuthRequired(), authHandler.UpdateProfile)
	}

	// Category routes (browsing is public, writes are super admin only)
	categories := v1.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.POST("", middleware.AuthRequired(), middleware.SuperAdminRequired(), categoryHandler.CreateCategory)
		categories.DELETE("/:id", middleware.AuthRequired(), middleware.SuperAdminRequired(), categoryHandler.DeleteCategory)
	}

	// Group routes (browsing is public, everything else requires auth)
	groups := v1.Group("/groups")
	{
		groups.GET("", groupHandler.GetGroups)
		groups.GET("/:id", groupHandler.GetGroup)

		authed := groups.Group("")
		authed.Use(middleware.AuthRequired())
		{
			authed.POST("", groupHandler.CreateGroup)
			authed.GET("/mine", groupHandler.GetMyGroups)
			authed.PUT("/:id", groupHandler.UpdateGroup)
			authed.POST("/:id/join", groupHandler.JoinGroup)
			authed.POST("/:id/renew", groupHandler.RenewGroup)
			authed.DELETE("/:id/leave", groupHandler.LeaveGroup)
			authed.GET("/:id/members", groupHandler.GetMembers)
			authed.DELETE("/:id/members/:userId", groupHandler.RemoveMember)
			authed.GET("/:id/status", groupHandler.GetMembershipStatus)

			// Group chat
			authed.GET("/:id/messages", messageHandler.GetMessages)
			authed.POST("/:id/messages", messageHandler.SendMessage)
			authed.GET("/:id/messages/stream", messageHandler.StreamMessages)

			authed.GET("/:id/payments", paymentHandler.GetGroupPayments)
		}
	}

	// Payment routes
	payments := v1.Group("/payments")
	payments.Use(middleware.AuthRequired())
	{
		payments.POST("", paymentHandler.CreatePayment)
		payments.GET("", paymentHandler.GetMyPayments)
	}

	// Admin routes (super admin only)
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.SuperAdminRequired())
	{
		admin.GET("/users", adminHandler.GetUsers)
		admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
		admin.POST("/reconcile", adminHandler.ReconcileMemberCounts)
		admin.GET("/payments", paymentHandler.GetAllPayments)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
