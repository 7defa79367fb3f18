package main

import (
	"fmt"
	"homeledger/internal/config"
	"homeledger/internal/database"
	"homeledger/internal/handlers"
	"homeledger/internal/logger"
	"homeledger/internal/middleware"
	"homeledger/internal/services"
	"homeledger/internal/validator"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "homeledger/internal/docs" // Import swagger docs
)

// @title           HomeLedger API
// @version         1.0
// @description     HomeLedger is a household finance application that lets families track shared bills, expenses, and contributions, and manage household membership.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db)
	householdService := services.NewHouseholdService(db, notificationService)
	billService := services.NewBillService(db, appConfig.Timezone)
	expenseService := services.NewExpenseService(db, appConfig.Timezone)
	contributionService := services.NewContributionService(db, appConfig.Timezone)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	householdHandler := handlers.NewHouseholdHandler(householdService, auditService)
	billHandler := handlers.NewBillHandler(billService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	contributionHandler := handlers.NewContributionHandler(contributionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and household directory
	protected.GET("/auth/me", authHandler.GetProfile)
	protected.GET("/auth/users", authHandler.GetUsers)

	// Household routes
	household := protected.Group("/household")
	household.POST("", householdHandler.CreateHousehold)
	household.POST("/join", householdHandler.JoinHousehold)
	household.GET("", householdHandler.GetHousehold)
	household.PUT("", householdHandler.RenameHousehold)
	household.GET("/members", householdHandler.GetMembers)
	household.GET("/invite-code", householdHandler.GetInviteCode)
	household.DELETE("/members/:userId", householdHandler.RemoveMember)
	household.PUT("/members/:userId/role", householdHandler.ChangeRole)
	household.POST("/leave", householdHandler.LeaveHousehold)

	// Bill routes
	bills := protected.Group("/bills")
	bills.POST("", billHandler.CreateBill)
	bills.GET("", billHandler.GetBills)
	bills.GET("/stats", billHandler.GetBillStats)
	bills.GET("/:id", billHandler.GetBill)
	bills.PUT("/:id", billHandler.UpdateBill)
	bills.DELETE("/:id", billHandler.DeleteBill)
	bills.POST("/:id/pay", billHandler.MarkBillPaid)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/stats", expenseHandler.GetExpenseStats)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Contribution routes
	contributions := protected.Group("/contributions")
	contributions.POST("", contributionHandler.CreateContribution)
	contributions.GET("", contributionHandler.GetContributions)
	contributions.GET("/stats", contributionHandler.GetContributionStats)
	contributions.GET("/:id", contributionHandler.GetContribution)
	contributions.PUT("/:id", contributionHandler.UpdateContribution)
	contributions.DELETE("/:id", contributionHandler.DeleteContribution)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PUT("/read-all", notificationHandler.MarkAllNotificationsRead)
	notifications.PUT("/:id/read", notificationHandler.MarkNotificationRead)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)

	log.Infof("Starting HomeLedger backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
