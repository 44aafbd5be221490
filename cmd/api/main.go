package main

import (
	"context"
	"log"
	"os"

	_ "buildtrack/backend/api/swagger" // swagger docs
	"buildtrack/backend/internal/database"
	"buildtrack/backend/internal/handler"
	"buildtrack/backend/internal/mailer"
	"buildtrack/backend/internal/middleware"
	"buildtrack/backend/internal/payment"
	"buildtrack/backend/internal/repository"
	"buildtrack/backend/internal/service"
	"buildtrack/backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           BuildTrack API
// @version         1.0
// @description     Construction project management backend: projects, finances, sharing, and role-based dashboards.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	middleware.InitPermissionMiddleware(db)

	// Public origin used when building share URLs
	appOrigin := os.Getenv("APP_ORIGIN")
	if appOrigin == "" {
		appOrigin = "http://localhost:5173"
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	mail := mailer.NewFromEnv()
	gateway := payment.NewFromEnv()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	financeRepo := repository.NewFinanceRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	eventRepo := repository.NewEventRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	shareRepo := repository.NewShareLinkRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	userService := service.NewUserService(userRepo, roleRepo)
	roleService := service.NewRoleService(roleRepo)
	projectService := service.NewProjectService(projectRepo, materialRepo, auditRepo, wsHub)
	financeService := service.NewFinanceService(financeRepo, projectRepo, auditRepo, wsHub)
	teamService := service.NewTeamService(teamRepo, projectRepo, userRepo)
	calendarService := service.NewCalendarService(eventRepo, userRepo, txManager, mail, wsHub)
	documentService := service.NewDocumentService(documentRepo, projectRepo, wsHub)
	shareService := service.NewShareLinkService(shareRepo, projectRepo, financeRepo, materialRepo, teamRepo, auditRepo, mail, wsHub, appOrigin)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, auditRepo, gateway)
	auditService := service.NewAuditService(auditRepo)

	// Seed the permission vocabulary, default roles, and plans
	if err := roleService.SeedDefaultRolesAndPermissions(context.Background()); err != nil {
		log.Printf("WARNING: Failed to seed roles and permissions: %v", err)
	}
	if err := subscriptionService.SeedDefaultPlans(context.Background()); err != nil {
		log.Printf("WARNING: Failed to seed plans: %v", err)
	}

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	projectHandler := handler.NewProjectHandler(projectService)
	financeHandler := handler.NewFinanceHandler(financeService)
	teamHandler := handler.NewTeamHandler(teamService)
	calendarHandler := handler.NewCalendarHandler(calendarService)
	documentHandler := handler.NewDocumentHandler(documentService)
	shareHandler := handler.NewShareHandler(shareService)
	dashboardHandler := handler.NewDashboardHandler()
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{appOrigin, "http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	roleHandler.RegisterRoutes(router.Group(""))
	projectHandler.RegisterRoutes(router.Group(""))
	financeHandler.RegisterRoutes(router.Group(""))
	teamHandler.RegisterRoutes(router.Group(""))
	calendarHandler.RegisterRoutes(router.Group(""))
	documentHandler.RegisterRoutes(router.Group(""))
	shareHandler.RegisterRoutes(router.Group(""))
	dashboardHandler.RegisterRoutes(router.Group(""))
	subscriptionHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
