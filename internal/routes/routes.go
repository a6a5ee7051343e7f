package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"supportdesk/internal/controllers"
	"supportdesk/internal/listeners"
	"supportdesk/internal/repositories"
	"supportdesk/internal/services"
	"supportdesk/pkg/config"
	"supportdesk/pkg/constants"
	"supportdesk/pkg/eventbus"
	"supportdesk/pkg/filestorage"
	"supportdesk/pkg/mailer"
	"supportdesk/pkg/middleware"
	"supportdesk/pkg/service"
	"supportdesk/pkg/websocket"
)

// InitRouter wires repositories, services and controllers and mounts
// every portal route group.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, cfg *config.Config, logger *zap.Logger) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Server.UploadsDir)
	if err != nil {
		logger.Fatal("failed to create file storage", zap.Error(err))
	}

	mail := mailer.NewSMTPMailer(cfg.Mail, logger)
	hub := websocket.NewHub(logger)
	go hub.Run()
	bus := eventbus.New(logger)

	// Repositories.
	userRepo := repositories.NewUserRepository(dbConn)
	companyRepo := repositories.NewCompanyRepository(dbConn)
	ticketRepo := repositories.NewTicketRepository(dbConn)
	commentRepo := repositories.NewCommentRepository(dbConn)
	bundleRepo := repositories.NewBundleRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, logger)
	reportRepo := repositories.NewReportRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// Services.
	quotaService := services.NewQuotaService(ticketRepo, bundleRepo, logger)
	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, mail, cfg.Auth, logger)
	ticketService := services.NewTicketService(ticketRepo, userRepo, companyRepo, quotaService, bus, logger)
	commentService := services.NewCommentService(commentRepo, ticketRepo, bus, logger)
	companyService := services.NewCompanyService(companyRepo, userRepo, ticketRepo, bundleRepo, quotaService, logger)
	bundleService := services.NewBundleService(bundleRepo, companyRepo, userRepo, bus, cfg.Quota.BundleSizes, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, logger)
	userService := services.NewUserService(userRepo, companyRepo, logger)
	reportService := services.NewReportService(reportRepo, logger)

	listeners.NewNotificationListener(mail, hub, userRepo, logger).Register(bus)

	// Controllers.
	authController := controllers.NewAuthController(authService, userService, fileStorage, logger)
	ticketController := controllers.NewTicketController(ticketService, fileStorage, logger)
	commentController := controllers.NewCommentController(commentService, fileStorage, logger)
	customerController := controllers.NewCustomerController(ticketService, quotaService, bundleService, userRepo, companyRepo, logger)
	engineerController := controllers.NewEngineerController(companyService, userService, logger)
	adminController := controllers.NewAdminController(companyService, bundleService, userService, dashboardService, reportService, logger)
	amController := controllers.NewAccountManagerController(companyService, userService, ticketService, logger)
	wsController := controllers.NewWebSocketController(hub, jwtSvc, logger)

	e.GET("/ws", wsController.ServeWs)

	// Customer portal.
	customers := api.Group("/customers")
	customers.POST("/login", authController.Login(constants.RoleCustomer))
	customers.POST("/forgot-password", authController.ForgotPassword(constants.RoleCustomer))
	customers.POST("/verify-reset-otp", authController.VerifyResetOTP)
	customers.POST("/reset-password", authController.ResetPassword)

	customersAuth := customers.Group("", authMW.Auth, authMW.RequireRole(constants.RoleCustomer))
	customersAuth.GET("/tickets", customerController.ListTickets)
	customersAuth.GET("/ticket-counts", customerController.TicketCounts)
	customersAuth.POST("/purchase-bundle", customerController.PurchaseBundle)
	customersAuth.POST("/change-password", authController.ChangePassword)
	customersAuth.GET("/profile", authController.Profile)
	customersAuth.PATCH("/profile", authController.UpdateProfile)
	customersAuth.POST("/profile-image", authController.UploadProfileImage)

	// Engineer portal.
	engineers := api.Group("/engineers")
	engineers.POST("/login", authController.Login(constants.RoleEngineer))
	engineers.POST("/forgot-password", authController.ForgotPassword(constants.RoleEngineer))
	engineers.POST("/verify-reset-otp", authController.VerifyResetOTP)
	engineers.POST("/reset-password", authController.ResetPassword)

	engineersAuth := engineers.Group("", authMW.Auth, authMW.RequireRole(constants.RoleEngineer))
	engineersAuth.POST("/create-sr", ticketController.CreateOnBehalf(constants.TicketTypeServiceRequest))
	engineersAuth.POST("/create-ft", ticketController.CreateOnBehalf(constants.TicketTypeFaultyTicket))
	engineersAuth.GET("/companies", engineerController.ListCompanies)
	engineersAuth.GET("/companies/:companyId/customers", engineerController.ListCompanyCustomers)
	engineersAuth.POST("/change-password", authController.ChangePassword)
	engineersAuth.GET("/profile", authController.Profile)
	engineersAuth.PATCH("/profile", authController.UpdateProfile)
	engineersAuth.POST("/profile-image", authController.UploadProfileImage)

	// Admin portal.
	admin := api.Group("/admin")
	admin.POST("/login", authController.Login(constants.RoleAdmin))
	admin.POST("/verify-otp", authController.VerifyOTP)
	admin.POST("/forgot-password", authController.ForgotPassword(constants.RoleAdmin))
	admin.POST("/verify-reset-otp", authController.VerifyResetOTP)
	admin.POST("/reset-password", authController.ResetPassword)

	adminAuth := admin.Group("", authMW.Auth, authMW.RequireRole(constants.RoleAdmin))
	adminAuth.POST("/company-register", adminController.RegisterCompany)
	adminAuth.GET("/companies", adminController.ListCompanies)
	adminAuth.POST("/add-bundle", adminController.AddBundle)
	adminAuth.GET("/bundles/:companyId", adminController.ListBundles)
	adminAuth.POST("/users", adminController.CreateUser)
	adminAuth.GET("/users", adminController.ListUsers)
	adminAuth.DELETE("/users/:id", adminController.DeleteUser)
	adminAuth.GET("/tickets-summary", adminController.TicketsSummary)
	adminAuth.GET("/reports/tickets.xlsx", adminController.ExportTickets)
	adminAuth.POST("/change-password", authController.ChangePassword)
	adminAuth.GET("/profile", authController.Profile)
	adminAuth.PATCH("/profile", authController.UpdateProfile)
	adminAuth.POST("/profile-image", authController.UploadProfileImage)

	// Account manager portal.
	am := api.Group("/accountmanager")
	am.POST("/login", authController.Login(constants.RoleAccountManager))
	am.POST("/forgot-password", authController.ForgotPassword(constants.RoleAccountManager))
	am.POST("/verify-reset-otp", authController.VerifyResetOTP)
	am.POST("/reset-password", authController.ResetPassword)

	amAuth := am.Group("", authMW.Auth, authMW.RequireRole(constants.RoleAccountManager))
	amAuth.GET("/companies", amController.ListCompanies)
	amAuth.GET("/customers", amController.ListCustomers)
	amAuth.GET("/tickets", amController.ListTickets)
	amAuth.GET("/company-details/:companyName", amController.CompanyDetails)
	amAuth.POST("/change-password", authController.ChangePassword)
	amAuth.GET("/profile", authController.Profile)
	amAuth.PATCH("/profile", authController.UpdateProfile)
	amAuth.POST("/profile-image", authController.UploadProfileImage)

	// Shared ticket routes.
	ticket := api.Group("/ticket", authMW.Auth)
	ticket.POST("/sr", ticketController.CreateServiceRequest, authMW.RequireRole(constants.RoleCustomer))
	ticket.POST("/ft", ticketController.CreateFaultyTicket, authMW.RequireRole(constants.RoleCustomer))
	ticket.GET("/pending", ticketController.ListPending, authMW.RequireRole(constants.RoleEngineer, constants.RoleAdmin))
	ticket.PUT("/assign/:id", ticketController.Assign, authMW.RequireRole(constants.RoleEngineer, constants.RoleAdmin))
	ticket.PUT("/reassign/:id", ticketController.Reassign, authMW.RequireRole(constants.RoleEngineer, constants.RoleAdmin))
	ticket.PUT("/close/:id", ticketController.Close, authMW.RequireRole(constants.RoleEngineer))
	ticket.GET("/assigned", ticketController.ListAssigned, authMW.RequireRole(constants.RoleEngineer))
	ticket.GET("/summary", ticketController.Summary, authMW.RequireRole(constants.RoleEngineer, constants.RoleAdmin))
	ticket.GET("/history/all", ticketController.ListHistory, authMW.RequireRole(constants.RoleEngineer, constants.RoleAdmin, constants.RoleAccountManager))
	ticket.GET("/userinfo", authController.Profile)
	ticket.GET("/:id", ticketController.GetByID)
	ticket.POST("/:id/comments", commentController.AddComment)
	ticket.GET("/:id/comments", commentController.ListComments)
}
