package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"floatbook_backend/internal/controller"
	"floatbook_backend/internal/middleware"
	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/cron"
	"floatbook_backend/pkg/database"
	"floatbook_backend/pkg/email"
	"floatbook_backend/pkg/seed"
	"floatbook_backend/pkg/utils/storage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Stripe webhook; Stripe signs its requests, there is no bearer token.
	api.Post("/webhook", controller.HandleStripeWebhook)

	// Session
	api.Get("/me", middleware.AuthMiddleware(), controller.GetMe)

	// Company setup and profile
	company := api.Group("/company", middleware.AuthMiddleware())
	company.Post("/", controller.CreateCompany)

	companyScoped := company.Use(middleware.RequireCompany())
	companyScoped.Get("/", controller.GetCompany)
	companyScoped.Put("/", middleware.RequireCompanyAdmin(), controller.UpdateCompany)
	companyScoped.Post("/logo", middleware.RequireCompanyAdmin(), controller.UploadCompanyLogo)

	// Company users
	companyUsers := company.Group("/users", middleware.RequireCompanyAdmin())
	companyUsers.Get("/", controller.ListCompanyUsers)
	companyUsers.Post("/", middleware.CheckUserLimit(), controller.AddCompanyUser)
	companyUsers.Delete("/:id", controller.RemoveCompanyUser)

	// Rooms
	rooms := api.Group("/rooms", middleware.AuthMiddleware(), middleware.RequireCompany())
	rooms.Get("/", controller.ListRooms)
	rooms.Post("/", middleware.CheckRoomLimit(), controller.CreateRoom)
	rooms.Put("/:id", middleware.CheckRoomOwnership(), controller.UpdateRoom)
	rooms.Delete("/:id", middleware.CheckRoomOwnership(), controller.DeleteRoom)

	// Bookings
	bookings := api.Group("/bookings", middleware.AuthMiddleware(), middleware.RequireCompany())
	bookings.Get("/", controller.ListBookings)
	bookings.Post("/", middleware.CheckBookingLimit(), controller.CreateBooking)
	bookings.Get("/:id", middleware.CheckBookingOwnership(), controller.GetBooking)
	bookings.Put("/:id", middleware.CheckBookingOwnership(), controller.UpdateBooking)
	bookings.Delete("/:id", middleware.CheckBookingOwnership(), controller.DeleteBooking)
	bookings.Put("/:id/toggle-paid", middleware.CheckBookingOwnership(), controller.TogglePaymentStatus)

	// Calendar
	calendar := api.Group("/calendar", middleware.AuthMiddleware(), middleware.RequireCompany())
	calendar.Get("/", controller.GetCalendar)
	calendar.Get("/availability", controller.GetAvailability)

	// Dashboard
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware(), middleware.RequireCompany())
	dashboard.Get("/stats", controller.GetDashboard)

	// Reports
	reports := api.Group("/reports", middleware.AuthMiddleware(), middleware.RequireCompany())
	reports.Get("/daily", controller.GetDailyStats)
	reports.Get("/rooms", controller.GetRoomStats)
	reports.Get("/financial-summary", controller.GetFinancialSummary)
	reports.Get("/discounts", controller.GetDiscountReport)
	reports.Get("/occupancy", controller.GetOccupancyReport)

	// Subscription routes; the plan list is public, the rest is not.
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", controller.ListPlans)

	subProtected := subscriptions.Use(middleware.AuthMiddleware(), middleware.RequireCompany())
	subProtected.Get("/my", controller.GetMySubscription)
	subProtected.Post("/activate-key", middleware.RequireCompanyAdmin(), controller.ActivateKey)
	subProtected.Post("/create-checkout-session", middleware.RequireCompanyAdmin(), controller.CreateCheckoutSession)
	subProtected.Post("/cancel-subscription", middleware.RequireCompanyAdmin(), controller.CancelSubscription)

	// bKash payments
	payments := api.Group("/payments", middleware.AuthMiddleware(), middleware.RequireCompany())
	payments.Get("/history", controller.ListPaymentHistory)
	payments.Post("/bkash/create", middleware.RequireCompanyAdmin(), controller.CreateBkashPayment)
	payments.Post("/bkash/verify", middleware.RequireCompanyAdmin(), controller.VerifyBkashPayment)

	// Superadmin panel
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.SuperadminOnly())
	admin.Get("/stats", controller.GetAdminStats)
	admin.Get("/companies", controller.AdminListCompanies)
	admin.Delete("/companies/:id", controller.AdminDeleteCompany)
	admin.Get("/users", controller.AdminListUsers)
	admin.Put("/users/:id/toggle-active", controller.AdminToggleUserActive)
	admin.Get("/plans", controller.AdminListPlans)
	admin.Post("/plans", controller.AdminCreatePlan)
	admin.Put("/plans/:id", controller.AdminUpdatePlan)
	admin.Delete("/plans/:id", controller.AdminDeletePlan)
	admin.Get("/keys", controller.AdminListActivationKeys)
	admin.Post("/keys", controller.AdminGenerateActivationKeys)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := email.InitEmailService(os.Getenv("RESEND_API_KEY")); err != nil {
		log.Printf("Email service disabled: %v", err)
	}

	if err := storage.InitStorage(); err != nil {
		log.Printf("File storage disabled: %v", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	database.InitDB(dbURL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Company{},
		&model.CompanyUser{},
		&model.Room{},
		&model.Booking{},
		&model.Plan{},
		&model.Subscription{},
		&model.ActivationKey{},
		&model.PaymentIntent{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedPlans(database.GetDB())

	cron.InitSubscriptionExpiryCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Server is running on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
