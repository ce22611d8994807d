package FiberConfig

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"Frota/Controllers"
	"Frota/Models"
	"Frota/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	vehicleController := Controllers.NewVehicleController(db)
	supplierController := Controllers.NewSupplierController(db)
	userController := Controllers.NewUserController(db)
	serviceOrderController := Controllers.NewServiceOrderController(db)
	reportsController := Controllers.NewReportsController(db)
	dashboardController := Controllers.NewDashboardController(db)

	// API group
	api := app.Group("/api")

	// Vehicle routes
	vehicles := api.Group("/vehicles")
	vehicles.Get("/", vehicleController.GetVehicles)
	vehicles.Post("/", vehicleController.CreateVehicle)
	vehicles.Get("/:id", vehicleController.GetVehicle)
	vehicles.Put("/:id", vehicleController.UpdateVehicle)
	vehicles.Patch("/:id/status", vehicleController.SetVehicleStatus)
	vehicles.Get("/:id/maintenance-history", vehicleController.GetMaintenanceHistory)
	vehicles.Get("/:id/fueling-records", vehicleController.GetFuelingRecords)
	vehicles.Post("/:id/fueling-records", vehicleController.AddFuelingRecord)

	// Supplier routes
	suppliers := api.Group("/suppliers")
	suppliers.Get("/", supplierController.GetSuppliers)
	suppliers.Post("/", supplierController.CreateSupplier)
	suppliers.Get("/:id", supplierController.GetSupplier)
	suppliers.Put("/:id", supplierController.UpdateSupplier)
	suppliers.Patch("/:id/status", supplierController.SetSupplierStatus)

	// User routes
	users := api.Group("/users")
	users.Get("/", userController.GetUsers)
	users.Post("/", userController.CreateUser)
	users.Get("/:id", userController.GetUser)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", userController.DeleteUser)

	// Service order lifecycle routes
	orders := api.Group("/service-orders")
	orders.Get("/", serviceOrderController.GetServiceOrders)
	orders.Post("/", serviceOrderController.CreateServiceOrder)
	orders.Get("/:id", serviceOrderController.GetServiceOrder)
	orders.Post("/:id/budgets", serviceOrderController.SubmitBudget)
	orders.Post("/:id/budgets/:budgetId/approve", serviceOrderController.ApproveBudget)
	orders.Post("/:id/start", serviceOrderController.StartExecution)
	orders.Post("/:id/complete", serviceOrderController.CompleteOrder)
	orders.Post("/:id/invoice", serviceOrderController.InvoiceOrder)
	orders.Post("/:id/payments", serviceOrderController.RecordPayment)
	orders.Post("/:id/cancel", serviceOrderController.CancelOrder)

	// Report routes
	reports := api.Group("/reports")
	reports.Get("/financial", reportsController.FinancialReport)
	reports.Get("/financial/export", reportsController.ExportFinancialReport)
	reports.Get("/cost-per-km", reportsController.CostPerKm)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.Get("/summary", dashboardController.Summary)
	dashboard.Get("/monthly-maintenance", dashboardController.MonthlyMaintenanceCost)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}
