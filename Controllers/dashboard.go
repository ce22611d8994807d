package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Frota/Models"
)

// DashboardController handles the summary widgets data
type DashboardController struct {
	DB *gorm.DB
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// Summary returns the counts the dashboard widgets render: vehicles per
// status, orders per status and the number of orders still in flight
// GET /api/dashboard/summary
func (c *DashboardController) Summary(ctx *fiber.Ctx) error {
	var totalVehicles int64
	c.DB.Model(&Models.Vehicle{}).Count(&totalVehicles)

	vehicleCounts := make(map[Models.VehicleStatus]int64, len(Models.VehicleStatuses))
	for _, status := range Models.VehicleStatuses {
		var count int64
		c.DB.Model(&Models.Vehicle{}).Where("status = ?", status).Count(&count)
		vehicleCounts[status] = count
	}

	orderCounts := make(map[Models.ServiceOrderStatus]int64, len(Models.ServiceOrderStatuses))
	for _, status := range Models.ServiceOrderStatuses {
		var count int64
		c.DB.Model(&Models.ServiceOrder{}).Where("status = ?", status).Count(&count)
		orderCounts[status] = count
	}

	activeStatuses := []Models.ServiceOrderStatus{
		Models.OSPendingBudget,
		Models.OSAwaitingApproval,
		Models.OSApprovedAwaitingExecution,
		Models.OSInProgress,
	}
	var activeOrders int64
	c.DB.Model(&Models.ServiceOrder{}).Where("status IN ?", activeStatuses).Count(&activeOrders)

	return ctx.JSON(fiber.Map{
		"total_vehicles":        totalVehicles,
		"vehicle_status_counts": vehicleCounts,
		"order_status_counts":   orderCounts,
		"active_service_orders": activeOrders,
	})
}

// MonthlyMaintenanceCost returns maintenance spend summed by month for the
// last 12 months
// GET /api/dashboard/monthly-maintenance
func (c *DashboardController) MonthlyMaintenanceCost(ctx *fiber.Ctx) error {
	type MonthlyData struct {
		Month string  `json:"month"`
		Cost  float64 `json:"cost"`
		Count int     `json:"count"`
	}

	endDate := time.Now()
	startDate := endDate.AddDate(-1, 0, 0)

	var records []Models.MaintenanceRecord
	result := c.DB.Where("date BETWEEN ? AND ?", startDate, endDate).Find(&records)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to retrieve maintenance records"})
	}

	// Group in Go rather than fighting SQLite date formatting in SQL.
	monthlySummary := make(map[string]*MonthlyData)
	for i := 0; i < 12; i++ {
		date := endDate.AddDate(0, -i, 0)
		monthlySummary[date.Format("2006-01")] = &MonthlyData{Month: date.Format("Jan 2006")}
	}

	for _, record := range records {
		if data, exists := monthlySummary[record.Date.Format("2006-01")]; exists {
			data.Cost += record.Cost
			data.Count++
		}
	}

	response := make([]MonthlyData, 0, 12)
	for i := 11; i >= 0; i-- {
		date := endDate.AddDate(0, -i, 0)
		if data, exists := monthlySummary[date.Format("2006-01")]; exists {
			response = append(response, *data)
		}
	}

	return ctx.JSON(response)
}
