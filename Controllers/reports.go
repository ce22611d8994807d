package Controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Frota/Models"
)

// ReportsController handles the financial reporting endpoints
type ReportsController struct {
	DB *gorm.DB
}

// NewReportsController creates a new ReportsController
func NewReportsController(db *gorm.DB) *ReportsController {
	return &ReportsController{DB: db}
}

// FinancialReportRow is one line of the financial report.
type FinancialReportRow struct {
	OrderID        uint                   `json:"order_id"`
	Vehicle        string                 `json:"vehicle"`
	Supplier       string                 `json:"supplier"`
	CompletionDate *time.Time             `json:"completion_date"`
	InvoiceDueDate *time.Time             `json:"invoice_due_date"`
	Value          float64                `json:"value"`
	PaymentStatus  Models.OSPaymentStatus `json:"payment_status,omitempty"`
}

// FinancialReport returns completed/invoiced orders filtered by completion
// date range and payment statuses
// GET /api/reports/financial?completion_date_start=2024-01-01&completion_date_end=2024-12-31&payment_statuses=Pending,Paid
func (c *ReportsController) FinancialReport(ctx *fiber.Ctx) error {
	rows, total, err := c.buildFinancialReport(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"data":  rows,
		"count": len(rows),
		"total": total,
	})
}

// ExportFinancialReport streams the financial report as an Excel workbook
// GET /api/reports/financial/export
func (c *ReportsController) ExportFinancialReport(ctx *fiber.Ctx) error {
	rows, total, err := c.buildFinancialReport(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Financial Report"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Order ID", "Vehicle", "Supplier", "Completion Date", "Invoice Due Date", "Value", "Payment Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		values := []interface{}{
			row.OrderID,
			row.Vehicle,
			row.Supplier,
			formatReportDate(row.CompletionDate),
			formatReportDate(row.InvoiceDueDate),
			row.Value,
			string(row.PaymentStatus),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	totalLabelCell, _ := excelize.CoordinatesToCellName(5, len(rows)+2)
	totalValueCell, _ := excelize.CoordinatesToCellName(6, len(rows)+2)
	f.SetCellValue(sheet, totalLabelCell, "Grand Total")
	f.SetCellValue(sheet, totalValueCell, total)

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="financial_report.xlsx"`)
	return f.Write(ctx.Response().BodyWriter())
}

// CostPerKmRow is the per-vehicle cost breakdown.
type CostPerKmRow struct {
	VehicleID       uint    `json:"vehicle_id"`
	Vehicle         string  `json:"vehicle"`
	MaintenanceCost float64 `json:"maintenance_cost"`
	FuelingCost     float64 `json:"fueling_cost"`
	KmDriven        int64   `json:"km_driven"`
	CostPerKm       float64 `json:"cost_per_km"`
}

// CostPerKm returns maintenance plus fueling spend per kilometer driven for
// every vehicle
// GET /api/reports/cost-per-km
func (c *ReportsController) CostPerKm(ctx *fiber.Ctx) error {
	var vehicles []Models.Vehicle
	if result := c.DB.Order("id ASC").Find(&vehicles); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve vehicles"})
	}

	rows := make([]CostPerKmRow, 0, len(vehicles))
	for _, vehicle := range vehicles {
		var maintenanceCost, fuelingCost float64
		c.DB.Model(&Models.MaintenanceRecord{}).
			Where("vehicle_id = ?", vehicle.ID).
			Select("COALESCE(SUM(cost), 0)").Scan(&maintenanceCost)
		c.DB.Model(&Models.FuelingRecord{}).
			Where("vehicle_id = ?", vehicle.ID).
			Select("COALESCE(SUM(total_cost), 0)").Scan(&fuelingCost)

		kmDriven := vehicle.Mileage - vehicle.InitialMileage
		row := CostPerKmRow{
			VehicleID:       vehicle.ID,
			Vehicle:         vehicleLabel(vehicle),
			MaintenanceCost: maintenanceCost,
			FuelingCost:     fuelingCost,
			KmDriven:        kmDriven,
		}
		if kmDriven > 0 {
			row.CostPerKm = (maintenanceCost + fuelingCost) / float64(kmDriven)
		}
		rows = append(rows, row)
	}

	return ctx.JSON(fiber.Map{
		"data":  rows,
		"count": len(rows),
	})
}

func (c *ReportsController) buildFinancialReport(ctx *fiber.Ctx) ([]FinancialReportRow, float64, error) {
	query := c.DB.Where("status IN ?", []Models.ServiceOrderStatus{Models.OSCompleted, Models.OSInvoiced}).
		Order("completion_date ASC")

	if start := ctx.Query("completion_date_start"); start != "" {
		date, err := parseDate(start)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid completion_date_start, use YYYY-MM-DD")
		}
		query = query.Where("completion_date >= ?", date)
	}
	if end := ctx.Query("completion_date_end"); end != "" {
		date, err := parseDate(end)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid completion_date_end, use YYYY-MM-DD")
		}
		query = query.Where("completion_date <= ?", date)
	}
	if statuses := ctx.Query("payment_statuses"); statuses != "" {
		query = query.Where("payment_status IN ?", strings.Split(statuses, ","))
	}

	var orders []Models.ServiceOrder
	if result := query.Find(&orders); result.Error != nil {
		return nil, 0, result.Error
	}

	// Denormalized display names are resolved here at the boundary; the
	// orders themselves only carry references.
	vehicleNames := c.vehicleNames()
	supplierNames := c.supplierNames()

	rows := make([]FinancialReportRow, 0, len(orders))
	var total float64
	for _, order := range orders {
		value := 0.0
		switch {
		case order.FinalValue != nil:
			value = *order.FinalValue
		case order.Cost != nil:
			value = *order.Cost
		default:
			// No financial value attached yet; not report-relevant.
			continue
		}

		supplier := "N/A"
		if order.SupplierID != nil {
			if name, ok := supplierNames[*order.SupplierID]; ok {
				supplier = name
			}
		}

		rows = append(rows, FinancialReportRow{
			OrderID:        order.ID,
			Vehicle:        vehicleNames[order.VehicleID],
			Supplier:       supplier,
			CompletionDate: order.CompletionDate,
			InvoiceDueDate: order.InvoiceDueDate,
			Value:          value,
			PaymentStatus:  order.PaymentStatus,
		})
		total += value
	}

	return rows, total, nil
}

func (c *ReportsController) vehicleNames() map[uint]string {
	var vehicles []Models.Vehicle
	c.DB.Find(&vehicles)
	names := make(map[uint]string, len(vehicles))
	for _, v := range vehicles {
		names[v.ID] = vehicleLabel(v)
	}
	return names
}

func (c *ReportsController) supplierNames() map[uint]string {
	var suppliers []Models.Supplier
	c.DB.Find(&suppliers)
	names := make(map[uint]string, len(suppliers))
	for i := range suppliers {
		names[suppliers[i].ID] = suppliers[i].DisplayName()
	}
	return names
}

func vehicleLabel(v Models.Vehicle) string {
	return fmt.Sprintf("%s %s (%s)", v.Make, v.VehicleModel, v.PlateNumber)
}

func formatReportDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
