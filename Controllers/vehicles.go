package Controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Frota/Models"
)

// VehicleController handles vehicle registry endpoints
type VehicleController struct {
	DB *gorm.DB
}

// NewVehicleController creates a new VehicleController
func NewVehicleController(db *gorm.DB) *VehicleController {
	return &VehicleController{DB: db}
}

// GetVehicles retrieves all vehicles, optionally filtered by status
// GET /api/vehicles?status=Active
func (c *VehicleController) GetVehicles(ctx *fiber.Ctx) error {
	query := c.DB.Order("id ASC")
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var vehicles []Models.Vehicle
	if result := query.Find(&vehicles); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve vehicles"})
	}

	return ctx.JSON(vehicles)
}

// GetVehicle retrieves a single vehicle with its histories
// GET /api/vehicles/:id
func (c *VehicleController) GetVehicle(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
	}

	var vehicle Models.Vehicle
	result := c.DB.Preload("MaintenanceRecords", func(db *gorm.DB) *gorm.DB {
		return db.Order("date DESC")
	}).Preload("FuelingRecords", func(db *gorm.DB) *gorm.DB {
		return db.Order("date DESC")
	}).First(&vehicle, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	return ctx.JSON(vehicle)
}

// CreateVehicle registers a new vehicle
// POST /api/vehicles
func (c *VehicleController) CreateVehicle(ctx *fiber.Ctx) error {
	var req Models.VehicleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	vehicle := Models.Vehicle{
		Make:           req.Make,
		VehicleModel:   req.Model,
		Year:           req.Year,
		Color:          req.Color,
		PlateNumber:    req.PlateNumber,
		Renavam:        req.Renavam,
		Chassis:        req.Chassis,
		Status:         Models.VehicleActive,
		Mileage:        req.Mileage,
		InitialMileage: req.InitialMileage,
	}

	if result := c.DB.Create(&vehicle); result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint") ||
			strings.Contains(result.Error.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A vehicle with this plate number already exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create vehicle"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(vehicle)
}

// UpdateVehicle updates an existing vehicle's registry data
// PUT /api/vehicles/:id
func (c *VehicleController) UpdateVehicle(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
	}

	var vehicle Models.Vehicle
	if result := c.DB.First(&vehicle, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	var req Models.VehicleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	vehicle.Make = req.Make
	vehicle.VehicleModel = req.Model
	vehicle.Year = req.Year
	vehicle.Color = req.Color
	vehicle.PlateNumber = req.PlateNumber
	vehicle.Renavam = req.Renavam
	vehicle.Chassis = req.Chassis
	vehicle.Mileage = req.Mileage
	vehicle.InitialMileage = req.InitialMileage

	if result := c.DB.Save(&vehicle); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update vehicle"})
	}

	return ctx.JSON(vehicle)
}

// SetVehicleStatus updates only the status of a vehicle
// PATCH /api/vehicles/:id/status
func (c *VehicleController) SetVehicleStatus(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
	}

	var input struct {
		Status Models.VehicleStatus `json:"status"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	valid := false
	for _, s := range Models.VehicleStatuses {
		if s == input.Status {
			valid = true
			break
		}
	}
	if !valid {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown vehicle status"})
	}

	var vehicle Models.Vehicle
	if result := c.DB.First(&vehicle, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	c.DB.Model(&vehicle).Update("status", input.Status)

	return ctx.JSON(vehicle)
}

// GetMaintenanceHistory retrieves a vehicle's maintenance history
// GET /api/vehicles/:id/maintenance-history
func (c *VehicleController) GetMaintenanceHistory(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
	}

	var vehicle Models.Vehicle
	if result := c.DB.First(&vehicle, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	var records []Models.MaintenanceRecord
	if result := c.DB.Where("vehicle_id = ?", id).Order("date DESC").Find(&records); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve maintenance history"})
	}

	return ctx.JSON(fiber.Map{
		"data":  records,
		"count": len(records),
	})
}

// AddFuelingRecord appends a fueling record to a vehicle and rolls its
// mileage forward when the reading is newer
// POST /api/vehicles/:id/fueling-records
func (c *VehicleController) AddFuelingRecord(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
	}

	var vehicle Models.Vehicle
	if result := c.DB.First(&vehicle, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	var req Models.FuelingRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	totalCost := req.TotalCost
	if totalCost == 0 {
		totalCost = req.Liters * req.PricePerLiter
	}

	record := Models.FuelingRecord{
		VehicleID:     vehicle.ID,
		Date:          date,
		FuelType:      req.FuelType,
		Liters:        req.Liters,
		PricePerLiter: req.PricePerLiter,
		TotalCost:     totalCost,
		Mileage:       req.Mileage,
		StationName:   req.StationName,
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if req.Mileage > vehicle.Mileage {
			return tx.Model(&vehicle).Update("mileage", req.Mileage).Error
		}
		return nil
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create fueling record"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(record)
}

// GetFuelingRecords retrieves a vehicle's fueling history
// GET /api/vehicles/:id/fueling-records
func (c *VehicleController) GetFuelingRecords(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
	}

	var vehicle Models.Vehicle
	if result := c.DB.First(&vehicle, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	var records []Models.FuelingRecord
	if result := c.DB.Where("vehicle_id = ?", id).Order("date DESC").Find(&records); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve fueling records"})
	}

	return ctx.JSON(fiber.Map{
		"data":  records,
		"count": len(records),
	})
}
