package Controllers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Frota/Models"
)

func newVehicleTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))

	app := fiber.New()
	controller := NewVehicleController(db)
	app.Get("/api/vehicles", controller.GetVehicles)
	app.Post("/api/vehicles", controller.CreateVehicle)
	app.Get("/api/vehicles/:id", controller.GetVehicle)
	app.Put("/api/vehicles/:id", controller.UpdateVehicle)
	app.Patch("/api/vehicles/:id/status", controller.SetVehicleStatus)
	app.Post("/api/vehicles/:id/fueling-records", controller.AddFuelingRecord)
	app.Get("/api/vehicles/:id/fueling-records", controller.GetFuelingRecords)
	return app, db
}

func TestCreateVehicle(t *testing.T) {
	app, _ := newVehicleTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/vehicles", fiber.Map{
		"make":            "Ford",
		"model":           "Ranger",
		"year":            2023,
		"plate_number":    "BRA2E19",
		"mileage":         15000,
		"initial_mileage": 100,
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Ford", body["make"])
	assert.Equal(t, string(Models.VehicleActive), body["status"])
}

func TestCreateVehicleDuplicatePlate(t *testing.T) {
	app, _ := newVehicleTestApp(t)

	payload := fiber.Map{
		"make":         "Ford",
		"model":        "Ranger",
		"year":         2023,
		"plate_number": "BRA2E19",
	}
	resp, _ := doJSON(t, app, "POST", "/api/vehicles", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/vehicles", payload)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "A vehicle with this plate number already exists", body["error"])
}

func TestSetVehicleStatus(t *testing.T) {
	app, db := newVehicleTestApp(t)
	vehicle := seedTestVehicle(t, db)

	resp, _ := doJSON(t, app, "PATCH", fmt.Sprintf("/api/vehicles/%d/status", vehicle.ID), fiber.Map{
		"status": "In Maintenance",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated Models.Vehicle
	require.NoError(t, db.First(&updated, vehicle.ID).Error)
	assert.Equal(t, Models.VehicleInMaintenance, updated.Status)

	resp, body := doJSON(t, app, "PATCH", fmt.Sprintf("/api/vehicles/%d/status", vehicle.ID), fiber.Map{
		"status": "Exploded",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unknown vehicle status", body["error"])
}

func TestAddFuelingRecordComputesTotalCost(t *testing.T) {
	app, db := newVehicleTestApp(t)
	vehicle := seedTestVehicle(t, db)

	resp, body := doJSON(t, app, "POST", fmt.Sprintf("/api/vehicles/%d/fueling-records", vehicle.ID), fiber.Map{
		"date":            "2024-03-01",
		"fuel_type":       "Diesel",
		"liters":          40.0,
		"price_per_liter": 5.5,
		"mileage":         1000,
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 220.0, body["total_cost"])
}

func TestAddFuelingRecordRollsMileageForward(t *testing.T) {
	app, db := newVehicleTestApp(t)
	vehicle := seedTestVehicle(t, db)
	require.NoError(t, db.Model(&vehicle).Update("mileage", 50000).Error)

	// A newer reading moves the odometer forward.
	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/api/vehicles/%d/fueling-records", vehicle.ID), fiber.Map{
		"date":            "2024-03-01",
		"fuel_type":       "Diesel",
		"liters":          40.0,
		"price_per_liter": 5.5,
		"mileage":         52000,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var updated Models.Vehicle
	require.NoError(t, db.First(&updated, vehicle.ID).Error)
	assert.Equal(t, int64(52000), updated.Mileage)

	// An older reading is stored but does not move the odometer back.
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/vehicles/%d/fueling-records", vehicle.ID), fiber.Map{
		"date":            "2024-02-01",
		"fuel_type":       "Diesel",
		"liters":          35.0,
		"price_per_liter": 5.4,
		"mileage":         49000,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NoError(t, db.First(&updated, vehicle.ID).Error)
	assert.Equal(t, int64(52000), updated.Mileage)

	resp, records := doJSON(t, app, "GET", fmt.Sprintf("/api/vehicles/%d/fueling-records", vehicle.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), records["count"])
}

func TestGetVehiclesStatusFilter(t *testing.T) {
	app, db := newVehicleTestApp(t)
	seedTestVehicle(t, db)
	sold := Models.Vehicle{
		Make:         "Chevrolet",
		VehicleModel: "S10",
		Year:         2018,
		PlateNumber:  "OLD1B23",
		Status:       Models.VehicleSold,
	}
	require.NoError(t, db.Create(&sold).Error)

	req := httptest.NewRequest("GET", "/api/vehicles?status=Sold", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var vehicles []Models.Vehicle
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vehicles))
	require.Len(t, vehicles, 1)
	assert.Equal(t, "OLD1B23", vehicles[0].PlateNumber)
}
