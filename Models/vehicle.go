package Models

import (
	"time"

	"gorm.io/gorm"
)

type VehicleStatus string

const (
	VehicleActive        VehicleStatus = "Active"
	VehicleInMaintenance VehicleStatus = "In Maintenance"
	VehicleInactive      VehicleStatus = "Inactive"
	VehicleSold          VehicleStatus = "Sold"
)

var VehicleStatuses = []VehicleStatus{VehicleActive, VehicleInMaintenance, VehicleInactive, VehicleSold}

type Vehicle struct {
	gorm.Model
	Make           string        `json:"make" gorm:"size:255;not null"`
	VehicleModel   string        `json:"model" gorm:"size:255;not null"`
	Year           int           `json:"year" gorm:"not null"`
	Color          string        `json:"color" gorm:"size:100"`
	PlateNumber    string        `json:"plate_number" gorm:"size:50;not null;uniqueIndex"`
	Renavam        string        `json:"renavam" gorm:"size:50"`
	Chassis        string        `json:"chassis" gorm:"size:50"`
	Status         VehicleStatus `json:"status" gorm:"size:50;not null;default:'Active'"`
	Mileage        int64         `json:"mileage" gorm:"not null;default:0"`
	InitialMileage int64         `json:"initial_mileage" gorm:"not null;default:0"`

	// Relationships
	MaintenanceRecords []MaintenanceRecord `json:"maintenance_records,omitempty" gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
	FuelingRecords     []FuelingRecord     `json:"fueling_records,omitempty" gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
}

// MaintenanceRecord is one line of a vehicle's maintenance history. Rows are
// appended by the service-order lifecycle when an order completes and are
// never edited afterwards.
type MaintenanceRecord struct {
	gorm.Model
	VehicleID      uint      `json:"vehicle_id" gorm:"not null;index"`
	Date           time.Time `json:"date" gorm:"not null"`
	ServiceType    string    `json:"service_type" gorm:"size:255;not null"`
	Description    string    `json:"description" gorm:"type:text"`
	Cost           float64   `json:"cost" gorm:"not null;default:0"`
	SupplierName   string    `json:"supplier_name" gorm:"size:255"`
	ServiceOrderID uint      `json:"service_order_id" gorm:"not null;index"`
}

type FuelingRecord struct {
	gorm.Model
	VehicleID     uint      `json:"vehicle_id" gorm:"not null;index"`
	Date          time.Time `json:"date" gorm:"not null"`
	FuelType      string    `json:"fuel_type" gorm:"size:100;not null"`
	Liters        float64   `json:"liters" gorm:"not null"`
	PricePerLiter float64   `json:"price_per_liter" gorm:"not null"`
	TotalCost     float64   `json:"total_cost" gorm:"not null"`
	Mileage       int64     `json:"mileage" gorm:"not null"`
	StationName   string    `json:"station_name" gorm:"size:255"`
}

type VehicleRequest struct {
	Make           string `json:"make" validate:"required"`
	Model          string `json:"model" validate:"required"`
	Year           int    `json:"year" validate:"required,gte=1950"`
	Color          string `json:"color"`
	PlateNumber    string `json:"plate_number" validate:"required"`
	Renavam        string `json:"renavam"`
	Chassis        string `json:"chassis"`
	Mileage        int64  `json:"mileage" validate:"gte=0"`
	InitialMileage int64  `json:"initial_mileage" validate:"gte=0"`
}

type FuelingRecordRequest struct {
	Date          string  `json:"date" validate:"required"`
	FuelType      string  `json:"fuel_type" validate:"required"`
	Liters        float64 `json:"liters" validate:"required,gt=0"`
	PricePerLiter float64 `json:"price_per_liter" validate:"required,gt=0"`
	TotalCost     float64 `json:"total_cost" validate:"gte=0"`
	Mileage       int64   `json:"mileage" validate:"required,gt=0"`
	StationName   string  `json:"station_name"`
}
