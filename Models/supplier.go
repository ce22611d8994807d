package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "Active"
	SupplierInactive SupplierStatus = "Inactive"
)

type Supplier struct {
	gorm.Model
	LegalName    string         `json:"legal_name" gorm:"size:255;not null"`
	TradeName    string         `json:"trade_name" gorm:"size:255"`
	TaxID        string         `json:"tax_id" gorm:"size:50;uniqueIndex"`
	ServiceTypes datatypes.JSON `json:"service_types"` // e.g. ["Workshop","Parts","Tire Shop","Fueling"]
	Address      string         `json:"address" gorm:"size:255"`
	City         string         `json:"city" gorm:"size:100"`
	State        string         `json:"state" gorm:"size:50"`
	ZipCode      string         `json:"zip_code" gorm:"size:20"`
	Phone        string         `json:"phone" gorm:"size:50"`
	Email        string         `json:"email" gorm:"size:255"`
	ContactName  string         `json:"contact_name" gorm:"size:255"`
	Notes        string         `json:"notes" gorm:"type:text"`
	Status       SupplierStatus `json:"status" gorm:"size:50;not null;default:'Active'"`
}

// DisplayName returns the name shown on reports and denormalized history rows:
// the trade name when present, otherwise the legal name.
func (s *Supplier) DisplayName() string {
	if s.TradeName != "" {
		return s.TradeName
	}
	return s.LegalName
}

type SupplierRequest struct {
	LegalName    string   `json:"legal_name" validate:"required"`
	TradeName    string   `json:"trade_name"`
	TaxID        string   `json:"tax_id"`
	ServiceTypes []string `json:"service_types"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zip_code"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email" validate:"omitempty,email"`
	ContactName  string   `json:"contact_name"`
	Notes        string   `json:"notes"`
}
