package Controllers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"Frota/Models"
)

// SupplierController handles supplier registry endpoints
type SupplierController struct {
	DB *gorm.DB
}

// NewSupplierController creates a new SupplierController
func NewSupplierController(db *gorm.DB) *SupplierController {
	return &SupplierController{DB: db}
}

// GetSuppliers retrieves all suppliers, optionally filtered by status
// GET /api/suppliers?status=Active
func (c *SupplierController) GetSuppliers(ctx *fiber.Ctx) error {
	query := c.DB.Order("legal_name ASC")
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var suppliers []Models.Supplier
	if result := query.Find(&suppliers); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve suppliers"})
	}

	return ctx.JSON(suppliers)
}

// GetSupplier retrieves a single supplier by ID
// GET /api/suppliers/:id
func (c *SupplierController) GetSupplier(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	var supplier Models.Supplier
	if result := c.DB.First(&supplier, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Supplier not found"})
	}

	return ctx.JSON(supplier)
}

// CreateSupplier creates a new supplier
// POST /api/suppliers
func (c *SupplierController) CreateSupplier(ctx *fiber.Ctx) error {
	var req Models.SupplierRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	serviceTypes, err := marshalServiceTypes(req.ServiceTypes)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service types"})
	}

	supplier := Models.Supplier{
		LegalName:    req.LegalName,
		TradeName:    req.TradeName,
		TaxID:        req.TaxID,
		ServiceTypes: serviceTypes,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Phone:        req.Phone,
		Email:        req.Email,
		ContactName:  req.ContactName,
		Notes:        req.Notes,
		Status:       Models.SupplierActive,
	}

	if result := c.DB.Create(&supplier); result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint") ||
			strings.Contains(result.Error.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A supplier with this tax ID already exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create supplier"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(supplier)
}

// UpdateSupplier updates an existing supplier
// PUT /api/suppliers/:id
func (c *SupplierController) UpdateSupplier(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	var supplier Models.Supplier
	if result := c.DB.First(&supplier, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Supplier not found"})
	}

	var req Models.SupplierRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	serviceTypes, err := marshalServiceTypes(req.ServiceTypes)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service types"})
	}

	supplier.LegalName = req.LegalName
	supplier.TradeName = req.TradeName
	supplier.TaxID = req.TaxID
	supplier.ServiceTypes = serviceTypes
	supplier.Address = req.Address
	supplier.City = req.City
	supplier.State = req.State
	supplier.ZipCode = req.ZipCode
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.ContactName = req.ContactName
	supplier.Notes = req.Notes

	if result := c.DB.Save(&supplier); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update supplier"})
	}

	return ctx.JSON(supplier)
}

// SetSupplierStatus activates or deactivates a supplier
// PATCH /api/suppliers/:id/status
func (c *SupplierController) SetSupplierStatus(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	var input struct {
		Status Models.SupplierStatus `json:"status"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Status != Models.SupplierActive && input.Status != Models.SupplierInactive {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown supplier status"})
	}

	var supplier Models.Supplier
	if result := c.DB.First(&supplier, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Supplier not found"})
	}

	c.DB.Model(&supplier).Update("status", input.Status)

	return ctx.JSON(supplier)
}

func marshalServiceTypes(types []string) (datatypes.JSON, error) {
	if types == nil {
		types = []string{}
	}
	raw, err := json.Marshal(types)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
