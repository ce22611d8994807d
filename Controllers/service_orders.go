package Controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Frota/Lifecycle"
	"Frota/Models"
)

// ServiceOrderController exposes the service-order lifecycle over HTTP. All
// state changes go through the Lifecycle service; this layer only parses,
// validates and maps errors to status codes.
type ServiceOrderController struct {
	DB        *gorm.DB
	Lifecycle *Lifecycle.Service
}

// NewServiceOrderController creates a new ServiceOrderController
func NewServiceOrderController(db *gorm.DB) *ServiceOrderController {
	return &ServiceOrderController{DB: db, Lifecycle: Lifecycle.NewService(db)}
}

// GetServiceOrders retrieves service orders with optional status/vehicle filters
// GET /api/service-orders?status=In Progress&vehicle_id=3
func (c *ServiceOrderController) GetServiceOrders(ctx *fiber.Ctx) error {
	query := c.DB.Preload("Budgets").Preload("Payments").Order("request_date DESC")
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if vehicleID := ctx.Query("vehicle_id"); vehicleID != "" {
		id, err := strconv.Atoi(vehicleID)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
		}
		query = query.Where("vehicle_id = ?", id)
	}

	var orders []Models.ServiceOrder
	if result := query.Find(&orders); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve service orders"})
	}

	return ctx.JSON(fiber.Map{
		"data":  orders,
		"count": len(orders),
	})
}

// GetServiceOrder retrieves a single service order with budgets and payments
// GET /api/service-orders/:id
func (c *ServiceOrderController) GetServiceOrder(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service order ID"})
	}

	var order Models.ServiceOrder
	result := c.DB.Preload("Vehicle").Preload("Budgets", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&order, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service order not found"})
	}

	return ctx.JSON(order)
}

// CreateServiceOrder opens a new maintenance request
// POST /api/service-orders
func (c *ServiceOrderController) CreateServiceOrder(ctx *fiber.Ctx) error {
	var req Models.ServiceOrderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	order, err := c.Lifecycle.OpenOrder(req)
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(order)
}

// SubmitBudget appends a supplier quote to an order
// POST /api/service-orders/:id/budgets
func (c *ServiceOrderController) SubmitBudget(ctx *fiber.Ctx) error {
	orderID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service order ID"})
	}

	var req Models.BudgetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	var supplier Models.Supplier
	if result := c.DB.First(&supplier, req.SupplierID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Supplier not found"})
	}

	var deadline time.Time
	if req.EstimatedDeadline != "" {
		deadline, err = parseDate(req.EstimatedDeadline)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
		}
	}

	order, err := c.Lifecycle.SubmitBudget(uint(orderID), Models.ServiceOrderBudget{
		SupplierID:        req.SupplierID,
		BudgetValue:       req.BudgetValue,
		EstimatedDeadline: deadline,
		Notes:             req.Notes,
	})
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(order)
}

// ApproveBudget approves one budget of an order
// POST /api/service-orders/:id/budgets/:budgetId/approve
func (c *ServiceOrderController) ApproveBudget(ctx *fiber.Ctx) error {
	orderID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service order ID"})
	}
	budgetID, err := strconv.Atoi(ctx.Params("budgetId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid budget ID"})
	}

	order, err := c.Lifecycle.ApproveBudget(uint(orderID), uint(budgetID))
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.JSON(order)
}

// StartExecution moves an approved order to In Progress
// POST /api/service-orders/:id/start
func (c *ServiceOrderController) StartExecution(ctx *fiber.Ctx) error {
	orderID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service order ID"})
	}

	order, err := c.Lifecycle.StartExecution(uint(orderID))
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.JSON(order)
}

// CompleteOrder marks an order as done and appends the vehicle's
// maintenance-history row
// POST /api/service-orders/:id/complete
func (c *ServiceOrderController) CompleteOrder(ctx *fiber.Ctx) error {
	orderID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service order ID"})
	}

	var req Models.CompleteOrderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	completionDate, err := parseDate(req.CompletionDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	order, err := c.Lifecycle.CompleteOrder(uint(orderID), completionDate, req.CompletionNotes)
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.JSON(order)
}

// InvoiceOrder moves a completed order to Invoiced
// POST /api/service-orders/:id/invoice
func (c *ServiceOrderController) InvoiceOrder(ctx *fiber.Ctx) error {
	orderID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service order ID"})
	}

	var req Models.InvoiceOrderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	dueDate, err := parseDate(req.InvoiceDueDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	order, err := c.Lifecycle.InvoiceOrder(uint(orderID), Lifecycle.InvoiceDetails{
		InvoiceNumber:      req.InvoiceNumber,
		InvoiceDueDate:     dueDate,
		FinalValue:         req.FinalValue,
		ValueJustification: req.ValueJustification,
	})
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.JSON(order)
}

// RecordPayment appends a payment to an invoiced order. Overpayment is
// allowed but flagged in the response.
// POST /api/service-orders/:id/payments
func (c *ServiceOrderController) RecordPayment(ctx *fiber.Ctx) error {
	orderID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service order ID"})
	}

	var req Models.PaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return validationError(ctx, err)
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	order, err := c.Lifecycle.RecordPayment(uint(orderID), Models.OSPayment{
		PaymentDate:     paymentDate,
		PaidAmount:      req.PaidAmount,
		PaymentMethod:   req.PaymentMethod,
		BankAccountInfo: req.BankAccountInfo,
		Notes:           req.Notes,
	})
	if err != nil {
		return lifecycleError(ctx, err)
	}

	response := fiber.Map{"data": order}
	if order.FinalValue != nil {
		totalPaid := Lifecycle.TotalPaid(order.Payments)
		if totalPaid > *order.FinalValue+Lifecycle.PaymentEpsilon {
			response["warning"] = "Total paid exceeds the invoiced value"
		}
	}

	return ctx.JSON(response)
}

// CancelOrder cancels an order that has not started execution
// POST /api/service-orders/:id/cancel
func (c *ServiceOrderController) CancelOrder(ctx *fiber.Ctx) error {
	orderID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service order ID"})
	}

	order, err := c.Lifecycle.CancelOrder(uint(orderID))
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.JSON(order)
}

// lifecycleError translates lifecycle errors into HTTP responses.
func lifecycleError(ctx *fiber.Ctx, err error) error {
	var transition *Lifecycle.InvalidTransitionError
	switch {
	case errors.Is(err, Lifecycle.ErrOrderNotFound),
		errors.Is(err, Lifecycle.ErrVehicleNotFound),
		errors.Is(err, Lifecycle.ErrBudgetNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, Lifecycle.ErrNonPositiveAmount),
		errors.Is(err, Lifecycle.ErrJustificationRequired):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &transition):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":    transition.Error(),
			"expected": transition.Expected,
			"actual":   transition.Actual,
		})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error", "message": err.Error()})
	}
}
