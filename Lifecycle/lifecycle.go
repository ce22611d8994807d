package Lifecycle

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Frota/Models"
)

// SupplierFallbackName is written to a vehicle's maintenance history when the
// completed order has no resolvable supplier.
const SupplierFallbackName = "Supplier not specified"

// Service owns the service-order state machine. Every operation executes as a
// single transaction against the order's current row, so a crash mid-operation
// never leaves a partially applied transition.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// OpenOrder registers a new maintenance request for a vehicle. New orders
// start in Pending Budget.
func (s *Service) OpenOrder(req Models.ServiceOrderRequest) (*Models.ServiceOrder, error) {
	var vehicle Models.Vehicle
	if err := s.DB.First(&vehicle, req.VehicleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	order := &Models.ServiceOrder{
		VehicleID:          req.VehicleID,
		ServiceType:        req.ServiceType,
		ProblemDescription: req.ProblemDescription,
		RequestDate:        time.Now(),
		RequesterID:        req.RequesterID,
		Status:             Models.OSPendingBudget,
	}
	if err := s.DB.Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// SubmitBudget appends a supplier quote to an order. The order status is not
// affected; approval is a separate, explicit decision.
func (s *Service) SubmitBudget(orderID uint, budget Models.ServiceOrderBudget) (*Models.ServiceOrder, error) {
	if budget.BudgetValue <= 0 {
		return nil, ErrNonPositiveAmount
	}

	var order *Models.ServiceOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}

		budget.ServiceOrderID = order.ID
		budget.IsApproved = false
		if err := tx.Create(&budget).Error; err != nil {
			return err
		}
		order.Budgets = append(order.Budgets, budget)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ApproveBudget marks one budget as the approved quote and moves the order to
// Approved - Awaiting Execution. Approving a budget clears the approval flag
// on every sibling, so at most one budget is ever approved.
func (s *Service) ApproveBudget(orderID, budgetID uint) (*Models.ServiceOrder, error) {
	var order *Models.ServiceOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if err := checkTransition("approve budget", order.Status); err != nil {
			return err
		}

		var approved *Models.ServiceOrderBudget
		for i := range order.Budgets {
			if order.Budgets[i].ID == budgetID {
				approved = &order.Budgets[i]
				break
			}
		}
		if approved == nil {
			return ErrBudgetNotFound
		}

		if err := tx.Model(&Models.ServiceOrderBudget{}).
			Where("service_order_id = ?", order.ID).
			Update("is_approved", false).Error; err != nil {
			return err
		}
		if err := tx.Model(approved).Update("is_approved", true).Error; err != nil {
			return err
		}
		for i := range order.Budgets {
			order.Budgets[i].IsApproved = order.Budgets[i].ID == budgetID
		}

		order.Status = Models.OSApprovedAwaitingExecution
		order.SupplierID = &approved.SupplierID
		value := approved.BudgetValue
		order.Cost = &value
		return tx.Omit(clause.Associations).Save(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// StartExecution moves an approved order to In Progress and stamps the start
// date.
func (s *Service) StartExecution(orderID uint) (*Models.ServiceOrder, error) {
	var order *Models.ServiceOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if err := checkTransition("start execution", order.Status); err != nil {
			return err
		}

		now := time.Now()
		order.Status = Models.OSInProgress
		order.StartDate = &now
		return tx.Omit(clause.Associations).Save(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CompleteOrder marks an in-progress order as done and appends exactly one
// maintenance-history row to the order's vehicle. Repeating the call on an
// already completed order is rejected by the transition check, so no
// duplicate history row can be written.
func (s *Service) CompleteOrder(orderID uint, completionDate time.Time, notes string) (*Models.ServiceOrder, error) {
	var order *Models.ServiceOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if err := checkTransition("complete order", order.Status); err != nil {
			return err
		}

		var vehicle Models.Vehicle
		if err := tx.First(&vehicle, order.VehicleID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrVehicleNotFound
			}
			return err
		}

		order.Status = Models.OSCompleted
		order.CompletionDate = &completionDate
		if notes != "" {
			order.CompletionNotes = notes
		}
		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return err
		}

		record := Models.MaintenanceRecord{
			VehicleID:      vehicle.ID,
			Date:           completionDate,
			ServiceType:    order.ServiceType,
			Description:    completionDescription(order.ProblemDescription, notes),
			Cost:           orderCost(order),
			SupplierName:   s.supplierDisplayName(tx, order.SupplierID),
			ServiceOrderID: order.ID,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// InvoiceDetails carries the invoicing input for InvoiceOrder.
type InvoiceDetails struct {
	InvoiceNumber      string
	InvoiceDueDate     time.Time
	FinalValue         float64
	ValueJustification string
}

// InvoiceOrder moves a completed order to Invoiced. When the invoiced value
// diverges from the approved cost a justification is mandatory. The payment
// status is derived immediately, so payments recorded ahead of the invoice
// are accounted for.
func (s *Service) InvoiceOrder(orderID uint, details InvoiceDetails) (*Models.ServiceOrder, error) {
	if details.FinalValue <= 0 {
		return nil, ErrNonPositiveAmount
	}

	var order *Models.ServiceOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if err := checkTransition("invoice order", order.Status); err != nil {
			return err
		}
		if divergesFromCost(order, details.FinalValue) && details.ValueJustification == "" {
			return ErrJustificationRequired
		}

		value := details.FinalValue
		due := details.InvoiceDueDate
		order.Status = Models.OSInvoiced
		order.InvoiceNumber = details.InvoiceNumber
		order.InvoiceDueDate = &due
		order.FinalValue = &value
		if details.ValueJustification != "" {
			order.ValueJustification = details.ValueJustification
		}
		order.PaymentStatus = DerivePaymentStatus(TotalPaid(order.Payments), value)
		return tx.Omit(clause.Associations).Save(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RecordPayment appends a payment to an invoiced order and recomputes the
// derived payment status. Overpayment is allowed; callers that care can
// compare TotalPaid against the final value and warn.
func (s *Service) RecordPayment(orderID uint, payment Models.OSPayment) (*Models.ServiceOrder, error) {
	if payment.PaidAmount <= 0 {
		return nil, ErrNonPositiveAmount
	}

	var order *Models.ServiceOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if err := checkTransition("record payment", order.Status); err != nil {
			return err
		}

		payment.ServiceOrderID = order.ID
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		order.Payments = append(order.Payments, payment)

		target := 0.0
		if order.FinalValue != nil {
			target = *order.FinalValue
		}
		order.PaymentStatus = DerivePaymentStatus(TotalPaid(order.Payments), target)
		return tx.Omit(clause.Associations).Save(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels an order that has not started execution. Cancelled is
// terminal.
func (s *Service) CancelOrder(orderID uint) (*Models.ServiceOrder, error) {
	var order *Models.ServiceOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if err := checkTransition("cancel order", order.Status); err != nil {
			return err
		}

		order.Status = Models.OSCancelled
		return tx.Omit(clause.Associations).Save(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func loadOrder(tx *gorm.DB, orderID uint) (*Models.ServiceOrder, error) {
	var order Models.ServiceOrder
	err := tx.Preload("Budgets", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&order, orderID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *Service) supplierDisplayName(tx *gorm.DB, supplierID *uint) string {
	if supplierID == nil {
		return SupplierFallbackName
	}
	var supplier Models.Supplier
	if err := tx.First(&supplier, *supplierID).Error; err != nil {
		return SupplierFallbackName
	}
	return supplier.DisplayName()
}

func completionDescription(problem, notes string) string {
	if notes == "" {
		return fmt.Sprintf("Service order completed: %s", problem)
	}
	return fmt.Sprintf("Service order completed: %s - Completion notes: %s", problem, notes)
}

func orderCost(order *Models.ServiceOrder) float64 {
	if order.Cost == nil {
		return 0
	}
	return *order.Cost
}

func divergesFromCost(order *Models.ServiceOrder, finalValue float64) bool {
	if order.Cost == nil {
		return true
	}
	return math.Abs(finalValue-*order.Cost) > PaymentEpsilon
}
