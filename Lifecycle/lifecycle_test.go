package Lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Frota/Models"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	return NewService(db), db
}

func seedVehicle(t *testing.T, db *gorm.DB) Models.Vehicle {
	t.Helper()
	vehicle := Models.Vehicle{
		Make:         "Volkswagen",
		VehicleModel: "Saveiro",
		Year:         2021,
		PlateNumber:  "ABC1D23",
		Status:       Models.VehicleActive,
		Mileage:      42000,
	}
	require.NoError(t, db.Create(&vehicle).Error)
	return vehicle
}

func seedSupplier(t *testing.T, db *gorm.DB, legalName, tradeName string) Models.Supplier {
	t.Helper()
	supplier := Models.Supplier{
		LegalName: legalName,
		TradeName: tradeName,
		Status:    Models.SupplierActive,
	}
	require.NoError(t, db.Create(&supplier).Error)
	return supplier
}

func openTestOrder(t *testing.T, s *Service, vehicleID uint) *Models.ServiceOrder {
	t.Helper()
	order, err := s.OpenOrder(Models.ServiceOrderRequest{
		VehicleID:          vehicleID,
		ServiceType:        "Engine Repair",
		ProblemDescription: "Engine overheating",
	})
	require.NoError(t, err)
	return order
}

func submitTestBudget(t *testing.T, s *Service, orderID, supplierID uint, value float64) Models.ServiceOrderBudget {
	t.Helper()
	order, err := s.SubmitBudget(orderID, Models.ServiceOrderBudget{
		SupplierID:  supplierID,
		BudgetValue: value,
	})
	require.NoError(t, err)
	return order.Budgets[len(order.Budgets)-1]
}

func TestOpenOrder(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)

	order := openTestOrder(t, s, vehicle.ID)

	assert.Equal(t, Models.OSPendingBudget, order.Status)
	assert.Equal(t, vehicle.ID, order.VehicleID)
	assert.False(t, order.RequestDate.IsZero())
	assert.Nil(t, order.SupplierID)
	assert.Nil(t, order.Cost)
}

func TestOpenOrderUnknownVehicle(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.OpenOrder(Models.ServiceOrderRequest{VehicleID: 999, ServiceType: "Brakes"})
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestSubmitBudget(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	supplier := seedSupplier(t, db, "Oficina Central Ltda", "")
	order := openTestOrder(t, s, vehicle.ID)

	updated, err := s.SubmitBudget(order.ID, Models.ServiceOrderBudget{
		SupplierID:  supplier.ID,
		BudgetValue: 450,
	})
	require.NoError(t, err)

	assert.Equal(t, Models.OSPendingBudget, updated.Status, "submitting a budget must not change the order status")
	require.Len(t, updated.Budgets, 1)
	assert.Equal(t, 450.0, updated.Budgets[0].BudgetValue)
	assert.False(t, updated.Budgets[0].IsApproved)
}

func TestSubmitBudgetRejectsNonPositiveValue(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	order := openTestOrder(t, s, vehicle.ID)

	_, err := s.SubmitBudget(order.ID, Models.ServiceOrderBudget{SupplierID: 1, BudgetValue: 0})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = s.SubmitBudget(order.ID, Models.ServiceOrderBudget{SupplierID: 1, BudgetValue: -10})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestSubmitBudgetUnknownOrder(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.SubmitBudget(999, Models.ServiceOrderBudget{SupplierID: 1, BudgetValue: 100})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestApproveBudget(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	s1 := seedSupplier(t, db, "Oficina Central Ltda", "")
	s2 := seedSupplier(t, db, "Mecanica do Zé Ltda", "Zé Motors")
	order := openTestOrder(t, s, vehicle.ID)
	b1 := submitTestBudget(t, s, order.ID, s1.ID, 450)
	submitTestBudget(t, s, order.ID, s2.ID, 500)

	updated, err := s.ApproveBudget(order.ID, b1.ID)
	require.NoError(t, err)

	assert.Equal(t, Models.OSApprovedAwaitingExecution, updated.Status)
	require.NotNil(t, updated.SupplierID)
	assert.Equal(t, s1.ID, *updated.SupplierID)
	require.NotNil(t, updated.Cost)
	assert.Equal(t, 450.0, *updated.Cost)

	require.Len(t, updated.Budgets, 2)
	assert.True(t, updated.Budgets[0].IsApproved)
	assert.False(t, updated.Budgets[1].IsApproved)
}

func TestApproveBudgetSingleApprovalInvariant(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	s1 := seedSupplier(t, db, "Oficina Central Ltda", "")
	s2 := seedSupplier(t, db, "Mecanica do Zé Ltda", "")
	order := openTestOrder(t, s, vehicle.ID)
	b1 := submitTestBudget(t, s, order.ID, s1.ID, 450)
	b2 := submitTestBudget(t, s, order.ID, s2.ID, 500)

	_, err := s.ApproveBudget(order.ID, b1.ID)
	require.NoError(t, err)

	// The order has left the approvable states, so a second approval is
	// rejected and the first decision stands.
	_, err = s.ApproveBudget(order.ID, b2.ID)
	var transitionErr *InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)

	var approvedCount int64
	db.Model(&Models.ServiceOrderBudget{}).
		Where("service_order_id = ? AND is_approved = ?", order.ID, true).
		Count(&approvedCount)
	assert.Equal(t, int64(1), approvedCount)
}

func TestApproveBudgetNotFound(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	order := openTestOrder(t, s, vehicle.ID)

	_, err := s.ApproveBudget(order.ID, 12345)
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestStartExecution(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	supplier := seedSupplier(t, db, "Oficina Central Ltda", "")
	order := openTestOrder(t, s, vehicle.ID)
	budget := submitTestBudget(t, s, order.ID, supplier.ID, 450)
	_, err := s.ApproveBudget(order.ID, budget.ID)
	require.NoError(t, err)

	updated, err := s.StartExecution(order.ID)
	require.NoError(t, err)

	assert.Equal(t, Models.OSInProgress, updated.Status)
	require.NotNil(t, updated.StartDate)
}

func TestStartExecutionRequiresApproval(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	order := openTestOrder(t, s, vehicle.ID)

	_, err := s.StartExecution(order.ID)
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, Models.OSPendingBudget, transitionErr.Actual)
}

func TestCompleteOrderAppendsMaintenanceHistory(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	supplier := seedSupplier(t, db, "Oficina Central Ltda", "Central Motors")
	order := openTestOrder(t, s, vehicle.ID)
	budget := submitTestBudget(t, s, order.ID, supplier.ID, 120)
	_, err := s.ApproveBudget(order.ID, budget.ID)
	require.NoError(t, err)
	_, err = s.StartExecution(order.ID)
	require.NoError(t, err)

	completionDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	updated, err := s.CompleteOrder(order.ID, completionDate, "Replaced thermostat")
	require.NoError(t, err)

	assert.Equal(t, Models.OSCompleted, updated.Status)
	require.NotNil(t, updated.CompletionDate)
	assert.Equal(t, "Replaced thermostat", updated.CompletionNotes)

	var records []Models.MaintenanceRecord
	require.NoError(t, db.Where("vehicle_id = ?", vehicle.ID).Find(&records).Error)
	require.Len(t, records, 1)

	record := records[0]
	assert.True(t, record.Date.Equal(completionDate), "history date should match the completion date")
	assert.Equal(t, "Engine Repair", record.ServiceType)
	assert.Equal(t, 120.0, record.Cost)
	assert.Equal(t, "Central Motors", record.SupplierName)
	assert.Equal(t, order.ID, record.ServiceOrderID)
	assert.Contains(t, record.Description, "Engine overheating")
	assert.Contains(t, record.Description, "Replaced thermostat")
}

func TestCompleteOrderTwiceWritesOneHistoryRow(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	supplier := seedSupplier(t, db, "Oficina Central Ltda", "")
	order := openTestOrder(t, s, vehicle.ID)
	budget := submitTestBudget(t, s, order.ID, supplier.ID, 120)
	_, err := s.ApproveBudget(order.ID, budget.ID)
	require.NoError(t, err)
	_, err = s.StartExecution(order.ID)
	require.NoError(t, err)

	completionDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	_, err = s.CompleteOrder(order.ID, completionDate, "")
	require.NoError(t, err)

	_, err = s.CompleteOrder(order.ID, completionDate, "")
	var transitionErr *InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)

	var count int64
	db.Model(&Models.MaintenanceRecord{}).Where("vehicle_id = ?", vehicle.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestInvoiceOrder(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	supplier := seedSupplier(t, db, "Oficina Central Ltda", "")
	order := completeTestOrder(t, s, db, vehicle.ID, supplier.ID, 450)

	due := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	updated, err := s.InvoiceOrder(order.ID, InvoiceDetails{
		InvoiceNumber:  "NF-1042",
		InvoiceDueDate: due,
		FinalValue:     450,
	})
	require.NoError(t, err)

	assert.Equal(t, Models.OSInvoiced, updated.Status)
	assert.Equal(t, "NF-1042", updated.InvoiceNumber)
	require.NotNil(t, updated.FinalValue)
	assert.Equal(t, 450.0, *updated.FinalValue)
	assert.Equal(t, Models.PaymentPending, updated.PaymentStatus)
}

func TestInvoiceOrderDivergentValueRequiresJustification(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	supplier := seedSupplier(t, db, "Oficina Central Ltda", "")
	order := completeTestOrder(t, s, db, vehicle.ID, supplier.ID, 450)

	due := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.InvoiceOrder(order.ID, InvoiceDetails{
		InvoiceNumber:  "NF-1042",
		InvoiceDueDate: due,
		FinalValue:     500,
	})
	assert.ErrorIs(t, err, ErrJustificationRequired)

	updated, err := s.InvoiceOrder(order.ID, InvoiceDetails{
		InvoiceNumber:      "NF-1042",
		InvoiceDueDate:     due,
		FinalValue:         500,
		ValueJustification: "Extra parts needed during repair",
	})
	require.NoError(t, err)
	assert.Equal(t, Models.OSInvoiced, updated.Status)
	assert.Equal(t, "Extra parts needed during repair", updated.ValueJustification)
}

func TestInvoiceOrderRejectsNonPositiveValue(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.InvoiceOrder(1, InvoiceDetails{FinalValue: 0})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestRecordPaymentAccumulation(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	supplier := seedSupplier(t, db, "Oficina Central Ltda", "")
	order := invoiceTestOrder(t, s, db, vehicle.ID, supplier.ID, 1350)

	updated, err := s.RecordPayment(order.ID, Models.OSPayment{
		PaymentDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		PaidAmount:    700,
		PaymentMethod: "Bank Transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, Models.PaymentPartiallyPaid, updated.PaymentStatus)

	updated, err = s.RecordPayment(order.ID, Models.OSPayment{
		PaymentDate:   time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		PaidAmount:    650,
		PaymentMethod: "Bank Transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, Models.PaymentPaid, updated.PaymentStatus)
	require.Len(t, updated.Payments, 2)
	assert.Equal(t, 1350.0, TotalPaid(updated.Payments))
}

func TestRecordPaymentRequiresInvoicedOrder(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	order := openTestOrder(t, s, vehicle.ID)

	_, err := s.RecordPayment(order.ID, Models.OSPayment{
		PaymentDate:   time.Now(),
		PaidAmount:    100,
		PaymentMethod: "Cash",
	})
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "record payment", transitionErr.Operation)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.RecordPayment(1, Models.OSPayment{PaidAmount: 0})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestCancelOrder(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	order := openTestOrder(t, s, vehicle.ID)

	updated, err := s.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.OSCancelled, updated.Status)

	// Cancelled is terminal.
	_, err = s.CancelOrder(order.ID)
	var transitionErr *InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)
}

func TestCancelOrderRejectedOnceInProgress(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	supplier := seedSupplier(t, db, "Oficina Central Ltda", "")
	order := openTestOrder(t, s, vehicle.ID)
	budget := submitTestBudget(t, s, order.ID, supplier.ID, 450)
	_, err := s.ApproveBudget(order.ID, budget.ID)
	require.NoError(t, err)
	_, err = s.StartExecution(order.ID)
	require.NoError(t, err)

	_, err = s.CancelOrder(order.ID)
	var transitionErr *InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)
}

func TestHappyPathLifecycle(t *testing.T) {
	s, db := newTestService(t)
	vehicle := seedVehicle(t, db)
	supplier := seedSupplier(t, db, "Oficina Central Ltda", "")

	order := openTestOrder(t, s, vehicle.ID)
	assert.Equal(t, Models.OSPendingBudget, order.Status)

	budget := submitTestBudget(t, s, order.ID, supplier.ID, 1350)

	updated, err := s.ApproveBudget(order.ID, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.OSApprovedAwaitingExecution, updated.Status)

	updated, err = s.StartExecution(order.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.OSInProgress, updated.Status)

	updated, err = s.CompleteOrder(order.ID, time.Now(), "done")
	require.NoError(t, err)
	assert.Equal(t, Models.OSCompleted, updated.Status)

	updated, err = s.InvoiceOrder(order.ID, InvoiceDetails{
		InvoiceNumber:  "NF-7",
		InvoiceDueDate: time.Now().AddDate(0, 1, 0),
		FinalValue:     1350,
	})
	require.NoError(t, err)
	assert.Equal(t, Models.OSInvoiced, updated.Status)
	assert.Equal(t, Models.PaymentPending, updated.PaymentStatus)

	updated, err = s.RecordPayment(order.ID, Models.OSPayment{
		PaymentDate:   time.Now(),
		PaidAmount:    1350,
		PaymentMethod: "Pix",
	})
	require.NoError(t, err)
	assert.Equal(t, Models.PaymentPaid, updated.PaymentStatus)
}

// completeTestOrder drives a fresh order to Completed with the given approved
// budget value.
func completeTestOrder(t *testing.T, s *Service, db *gorm.DB, vehicleID, supplierID uint, value float64) *Models.ServiceOrder {
	t.Helper()
	order := openTestOrder(t, s, vehicleID)
	budget := submitTestBudget(t, s, order.ID, supplierID, value)
	_, err := s.ApproveBudget(order.ID, budget.ID)
	require.NoError(t, err)
	_, err = s.StartExecution(order.ID)
	require.NoError(t, err)
	completed, err := s.CompleteOrder(order.ID, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	return completed
}

// invoiceTestOrder drives a fresh order to Invoiced with the given final value.
func invoiceTestOrder(t *testing.T, s *Service, db *gorm.DB, vehicleID, supplierID uint, value float64) *Models.ServiceOrder {
	t.Helper()
	order := completeTestOrder(t, s, db, vehicleID, supplierID, value)
	invoiced, err := s.InvoiceOrder(order.ID, InvoiceDetails{
		InvoiceNumber:  "NF-1",
		InvoiceDueDate: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
		FinalValue:     value,
	})
	require.NoError(t, err)
	return invoiced
}
