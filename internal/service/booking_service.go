package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/audit"
	"github.com/labpoint/labportal/internal/domain/booking"
	"github.com/labpoint/labportal/internal/domain/catalog"
	"github.com/labpoint/labportal/pkg/payment"
	"go.uber.org/zap"
)

// BookingService owns the booking ledger: creation, the fulfilment status
// label, and the payment status lifecycle. It is the only writer of
// payment_status.
type BookingService struct {
	repo     booking.Repository
	tests    catalog.Repository
	gateway  payment.Gateway
	auditSvc *AuditService
	log      *zap.Logger
}

func NewBookingService(
	repo booking.Repository,
	tests catalog.Repository,
	gateway payment.Gateway,
	auditSvc *AuditService,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		tests:    tests,
		gateway:  gateway,
		auditSvc: auditSvc,
		log:      log,
	}
}

// CreateBooking validates the request and derives the initial payment
// status. Gateway ids in the request are only honored when the signature
// over them checks out; ids without a valid signature are a hard failure,
// never a silent downgrade to unverified.
func (s *BookingService) CreateBooking(ctx context.Context, cmd *booking.CreateBookingCommand, ip string) (*booking.Booking, error) {
	var fields []string
	if !cmd.Identity.Valid() {
		fields = append(fields, "either patient id or guest name is required")
	}
	if strings.TrimSpace(cmd.Phone) == "" {
		fields = append(fields, "phone is required")
	}
	if len(cmd.TestIDs) == 0 {
		fields = append(fields, "at least one test is required")
	}
	if !cmd.CollectionType.IsValid() {
		fields = append(fields, "collection type must be walkin or pickup")
	}
	if cmd.ScheduledAt.IsZero() {
		fields = append(fields, "scheduled slot is required")
	}
	if strings.TrimSpace(cmd.PaymentMethod) == "" {
		fields = append(fields, "payment method is required")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	n, err := s.tests.CountByIDs(ctx, cmd.TestIDs)
	if err != nil {
		return nil, fmt.Errorf("checking test ids: %w", err)
	}
	if n != int64(len(cmd.TestIDs)) {
		return nil, catalog.ErrUnknownTestsInSet
	}

	gatewayProven := false
	if cmd.RazorpayOrderID != "" || cmd.RazorpayPaymentID != "" {
		if !s.gateway.VerifySignature(cmd.RazorpayOrderID, cmd.RazorpayPaymentID, cmd.RazorpaySignature) {
			return nil, booking.ErrSignatureMismatch
		}
		gatewayProven = true
	}

	b := &booking.Booking{
		Phone:          strings.TrimSpace(cmd.Phone),
		Email:          strings.ToLower(strings.TrimSpace(cmd.Email)),
		TestIDs:        cmd.TestIDs,
		CollectionType: cmd.CollectionType,
		ScheduledAt:    cmd.ScheduledAt,
		Status:         booking.StatusPending,
		PaymentMethod:  cmd.PaymentMethod,
		PaymentStatus:  booking.InitialPaymentStatus(cmd.PaymentMethod, gatewayProven),
	}
	cmd.Identity.Apply(b)

	if gatewayProven {
		now := time.Now()
		b.RazorpayOrderID = cmd.RazorpayOrderID
		b.RazorpayPaymentID = cmd.RazorpayPaymentID
		b.RazorpaySignature = cmd.RazorpaySignature
		b.AmountPaid = cmd.AmountPaid
		b.PaidAt = &now
		b.PaymentVerifiedAt = &now
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.log.Error("failed to create booking", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(b.PatientID, actorTypeOf(b), audit.ActionCreate,
		"booking", b.ID.String(), ip, "")

	s.log.Info("booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("collection_type", string(b.CollectionType)),
		zap.String("payment_status", string(b.PaymentStatus)),
	)

	return b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus sets the fulfilment status label. Membership in the status
// set is validated; ordering between statuses is deliberately not enforced,
// admins routinely correct mis-set stages.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, adminID uuid.UUID, ip string) (*booking.Booking, error) {
	if !status.IsValid() {
		return nil, booking.ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := b.Status
	b.Status = status
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(&adminID, "admin", audit.ActionStatusChange,
		"booking", b.ID.String(), ip,
		fmt.Sprintf("%s -> %s", prev, status))

	return b, nil
}

// RecordPatientPayment lets the booking's owner submit payment details after
// the fact, e.g. a manual UPI reference. The status is recomputed with the
// same cash-vs-unverified rule as creation; the gateway-verified path is not
// reachable from here.
func (s *BookingService) RecordPatientPayment(ctx context.Context, id, patientID uuid.UUID, cmd *booking.RecordPaymentCommand, ip string) (*booking.Booking, error) {
	var fields []string
	if strings.TrimSpace(cmd.Method) == "" {
		fields = append(fields, "payment method is required")
	}
	if cmd.Amount <= 0 {
		fields = append(fields, "amount must be positive")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.OwnedBy(patientID) {
		return nil, booking.ErrNotBookingOwner
	}

	now := time.Now()
	b.PaymentMethod = cmd.Method
	b.TransactionRef = cmd.TransactionRef
	b.AmountPaid = cmd.Amount
	b.PaidAt = &now
	b.PaymentStatus = booking.InitialPaymentStatus(cmd.Method, false)

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(&patientID, "patient", audit.ActionUpdate,
		"booking", b.ID.String(), ip, "payment details recorded")

	return b, nil
}

// VerifyPayment is the admin confirmation paid_unverified -> verified. Any
// other current status is an error, including a repeat verification.
func (s *BookingService) VerifyPayment(ctx context.Context, id, adminID uuid.UUID, ip string) (*booking.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := b.VerifyPayment(adminID, time.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(&adminID, "admin", audit.ActionVerifyPayment,
		"booking", b.ID.String(), ip, "")

	s.log.Info("payment verified",
		zap.String("booking_id", b.ID.String()),
		zap.String("admin_id", adminID.String()),
	)

	return b, nil
}

// CreatePaymentOrder registers a gateway order over the booking's catalog
// amount so the client can complete payment.
func (s *BookingService) CreatePaymentOrder(ctx context.Context, id uuid.UUID) (*payment.Order, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus.Settled() {
		return nil, booking.ErrPaymentNotVerifiable
	}

	amount, err := s.bookingAmount(ctx, b)
	if err != nil {
		return nil, err
	}

	order, err := s.gateway.CreateOrder(amount, b.ID.String())
	if err != nil {
		return nil, err
	}

	b.RazorpayOrderID = order.ID
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	return order, nil
}

// ConfirmGatewayPayment is the dedicated verify endpoint: the client posts
// the gateway's payment id and signature after checkout, and the booking is
// marked verified only when the signature holds.
func (s *BookingService) ConfirmGatewayPayment(ctx context.Context, id uuid.UUID, orderID, paymentID, signature, ip string) (*booking.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.RazorpayOrderID == "" || b.RazorpayOrderID != orderID {
		return nil, booking.ErrSignatureMismatch
	}
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return nil, booking.ErrSignatureMismatch
	}

	now := time.Now()
	b.RazorpayPaymentID = paymentID
	b.RazorpaySignature = signature
	b.PaidAt = &now
	b.PaymentVerifiedAt = &now
	b.PaymentStatus = booking.PaymentVerified

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(b.PatientID, actorTypeOf(b), audit.ActionVerifyPayment,
		"booking", b.ID.String(), ip, "gateway signature verified")

	return b, nil
}

func (s *BookingService) ListBookings(ctx context.Context, q *booking.ListBookingsQuery) (*booking.PagedBookings, error) {
	return s.repo.List(ctx, q)
}

func (s *BookingService) ListPatientBookings(ctx context.Context, patientID uuid.UUID) ([]*booking.Booking, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *BookingService) bookingAmount(ctx context.Context, b *booking.Booking) (float64, error) {
	var total float64
	for _, id := range b.TestIDs {
		t, err := s.tests.GetByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("pricing booking: %w", err)
		}
		total += t.Price
	}
	return total, nil
}

func actorTypeOf(b *booking.Booking) string {
	if b.PatientID != nil {
		return "patient"
	}
	return "guest"
}
