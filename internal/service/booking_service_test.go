package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/booking"
	"github.com/labpoint/labportal/internal/domain/catalog"
	"github.com/labpoint/labportal/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBookingFixture(t *testing.T, gw *fakeGateway) (*BookingService, *fakeBookingRepo, *catalog.Test) {
	t.Helper()
	test := &catalog.Test{ID: uuid.New(), Code: "CBC", Name: "Complete Blood Count", Price: 350}
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo, newFakeCatalogRepo(test), gw, newTestAuditService(), zap.NewNop())
	return svc, repo, test
}

func validCreateCommand(testID uuid.UUID) *booking.CreateBookingCommand {
	return &booking.CreateBookingCommand{
		Identity:       booking.Guest("Asha Rao"),
		Phone:          "9876543210",
		TestIDs:        []uuid.UUID{testID},
		CollectionType: booking.CollectionWalkIn,
		ScheduledAt:    time.Now().Add(24 * time.Hour),
		PaymentMethod:  booking.MethodPayAtLab,
	}
}

func TestCreateBookingCashMethods(t *testing.T) {
	cases := []struct {
		method string
		want   booking.PaymentStatus
	}{
		{booking.MethodPayAtLab, booking.PaymentPayAtLab},
		{booking.MethodCashOnDelivery, booking.PaymentCashOnDelivery},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			svc, _, test := newBookingFixture(t, &fakeGateway{})
			cmd := validCreateCommand(test.ID)
			cmd.PaymentMethod = tc.method

			b, err := svc.CreateBooking(context.Background(), cmd, "10.0.0.1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, b.PaymentStatus)
			assert.Equal(t, booking.StatusPending, b.Status)
			assert.Nil(t, b.PaidAt)
		})
	}
}

func TestCreateBookingOnlineWithoutProof(t *testing.T) {
	svc, _, test := newBookingFixture(t, &fakeGateway{})
	cmd := validCreateCommand(test.ID)
	cmd.PaymentMethod = "razorpay"

	b, err := svc.CreateBooking(context.Background(), cmd, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentPaidUnverified, b.PaymentStatus)
	assert.Nil(t, b.PaymentVerifiedAt)
}

func TestCreateBookingGatewayProofAccepted(t *testing.T) {
	gw := &fakeGateway{wantOrderID: "order_1", wantPaymentID: "pay_1", wantSignature: "sig_1"}
	svc, repo, test := newBookingFixture(t, gw)

	cmd := validCreateCommand(test.ID)
	cmd.PaymentMethod = "razorpay"
	cmd.RazorpayOrderID = "order_1"
	cmd.RazorpayPaymentID = "pay_1"
	cmd.RazorpaySignature = "sig_1"
	cmd.AmountPaid = 350

	b, err := svc.CreateBooking(context.Background(), cmd, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentVerified, b.PaymentStatus)
	require.NotNil(t, b.PaidAt)
	require.NotNil(t, b.PaymentVerifiedAt)

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentVerified, stored.PaymentStatus)
}

func TestCreateBookingGatewayProofRejected(t *testing.T) {
	gw := &fakeGateway{wantOrderID: "order_1", wantPaymentID: "pay_1", wantSignature: "sig_1"}
	svc, repo, test := newBookingFixture(t, gw)

	cmd := validCreateCommand(test.ID)
	cmd.PaymentMethod = "razorpay"
	cmd.RazorpayOrderID = "order_1"
	cmd.RazorpayPaymentID = "pay_1"
	cmd.RazorpaySignature = "forged"

	_, err := svc.CreateBooking(context.Background(), cmd, "10.0.0.1")
	require.ErrorIs(t, err, booking.ErrSignatureMismatch)
	assert.Empty(t, repo.rows, "rejected booking must not be persisted")
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _, test := newBookingFixture(t, &fakeGateway{})

	cmd := &booking.CreateBookingCommand{TestIDs: []uuid.UUID{test.ID}}
	_, err := svc.CreateBooking(context.Background(), cmd, "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Fields)
}

func TestCreateBookingUnknownTest(t *testing.T) {
	svc, _, test := newBookingFixture(t, &fakeGateway{})

	cmd := validCreateCommand(test.ID)
	cmd.TestIDs = append(cmd.TestIDs, uuid.New())
	_, err := svc.CreateBooking(context.Background(), cmd, "")
	require.ErrorIs(t, err, catalog.ErrUnknownTestsInSet)
}

func TestUpdateStatus(t *testing.T) {
	svc, repo, test := newBookingFixture(t, &fakeGateway{})
	b, err := svc.CreateBooking(context.Background(), validCreateCommand(test.ID), "")
	require.NoError(t, err)

	adminID := uuid.New()
	for _, s := range []booking.Status{
		booking.StatusCollected,
		booking.StatusProcessing,
		booking.StatusReportReady,
		booking.StatusDelivered,
		// Backwards moves are allowed; the set is a label, not a lattice.
		booking.StatusPending,
	} {
		got, err := svc.UpdateStatus(context.Background(), b.ID, s, adminID, "")
		require.NoError(t, err, "setting %q", s)
		assert.Equal(t, s, got.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), b.ID, "shipped", adminID, "")
	require.ErrorIs(t, err, booking.ErrInvalidStatus)

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, stored.Status, "rejected status must not stick")
}

func TestVerifyPaymentTransition(t *testing.T) {
	svc, _, test := newBookingFixture(t, &fakeGateway{})
	cmd := validCreateCommand(test.ID)
	cmd.PaymentMethod = "upi"
	b, err := svc.CreateBooking(context.Background(), cmd, "")
	require.NoError(t, err)
	require.Equal(t, booking.PaymentPaidUnverified, b.PaymentStatus)

	adminID := uuid.New()
	got, err := svc.VerifyPayment(context.Background(), b.ID, adminID, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentVerified, got.PaymentStatus)
	require.NotNil(t, got.VerifiedBy)
	assert.Equal(t, adminID, *got.VerifiedBy)

	_, err = svc.VerifyPayment(context.Background(), b.ID, adminID, "10.0.0.2")
	require.ErrorIs(t, err, booking.ErrPaymentNotVerifiable)
}

func TestVerifyPaymentRejectsCashBooking(t *testing.T) {
	svc, _, test := newBookingFixture(t, &fakeGateway{})
	b, err := svc.CreateBooking(context.Background(), validCreateCommand(test.ID), "")
	require.NoError(t, err)
	require.Equal(t, booking.PaymentPayAtLab, b.PaymentStatus)

	_, err = svc.VerifyPayment(context.Background(), b.ID, uuid.New(), "")
	require.ErrorIs(t, err, booking.ErrPaymentNotVerifiable)
}

func TestRecordPatientPaymentOwnership(t *testing.T) {
	svc, repo, test := newBookingFixture(t, &fakeGateway{})

	owner := uuid.New()
	cmd := validCreateCommand(test.ID)
	cmd.Identity = booking.IdentifiedPatient(owner)
	b, err := svc.CreateBooking(context.Background(), cmd, "")
	require.NoError(t, err)

	pay := &booking.RecordPaymentCommand{Method: "upi", TransactionRef: "UPI123", Amount: 350}

	_, err = svc.RecordPatientPayment(context.Background(), b.ID, uuid.New(), pay, "")
	require.ErrorIs(t, err, booking.ErrNotBookingOwner)

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentPayAtLab, stored.PaymentStatus, "foreign write must not alter the booking")
	assert.Empty(t, stored.TransactionRef)

	got, err := svc.RecordPatientPayment(context.Background(), b.ID, owner, pay, "")
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentPaidUnverified, got.PaymentStatus)
	assert.Equal(t, "UPI123", got.TransactionRef)
	require.NotNil(t, got.PaidAt)
}

func TestRecordPatientPaymentGuestBooking(t *testing.T) {
	svc, _, test := newBookingFixture(t, &fakeGateway{})
	b, err := svc.CreateBooking(context.Background(), validCreateCommand(test.ID), "")
	require.NoError(t, err)

	pay := &booking.RecordPaymentCommand{Method: "upi", Amount: 100}
	_, err = svc.RecordPatientPayment(context.Background(), b.ID, uuid.New(), pay, "")
	require.ErrorIs(t, err, booking.ErrNotBookingOwner)
}

func TestCreatePaymentOrder(t *testing.T) {
	gw := &fakeGateway{order: &payment.Order{ID: "order_42", Amount: 350, Currency: "INR"}}
	svc, repo, test := newBookingFixture(t, gw)

	cmd := validCreateCommand(test.ID)
	cmd.PaymentMethod = "razorpay"
	b, err := svc.CreateBooking(context.Background(), cmd, "")
	require.NoError(t, err)

	order, err := svc.CreatePaymentOrder(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_42", order.ID)

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_42", stored.RazorpayOrderID)
}

func TestCreatePaymentOrderRejectsSettledBooking(t *testing.T) {
	svc, _, test := newBookingFixture(t, &fakeGateway{})
	b, err := svc.CreateBooking(context.Background(), validCreateCommand(test.ID), "")
	require.NoError(t, err)
	require.True(t, b.PaymentStatus.Settled())

	_, err = svc.CreatePaymentOrder(context.Background(), b.ID)
	require.ErrorIs(t, err, booking.ErrPaymentNotVerifiable)
}

func TestConfirmGatewayPayment(t *testing.T) {
	gw := &fakeGateway{
		order:         &payment.Order{ID: "order_42", Amount: 350, Currency: "INR"},
		wantOrderID:   "order_42",
		wantPaymentID: "pay_42",
		wantSignature: "sig_42",
	}
	svc, _, test := newBookingFixture(t, gw)

	cmd := validCreateCommand(test.ID)
	cmd.PaymentMethod = "razorpay"
	b, err := svc.CreateBooking(context.Background(), cmd, "")
	require.NoError(t, err)
	_, err = svc.CreatePaymentOrder(context.Background(), b.ID)
	require.NoError(t, err)

	_, err = svc.ConfirmGatewayPayment(context.Background(), b.ID, "order_other", "pay_42", "sig_42", "")
	require.ErrorIs(t, err, booking.ErrSignatureMismatch, "order id must match the stored order")

	_, err = svc.ConfirmGatewayPayment(context.Background(), b.ID, "order_42", "pay_42", "forged", "")
	require.ErrorIs(t, err, booking.ErrSignatureMismatch)

	got, err := svc.ConfirmGatewayPayment(context.Background(), b.ID, "order_42", "pay_42", "sig_42", "")
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentVerified, got.PaymentStatus)
	assert.Equal(t, "pay_42", got.RazorpayPaymentID)
	require.NotNil(t, got.PaymentVerifiedAt)
}
