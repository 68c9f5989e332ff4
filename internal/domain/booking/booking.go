package booking

import (
	"time"

	"github.com/google/uuid"
)

type CollectionType string

const (
	CollectionWalkIn CollectionType = "walkin"
	CollectionPickup CollectionType = "pickup"
)

func (t CollectionType) IsValid() bool {
	return t == CollectionWalkIn || t == CollectionPickup
}

// Status tracks where a booking is in the sample-to-report pipeline.
// The values form the nominal pipeline order
//
//	pending → collected → processing → report_ready → delivered
//
// but transitions are not enforced: any authenticated admin may set any
// member of the set at any time. Membership is validated; ordering is not.
type Status string

const (
	StatusPending     Status = "pending"
	StatusCollected   Status = "collected"
	StatusProcessing  Status = "processing"
	StatusReportReady Status = "report_ready"
	StatusDelivered   Status = "delivered"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCollected, StatusProcessing, StatusReportReady, StatusDelivered:
		return true
	}
	return false
}

// PaymentStatus tracks whether and how a booking's cost has been settled.
// The two cash methods double as terminal payment statuses: nothing to
// verify, the money changes hands at the counter or the doorstep.
type PaymentStatus string

const (
	PaymentPending        PaymentStatus = "pending"
	PaymentPaidUnverified PaymentStatus = "paid_unverified"
	PaymentVerified       PaymentStatus = "verified"
	PaymentCashOnDelivery PaymentStatus = "cash_on_delivery"
	PaymentPayAtLab       PaymentStatus = "pay_at_lab"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaidUnverified, PaymentVerified, PaymentCashOnDelivery, PaymentPayAtLab:
		return true
	}
	return false
}

// Settled reports whether this payment status authorizes report release.
func (s PaymentStatus) Settled() bool {
	switch s {
	case PaymentVerified, PaymentCashOnDelivery, PaymentPayAtLab:
		return true
	}
	return false
}

const (
	MethodCashOnDelivery = "cash_on_delivery"
	MethodPayAtLab       = "pay_at_lab"
)

// IsCashMethod reports whether the payment method settles out of band,
// requiring no verification step.
func IsCashMethod(method string) bool {
	return method == MethodCashOnDelivery || method == MethodPayAtLab
}

// InitialPaymentStatus derives the payment status a booking starts with.
// gatewayProven must only be true after the gateway signature has been
// checked: presence of order/payment ids alone is not proof of payment.
func InitialPaymentStatus(method string, gatewayProven bool) PaymentStatus {
	switch {
	case IsCashMethod(method):
		return PaymentStatus(method)
	case gatewayProven:
		return PaymentVerified
	default:
		return PaymentPaidUnverified
	}
}

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// Exactly one of PatientID / GuestName carries the identity. The pair is
	// written from an Identity value and never mutated afterwards.
	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid;index"`
	GuestName string     `gorm:"column:guest_name;type:varchar(200)"`

	Phone string `gorm:"column:phone;type:varchar(20);not null"`
	Email string `gorm:"column:email;type:varchar(255)"`

	TestIDs        []uuid.UUID    `gorm:"column:test_ids;serializer:json;not null"`
	CollectionType CollectionType `gorm:"column:collection_type;type:varchar(10);not null"`
	ScheduledAt    time.Time      `gorm:"column:scheduled_at;not null;index"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`

	PaymentMethod     string        `gorm:"column:payment_method;type:varchar(30);not null"`
	PaymentStatus     PaymentStatus `gorm:"column:payment_status;type:varchar(30);not null;index"`
	RazorpayOrderID   string        `gorm:"column:razorpay_order_id;type:varchar(64)"`
	RazorpayPaymentID string        `gorm:"column:razorpay_payment_id;type:varchar(64)"`
	RazorpaySignature string        `gorm:"column:razorpay_signature;type:varchar(128)"`
	TransactionRef    string        `gorm:"column:transaction_ref;type:varchar(100)"`
	AmountPaid        float64       `gorm:"column:amount_paid"`
	PaidAt            *time.Time    `gorm:"column:paid_at"`

	PaymentVerifiedAt *time.Time `gorm:"column:payment_verified_at"`
	VerifiedBy        *uuid.UUID `gorm:"column:verified_by;type:uuid"`
}

func (Booking) TableName() string {
	return "portal.bookings"
}

// OwnedBy reports whether the booking belongs to the given patient. Guest
// bookings belong to nobody.
func (b *Booking) OwnedBy(patientID uuid.UUID) bool {
	return b.PatientID != nil && *b.PatientID == patientID
}

// VerifyPayment moves paid_unverified to verified, recording who confirmed
// the money and when. Any other current status is rejected: cash bookings
// have nothing to verify, and a verified booking must not be re-verified.
func (b *Booking) VerifyPayment(adminID uuid.UUID, at time.Time) error {
	if b.PaymentStatus != PaymentPaidUnverified {
		return ErrPaymentNotVerifiable
	}
	b.PaymentStatus = PaymentVerified
	b.PaymentVerifiedAt = &at
	b.VerifiedBy = &adminID
	return nil
}

type CreateBookingCommand struct {
	Identity       Identity
	Phone          string
	Email          string
	TestIDs        []uuid.UUID
	CollectionType CollectionType
	ScheduledAt    time.Time
	PaymentMethod  string

	// Optional gateway proof collected client-side before submission.
	// Trusted only after signature verification.
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
	AmountPaid        float64
}

type RecordPaymentCommand struct {
	Method         string
	TransactionRef string
	Amount         float64
}

type ListBookingsQuery struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	Phone         string
	Page          int
	PageSize      int
}

type PagedBookings struct {
	Bookings   []*Booking
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
