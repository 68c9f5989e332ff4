package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/booking"
	"github.com/labpoint/labportal/internal/service"
	"github.com/labpoint/labportal/pkg/metrics"
)

type BookingHandler struct {
	bookingSvc *service.BookingService
	collector  *metrics.Collector
}

func NewBookingHandler(bookingSvc *service.BookingService, collector *metrics.Collector) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, collector: collector}
}

type createBookingRequest struct {
	PatientID *uuid.UUID  `json:"patient_id"`
	GuestName string      `json:"guest_name"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email"`
	TestIDs   []uuid.UUID `json:"test_ids"`
	Type      string      `json:"collection_type"`
	Slot      time.Time   `json:"scheduled_at"`

	PaymentMethod     string  `json:"payment_method"`
	RazorpayOrderID   string  `json:"razorpay_order_id"`
	RazorpayPaymentID string  `json:"razorpay_payment_id"`
	RazorpaySignature string  `json:"razorpay_signature"`
	AmountPaid        float64 `json:"amount_paid"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	var ident booking.Identity
	if req.PatientID != nil {
		ident = booking.IdentifiedPatient(*req.PatientID)
	} else if req.GuestName != "" {
		ident = booking.Guest(req.GuestName)
	}

	cmd := &booking.CreateBookingCommand{
		Identity:          ident,
		Phone:             req.Phone,
		Email:             req.Email,
		TestIDs:           req.TestIDs,
		CollectionType:    booking.CollectionType(req.Type),
		ScheduledAt:       req.Slot,
		PaymentMethod:     req.PaymentMethod,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
		AmountPaid:        req.AmountPaid,
	}

	b, err := h.bookingSvc.CreateBooking(c.Request.Context(), cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.BookingsCreatedTotal.
		WithLabelValues(string(b.CollectionType), string(b.PaymentStatus)).Inc()

	respondCreated(c, b)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := currentClaims(c)
	b, err := h.bookingSvc.UpdateStatus(c.Request.Context(), id,
		booking.Status(req.Status), claims.ID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

func (h *BookingHandler) VerifyPayment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims := currentClaims(c)
	b, err := h.bookingSvc.VerifyPayment(c.Request.Context(), id, claims.ID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.PaymentsVerifiedTotal.Inc()
	respondOK(c, b)
}

type recordPaymentRequest struct {
	Method         string  `json:"payment_method" binding:"required"`
	TransactionRef string  `json:"transaction_ref"`
	Amount         float64 `json:"amount" binding:"required"`
}

func (h *BookingHandler) RecordPayment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req recordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := currentClaims(c)
	b, err := h.bookingSvc.RecordPatientPayment(c.Request.Context(), id, claims.ID,
		&booking.RecordPaymentCommand{
			Method:         req.Method,
			TransactionRef: req.TransactionRef,
			Amount:         req.Amount,
		}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

func (h *BookingHandler) CreatePaymentOrder(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.bookingSvc.CreatePaymentOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, order)
}

type confirmPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req confirmPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.bookingSvc.ConfirmGatewayPayment(c.Request.Context(), id,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	b, err := h.bookingSvc.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

func (h *BookingHandler) List(c *gin.Context) {
	q := &booking.ListBookingsQuery{
		Phone:    c.Query("phone"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		st := booking.Status(raw)
		q.Status = &st
	}
	if raw := c.Query("payment_status"); raw != "" {
		ps := booking.PaymentStatus(raw)
		q.PaymentStatus = &ps
	}

	page, err := h.bookingSvc.ListBookings(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}

func (h *BookingHandler) ListOwn(c *gin.Context) {
	claims := currentClaims(c)
	rows, err := h.bookingSvc.ListPatientBookings(c.Request.Context(), claims.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, rows)
}
