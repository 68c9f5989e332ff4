package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/audit"
	"github.com/labpoint/labportal/internal/domain/booking"
	"github.com/labpoint/labportal/internal/domain/catalog"
	"github.com/labpoint/labportal/internal/domain/identity"
	"github.com/labpoint/labportal/internal/domain/report"
	"go.uber.org/zap"
)

// ReportService issues results and reports, and gates report disclosure on
// the linked booking's payment status.
type ReportService struct {
	repo     report.Repository
	bookings booking.Repository
	patients identity.PatientRepository
	tests    catalog.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewReportService(
	repo report.Repository,
	bookings booking.Repository,
	patients identity.PatientRepository,
	tests catalog.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *ReportService {
	return &ReportService{
		repo:     repo,
		bookings: bookings,
		patients: patients,
		tests:    tests,
		auditSvc: auditSvc,
		log:      log,
	}
}

// GenerateReport persists one Result and mints its Report with a fresh
// download token. The abnormal flags arrive computed by the entry client and
// are stored as supplied; report.IsValueAbnormal is the shared evaluation.
func (s *ReportService) GenerateReport(ctx context.Context, cmd *report.GenerateReportCommand, adminID uuid.UUID, ip string) (*report.Result, *report.Report, error) {
	var fields []string
	if cmd.PatientID == uuid.Nil {
		fields = append(fields, "patient id is required")
	}
	if cmd.TestID == uuid.Nil {
		fields = append(fields, "test id is required")
	}
	if strings.TrimSpace(cmd.Technician) == "" {
		fields = append(fields, "technician is required")
	}
	if len(cmd.Parameters) == 0 {
		fields = append(fields, "parameter results are required")
	}
	if len(fields) > 0 {
		return nil, nil, &ValidationError{Fields: fields}
	}

	if _, err := s.patients.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, nil, err
	}
	if _, err := s.tests.GetByID(ctx, cmd.TestID); err != nil {
		return nil, nil, err
	}
	if cmd.BookingID != nil {
		if _, err := s.bookings.GetByID(ctx, *cmd.BookingID); err != nil {
			return nil, nil, err
		}
	}

	collectedAt := cmd.CollectedAt
	if collectedAt.IsZero() {
		collectedAt = time.Now()
	}

	res := &report.Result{
		PatientID:   cmd.PatientID,
		TestID:      cmd.TestID,
		Parameters:  cmd.Parameters,
		Technician:  strings.TrimSpace(cmd.Technician),
		ReferredBy:  cmd.ReferredBy,
		CollectedAt: collectedAt,
	}
	if err := s.repo.CreateResult(ctx, res); err != nil {
		return nil, nil, err
	}

	token, err := report.NewSecureToken()
	if err != nil {
		return nil, nil, err
	}

	rep := &report.Report{
		PatientID:   cmd.PatientID,
		ResultID:    res.ID,
		BookingID:   cmd.BookingID,
		SecureToken: token,
		GeneratedAt: time.Now(),
	}
	if err := s.repo.CreateReport(ctx, rep); err != nil {
		return nil, nil, err
	}

	s.auditSvc.LogAsync(&adminID, "admin", audit.ActionGenerate,
		"report", rep.ID.String(), ip, "")

	s.log.Info("report generated",
		zap.String("report_id", rep.ID.String()),
		zap.String("result_id", res.ID.String()),
		zap.String("patient_id", cmd.PatientID.String()),
	)

	return res, rep, nil
}

// DownloadByToken resolves the capability token and re-checks the payment
// gate before disclosing anything. Listing-level hiding of tokens is not
// relied upon.
func (s *ReportService) DownloadByToken(ctx context.Context, token string) (*report.Report, *report.Result, error) {
	rep, err := s.repo.GetReportByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if err := s.authorize(ctx, rep); err != nil {
		return nil, nil, err
	}

	res, err := s.repo.GetResult(ctx, rep.ResultID)
	if err != nil {
		return nil, nil, err
	}

	s.auditSvc.LogAsync(nil, "anonymous", audit.ActionDownload,
		"report", rep.ID.String(), "", "token download")

	return rep, res, nil
}

// authorize applies the disclosure rule: a report without a booking link is
// legacy and always released; a linked report requires a settled payment.
func (s *ReportService) authorize(ctx context.Context, rep *report.Report) error {
	if rep.BookingID == nil {
		return nil
	}

	b, err := s.bookings.GetByID(ctx, *rep.BookingID)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			// Dangling link: fail closed rather than leak a gated report.
			return report.ErrPaymentRequired
		}
		return err
	}

	if !b.PaymentStatus.Settled() {
		return report.ErrPaymentRequired
	}
	return nil
}

// ReportEntry is one row of a patient's report listing. Token is empty
// while the report is locked.
type ReportEntry struct {
	Report   *report.Report   `json:"report"`
	Result   *report.Result   `json:"result"`
	Booking  *booking.Booking `json:"booking,omitempty"`
	Unlocked bool             `json:"unlocked"`
	Token    string           `json:"token,omitempty"`
}

// ListPatientReports lists a patient's reports with the derived booking and
// the payment gate applied. When a report predates the booking link, the
// match falls back to any booking of the same patient covering the result's
// test. That heuristic can pick the wrong booking when a patient booked the
// same test twice; reports generated today always carry the explicit link.
func (s *ReportService) ListPatientReports(ctx context.Context, patientID uuid.UUID) ([]*ReportEntry, error) {
	reps, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var patientBookings []*booking.Booking
	entries := make([]*ReportEntry, 0, len(reps))

	for _, rep := range reps {
		res, err := s.repo.GetResult(ctx, rep.ResultID)
		if err != nil {
			return nil, fmt.Errorf("loading result for report %s: %w", rep.ID, err)
		}

		entry := &ReportEntry{Report: rep, Result: res}

		switch {
		case rep.BookingID != nil:
			b, err := s.bookings.GetByID(ctx, *rep.BookingID)
			if err == nil {
				entry.Booking = b
			}

		default:
			if patientBookings == nil {
				patientBookings, err = s.bookings.ListByPatient(ctx, patientID)
				if err != nil {
					return nil, err
				}
			}
			entry.Booking = matchBookingByTest(patientBookings, res.TestID)
		}

		// Legacy reports (no explicit link) are never gated, even when the
		// heuristic found a candidate booking: the fallback match is for
		// display, not authorization.
		if rep.BookingID == nil || (entry.Booking != nil && entry.Booking.PaymentStatus.Settled()) {
			entry.Unlocked = true
			entry.Token = rep.SecureToken
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func matchBookingByTest(bookings []*booking.Booking, testID uuid.UUID) *booking.Booking {
	for _, b := range bookings {
		for _, id := range b.TestIDs {
			if id == testID {
				return b
			}
		}
	}
	return nil
}
