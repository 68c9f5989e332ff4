package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/audit"
	"github.com/labpoint/labportal/internal/domain/booking"
	"github.com/labpoint/labportal/internal/domain/catalog"
	"github.com/labpoint/labportal/internal/domain/identity"
	"github.com/labpoint/labportal/internal/domain/report"
	"github.com/labpoint/labportal/pkg/payment"
	"go.uber.org/zap"
)

// In-memory fakes for the repository ports. Mutations go through the same
// copy-on-read discipline the real store provides: read-after-write within a
// single row is consistent, and callers never share a struct with the store.

type fakeBookingRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{rows: map[uuid.UUID]*booking.Booking{}}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	clone := *b
	r.rows[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[b.ID]; !ok {
		return booking.ErrBookingNotFound
	}
	clone := *b
	r.rows[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) List(_ context.Context, q *booking.ListBookingsQuery) (*booking.PagedBookings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []*booking.Booking
	for _, b := range r.rows {
		if q.Status != nil && b.Status != *q.Status {
			continue
		}
		if q.PaymentStatus != nil && b.PaymentStatus != *q.PaymentStatus {
			continue
		}
		clone := *b
		rows = append(rows, &clone)
	}
	return &booking.PagedBookings{Bookings: rows, TotalCount: int64(len(rows)), Page: 1, PageSize: len(rows)}, nil
}

func (r *fakeBookingRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []*booking.Booking
	for _, b := range r.rows {
		if b.PatientID != nil && *b.PatientID == patientID {
			clone := *b
			rows = append(rows, &clone)
		}
	}
	return rows, nil
}

type fakeCatalogRepo struct {
	rows map[uuid.UUID]*catalog.Test
}

func newFakeCatalogRepo(tests ...*catalog.Test) *fakeCatalogRepo {
	r := &fakeCatalogRepo{rows: map[uuid.UUID]*catalog.Test{}}
	for _, t := range tests {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		r.rows[t.ID] = t
	}
	return r
}

func (r *fakeCatalogRepo) Create(_ context.Context, t *catalog.Test) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for _, ex := range r.rows {
		if ex.Code == t.Code {
			return catalog.ErrTestCodeTaken
		}
	}
	r.rows[t.ID] = t
	return nil
}

func (r *fakeCatalogRepo) GetByID(_ context.Context, id uuid.UUID) (*catalog.Test, error) {
	t, ok := r.rows[id]
	if !ok {
		return nil, catalog.ErrTestNotFound
	}
	return t, nil
}

func (r *fakeCatalogRepo) GetByCode(_ context.Context, code string) (*catalog.Test, error) {
	for _, t := range r.rows {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, catalog.ErrTestNotFound
}

func (r *fakeCatalogRepo) Update(_ context.Context, id uuid.UUID, _ *catalog.UpdateTestCommand) (*catalog.Test, error) {
	t, ok := r.rows[id]
	if !ok {
		return nil, catalog.ErrTestNotFound
	}
	return t, nil
}

func (r *fakeCatalogRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return catalog.ErrTestNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeCatalogRepo) List(_ context.Context, _ string) ([]*catalog.Test, error) {
	var out []*catalog.Test
	for _, t := range r.rows {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeCatalogRepo) CountByIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.rows[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *fakeCatalogRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

type fakePatientRepo struct {
	rows map[uuid.UUID]*identity.Patient
}

func newFakePatientRepo(patients ...*identity.Patient) *fakePatientRepo {
	r := &fakePatientRepo{rows: map[uuid.UUID]*identity.Patient{}}
	for _, p := range patients {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.rows[p.ID] = p
	}
	return r
}

func (r *fakePatientRepo) Create(_ context.Context, p *identity.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Email != nil {
		for _, ex := range r.rows {
			if ex.Email != nil && *ex.Email == *p.Email {
				return identity.ErrEmailTaken
			}
		}
	}
	clone := *p
	r.rows[p.ID] = &clone
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*identity.Patient, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, identity.ErrPatientNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakePatientRepo) GetByEmail(_ context.Context, email string) (*identity.Patient, error) {
	for _, p := range r.rows {
		if p.Email != nil && *p.Email == email {
			clone := *p
			return &clone, nil
		}
	}
	return nil, identity.ErrPatientNotFound
}

func (r *fakePatientRepo) GetByPhone(_ context.Context, phone string) (*identity.Patient, error) {
	for _, p := range r.rows {
		if p.Phone == phone {
			clone := *p
			return &clone, nil
		}
	}
	return nil, identity.ErrPatientNotFound
}

func (r *fakePatientRepo) GetByExternalUID(_ context.Context, uid string) (*identity.Patient, error) {
	for _, p := range r.rows {
		if p.ExternalAuthUID != nil && *p.ExternalAuthUID == uid {
			clone := *p
			return &clone, nil
		}
	}
	return nil, identity.ErrPatientNotFound
}

func (r *fakePatientRepo) Save(_ context.Context, p *identity.Patient) error {
	if _, ok := r.rows[p.ID]; !ok {
		return identity.ErrPatientNotFound
	}
	clone := *p
	r.rows[p.ID] = &clone
	return nil
}

type fakeAdminRepo struct {
	rows map[uuid.UUID]*identity.Admin
}

func newFakeAdminRepo(admins ...*identity.Admin) *fakeAdminRepo {
	r := &fakeAdminRepo{rows: map[uuid.UUID]*identity.Admin{}}
	for _, a := range admins {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		r.rows[a.ID] = a
	}
	return r
}

func (r *fakeAdminRepo) Create(_ context.Context, a *identity.Admin) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.rows[a.ID] = a
	return nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id uuid.UUID) (*identity.Admin, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, identity.ErrAdminNotFound
	}
	return a, nil
}

func (r *fakeAdminRepo) GetByUsername(_ context.Context, username string) (*identity.Admin, error) {
	for _, a := range r.rows {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, identity.ErrAdminNotFound
}

func (r *fakeAdminRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

type fakeOtpRepo struct {
	rows map[uuid.UUID]*identity.Otp
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{rows: map[uuid.UUID]*identity.Otp{}}
}

func (r *fakeOtpRepo) Replace(_ context.Context, o *identity.Otp) error {
	for id, ex := range r.rows {
		if ex.Contact == o.Contact && ex.Purpose == o.Purpose {
			delete(r.rows, id)
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	clone := *o
	r.rows[o.ID] = &clone
	return nil
}

func (r *fakeOtpRepo) Get(_ context.Context, contact string, purpose identity.OtpPurpose) (*identity.Otp, error) {
	for _, o := range r.rows {
		if o.Contact == contact && o.Purpose == purpose {
			clone := *o
			return &clone, nil
		}
	}
	return nil, identity.ErrOtpNotFound
}

func (r *fakeOtpRepo) IncrementAttempts(_ context.Context, id uuid.UUID) error {
	o, ok := r.rows[id]
	if !ok {
		return identity.ErrOtpNotFound
	}
	o.Attempts++
	return nil
}

func (r *fakeOtpRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type fakeReportRepo struct {
	results map[uuid.UUID]*report.Result
	reports map[uuid.UUID]*report.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{
		results: map[uuid.UUID]*report.Result{},
		reports: map[uuid.UUID]*report.Report{},
	}
}

func (r *fakeReportRepo) CreateResult(_ context.Context, res *report.Result) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	clone := *res
	r.results[res.ID] = &clone
	return nil
}

func (r *fakeReportRepo) GetResult(_ context.Context, id uuid.UUID) (*report.Result, error) {
	res, ok := r.results[id]
	if !ok {
		return nil, report.ErrResultNotFound
	}
	clone := *res
	return &clone, nil
}

func (r *fakeReportRepo) CreateReport(_ context.Context, rep *report.Report) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	clone := *rep
	r.reports[rep.ID] = &clone
	return nil
}

func (r *fakeReportRepo) GetReport(_ context.Context, id uuid.UUID) (*report.Report, error) {
	rep, ok := r.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	clone := *rep
	return &clone, nil
}

func (r *fakeReportRepo) GetReportByToken(_ context.Context, token string) (*report.Report, error) {
	for _, rep := range r.reports {
		if rep.SecureToken == token {
			clone := *rep
			return &clone, nil
		}
	}
	return nil, report.ErrReportNotFound
}

func (r *fakeReportRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*report.Report, error) {
	var rows []*report.Report
	for _, rep := range r.reports {
		if rep.PatientID == patientID {
			clone := *rep
			rows = append(rows, &clone)
		}
	}
	return rows, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(_ context.Context, _ *audit.Entry) error { return nil }

// fakeGateway verifies against a fixed expectation instead of real HMAC.
type fakeGateway struct {
	wantOrderID   string
	wantPaymentID string
	wantSignature string
	order         *payment.Order
	orderErr      error
}

func (g *fakeGateway) CreateOrder(amount float64, receipt string) (*payment.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	if g.order != nil {
		return g.order, nil
	}
	return &payment.Order{ID: "order_test", Amount: amount, Currency: "INR"}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return orderID == g.wantOrderID && paymentID == g.wantPaymentID && signature == g.wantSignature
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newTestAuditService() *AuditService {
	return NewAuditService(fakeAuditRepo{}, zap.NewNop())
}
