package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPDF struct {
	lines []PreBillLine
}

func (s *stubPDF) GeneratePreBillPDF(_ context.Context, _ *entity.PreBill, _ *entity.Company, lines []PreBillLine) ([]byte, error) {
	s.lines = lines
	return []byte("%PDF-1.3 stub"), nil
}

type preBillFixture struct {
	uc       *PreBillUseCase
	services *fakeServiceRepo
	preBills *fakePreBillRepo
	tx       *fakeTx
	pdf      *stubPDF
	ids      map[string]string
}

func newPreBillFixture() preBillFixture {
	march := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	ids := map[string]string{
		"approved": newID(), "objected": newID(), "pending": newID(), "april": newID(),
		"other": newID(), "fully": newID(), "inactive": newID(),
	}
	approved := serviceRecord(ids["approved"], companyC1, entity.ServiceStatusApproved, march(5), 100000, 0)
	approved.CopayValue = decimal.NewFromInt(5000)
	inactive := serviceRecord(ids["inactive"], companyC1, entity.ServiceStatusApproved, march(6), 70000, 0)
	inactive.Active = false

	patients := newFakePatientRepo(testPatient())
	services := newFakeServiceRepo(patients,
		approved,
		serviceRecord(ids["objected"], companyC1, entity.ServiceStatusObjected, march(10), 50000, 10000),
		serviceRecord(ids["pending"], companyC1, entity.ServiceStatusPending, march(11), 30000, 0),
		serviceRecord(ids["april"], companyC1, entity.ServiceStatusApproved, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 20000, 0),
		serviceRecord(ids["other"], companyC2, entity.ServiceStatusApproved, march(12), 90000, 0),
		serviceRecord(ids["fully"], companyC1, entity.ServiceStatusObjected, march(13), 40000, 40000),
		inactive,
	)
	preBills := newFakePreBillRepo()
	tx := &fakeTx{preBills: preBills, services: services}
	pdf := &stubPDF{}
	companies := newFakeCompanyRepo(testCompany(companyC1, "900111222-1"), testCompany(companyC2, "900222333-5"))
	doctors := newFakeDoctorRepo(testDoctor(doctorD1, companyC1, "TP-1"))
	uc := NewPreBillUseCase(tx, preBills, services, companies, patients, doctors, pdf)
	return preBillFixture{uc: uc, services: services, preBills: preBills, tx: tx, pdf: pdf, ids: ids}
}

func marchRequest() dto.GeneratePreBillRequest {
	return dto.GeneratePreBillRequest{CompanyID: companyC1, PeriodStart: "2026-03-01", PeriodEnd: "2026-03-31"}
}

func TestPreBillGenerate_TotalesYServicios(t *testing.T) {
	f := newPreBillFixture()
	ctx := context.Background()

	out, err := f.uc.Generate(ctx, c1Actor(), marchRequest())
	require.NoError(t, err)
	assert.Equal(t, "PF-000001", out.Number)
	assert.Equal(t, entity.PreBillStatusDraft, out.Status)
	assert.Equal(t, 2, out.ItemCount)
	assert.Len(t, out.Items, 2)
	assert.True(t, decimal.NewFromInt(150000).Equal(out.Subtotal), out.Subtotal.String())
	assert.True(t, decimal.NewFromInt(5000).Equal(out.CopayTotal))
	assert.True(t, decimal.NewFromInt(10000).Equal(out.ObjectedTotal))
	assert.True(t, decimal.NewFromInt(135000).Equal(out.NetTotal))

	for _, key := range []string{"approved", "objected"} {
		s, _ := f.services.GetByID(ctx, f.ids[key])
		require.NotNil(t, s.PreBillID, key)
		assert.Equal(t, out.ID, *s.PreBillID)
		assert.Equal(t, entity.ServiceStatusBilled, s.Status)
	}
	for _, key := range []string{"pending", "april", "other", "fully", "inactive"} {
		s, _ := f.services.GetByID(ctx, f.ids[key])
		assert.Nil(t, s.PreBillID, key)
	}

	_, err = f.uc.Generate(ctx, c1Actor(), marchRequest())
	assert.ErrorIs(t, err, domain.ErrNothingToBill)
}

func TestPreBillGenerate_Validaciones(t *testing.T) {
	f := newPreBillFixture()
	ctx := context.Background()

	req := marchRequest()
	req.CompanyID = companyC2
	_, err := f.uc.Generate(ctx, c1Actor(), req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	req = marchRequest()
	req.PeriodStart, req.PeriodEnd = "2026-03-31", "2026-03-01"
	_, err = f.uc.Generate(ctx, c1Actor(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = marchRequest()
	req.Insurer = "Nueva EPS"
	_, err = f.uc.Generate(ctx, c1Actor(), req)
	assert.ErrorIs(t, err, domain.ErrNothingToBill)

	req.Insurer = "SURA"
	out, err := f.uc.Generate(ctx, c1Actor(), req)
	require.NoError(t, err)
	assert.Equal(t, "SURA", out.Insurer)
}

func TestPreBillCancel_LiberaServicios(t *testing.T) {
	f := newPreBillFixture()
	ctx := context.Background()
	pb, err := f.uc.Generate(ctx, c1Actor(), marchRequest())
	require.NoError(t, err)

	out, err := f.uc.Cancel(ctx, c1Actor(), pb.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PreBillStatusCancelled, out.Status)
	require.NotNil(t, out.CancelledAt)

	approved, _ := f.services.GetByID(ctx, f.ids["approved"])
	assert.Nil(t, approved.PreBillID)
	assert.Equal(t, entity.ServiceStatusApproved, approved.Status)
	objected, _ := f.services.GetByID(ctx, f.ids["objected"])
	assert.Equal(t, entity.ServiceStatusObjected, objected.Status)

	_, err = f.uc.Issue(ctx, c1Actor(), pb.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	again, err := f.uc.Generate(ctx, c1Actor(), marchRequest())
	require.NoError(t, err)
	assert.Equal(t, "PF-000002", again.Number)

	issued, err := f.uc.Issue(ctx, c1Actor(), again.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PreBillStatusIssued, issued.Status)

	_, err = f.uc.Cancel(ctx, c1Actor(), again.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPreBillGetYList_Alcance(t *testing.T) {
	f := newPreBillFixture()
	ctx := context.Background()
	pb, err := f.uc.Generate(ctx, superActor(), marchRequest())
	require.NoError(t, err)

	got, err := f.uc.GetByID(ctx, c1Actor(), pb.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)

	other := c1Actor()
	other.Scope = access.Companies(companyC2)
	_, err = f.uc.GetByID(ctx, other, pb.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := f.uc.List(ctx, other, dto.PreBillFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	list, err = f.uc.List(ctx, c1Actor(), dto.PreBillFilter{Status: "DRAFT"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Empty(t, list.Items[0].Items)
}

func TestPreBillPDF_ResuelveNombres(t *testing.T) {
	f := newPreBillFixture()
	ctx := context.Background()
	pb, err := f.uc.Generate(ctx, c1Actor(), marchRequest())
	require.NoError(t, err)

	doc, name, err := f.uc.PDF(ctx, c1Actor(), pb.ID)
	require.NoError(t, err)
	assert.Equal(t, "prefactura-PF-000001.pdf", name)
	assert.NotEmpty(t, doc)
	require.Len(t, f.pdf.lines, 2)
	assert.Equal(t, "Ana Pérez", f.pdf.lines[0].PatientName)
	assert.Equal(t, "CC 1020304050", f.pdf.lines[0].PatientDocument)
	assert.Equal(t, "Luis Gómez", f.pdf.lines[0].DoctorName)

	_, err = f.uc.Cancel(ctx, c1Actor(), pb.ID)
	require.NoError(t, err)
	_, _, err = f.uc.PDF(ctx, c1Actor(), pb.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFormatPreBillNumber(t *testing.T) {
	assert.Equal(t, "PF-000001", FormatPreBillNumber(1))
	assert.Equal(t, "PF-123456", FormatPreBillNumber(123456))
	assert.Equal(t, "PF-1234567", FormatPreBillNumber(1234567))
}

// stalePreBills devuelve siempre la prefactura tal como estaba al tomar snapshot,
// como una petición que la leyó antes de que otra cambiara su estado.
type stalePreBills struct {
	*fakePreBillRepo
	snapshot *entity.PreBill
}

func (s *stalePreBills) GetByID(context.Context, string) (*entity.PreBill, error) {
	cp := *s.snapshot
	return &cp, nil
}

func TestPreBillCancel_TrasEmisionConcurrenteEsConflicto(t *testing.T) {
	f := newPreBillFixture()
	ctx := context.Background()
	pb, err := f.uc.Generate(ctx, c1Actor(), marchRequest())
	require.NoError(t, err)
	draft, _ := f.preBills.GetByID(ctx, pb.ID)

	_, err = f.uc.Issue(ctx, c1Actor(), pb.ID)
	require.NoError(t, err)

	f.uc.repo = &stalePreBills{fakePreBillRepo: f.preBills, snapshot: draft}
	_, err = f.uc.Cancel(ctx, c1Actor(), pb.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, _ := f.preBills.GetByID(ctx, pb.ID)
	assert.Equal(t, entity.PreBillStatusIssued, stored.Status)
	assert.Nil(t, stored.CancelledAt)
	approved, _ := f.services.GetByID(ctx, f.ids["approved"])
	require.NotNil(t, approved.PreBillID, "los servicios siguen en la prefactura emitida")
	assert.Equal(t, entity.ServiceStatusBilled, approved.Status)
}

func TestPreBillIssue_TrasAnulacionConcurrenteEsConflicto(t *testing.T) {
	f := newPreBillFixture()
	ctx := context.Background()
	pb, err := f.uc.Generate(ctx, c1Actor(), marchRequest())
	require.NoError(t, err)
	draft, _ := f.preBills.GetByID(ctx, pb.ID)

	_, err = f.uc.Cancel(ctx, c1Actor(), pb.ID)
	require.NoError(t, err)

	f.uc.repo = &stalePreBills{fakePreBillRepo: f.preBills, snapshot: draft}
	_, err = f.uc.Issue(ctx, c1Actor(), pb.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, _ := f.preBills.GetByID(ctx, pb.ID)
	assert.Equal(t, entity.PreBillStatusCancelled, stored.Status)
	assert.Nil(t, stored.IssuedAt)
}
