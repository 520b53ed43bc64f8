package usecase

import (
	"context"
	"testing"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoctorFixture(doctors ...*entity.Doctor) (*DoctorUseCase, *fakeDoctorRepo) {
	repo := newFakeDoctorRepo(doctors...)
	companies := newFakeCompanyRepo(testCompany(companyC1, "900111222-1"), testCompany(companyC2, "900222333-5"))
	return NewDoctorUseCase(repo, companies, 0), repo
}

func doctorRequest(card string) dto.CreateDoctorRequest {
	return dto.CreateDoctorRequest{
		CompanyID: companyC1, FirstName: " Marta ", LastName: "Ríos",
		DocumentNumber: "52123456", ProfessionalCard: card, Specialty: "Medicina interna",
	}
}

func TestDoctorCreate(t *testing.T) {
	uc, repo := newDoctorFixture(testDoctor(doctorD2, companyC2, "TP-2"))
	ctx := context.Background()

	out, err := uc.Create(ctx, c1Actor(), doctorRequest(" TP-100 "))
	require.NoError(t, err)
	assert.Equal(t, "Marta", out.FirstName)
	assert.Equal(t, entity.DocTypeCC, out.DocumentType)
	stored, _ := repo.GetByProfessionalCard(ctx, "TP-100")
	require.NotNil(t, stored)
	assert.Equal(t, adminID, stored.CreatedBy)

	_, err = uc.Create(ctx, c1Actor(), doctorRequest("TP-100"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// la tarjeta es única en todas las empresas, aunque la otra no sea visible
	_, err = uc.Create(ctx, c1Actor(), doctorRequest("TP-2"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDoctorCreate_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.CreateDoctorRequest)
		want   error
	}{
		{"empresa fuera del alcance", func(r *dto.CreateDoctorRequest) { r.CompanyID = companyC2 }, domain.ErrForbidden},
		{"sin empresa", func(r *dto.CreateDoctorRequest) { r.CompanyID = "" }, domain.ErrInvalidInput},
		{"sin tarjeta profesional", func(r *dto.CreateDoctorRequest) { r.ProfessionalCard = " " }, domain.ErrInvalidInput},
		{"sin documento", func(r *dto.CreateDoctorRequest) { r.DocumentNumber = "" }, domain.ErrInvalidInput},
		{"tipo de documento desconocido", func(r *dto.CreateDoctorRequest) { r.DocumentType = "XX" }, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _ := newDoctorFixture()
			req := doctorRequest("TP-200")
			tc.mutate(&req)
			_, err := uc.Create(context.Background(), c1Actor(), req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDoctorUpdate(t *testing.T) {
	uc, repo := newDoctorFixture()
	ctx := context.Background()
	first, err := uc.Create(ctx, c1Actor(), doctorRequest("TP-1"))
	require.NoError(t, err)
	second, err := uc.Create(ctx, c1Actor(), doctorRequest("TP-3"))
	require.NoError(t, err)

	other := companyC2
	_, err = uc.Update(ctx, c1Actor(), first.ID, dto.UpdateDoctorRequest{CompanyID: &other})
	assert.ErrorIs(t, err, domain.ErrForbidden, "mover a una empresa fuera del alcance")
	stored, _ := repo.GetByID(ctx, first.ID)
	assert.Equal(t, companyC1, stored.CompanyID)

	card := "TP-3"
	_, err = uc.Update(ctx, c1Actor(), first.ID, dto.UpdateDoctorRequest{ProfessionalCard: &card})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	specialty := "Cardiología"
	sameCard := "TP-3"
	out, err := uc.Update(ctx, c1Actor(), second.ID, dto.UpdateDoctorRequest{Specialty: &specialty, ProfessionalCard: &sameCard})
	require.NoError(t, err)
	assert.Equal(t, "Cardiología", out.Specialty)

	// con alcance sobre ambas empresas sí se puede mover
	out, err = uc.Update(ctx, superActor(), first.ID, dto.UpdateDoctorRequest{CompanyID: &other})
	require.NoError(t, err)
	assert.Equal(t, companyC2, out.CompanyID)
	_, err = uc.GetByID(ctx, c1Actor(), first.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDoctorDelete(t *testing.T) {
	uc, repo := newDoctorFixture(testDoctor(doctorD2, companyC2, "TP-2"))
	ctx := context.Background()
	d, err := uc.Create(ctx, c1Actor(), doctorRequest("TP-1"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, c1Actor(), d.ID))
	stored, _ := repo.GetByID(ctx, d.ID)
	assert.False(t, stored.Active)

	assert.ErrorIs(t, uc.Delete(ctx, c1Actor(), doctorD2), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, c1Actor(), newID()), domain.ErrNotFound)
}
