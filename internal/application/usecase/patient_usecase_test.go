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

func patientRequest(number string) dto.CreatePatientRequest {
	return dto.CreatePatientRequest{
		DocumentNumber: number, FirstName: "Carlos", LastName: "Mejía",
		BirthDate: "15/08/1970", Sex: "masculino", Insurer: " SURA ",
	}
}

func TestPatientCreate_DocumentoUnico(t *testing.T) {
	repo := newFakePatientRepo(testPatient())
	uc := NewPatientUseCase(repo, 0)
	ctx := context.Background()

	_, err := uc.Create(ctx, c1Actor(), patientRequest(" 1020304050 "))
	assert.ErrorIs(t, err, domain.ErrDuplicate, "mismo tipo CC y número")

	req := patientRequest("1020304050")
	req.DocumentType = "ti"
	out, err := uc.Create(ctx, c1Actor(), req)
	require.NoError(t, err, "otro tipo de documento con el mismo número")
	assert.Equal(t, entity.DocTypeTI, out.DocumentType)
	assert.Equal(t, entity.SexMale, out.Sex)
	assert.Equal(t, "SURA", out.Insurer)

	_, err = uc.Create(ctx, c1Actor(), patientRequest(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPatientUpdate_DocumentoUnico(t *testing.T) {
	repo := newFakePatientRepo(testPatient())
	uc := NewPatientUseCase(repo, 0)
	ctx := context.Background()
	other, err := uc.Create(ctx, c1Actor(), patientRequest("79111222"))
	require.NoError(t, err)

	taken := "1020304050"
	_, err = uc.Update(ctx, c1Actor(), other.ID, dto.UpdatePatientRequest{DocumentNumber: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	stored, _ := repo.GetByID(ctx, other.ID)
	assert.Equal(t, "79111222", stored.DocumentNumber)
}
