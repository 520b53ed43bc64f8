package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientImport_ResumenPorFila(t *testing.T) {
	repo := newFakePatientRepo()
	uc := NewPatientUseCase(repo, 0)
	rows := [][]string{
		{"Tipo Documento", "Número de Documento", "Nombres", "Apellidos", "Fecha Nacimiento", "Sexo", "EPS"},
		{"CC", "100", "Ana", "Ruiz", "1990-01-02", "F", "SURA"},
		{"CC", "", "Juan", "Díaz", "12/03/1980", "M", "Nueva EPS"},
		{"", "", "", "", "", "", ""},
		{"cc", "100", "Ana", "Ruiz", "1990-01-02", "F", "SURA"},
		{"TI", "200", "Luis", "Mora", "31/02/2010", "M", ""},
		{"CC", "300", "Eva", "Sol", "5/7/2001", "femenino", "Sanitas"},
	}

	sum, err := uc.Import(context.Background(), superActor(), rows)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 2, sum.Created)
	assert.Equal(t, []dto.ImportDuplicate{{Row: 5, Key: "CC 100"}}, sum.Duplicates)
	require.Len(t, sum.Errors, 2)
	assert.Equal(t, 3, sum.Errors[0].Row)
	assert.Contains(t, sum.Errors[0].Message, "documentNumber")
	assert.Equal(t, 6, sum.Errors[1].Row)

	p, _ := repo.GetByDocument(context.Background(), "CC", "300")
	require.NotNil(t, p)
	assert.Equal(t, entity.SexFemale, p.Sex)
	assert.Equal(t, "2001-07-05", formatDate(p.BirthDate))
}

func TestImport_CabeceraNoReconocida(t *testing.T) {
	uc := NewPatientUseCase(newFakePatientRepo(), 0)
	_, err := uc.Import(context.Background(), superActor(), [][]string{{"foo", "bar"}, {"1", "2"}})
	assert.Error(t, err)

	_, err = uc.Import(context.Background(), superActor(), nil)
	assert.Error(t, err)
}

func TestImport_FilaSoloConColumnasNoReconocidas(t *testing.T) {
	repo := newFakePatientRepo()
	uc := NewPatientUseCase(repo, 0)
	rows := [][]string{
		{"Documento", "Nombres", "Apellidos", "Fecha Nacimiento", "Observación"},
		{"", "", "", "", "paciente sin datos"},
		{"400", "Rosa", "Lara", "1975-03-09", ""},
		{"", "", "", "", " "},
	}

	sum, err := uc.Import(context.Background(), superActor(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Created)
	require.Len(t, sum.Errors, 1)
	assert.Equal(t, 2, sum.Errors[0].Row)
	assert.Contains(t, sum.Errors[0].Message, "no reconocidas")
}

func TestImport_ErrorDeInfraestructuraNoSeExpone(t *testing.T) {
	rows := [][]string{{"codigo"}, {"A1"}, {"B2"}, {"C3"}}
	calls := 0
	create := func(_ context.Context, row importRow) (string, error) {
		calls++
		switch row.get("code") {
		case "A1":
			return "", fmt.Errorf("insertar: %w", errors.New(`pq: relation "cie11" does not exist at 10.0.0.5:5432`))
		case "B2":
			return "", fmt.Errorf("%w: code inválido", domain.ErrInvalidInput)
		}
		return "", fmt.Errorf("%w: empresa fuera del alcance", domain.ErrForbidden)
	}

	sum, err := runImport(context.Background(), "cie11", rows, 0, columnAliases{"code": {"código"}}, create)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, sum.Errors, 3)
	assert.Equal(t, "no se pudo guardar la fila", sum.Errors[0].Message)
	assert.NotContains(t, sum.Errors[0].Message, "10.0.0.5")
	assert.Equal(t, "code inválido", sum.Errors[1].Message)
	assert.Equal(t, "acceso denegado: empresa fuera del alcance", sum.Errors[2].Message)
}

func TestImport_MaximoDeFilas(t *testing.T) {
	uc := NewPatientUseCase(newFakePatientRepo(), 2)
	rows := [][]string{{"documento", "nombres", "apellidos", "fecha nacimiento"}}
	for i := 0; i < 3; i++ {
		rows = append(rows, []string{"1", "a", "b", "2000-01-01"})
	}
	_, err := uc.Import(context.Background(), superActor(), rows)
	assert.ErrorContains(t, err, "máximo de 2 filas")
}

func TestDoctorImport_EmpresaPorDefectoYAlcance(t *testing.T) {
	companies := newFakeCompanyRepo(testCompany(companyC1, "900111222-1"), testCompany(companyC2, "900222333-5"))
	repo := newFakeDoctorRepo()
	uc := NewDoctorUseCase(repo, companies, 0)
	rows := [][]string{
		{"Empresa", "Nombres", "Apellidos", "Cédula", "Tarjeta Profesional", "Especialidad"},
		{"", "Luis", "Gómez", "101", "TP-10", "Pediatría"},
		{companyC2, "Marta", "Rey", "102", "TP-11", "Medicina general"},
		{"", "Luis", "Gómez", "101", "TP-10", "Pediatría"},
		{"", "Sin", "Tarjeta", "103", "", ""},
	}

	sum, err := uc.Import(context.Background(), c1Actor(), companyC1, rows)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 1, sum.Created)
	assert.Equal(t, []dto.ImportDuplicate{{Row: 4, Key: "TP-10"}}, sum.Duplicates)
	require.Len(t, sum.Errors, 2)
	assert.Equal(t, 3, sum.Errors[0].Row, "empresa fuera del alcance")
	assert.Equal(t, 5, sum.Errors[1].Row)

	d, _ := repo.GetByProfessionalCard(context.Background(), "TP-10")
	require.NotNil(t, d)
	assert.Equal(t, companyC1, d.CompanyID)
}

func TestCIE11Import(t *testing.T) {
	repo := newFakeCIE11Repo()
	uc := NewCIE11UseCase(repo, 0)
	rows := [][]string{
		{"Código", "Descripción", "Capítulo", "Edad mínima", "Edad máxima", "Sexo", "Facturable"},
		{"1a00", "Cólera", "01", "", "", "", "SI"},
		{"GA00", "Inflamación de vulva", "16", "10", "90", "F", "sí"},
		{"5A1Z", "Diabetes sin especificar", "05", "", "", "", "no"},
		{"1A00", "Cólera repetido", "01", "", "", "", ""},
		{"ZZ", "Formato inválido", "", "", "", "", ""},
		{"QA00", "Rango inválido", "", "50", "20", "", ""},
	}

	sum, err := uc.Import(context.Background(), access.Actor{UserID: adminID, Scope: access.Unrestricted()}, rows)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Total)
	assert.Equal(t, 3, sum.Created)
	assert.Len(t, sum.Duplicates, 1)
	assert.Equal(t, "1A00", sum.Duplicates[0].Key)
	require.Len(t, sum.Errors, 2)
	assert.Equal(t, 6, sum.Errors[0].Row)
	assert.Equal(t, 7, sum.Errors[1].Row)

	c, _ := repo.GetByCode(context.Background(), "5A1Z")
	require.NotNil(t, c)
	assert.False(t, c.Billable)
	g, _ := repo.GetByCode(context.Background(), "GA00")
	require.NotNil(t, g)
	assert.Equal(t, 10, *g.MinAge)
	assert.Equal(t, "F", g.Sex)
}
