package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/cie11"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIE11Validate(t *testing.T) {
	uc := NewCIE11UseCase(newFakeCIE11Repo(testCodes()...), 0)
	cases := []struct {
		code   string
		valid  bool
		reason string
	}{
		{" 5a11 ", true, ""},
		{"XX99", false, cie11.ReasonInactive},
		{"5A1Z", false, cie11.ReasonNotBillable},
		{"9Z99", false, cie11.ReasonNotFound},
		{"E11-9", false, cie11.ReasonInvalidFormat},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			res, err := uc.Validate(context.Background(), tc.code)
			require.NoError(t, err)
			assert.Equal(t, tc.valid, res.IsValid)
			assert.Equal(t, tc.reason, res.Reason)
		})
	}

	res, err := uc.Validate(context.Background(), "5a11")
	require.NoError(t, err)
	assert.Equal(t, "5A11", res.Code)
	assert.Equal(t, "Diabetes mellitus tipo 2", res.Description)
}

func TestCIE11ValidateForPatient_Sexo(t *testing.T) {
	codes := append(testCodes(), &entity.CIE11Code{
		ID: newID(), Code: "GA00", Description: "Inflamación de vulva", Sex: entity.SexFemale, Billable: true, Active: true,
	})
	uc := NewCIE11UseCase(newFakeCIE11Repo(codes...), 0)
	p := testPatient()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.ValidateForPatient(context.Background(), "GA00", p, at)
	assert.NoError(t, err)

	p.Sex = entity.SexMale
	_, err = uc.ValidateForPatient(context.Background(), "GA00", p, at)
	assert.ErrorIs(t, err, domain.ErrInvalidDiagnosis)
}

func TestCIE11List_PorPrefijoYDescripcionSinTildes(t *testing.T) {
	uc := NewCIE11UseCase(newFakeCIE11Repo(testCodes()...), 0)
	ctx := context.Background()

	out, err := uc.List(ctx, dto.CIE11Filter{Search: "5a1"})
	require.NoError(t, err)
	codes := make([]string, 0, len(out.Items))
	for _, c := range out.Items {
		codes = append(codes, c.Code)
	}
	assert.ElementsMatch(t, []string{"5A11", "5A1Z"}, codes)

	out, err = uc.List(ctx, dto.CIE11Filter{Search: "HIPERTENSION"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "BA00", out.Items[0].Code)

	billable := true
	out, err = uc.List(ctx, dto.CIE11Filter{Search: "diabetes", Billable: &billable})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "5A11", out.Items[0].Code)
}

func TestCIE11Create_Duplicado(t *testing.T) {
	uc := NewCIE11UseCase(newFakeCIE11Repo(testCodes()...), 0)
	_, err := uc.Create(context.Background(), superActor(), dto.CreateCIE11Request{Code: "5a11", Description: "otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(context.Background(), superActor(), dto.CreateCIE11Request{
		Code: "QA01", Description: "rango", MinAge: intPtr(30), MaxAge: intPtr(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
