package cie11_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Auditoria-api/internal/domain/cie11"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

func intPtr(v int) *int { return &v }

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "BA00.0", cie11.NormalizeCode(" ba00.0 "))
	assert.Equal(t, "5A11", cie11.NormalizeCode("5a 11"))
}

func TestValidFormat(t *testing.T) {
	for _, c := range []string{"1A00", "BA00", "BA00.0", "2C10.Z", "5A11"} {
		assert.True(t, cie11.ValidFormat(c), c)
	}
	for _, c := range []string{"", "A0", "BA00.", "BA00.12345", "ba00", "BA-00"} {
		assert.False(t, cie11.ValidFormat(c), c)
	}
}

func TestValidateAgeRange(t *testing.T) {
	assert.NoError(t, cie11.ValidateAgeRange(nil, nil))
	assert.NoError(t, cie11.ValidateAgeRange(intPtr(0), intPtr(120)))
	assert.NoError(t, cie11.ValidateAgeRange(intPtr(18), nil))
	assert.NoError(t, cie11.ValidateAgeRange(intPtr(5), intPtr(5)))

	for _, tc := range []struct{ min, max *int }{
		{intPtr(10), intPtr(5)},
		{intPtr(-1), nil},
		{nil, intPtr(121)},
	} {
		err := cie11.ValidateAgeRange(tc.min, tc.max)
		assert.True(t, errors.Is(err, cie11.ErrInvalidAgeRange))
	}
}

func TestCheck_ActivoYFacturable(t *testing.T) {
	res := cie11.Check("BA00", &entity.CIE11Code{Code: "BA00", Description: "Hipertensión esencial", Active: true, Billable: true})
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Reason)
	assert.Equal(t, "Hipertensión esencial", res.Description)
}

// Un código que existe pero no es activo y facturable nunca es válido.
func TestCheck_ExistePeroNoUtilizable(t *testing.T) {
	cases := []struct {
		active, billable bool
		reason           string
	}{
		{false, true, cie11.ReasonInactive},
		{true, false, cie11.ReasonNotBillable},
		{false, false, cie11.ReasonInactive},
	}
	for _, tc := range cases {
		res := cie11.Check("BA00", &entity.CIE11Code{Code: "BA00", Active: tc.active, Billable: tc.billable})
		assert.False(t, res.IsValid)
		assert.Equal(t, tc.reason, res.Reason)
	}
}

func TestCheck_NoExisteOFormatoInvalido(t *testing.T) {
	assert.Equal(t, cie11.ReasonNotFound, cie11.Check("BA00", nil).Reason)
	assert.Equal(t, cie11.ReasonInvalidFormat, cie11.Check("X", nil).Reason)
}

func TestCheckPatient(t *testing.T) {
	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	child := &entity.Patient{BirthDate: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), Sex: entity.SexFemale}
	adult := &entity.Patient{BirthDate: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), Sex: entity.SexMale}

	pediatric := &entity.CIE11Code{Code: "KA00", MaxAge: intPtr(14)}
	assert.NoError(t, cie11.CheckPatient(pediatric, child, at))
	assert.ErrorIs(t, cie11.CheckPatient(pediatric, adult, at), cie11.ErrPatientOutOfRange)

	adultOnly := &entity.CIE11Code{Code: "6C40", MinAge: intPtr(18)}
	assert.ErrorIs(t, cie11.CheckPatient(adultOnly, child, at), cie11.ErrPatientOutOfRange)

	obstetric := &entity.CIE11Code{Code: "JA00", Sex: entity.SexFemale}
	assert.NoError(t, cie11.CheckPatient(obstetric, child, at))
	assert.ErrorIs(t, cie11.CheckPatient(obstetric, adult, at), cie11.ErrPatientOutOfRange)
}
