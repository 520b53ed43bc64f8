package usecase

import (
	"time"

	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	companyC1 = "11111111-1111-4111-8111-111111111111"
	companyC2 = "22222222-2222-4222-8222-222222222222"
	patientP1 = "33333333-3333-4333-8333-333333333333"
	doctorD1  = "44444444-4444-4444-8444-444444444444"
	doctorD2  = "55555555-5555-4555-8555-555555555555"
	adminID   = "66666666-6666-4666-8666-666666666666"
)

func superActor() access.Actor {
	return access.Actor{UserID: adminID, Role: entity.RoleSuperAdmin, Scope: access.Unrestricted()}
}

func c1Actor() access.Actor {
	return access.Actor{UserID: adminID, Role: entity.RoleAuditor, Scope: access.Companies(companyC1)}
}

func testCompany(id, nit string) *entity.Company {
	return &entity.Company{ID: id, Name: "IPS " + nit, NIT: nit, Active: true}
}

func testPatient() *entity.Patient {
	return &entity.Patient{
		ID: patientP1, DocumentType: entity.DocTypeCC, DocumentNumber: "1020304050",
		FirstName: "Ana", LastName: "Pérez", BirthDate: time.Date(1985, 5, 10, 0, 0, 0, 0, time.UTC),
		Sex: entity.SexFemale, Insurer: "SURA", Active: true,
	}
}

func testDoctor(id, companyID, card string) *entity.Doctor {
	return &entity.Doctor{ID: id, CompanyID: companyID, FirstName: "Luis", LastName: "Gómez", ProfessionalCard: card, Active: true}
}

func intPtr(v int) *int { return &v }

func testCodes() []*entity.CIE11Code {
	return []*entity.CIE11Code{
		{ID: newID(), Code: "5A11", Description: "Diabetes mellitus tipo 2", Billable: true, Active: true},
		{ID: newID(), Code: "BA00", Description: "Hipertensión esencial", Billable: true, Active: true},
		{ID: newID(), Code: "XX99", Description: "Código inactivo", Billable: true, Active: false},
		{ID: newID(), Code: "5A1Z", Description: "Diabetes sin especificar", Billable: false, Active: true},
		{ID: newID(), Code: "KA21", Description: "Afección perinatal", Billable: true, Active: true, MaxAge: intPtr(1)},
	}
}

func serviceRecord(id, companyID, status string, date time.Time, total, objected int64) *entity.ServiceRecord {
	return &entity.ServiceRecord{
		ID: id, CompanyID: companyID, PatientID: patientP1, DoctorID: doctorD1,
		ServiceDate: date, ServiceType: entity.ServiceTypeConsulta, DiagnosisCode: "5A11",
		Quantity: 1, UnitValue: decimal.NewFromInt(total), TotalValue: decimal.NewFromInt(total),
		CopayValue: decimal.Zero, ObjectedValue: decimal.NewFromInt(objected),
		Status: status, Active: true,
	}
}
