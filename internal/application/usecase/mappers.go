package usecase

import (
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

// ToUserResponse convierte un usuario a su salida pública (sin hash).
func ToUserResponse(u *entity.User) dto.UserResponse {
	perms := make([]dto.PermissionDTO, 0, len(u.CustomPermissions))
	for _, p := range u.CustomPermissions {
		perms = append(perms, dto.PermissionDTO{Module: p.Module, Actions: p.Actions})
	}
	companies := u.AssignedCompanies
	if companies == nil {
		companies = []string{}
	}
	return dto.UserResponse{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		AssignedCompanies:   companies,
		CanViewAllCompanies: u.CanViewAllCompanies,
		CustomPermissions:   perms,
		Active:              u.Active,
		Locked:              u.IsLocked(time.Now()),
		LockedUntil:         u.LockedUntil,
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func toCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		NIT:       c.NIT,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toDoctorResponse(d *entity.Doctor) dto.DoctorResponse {
	return dto.DoctorResponse{
		ID:               d.ID,
		CompanyID:        d.CompanyID,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		FullName:         d.FullName(),
		DocumentType:     d.DocumentType,
		DocumentNumber:   d.DocumentNumber,
		ProfessionalCard: d.ProfessionalCard,
		Specialty:        d.Specialty,
		Email:            d.Email,
		Phone:            d.Phone,
		Active:           d.Active,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func toPatientResponse(p *entity.Patient) dto.PatientResponse {
	return dto.PatientResponse{
		ID:             p.ID,
		DocumentType:   p.DocumentType,
		DocumentNumber: p.DocumentNumber,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		FullName:       p.FullName(),
		BirthDate:      formatDate(p.BirthDate),
		Age:            p.AgeAt(time.Now()),
		Sex:            p.Sex,
		Insurer:        p.Insurer,
		Regime:         p.Regime,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toCIE11Response(c *entity.CIE11Code) dto.CIE11Response {
	return dto.CIE11Response{
		ID:          c.ID,
		Code:        c.Code,
		Description: c.Description,
		Chapter:     c.Chapter,
		MinAge:      c.MinAge,
		MaxAge:      c.MaxAge,
		Sex:         c.Sex,
		Billable:    c.Billable,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toServiceRecordResponse(s *entity.ServiceRecord) dto.ServiceRecordResponse {
	related := s.RelatedDiagnoses
	if related == nil {
		related = []string{}
	}
	return dto.ServiceRecordResponse{
		ID:                  s.ID,
		CompanyID:           s.CompanyID,
		PatientID:           s.PatientID,
		DoctorID:            s.DoctorID,
		ServiceDate:         formatDate(s.ServiceDate),
		ServiceType:         s.ServiceType,
		ProcedureCode:       s.ProcedureCode,
		Description:         s.Description,
		DiagnosisCode:       s.DiagnosisCode,
		RelatedDiagnoses:    related,
		AuthorizationNumber: s.AuthorizationNumber,
		Quantity:            s.Quantity,
		UnitValue:           s.UnitValue,
		TotalValue:          s.TotalValue,
		CopayValue:          s.CopayValue,
		Status:              s.Status,
		AuditNotes:          s.AuditNotes,
		ObjectedValue:       s.ObjectedValue,
		AuditedBy:           s.AuditedBy,
		AuditedAt:           s.AuditedAt,
		PreBillID:           s.PreBillID,
		Active:              s.Active,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func toPreBillResponse(p *entity.PreBill) dto.PreBillResponse {
	return dto.PreBillResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		Number:        p.Number,
		PeriodStart:   formatDate(p.PeriodStart),
		PeriodEnd:     formatDate(p.PeriodEnd),
		Insurer:       p.Insurer,
		Status:        p.Status,
		ItemCount:     p.ItemCount,
		Subtotal:      p.Subtotal,
		CopayTotal:    p.CopayTotal,
		ObjectedTotal: p.ObjectedTotal,
		NetTotal:      p.NetTotal,
		Notes:         p.Notes,
		IssuedAt:      p.IssuedAt,
		CancelledAt:   p.CancelledAt,
		CreatedAt:     p.CreatedAt,
	}
}
