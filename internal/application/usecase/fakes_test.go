package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
	"github.com/jhoicas/Auditoria-api/pkg/textnorm"
)

// values valores de los campos lógicos de un registro, para evaluar un Filter en memoria.
// Los campos de texto múltiple (búsqueda, arreglos) se representan como []string.
type values map[string]any

func matches(f repository.Filter, v values) bool {
	for _, c := range f.Conditions {
		if !matchCondition(c, v) {
			return false
		}
	}
	return true
}

func matchCondition(c repository.Condition, v values) bool {
	got, ok := v[c.Field]
	if !ok {
		panic(fmt.Sprintf("fake: campo %q no soportado", c.Field))
	}
	switch c.Op {
	case repository.OpEq:
		if list, isList := got.([]string); isList {
			return contains(list, fmt.Sprint(c.Value))
		}
		if ptr, isPtr := got.(*string); isPtr {
			return ptr != nil && *ptr == fmt.Sprint(c.Value)
		}
		return got == c.Value
	case repository.OpIn:
		want := c.Value.([]string)
		if list, isList := got.([]string); isList {
			for _, s := range list {
				if contains(want, s) {
					return true
				}
			}
			return false
		}
		return contains(want, fmt.Sprint(got))
	case repository.OpILike, repository.OpPrefix:
		needle := strings.ToLower(fmt.Sprint(c.Value))
		texts, isList := got.([]string)
		if !isList {
			texts = []string{fmt.Sprint(got)}
		}
		for _, t := range texts {
			t = strings.ToLower(t)
			if c.Op == repository.OpPrefix && strings.HasPrefix(t, needle) {
				return true
			}
			if c.Op == repository.OpILike && strings.Contains(t, needle) {
				return true
			}
		}
		return false
	case repository.OpGte:
		return !got.(time.Time).Before(c.Value.(time.Time))
	case repository.OpLte:
		return !got.(time.Time).After(c.Value.(time.Time))
	case repository.OpIsNull:
		ptr, _ := got.(*string)
		return (ptr == nil) == c.Value.(bool)
	}
	panic(fmt.Sprintf("fake: operador %q no soportado", c.Op))
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// memStore almacén genérico ordenado por inserción.
type memStore[T any] struct {
	mu     sync.Mutex
	items  map[string]*T
	order  []string
	fields func(*T) values
	id     func(*T) string
}

func newMemStore[T any](id func(*T) string, fields func(*T) values) *memStore[T] {
	return &memStore[T]{items: map[string]*T{}, fields: fields, id: id}
}

func (s *memStore[T]) put(item *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	id := s.id(&cp)
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = &cp
}

func (s *memStore[T]) get(id string) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil
	}
	cp := *item
	return &cp
}

func (s *memStore[T]) find(pred func(*T) bool) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if pred(s.items[id]) {
			cp := *s.items[id]
			return &cp
		}
	}
	return nil
}

func (s *memStore[T]) update(item *T) error {
	s.mu.Lock()
	_, ok := s.items[s.id(item)]
	s.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	s.put(item)
	return nil
}

// mutate aplica fn sobre el registro almacenado bajo el lock, como una sentencia UPDATE.
func (s *memStore[T]) mutate(id string, fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	return fn(item)
}

func (s *memStore[T]) filter(f repository.Filter) []*T {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*T
	for _, id := range s.order {
		if matches(f, s.fields(s.items[id])) {
			cp := *s.items[id]
			out = append(out, &cp)
		}
	}
	return out
}

func (s *memStore[T]) list(f repository.Filter, page repository.Page) ([]*T, int) {
	all := s.filter(f)
	page = page.Normalize()
	total := len(all)
	if page.Offset >= total {
		return []*T{}, total
	}
	end := page.Offset + page.Limit
	if end > total {
		end = total
	}
	return all[page.Offset:end], total
}

// ── Company ──────────────────────────────────────────────────────────────────

type fakeCompanyRepo struct{ *memStore[entity.Company] }

func newFakeCompanyRepo(companies ...*entity.Company) *fakeCompanyRepo {
	r := &fakeCompanyRepo{newMemStore(
		func(c *entity.Company) string { return c.ID },
		func(c *entity.Company) values {
			return values{
				repository.FieldID:      c.ID,
				repository.FieldCompany: c.ID,
				repository.FieldActive:  c.Active,
				repository.FieldSearch:  []string{c.Name, c.NIT},
			}
		},
	)}
	for _, c := range companies {
		r.put(c)
	}
	return r
}

func (r *fakeCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	if r.find(func(x *entity.Company) bool { return x.NIT == c.NIT }) != nil {
		return domain.ErrDuplicate
	}
	r.put(c)
	return nil
}
func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.get(id), nil
}
func (r *fakeCompanyRepo) GetByNIT(_ context.Context, nit string) (*entity.Company, error) {
	return r.find(func(x *entity.Company) bool { return x.NIT == nit }), nil
}
func (r *fakeCompanyRepo) Update(_ context.Context, c *entity.Company) error { return r.update(c) }
func (r *fakeCompanyRepo) List(_ context.Context, f repository.Filter, p repository.Page) ([]*entity.Company, int, error) {
	items, total := r.list(f, p)
	return items, total, nil
}

// ── User ─────────────────────────────────────────────────────────────────────

type fakeUserRepo struct{ *memStore[entity.User] }

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{newMemStore(
		func(u *entity.User) string { return u.ID },
		func(u *entity.User) values {
			return values{
				repository.FieldID:      u.ID,
				repository.FieldActive:  u.Active,
				repository.FieldRole:    u.Role,
				repository.FieldCompany: append([]string{}, u.AssignedCompanies...),
				repository.FieldSearch:  []string{u.Name, u.Email},
			}
		},
	)}
	for _, u := range users {
		r.put(u)
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if r.find(func(x *entity.User) bool { return strings.EqualFold(x.Email, u.Email) }) != nil {
		return domain.ErrEmailAlreadyExists
	}
	r.put(u)
	return nil
}
func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.get(id), nil
}
func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(x *entity.User) bool { return strings.EqualFold(x.Email, email) }), nil
}
// Update conserva contador, bloqueo y último acceso del registro guardado.
func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	err := r.mutate(u.ID, func(stored *entity.User) error {
		cp := *u
		cp.FailedLoginAttempts, cp.LockedUntil, cp.LastLoginAt = stored.FailedLoginAttempts, stored.LockedUntil, stored.LastLoginAt
		*stored = cp
		return nil
	})
	if err != nil {
		return domain.ErrUserNotFound
	}
	return nil
}
func (r *fakeUserRepo) RegisterFailedLogin(_ context.Context, id string, maxAttempts int, lockUntil, now time.Time) (int, *time.Time, error) {
	var attempts int
	var locked *time.Time
	err := r.mutate(id, func(u *entity.User) error {
		if u.LockedUntil != nil && !u.LockedUntil.After(now) {
			u.FailedLoginAttempts, u.LockedUntil = 0, nil
		}
		u.FailedLoginAttempts++
		if u.FailedLoginAttempts >= maxAttempts {
			until := lockUntil
			u.LockedUntil = &until
		}
		attempts, locked = u.FailedLoginAttempts, u.LockedUntil
		return nil
	})
	return attempts, locked, err
}
func (r *fakeUserRepo) RegisterSuccessfulLogin(_ context.Context, id string, now time.Time) (bool, error) {
	ok := false
	err := r.mutate(id, func(u *entity.User) error {
		if u.Active && !u.IsLocked(now) {
			u.FailedLoginAttempts, u.LockedUntil, u.LastLoginAt = 0, nil, &now
			ok = true
		}
		return nil
	})
	return ok, err
}
func (r *fakeUserRepo) Unlock(_ context.Context, id, updatedBy string, now time.Time) error {
	err := r.mutate(id, func(u *entity.User) error {
		u.FailedLoginAttempts, u.LockedUntil = 0, nil
		u.UpdatedBy, u.UpdatedAt = updatedBy, now
		return nil
	})
	if err != nil {
		return domain.ErrUserNotFound
	}
	return nil
}
func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, hash, updatedBy string, now time.Time) error {
	err := r.mutate(id, func(u *entity.User) error {
		u.PasswordHash, u.UpdatedBy, u.UpdatedAt = hash, updatedBy, now
		return nil
	})
	if err != nil {
		return domain.ErrUserNotFound
	}
	return nil
}
func (r *fakeUserRepo) List(_ context.Context, f repository.Filter, p repository.Page) ([]*entity.User, int, error) {
	items, total := r.list(f, p)
	return items, total, nil
}

// ── Doctor ───────────────────────────────────────────────────────────────────

type fakeDoctorRepo struct{ *memStore[entity.Doctor] }

func newFakeDoctorRepo(doctors ...*entity.Doctor) *fakeDoctorRepo {
	r := &fakeDoctorRepo{newMemStore(
		func(d *entity.Doctor) string { return d.ID },
		func(d *entity.Doctor) values {
			return values{
				repository.FieldID:        d.ID,
				repository.FieldCompany:   d.CompanyID,
				repository.FieldActive:    d.Active,
				repository.FieldSpecialty: d.Specialty,
				repository.FieldSearch:    []string{d.FirstName, d.LastName, d.DocumentNumber, d.ProfessionalCard},
			}
		},
	)}
	for _, d := range doctors {
		r.put(d)
	}
	return r
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *entity.Doctor) error {
	if r.find(func(x *entity.Doctor) bool { return x.ProfessionalCard == d.ProfessionalCard }) != nil {
		return domain.ErrDuplicate
	}
	r.put(d)
	return nil
}
func (r *fakeDoctorRepo) GetByID(_ context.Context, id string) (*entity.Doctor, error) {
	return r.get(id), nil
}
func (r *fakeDoctorRepo) GetByProfessionalCard(_ context.Context, card string) (*entity.Doctor, error) {
	return r.find(func(x *entity.Doctor) bool { return x.ProfessionalCard == card }), nil
}
func (r *fakeDoctorRepo) Update(_ context.Context, d *entity.Doctor) error { return r.update(d) }
func (r *fakeDoctorRepo) List(_ context.Context, f repository.Filter, p repository.Page) ([]*entity.Doctor, int, error) {
	items, total := r.list(f, p)
	return items, total, nil
}

// ── Patient ──────────────────────────────────────────────────────────────────

type fakePatientRepo struct{ *memStore[entity.Patient] }

func newFakePatientRepo(patients ...*entity.Patient) *fakePatientRepo {
	r := &fakePatientRepo{newMemStore(
		func(p *entity.Patient) string { return p.ID },
		func(p *entity.Patient) values {
			return values{
				repository.FieldID:       p.ID,
				repository.FieldActive:   p.Active,
				repository.FieldInsurer:  p.Insurer,
				repository.FieldDocument: p.DocumentNumber,
				repository.FieldSearch:   []string{p.FirstName, p.LastName, p.DocumentNumber},
			}
		},
	)}
	for _, p := range patients {
		r.put(p)
	}
	return r
}

func (r *fakePatientRepo) Create(_ context.Context, p *entity.Patient) error {
	if r.find(func(x *entity.Patient) bool {
		return x.DocumentType == p.DocumentType && x.DocumentNumber == p.DocumentNumber
	}) != nil {
		return domain.ErrDuplicate
	}
	r.put(p)
	return nil
}
func (r *fakePatientRepo) GetByID(_ context.Context, id string) (*entity.Patient, error) {
	return r.get(id), nil
}
func (r *fakePatientRepo) GetByDocument(_ context.Context, docType, number string) (*entity.Patient, error) {
	return r.find(func(x *entity.Patient) bool {
		return x.DocumentType == docType && x.DocumentNumber == number
	}), nil
}
func (r *fakePatientRepo) Update(_ context.Context, p *entity.Patient) error { return r.update(p) }
func (r *fakePatientRepo) List(_ context.Context, f repository.Filter, pg repository.Page) ([]*entity.Patient, int, error) {
	items, total := r.list(f, pg)
	return items, total, nil
}

// ── CIE-11 ───────────────────────────────────────────────────────────────────

type fakeCIE11Repo struct{ *memStore[entity.CIE11Code] }

func newFakeCIE11Repo(codes ...*entity.CIE11Code) *fakeCIE11Repo {
	r := &fakeCIE11Repo{newMemStore(
		func(c *entity.CIE11Code) string { return c.ID },
		func(c *entity.CIE11Code) values {
			return values{
				repository.FieldID:       c.ID,
				repository.FieldCode:     c.Code,
				repository.FieldActive:   c.Active,
				repository.FieldBillable: c.Billable,
				repository.FieldSearch:   []string{c.Code, textnorm.Fold(c.Description)},
			}
		},
	)}
	for _, c := range codes {
		r.put(c)
	}
	return r
}

func (r *fakeCIE11Repo) Create(_ context.Context, c *entity.CIE11Code) error {
	if r.find(func(x *entity.CIE11Code) bool { return x.Code == c.Code }) != nil {
		return domain.ErrDuplicate
	}
	r.put(c)
	return nil
}
func (r *fakeCIE11Repo) GetByID(_ context.Context, id string) (*entity.CIE11Code, error) {
	return r.get(id), nil
}
func (r *fakeCIE11Repo) GetByCode(_ context.Context, code string) (*entity.CIE11Code, error) {
	return r.find(func(x *entity.CIE11Code) bool { return x.Code == code }), nil
}
func (r *fakeCIE11Repo) Update(_ context.Context, c *entity.CIE11Code) error { return r.update(c) }
func (r *fakeCIE11Repo) List(_ context.Context, f repository.Filter, p repository.Page) ([]*entity.CIE11Code, int, error) {
	items, total := r.list(f, p)
	return items, total, nil
}

// ── ServiceRecord ────────────────────────────────────────────────────────────

type fakeServiceRepo struct {
	*memStore[entity.ServiceRecord]
	patients *fakePatientRepo
}

func newFakeServiceRepo(patients *fakePatientRepo, records ...*entity.ServiceRecord) *fakeServiceRepo {
	r := &fakeServiceRepo{patients: patients}
	r.memStore = newMemStore(
		func(s *entity.ServiceRecord) string { return s.ID },
		func(s *entity.ServiceRecord) values {
			insurer := ""
			if p := r.patients.get(s.PatientID); p != nil {
				insurer = p.Insurer
			}
			return values{
				repository.FieldID:            s.ID,
				repository.FieldCompany:       s.CompanyID,
				repository.FieldActive:        s.Active,
				repository.FieldStatus:        s.Status,
				repository.FieldPatient:       s.PatientID,
				repository.FieldDoctor:        s.DoctorID,
				repository.FieldDiagnosis:     s.DiagnosisCode,
				repository.FieldServiceType:   s.ServiceType,
				repository.FieldDateFrom:      s.ServiceDate,
				repository.FieldDateTo:        s.ServiceDate,
				repository.FieldPreBill:       s.PreBillID,
				repository.FieldObjectedBelow: s.ObjectedValue.LessThan(s.TotalValue),
				repository.FieldInsurer:       insurer,
				repository.FieldSearch:        []string{s.AuthorizationNumber, s.ProcedureCode, s.Description, s.DiagnosisCode},
			}
		},
	)
	for _, s := range records {
		r.put(s)
	}
	return r
}

func (r *fakeServiceRepo) Create(_ context.Context, s *entity.ServiceRecord) error {
	r.put(s)
	return nil
}
func (r *fakeServiceRepo) GetByID(_ context.Context, id string) (*entity.ServiceRecord, error) {
	return r.get(id), nil
}
func (r *fakeServiceRepo) Update(_ context.Context, s *entity.ServiceRecord) error {
	return r.mutate(s.ID, func(stored *entity.ServiceRecord) error {
		if !stored.Active || !stored.Editable() {
			return domain.ErrConflict
		}
		*stored = *s
		return nil
	})
}
func (r *fakeServiceRepo) List(_ context.Context, f repository.Filter, p repository.Page) ([]*entity.ServiceRecord, int, error) {
	items, total := r.list(f, p)
	return items, total, nil
}
func (r *fakeServiceRepo) ListForUpdate(_ context.Context, f repository.Filter) ([]*entity.ServiceRecord, error) {
	return r.filter(f), nil
}
func (r *fakeServiceRepo) AttachToPreBill(_ context.Context, ids []string, preBillID, userID string, now time.Time) error {
	for _, id := range ids {
		s := r.get(id)
		if s == nil || s.PreBillID != nil {
			return domain.ErrConflict
		}
		pb := preBillID
		s.PreBillID = &pb
		s.Status = entity.ServiceStatusBilled
		s.UpdatedBy = userID
		s.UpdatedAt = now
		r.put(s)
	}
	return nil
}
func (r *fakeServiceRepo) ReleaseFromPreBill(_ context.Context, preBillID, userID string, now time.Time) error {
	for _, s := range r.filter(repository.NewFilter().Eq(repository.FieldPreBill, preBillID)) {
		s.PreBillID = nil
		s.Status = entity.ServiceStatusApproved
		if s.ObjectedValue.IsPositive() {
			s.Status = entity.ServiceStatusObjected
		}
		s.UpdatedBy = userID
		s.UpdatedAt = now
		r.put(s)
	}
	return nil
}
func (r *fakeServiceRepo) ListByPreBill(_ context.Context, preBillID string) ([]*entity.ServiceRecord, error) {
	items := r.filter(repository.NewFilter().Eq(repository.FieldPreBill, preBillID))
	sort.Slice(items, func(i, j int) bool { return items[i].ServiceDate.Before(items[j].ServiceDate) })
	return items, nil
}

// ── PreBill ──────────────────────────────────────────────────────────────────

type fakePreBillRepo struct {
	*memStore[entity.PreBill]
	seq map[string]int64
}

func newFakePreBillRepo() *fakePreBillRepo {
	return &fakePreBillRepo{
		memStore: newMemStore(
			func(p *entity.PreBill) string { return p.ID },
			func(p *entity.PreBill) values {
				return values{
					repository.FieldID:      p.ID,
					repository.FieldCompany: p.CompanyID,
					repository.FieldActive:  p.Active,
					repository.FieldStatus:  p.Status,
					repository.FieldInsurer: p.Insurer,
					repository.FieldSearch:  []string{p.Number, p.Insurer},
				}
			},
		),
		seq: map[string]int64{},
	}
}

func (r *fakePreBillRepo) Create(_ context.Context, p *entity.PreBill) error {
	r.put(p)
	return nil
}
func (r *fakePreBillRepo) GetByID(_ context.Context, id string) (*entity.PreBill, error) {
	return r.get(id), nil
}
func (r *fakePreBillRepo) Transition(_ context.Context, p *entity.PreBill, from string) error {
	return r.mutate(p.ID, func(stored *entity.PreBill) error {
		if stored.Status != from {
			return domain.ErrConflict
		}
		stored.Status, stored.IssuedAt, stored.CancelledAt = p.Status, p.IssuedAt, p.CancelledAt
		stored.UpdatedBy, stored.UpdatedAt = p.UpdatedBy, p.UpdatedAt
		return nil
	})
}
func (r *fakePreBillRepo) List(_ context.Context, f repository.Filter, pg repository.Page) ([]*entity.PreBill, int, error) {
	items, total := r.list(f, pg)
	return items, total, nil
}
func (r *fakePreBillRepo) NextNumber(_ context.Context, companyID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq[companyID]++
	return r.seq[companyID], nil
}

// fakeTx ejecuta el callback sobre los mismos repos en memoria (sin rollback).
type fakeTx struct {
	preBills *fakePreBillRepo
	services *fakeServiceRepo
	calls    int
}

func (t *fakeTx) RunPreBill(_ context.Context, fn func(repository.PreBillRepository, repository.ServiceRecordRepository) error) error {
	t.calls++
	return fn(t.preBills, t.services)
}
