package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Auditoria-api/internal/application/dto"
	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/domain/access"
	"github.com/jhoicas/Auditoria-api/internal/domain/cie11"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
	"github.com/jhoicas/Auditoria-api/internal/domain/repository"
	"github.com/jhoicas/Auditoria-api/pkg/textnorm"
)

// CIE11UseCase catálogo de diagnósticos y validación de códigos.
type CIE11UseCase struct {
	repo    repository.CIE11Repository
	maxRows int
}

// NewCIE11UseCase construye el caso de uso.
func NewCIE11UseCase(repo repository.CIE11Repository, maxRows int) *CIE11UseCase {
	return &CIE11UseCase{repo: repo, maxRows: maxRows}
}

// Validate normaliza code y decide si existe, está activo y es facturable.
func (uc *CIE11UseCase) Validate(ctx context.Context, code string) (cie11.Result, error) {
	res, _, err := uc.lookup(ctx, code)
	return res, err
}

func (uc *CIE11UseCase) lookup(ctx context.Context, code string) (cie11.Result, *entity.CIE11Code, error) {
	code = cie11.NormalizeCode(code)
	var found *entity.CIE11Code
	if cie11.ValidFormat(code) {
		var err error
		found, err = uc.repo.GetByCode(ctx, code)
		if err != nil {
			return cie11.Result{}, nil, err
		}
	}
	return cie11.Check(code, found), found, nil
}

// ValidateForPatient valida code y además sus restricciones de edad y sexo frente al paciente
// en la fecha de prestación. Cualquier rechazo es domain.ErrInvalidDiagnosis.
func (uc *CIE11UseCase) ValidateForPatient(ctx context.Context, code string, patient *entity.Patient, at time.Time) (*entity.CIE11Code, error) {
	res, found, err := uc.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if !res.IsValid {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrInvalidDiagnosis, res.Code, res.Reason)
	}
	if err := cie11.CheckPatient(found, patient, at); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDiagnosis, err)
	}
	return found, nil
}

// Create registra un código en el catálogo.
func (uc *CIE11UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateCIE11Request) (*dto.CIE11Response, error) {
	now := time.Now()
	c := &entity.CIE11Code{
		ID:          newID(),
		Code:        cie11.NormalizeCode(in.Code),
		Description: strings.TrimSpace(in.Description),
		Chapter:     strings.TrimSpace(in.Chapter),
		MinAge:      in.MinAge,
		MaxAge:      in.MaxAge,
		Sex:         strings.ToUpper(strings.TrimSpace(in.Sex)),
		Billable:    in.Billable == nil || *in.Billable,
		Active:      true,
		CreatedBy:   actor.UserID,
		UpdatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateCIE11(c); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, c.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toCIE11Response(c)
	return &out, nil
}

func validateCIE11(c *entity.CIE11Code) error {
	if !cie11.ValidFormat(c.Code) {
		return invalidf("código %q con formato inválido", c.Code)
	}
	if c.Description == "" {
		return invalidf("description es requerida")
	}
	if err := cie11.ValidateAgeRange(c.MinAge, c.MaxAge); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if c.Sex != "" && c.Sex != entity.SexMale && c.Sex != entity.SexFemale {
		return invalidf("sex debe ser M, F o vacío")
	}
	return nil
}

// GetByID obtiene un código del catálogo.
func (uc *CIE11UseCase) GetByID(ctx context.Context, id string) (*dto.CIE11Response, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCIE11Response(c)
	return &out, nil
}

func (uc *CIE11UseCase) get(ctx context.Context, id string) (*entity.CIE11Code, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// Update modifica los campos enviados. El código en sí no cambia.
func (uc *CIE11UseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateCIE11Request) (*dto.CIE11Response, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	trimPtr(&c.Description, in.Description)
	trimPtr(&c.Chapter, in.Chapter)
	if in.MinAge != nil {
		c.MinAge = in.MinAge
	}
	if in.MaxAge != nil {
		c.MaxAge = in.MaxAge
	}
	if in.ClearMinAge {
		c.MinAge = nil
	}
	if in.ClearMaxAge {
		c.MaxAge = nil
	}
	if in.Sex != nil {
		c.Sex = strings.ToUpper(strings.TrimSpace(*in.Sex))
	}
	if in.Billable != nil {
		c.Billable = *in.Billable
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := validateCIE11(c); err != nil {
		return nil, err
	}
	c.UpdatedBy = actor.UserID
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := toCIE11Response(c)
	return &out, nil
}

// Delete desactiva el código: deja de ser válido para nuevos servicios.
func (uc *CIE11UseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	c, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	c.Active = false
	c.UpdatedBy = actor.UserID
	c.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, c)
}

// Un término con dígitos y forma de código se busca por prefijo de código.
var codePrefixPattern = regexp.MustCompile(`^[0-9A-Z]{1,4}(\.[0-9A-Z]{0,4})?$`)

func looksLikeCode(s string) bool {
	return codePrefixPattern.MatchString(s) && strings.ContainsAny(s, "0123456789")
}

// List busca en el catálogo por prefijo de código o por fragmento de descripción sin tildes.
func (uc *CIE11UseCase) List(ctx context.Context, in dto.CIE11Filter) (*dto.ListResponse[dto.CIE11Response], error) {
	in.DefaultPage()
	f := withActive(repository.NewFilter(), in.Active)
	if in.Billable != nil {
		f = f.Eq(repository.FieldBillable, *in.Billable)
	}
	if s := strings.TrimSpace(in.Search); s != "" {
		if code := cie11.NormalizeCode(s); looksLikeCode(code) {
			f = f.Where(repository.FieldCode, repository.OpPrefix, code)
		} else {
			f = f.Where(repository.FieldSearch, repository.OpILike, textnorm.Fold(s))
		}
	}
	list, total, err := uc.repo.List(ctx, f, repository.Page{Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CIE11Response, 0, len(list))
	for _, c := range list {
		items = append(items, toCIE11Response(c))
	}
	return &dto.ListResponse[dto.CIE11Response]{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

var cie11ImportColumns = columnAliases{
	"code":        {"codigo", "código", "cod"},
	"description": {"descripcion", "descripción", "nombre"},
	"chapter":     {"capitulo", "capítulo"},
	"minAge":      {"edad minima", "edad mínima", "edad min"},
	"maxAge":      {"edad maxima", "edad máxima", "edad max"},
	"sex":         {"sexo"},
	"billable":    {"facturable"},
}

// Import carga códigos desde una hoja.
func (uc *CIE11UseCase) Import(ctx context.Context, actor access.Actor, rows [][]string) (*dto.ImportSummary, error) {
	return runImport(ctx, "cie11", rows, uc.maxRows, cie11ImportColumns, func(ctx context.Context, row importRow) (string, error) {
		key := cie11.NormalizeCode(row.get("code"))
		if err := requiredFields(row, "code", "description"); err != nil {
			return key, err
		}
		in := dto.CreateCIE11Request{
			Code:        key,
			Description: row.get("description"),
			Chapter:     row.get("chapter"),
			Sex:         row.get("sex"),
		}
		var err error
		if in.MinAge, err = optionalInt("minAge", row.get("minAge")); err != nil {
			return key, err
		}
		if in.MaxAge, err = optionalInt("maxAge", row.get("maxAge")); err != nil {
			return key, err
		}
		if v := row.get("billable"); v != "" {
			b, ok := parseYesNo(v)
			if !ok {
				return key, invalidf("billable %q no válido", v)
			}
			in.Billable = &b
		}
		_, err = uc.Create(ctx, actor, in)
		return key, err
	})
}

func optionalInt(field, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, invalidf("%s debe ser un número entero", field)
	}
	return &n, nil
}

func parseYesNo(s string) (bool, bool) {
	switch textnorm.Key(s) {
	case "si", "s", "true", "1", "yes", "x":
		return true, true
	case "no", "n", "false", "0":
		return false, true
	}
	return false, false
}
