package repository

// Op operador de comparación de una condición.
type Op string

const (
	OpEq     Op = "eq"
	OpIn     Op = "in"     // Value []string; lista vacía no coincide con nada
	OpILike  Op = "ilike"  // contiene, sin distinguir mayúsculas
	OpPrefix Op = "prefix" // empieza por, sin distinguir mayúsculas
	OpGte    Op = "gte"
	OpLte    Op = "lte"
	OpIsNull Op = "isnull" // Value bool
)

// Campos lógicos filtrables. Cada adaptador los traduce a columnas propias.
const (
	FieldID            = "id"
	FieldCompany       = "company"
	FieldActive        = "active"
	FieldSearch        = "search"
	FieldStatus        = "status"
	FieldPatient       = "patient"
	FieldDoctor        = "doctor"
	FieldDiagnosis     = "diagnosis"
	FieldInsurer       = "insurer"
	FieldRole          = "role"
	FieldDateFrom      = "date_from"
	FieldDateTo        = "date_to"
	FieldPreBill       = "prebill"
	FieldCode          = "code"
	FieldBillable      = "billable"
	FieldDocument      = "document"
	FieldServiceType   = "service_type"
	FieldSpecialty     = "specialty"
	FieldObjectedBelow = "objected_below_total"
)

// Condition una comparación campo-operador-valor.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Filter predicado de consulta: conjunción (AND) de condiciones.
// Es inmutable: cada método devuelve una copia.
type Filter struct {
	Conditions []Condition
}

// NewFilter devuelve un predicado vacío (coincide con todo).
func NewFilter() Filter { return Filter{} }

// Where agrega una condición.
func (f Filter) Where(field string, op Op, value any) Filter {
	conds := make([]Condition, len(f.Conditions), len(f.Conditions)+1)
	copy(conds, f.Conditions)
	return Filter{Conditions: append(conds, Condition{Field: field, Op: op, Value: value})}
}

// Eq agrega field = value.
func (f Filter) Eq(field string, value any) Filter { return f.Where(field, OpEq, value) }

// In agrega field ∈ values.
func (f Filter) In(field string, values []string) Filter {
	vs := make([]string, len(values))
	copy(vs, values)
	return f.Where(field, OpIn, vs)
}

// Has informa si alguna condición usa field.
func (f Filter) Has(field string) bool {
	for _, c := range f.Conditions {
		if c.Field == field {
			return true
		}
	}
	return false
}

// Page paginación de listados.
type Page struct {
	Limit  int
	Offset int
}

// Normalize aplica límites por defecto (20, máximo 100).
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
