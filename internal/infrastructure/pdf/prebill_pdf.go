// Package pdf genera el soporte imprimible de una prefactura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: IPS + NIT            │  N° Prefactura + Periodo     │
//	│  EMPRESA: Dirección / Tel / Email   │  EPS                   │
//	│  TABLA: Fecha | Paciente | CUPS | CIE-11 | Cant | Valor      │
//	│  TOTALES: Subtotal / Copagos / Glosas / NETO                 │
//	│  FOOTER: QR de verificación + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Auditoria-api/internal/application/usecase"
	"github.com/jhoicas/Auditoria-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var statusLabels = map[string]string{
	entity.PreBillStatusDraft:     "BORRADOR",
	entity.PreBillStatusIssued:    "EMITIDA",
	entity.PreBillStatusCancelled: "ANULADA",
}

// MarotoPDFGenerator implementa usecase.PreBillPDFGenerator con Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ usecase.PreBillPDFGenerator = (*MarotoPDFGenerator)(nil)

// GeneratePreBillPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePreBillPDF(
	ctx context.Context,
	preBill *entity.PreBill,
	company *entity.Company,
	lines []usecase.PreBillLine,
) ([]byte, error) {
	if preBill == nil || company == nil {
		return nil, fmt.Errorf("pdf: prefactura y empresa son obligatorias")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Prefactura "+preBill.Number, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(preBill, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(companyRow(preBill, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(preBill))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(preBill, company))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(p *entity.PreBill, company *entity.Company) core.Row {
	status := statusLabels[p.Status]
	statusColor := colorGray
	if p.Status == entity.PreBillStatusCancelled {
		statusColor = colorDanger
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("NIT: "+company.NIT, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("PREFACTURA DE SERVICIOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(p.Number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New(fmt.Sprintf("Periodo: %s a %s", p.PeriodStart.Format("02/01/2006"), p.PeriodEnd.Format("02/01/2006")),
				props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
			text.New(status, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 16, Color: statusColor}),
		),
	)
}

func companyRow(p *entity.PreBill, company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New("PRESTADOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "-"),
				nonEmpty(company.Phone, "-"),
				nonEmpty(company.Email, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("PAGADOR (EPS)", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(p.Insurer, "Todas"), props.Text{Size: 8, Align: align.Right, Top: 7}),
		),
	)
}

// widths de la tabla de servicios: suman 12.
var tableCols = []struct {
	label string
	size  int
	align align.Type
}{
	{"Fecha", 1, align.Left},
	{"Paciente", 3, align.Left},
	{"Médico", 2, align.Left},
	{"CUPS", 1, align.Center},
	{"CIE-11", 1, align.Center},
	{"Cant.", 1, align.Center},
	{"Valor", 2, align.Right},
	{"Estado", 1, align.Center},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(tableCols))
	for _, c := range tableCols {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: c.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func tableRows(lines []usecase.PreBillLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		s := l.Service
		if s == nil {
			continue
		}
		patient := l.PatientName
		if l.PatientDocument != "" {
			patient += " (" + l.PatientDocument + ")"
		}
		values := []string{
			s.ServiceDate.Format("02/01/06"),
			patient,
			l.DoctorName,
			s.ProcedureCode,
			s.DiagnosisCode,
			fmt.Sprintf("%d", s.Quantity),
			money(s.TotalValue),
			serviceStatusLabel(s),
		}
		cols := make([]core.Col, 0, len(tableCols))
		for i, c := range tableCols {
			cols = append(cols, col.New(c.size).Add(text.New(values[i], props.Text{
				Size: 7, Align: c.align, Top: 1, Left: 1, Right: 1,
			})))
		}
		rows = append(rows, row.New(6).Add(cols...))
	}
	if len(rows) == 0 {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Sin servicios asociados.", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
		)))
	}
	return rows
}

// serviceStatusLabel marca los servicios que entraron con glosa parcial.
func serviceStatusLabel(s *entity.ServiceRecord) string {
	if s.ObjectedValue.IsPositive() {
		return "Glosa " + money(s.ObjectedValue)
	}
	return "OK"
}

func totalsRow(p *entity.PreBill) core.Row {
	label := func(s string, grand bool) core.Component {
		t := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}
		if grand {
			t.Size, t.Color = 10, colorPrimary
		}
		return text.New(s, t)
	}
	value := func(s string, grand bool) core.Component {
		t := props.Text{Size: 9, Align: align.Right, Right: 1}
		if grand {
			t.Style, t.Size, t.Color = fontstyle.Bold, 10, colorPrimary
		}
		return text.New(s, t)
	}
	return row.New(30).Add(
		col.New(4).Add(text.New(fmt.Sprintf("Servicios incluidos: %d", p.ItemCount), props.Text{Size: 8, Top: 1, Color: colorGray})),
		col.New(4).Add(
			label("Subtotal:", false),
			label("Copagos / cuotas:", false),
			label("Glosas:", false),
			label("NETO A COBRAR:", true),
		),
		col.New(4).Add(
			value(money(p.Subtotal), false),
			value("-"+money(p.CopayTotal), false),
			value("-"+money(p.ObjectedTotal), false),
			value(money(p.NetTotal), true),
		),
	)
}

func footerRow(p *entity.PreBill, company *entity.Company) core.Row {
	qr := strings.Join([]string{p.Number, company.NIT, p.NetTotal.StringFixed(2), p.ID}, "|")
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Documento soporte de cobro. No constituye factura electrónica de venta.", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 6, Left: 3, Color: colorPrimary,
			}),
			text.New("Los valores glosados fueron descontados según el resultado de la auditoría médica. "+
				"El código QR identifica la prefactura, la IPS y el valor neto.", props.Text{
				Size: 7, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea un valor en pesos sin decimales: 1234567.8 → "$1.234.568".
func money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(0)
	n := len(s)
	buf := make([]byte, 0, n+n/3+2)
	if d.Round(0).IsNegative() {
		buf = append(buf, '-')
	}
	buf = append(buf, '$')
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
