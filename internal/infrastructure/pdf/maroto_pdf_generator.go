// Package pdf genera el menú semanal imprimible.
//
// Layout de la página A4 apaisada:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                     │  Semana del X al Y    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Día | Almuerzo | Cena                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR a la app (si hay URL) + leyenda                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 46, Green: 125, Blue: 50}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var weekdays = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.MenuPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa ports.MenuPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appURL string
}

// NewMarotoPDFGenerator construye el generador. appURL vacío = sin QR.
func NewMarotoPDFGenerator(appURL string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appURL: strings.TrimRight(appURL, "/")}
}

// WeeklyMenu genera el PDF de los 7 días desde menu.StartDate y devuelve sus bytes.
func (g *MarotoPDFGenerator) WeeklyMenu(menu ports.WeeklyMenu) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(menu.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(menu))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(dayRows(menu)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.footerRows()...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(menu ports.WeeklyMenu) core.Row {
	end := menu.StartDate.AddDate(0, 0, 6)
	return row.New(16).Add(
		col.New(7).Add(
			text.New(menu.Title, props.Text{
				Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Semana del %s al %s", shortDate(menu.StartDate), shortDate(end)), props.Text{
				Size: 10, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2, Left: 1,
		}))
	}
	return row.New(9).Add(h("Día", 2), h("Almuerzo", 5), h("Cena", 5))
}

// dayRows una fila por día, aunque no tenga comidas planificadas.
func dayRows(menu ports.WeeklyMenu) []core.Row {
	byDay := make(map[string]map[string][]ports.MenuEntry, 7)
	for _, e := range menu.Entries {
		key := e.Fecha.Format(entity.DateLayout)
		if byDay[key] == nil {
			byDay[key] = make(map[string][]ports.MenuEntry, 2)
		}
		byDay[key][e.TipoComida] = append(byDay[key][e.TipoComida], e)
	}

	rows := make([]core.Row, 0, 7)
	for i := 0; i < 7; i++ {
		day := menu.StartDate.AddDate(0, 0, i)
		meals := byDay[day.Format(entity.DateLayout)]
		rows = append(rows, row.New(16).Add(
			col.New(2).Add(
				text.New(weekdays[day.Weekday()], props.Text{Style: fontstyle.Bold, Size: 9, Top: 2, Left: 1}),
				text.New(shortDate(day), props.Text{Size: 8, Top: 7, Left: 1, Color: colorGray}),
			),
			mealCol(meals[string(entity.MealTypeAlmuerzo)]),
			mealCol(meals[string(entity.MealTypeCena)]),
		))
	}
	return rows
}

func mealCol(entries []ports.MenuEntry) core.Col {
	if len(entries) == 0 {
		return col.New(5).Add(text.New("—", props.Text{Size: 9, Top: 2, Left: 1, Color: colorGray}))
	}
	names := make([]string, 0, len(entries))
	var notes []string
	for _, e := range entries {
		names = append(names, e.RecipeName)
		if e.Notas != "" {
			notes = append(notes, e.Notas)
		}
	}
	c := col.New(5).Add(text.New(strings.Join(names, " / "), props.Text{Size: 9, Top: 2, Left: 1}))
	if len(notes) > 0 {
		c.Add(text.New(strings.Join(notes, " · "), props.Text{Size: 7, Top: 8, Left: 1, Color: colorGray}))
	}
	return c
}

func (g *MarotoPDFGenerator) footerRows() []core.Row {
	legend := text.New("Generado por Menú Semanal.", props.Text{Size: 7, Top: 3, Color: colorGray})
	if g.appURL == "" {
		return []core.Row{row.New(8).Add(col.New(12).Add(legend))}
	}
	return []core.Row{row.New(30).Add(
		col.New(2).Add(code.NewQr(g.appURL, props.Rect{Percent: 95, Center: true})),
		col.New(10).Add(
			text.New("Escanea el código para ver el menú actualizado.", props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New(g.appURL, props.Text{Size: 8, Top: 10, Left: 3, Color: colorPrimary}),
		),
	)}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func shortDate(t time.Time) string {
	return t.Format("02/01/2006")
}
