package ports

import "time"

// MenuEntry una comida del menú semanal.
type MenuEntry struct {
	Fecha      time.Time
	TipoComida string
	RecipeName string
	Category   string
	Notas      string
}

// WeeklyMenu datos del menú a exportar.
type WeeklyMenu struct {
	Title     string
	StartDate time.Time
	Entries   []MenuEntry
}

// MenuPDFGenerator genera la representación imprimible del menú semanal.
type MenuPDFGenerator interface {
	WeeklyMenu(menu WeeklyMenu) ([]byte, error)
}
