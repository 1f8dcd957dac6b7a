package repository

import "github.com/luchotourn/menusemanal-sub000/internal/domain/entity"

// Scope delimita qué filas puede ver o modificar una consulta.
//
// Regla: FamilyID no vacío filtra por family_id; si no, UserID filtra por el creador;
// si ambos están vacíos la consulta no se filtra (solo herramientas de operador).
type Scope struct {
	UserID   string
	FamilyID string
}

// ScopeFor deriva el alcance de un usuario autenticado.
func ScopeFor(u *entity.User) Scope {
	if u == nil {
		return Scope{}
	}
	return Scope{UserID: u.ID, FamilyID: u.FamilyID}
}

// IsZero indica un alcance sin filtro.
func (s Scope) IsZero() bool {
	return s.UserID == "" && s.FamilyID == ""
}

// ByFamily indica si el filtro efectivo es por familia.
func (s Scope) ByFamily() bool {
	return s.FamilyID != ""
}

// Allows indica si una fila con ese dueño y familia cae dentro del alcance.
func (s Scope) Allows(ownerID, familyID string) bool {
	switch {
	case s.FamilyID != "":
		return familyID == s.FamilyID
	case s.UserID != "":
		return ownerID == s.UserID
	default:
		return true
	}
}
