package usecase

import (
	"github.com/google/uuid"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
)

// validID evita enviar a la DB identificadores que no son UUID (se tratan como inexistentes).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func canEdit(u *entity.User) bool {
	return u != nil && u.Role.CanEdit()
}
