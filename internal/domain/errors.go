package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Autenticación
	ErrInvalidCredentials = errors.New("email o contraseña incorrectos")
	ErrAccountLocked      = errors.New("cuenta bloqueada temporalmente")
	ErrInvalidPassword    = errors.New("la contraseña actual es incorrecta")

	// Familias
	ErrAlreadyInFamily       = errors.New("el usuario ya pertenece a una familia")
	ErrInvalidInvitationCode = errors.New("código de invitación inválido")
	ErrNotFamilyMember       = errors.New("el usuario no es miembro de la familia")
	ErrMemberNotFound        = errors.New("el miembro indicado no pertenece a la familia")
	ErrFamilyOwner           = errors.New("operación no permitida sobre el creador de la familia")

	// Recetas
	ErrRecipeInUse = errors.New("la receta está asignada a una o más comidas planificadas")

	// Infraestructura opcional
	ErrStorageDisabled = errors.New("almacenamiento de archivos no configurado")
)
