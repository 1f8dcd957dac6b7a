package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// violatedConstraint nombre del constraint violado, si el error viene de PostgreSQL.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// scopeClause devuelve el predicado de alcance para el alias dado y agrega su argumento.
// family_id tiene prioridad sobre user_id; un Scope vacío no filtra.
func scopeClause(alias string, scope repository.Scope, args []any) (string, []any) {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	switch {
	case scope.FamilyID != "":
		args = append(args, scope.FamilyID)
		return fmt.Sprintf("%sfamily_id = $%d", prefix, len(args)), args
	case scope.UserID != "":
		args = append(args, scope.UserID)
		return fmt.Sprintf("%suser_id = $%d", prefix, len(args)), args
	default:
		return "TRUE", args
	}
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref inverso de nullable.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
