package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

func TestScopeClause(t *testing.T) {
	tests := []struct {
		name     string
		scope    repository.Scope
		wantSQL  string
		wantArgs []any
	}{
		{"familia tiene prioridad", repository.Scope{UserID: "u", FamilyID: "f"}, "r.family_id = $2", []any{"id", "f"}},
		{"sin familia filtra por usuario", repository.Scope{UserID: "u"}, "r.user_id = $2", []any{"id", "u"}},
		{"vacío no filtra", repository.Scope{}, "TRUE", []any{"id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := scopeClause("r", tt.scope, []any{"id"})
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
