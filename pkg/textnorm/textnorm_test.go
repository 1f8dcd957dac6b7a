package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "noquis de papa", Fold("Ñoquis  de Papá"))
	assert.Equal(t, "cafe con leche", Fold(" CAFÉ con leche "))
	assert.Equal(t, "", Fold("   "))
}

func TestSearchKey(t *testing.T) {
	assert.Equal(t, "pasta salsa de tomate", SearchKey("Pasta", "", "Salsa de Tomate"))
	assert.Contains(t, SearchKey("Milanesa", "Con puré"), Fold("PURÉ"))
}
