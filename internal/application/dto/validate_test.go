package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findField(errs []FieldError, field string) *FieldError {
	for i := range errs {
		if errs[i].Field == field {
			return &errs[i]
		}
	}
	return nil
}

func TestValidate_RegisterRequest(t *testing.T) {
	errs := Validate(RegisterRequest{Name: "Ana", Email: "no-es-email", Password: "123", Role: "admin"})
	require.Len(t, errs, 3)

	assert.Equal(t, "debe ser un email válido", findField(errs, "email").Message)
	assert.Equal(t, "debe tener al menos 6 caracteres", findField(errs, "password").Message)
	assert.Equal(t, "debe ser uno de: creator, commentator", findField(errs, "role").Message)

	assert.Nil(t, Validate(RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secreto", Role: "creator"}))
}

func TestValidate_MealPlanFecha(t *testing.T) {
	in := CreateMealPlanRequest{RecipeID: "0b7f4c8e-2f55-4f4e-9d43-3d7a2f1e9b10", Fecha: "02/06/2025", TipoComida: "desayuno"}
	errs := Validate(in)
	require.Len(t, errs, 2)
	assert.Equal(t, "debe tener formato YYYY-MM-DD", findField(errs, "fecha").Message)
	assert.NotNil(t, findField(errs, "tipoComida"))

	in.Fecha, in.TipoComida = "2025-06-02", "almuerzo"
	assert.Nil(t, Validate(in))
}

func TestValidate_RatingFueraDeRango(t *testing.T) {
	errs := Validate(RateRecipeRequest{Rating: 6})
	require.Len(t, errs, 1)
	assert.Equal(t, "rating", errs[0].Field)
	assert.Equal(t, "debe ser menor o igual a 5", errs[0].Message)

	assert.NotNil(t, Validate(RateRecipeRequest{Rating: 0}), "0 no es una calificación válida")
}

func TestValidate_ComentarioLargo(t *testing.T) {
	long := make([]rune, 501)
	for i := range long {
		long[i] = 'a'
	}
	errs := Validate(CreateCommentRequest{Comment: string(long)})
	require.Len(t, errs, 1)
	assert.Equal(t, "no puede superar 500 caracteres", errs[0].Message)
}

func TestValidate_NombreEnBlanco(t *testing.T) {
	errs := Validate(CreateRecipeRequest{Name: "   "})
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "no puede estar vacío", errs[0].Message)

	blank := " \t "
	assert.NotNil(t, findField(Validate(UpdateRecipeRequest{Name: &blank}), "name"))
	assert.NotNil(t, findField(Validate(CreateFamilyRequest{Name: "  "}), "name"))
	assert.NotNil(t, findField(Validate(CreateCommentRequest{Comment: "   "}), "comment"))
}

func TestValidate_UpdateRecipeLink(t *testing.T) {
	bad := "no es una url"
	errs := Validate(UpdateRecipeRequest{Link: &bad})
	require.Len(t, errs, 1)
	assert.Equal(t, "link", errs[0].Field)
	assert.Equal(t, "debe ser una URL válida", errs[0].Message)

	good := "https://example.com/pasta"
	assert.Nil(t, Validate(UpdateRecipeRequest{Link: &good}))
}
