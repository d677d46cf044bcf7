package infra

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRecortarNoParteRunas(t *testing.T) {
	// Nombres de corte con acentos: el corte debe caer en un limite de runa.
	corto := recortar("Solomillo extraído de añojo", 10)
	assert.True(t, utf8.ValidString(corto))
	assert.Equal(t, "Solomillo…", corto)

	assert.Equal(t, "Lomo", recortar("Lomo", 10))
	assert.Equal(t, "Costilla", recortar("Costilla", 8))
}
