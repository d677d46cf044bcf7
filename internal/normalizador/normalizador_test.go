package normalizador

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizarCodigo(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"007", "7"},
		{"  AB  12 ", "AB12"},
		{"000", "0"},
		{"0", "0"},
		{"ab12", "AB12"},
		{" 33647 ", "33647"},
		{"", ""},
		{"C/RES PECHO", "C/RESPECHO"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizarCodigo(tc.in), "entrada %q", tc.in)
	}
}

func TestNormalizarCodigoIdempotente(t *testing.T) {
	for _, raw := range []string{"007", "  AB  12 ", "0", "x Y z", "00980"} {
		una := NormalizarCodigo(raw)
		assert.Equal(t, una, NormalizarCodigo(una))
	}
}

func TestNormalizarSede(t *testing.T) {
	sede, ok := NormalizarSede("ciudad jardín")
	assert.True(t, ok)
	assert.Equal(t, "Ciudad Jardin", sede)

	sede, ok = NormalizarSede("BOGOTA")
	assert.True(t, ok)
	assert.Equal(t, "Bogota", sede)

	sede, ok = NormalizarSede("Bogotá D.C.")
	assert.True(t, ok)
	assert.Equal(t, "Bogota", sede)

	sede, ok = NormalizarSede("  palmira ")
	assert.True(t, ok)
	assert.Equal(t, "Palmira", sede)

	_, ok = NormalizarSede("Medellin")
	assert.False(t, ok)

	_, ok = NormalizarSede("   ")
	assert.False(t, ok)
}

func TestLimpiarItem(t *testing.T) {
	assert.Equal(t, "AMPOLLETA NORMAL", LimpiarItem(" C/RES ampolleta  normal - "))
	assert.Equal(t, "5585", LimpiarItem(" 5585 "))
	assert.Equal(t, "RECORTE", LimpiarItem("(recorte)"))
}

func TestEsEspecieValida(t *testing.T) {
	assert.True(t, EsEspecieValida("res"))
	assert.True(t, EsEspecieValida("cerdo"))
	assert.False(t, EsEspecieValida("pollo"))
	assert.False(t, EsEspecieValida(""))
}
