package calculo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPerdidaEscenarioCompleto(t *testing.T) {
	// peso_inicial=100, peso_final=70, subcortes [20, 5] → perdida=5, 5%
	pesos := []decimal.Decimal{dec("20"), dec("5")}

	perdida := Perdida(dec("100"), dec("70"), pesos)
	assert.True(t, perdida.Equal(dec("5")), "perdida=%s", perdida)

	pct := PorcentajePerdida(dec("100"), dec("70"), pesos)
	assert.True(t, pct.Equal(dec("5")), "porcentaje=%s", pct)
}

func TestPerdidaClampRuido(t *testing.T) {
	// El residuo de sumar tercios a escala 4 es ruido, no merma real.
	pesos := []decimal.Decimal{dec("3.3333"), dec("3.3333"), dec("3.33336")}
	perdida := Perdida(dec("10"), decimal.Zero, pesos)
	assert.True(t, perdida.IsZero(), "perdida=%s", perdida)

	pct := PorcentajePerdida(dec("10"), decimal.Zero, pesos)
	assert.True(t, pct.IsZero(), "porcentaje=%s", pct)
}

func TestNormalizarCero(t *testing.T) {
	assert.True(t, NormalizarCero(dec("0.00009")).IsZero())
	assert.True(t, NormalizarCero(dec("-0.00009")).IsZero())
	assert.False(t, NormalizarCero(dec("0.0001")).IsZero())
	assert.False(t, NormalizarCero(dec("-0.0002")).IsZero())
}

func TestPorcentajePerdidaBaseCero(t *testing.T) {
	assert.True(t, PorcentajePerdida(decimal.Zero, dec("5"), nil).IsZero())
	assert.True(t, PorcentajePerdida(dec("-1"), dec("5"), nil).IsZero())
}

func TestPorcentajeReal(t *testing.T) {
	assert.True(t, PorcentajeReal(dec("20"), dec("100")).Equal(dec("20")))
	assert.True(t, PorcentajeReal(dec("1"), dec("3")).Equal(dec("33.3333")))
	assert.True(t, PorcentajeReal(dec("5"), decimal.Zero).IsZero())
}

func TestValorEstimado(t *testing.T) {
	assert.True(t, ValorEstimado(dec("2.5"), dec("10.1234")).Equal(dec("25.3085")))
	assert.True(t, ValorEstimado(dec("0"), dec("99")).IsZero())
}

func TestRedondear(t *testing.T) {
	assert.Equal(t, "1.2346", Redondear(dec("1.23456")).String())
	assert.Equal(t, "1.2345", Redondear(dec("1.23451")).String())
}
