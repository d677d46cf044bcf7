// Package calculo concentra la aritmetica decimal de rendimiento y merma.
// Toda escala, redondeo y clamp de ruido vive aca; ningun otro paquete debe
// reimplementar estas reglas.
package calculo

import "github.com/shopspring/decimal"

// Escala is the fixed-point scale used for weights, prices and percentages.
const Escala = 4

// toleranciaCero: magnitudes below this are arithmetic noise, not data.
var toleranciaCero = decimal.RequireFromString("0.0001")

var cien = decimal.NewFromInt(100)

// Redondear rounds to the canonical 4-decimal scale (half up).
func Redondear(d decimal.Decimal) decimal.Decimal {
	return d.Round(Escala)
}

// NormalizarCero snaps near-zero noise (|d| < 0.0001) to exactly zero so that
// repeated sums never surface as "-0.0000" in stored or displayed figures.
func NormalizarCero(d decimal.Decimal) decimal.Decimal {
	if d.Abs().LessThan(toleranciaCero) {
		return decimal.Zero
	}
	return d
}

// Perdida es peso_inicial - (peso_final + sum(pesos de subcortes)),
// normalizada contra ruido de redondeo.
func Perdida(pesoInicial, pesoFinal decimal.Decimal, pesos []decimal.Decimal) decimal.Decimal {
	total := pesoFinal
	for _, p := range pesos {
		total = total.Add(p)
	}
	return NormalizarCero(Redondear(pesoInicial.Sub(total)))
}

// PorcentajePerdida devuelve la merma como porcentaje del peso inicial.
// Con peso inicial <= 0 degrada a cero en lugar de dividir por cero: al leer
// un taller historico sin peso inicial el calculo nunca falla.
func PorcentajePerdida(pesoInicial, pesoFinal decimal.Decimal, pesos []decimal.Decimal) decimal.Decimal {
	if pesoInicial.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	perdida := Perdida(pesoInicial, pesoFinal, pesos)
	return NormalizarCero(Redondear(perdida.Div(pesoInicial).Mul(cien)))
}

// PorcentajeReal es la participacion de un subcorte sobre el peso base.
func PorcentajeReal(peso, base decimal.Decimal) decimal.Decimal {
	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return NormalizarCero(Redondear(peso.Div(base).Mul(cien)))
}

// ValorEstimado es peso * precio unitario resuelto, a escala canonica.
func ValorEstimado(peso, precio decimal.Decimal) decimal.Decimal {
	return NormalizarCero(Redondear(peso.Mul(precio)))
}
