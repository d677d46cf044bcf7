// Package normalizador canonicaliza codigos de producto y nombres de sede
// para que todas las busquedas del catalogo toleren espacios, ceros a la
// izquierda y tildes. Es consumido por la resolucion de precios, el ETL de
// archivos y la resolucion de sede al crear talleres.
package normalizador

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Especies validas para un taller.
const (
	EspecieRes   = "res"
	EspecieCerdo = "cerdo"
)

// Sedes is the fixed set of branch locations. Order matters only for display.
var Sedes = []string{
	"Ciudad Jardin",
	"Calle 5ta",
	"La 39",
	"Centro Sur",
	"Floresta",
	"Plaza Norte",
	"Floralia",
	"Guaduales",
	"Palmira",
	"Bogota",
	"Chia",
	"Planta",
}

var (
	quitarAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	espacios      = regexp.MustCompile(`\s+`)
	noAlfanum     = regexp.MustCompile(`[^a-z0-9]+`)
	soloDigitos   = regexp.MustCompile(`^[0-9]+$`)
	tokenCorteRes = regexp.MustCompile(`(?i)\bC/[A-ZÁÉÍÓÚÑ0-9\-_.]+`)
	bordePunct    = regexp.MustCompile(`^[\s\-_(),;:\[\]]+|[\s\-_(),;:\[\]]+$`)

	sedePorClave map[string]string
)

func init() {
	sedePorClave = make(map[string]string, len(Sedes))
	for _, sede := range Sedes {
		sedePorClave[claveSede(sede)] = sede
	}
}

// NormalizarCodigo produce la clave canonica de comparacion de un codigo:
// sin espacios, en mayusculas, y con ceros a la izquierda eliminados cuando el
// codigo es puramente numerico (un resultado vacio se vuelve "0").
// Es idempotente: NormalizarCodigo(NormalizarCodigo(x)) == NormalizarCodigo(x).
func NormalizarCodigo(raw string) string {
	s := espacios.ReplaceAllString(strings.TrimSpace(raw), "")
	s = strings.ToUpper(s)
	if soloDigitos.MatchString(s) {
		s = strings.TrimLeft(s, "0")
		if s == "" {
			s = "0"
		}
	}
	return s
}

// NormalizarSede matchea un nombre libre de sede contra la lista fija.
// Devuelve el nombre canonico y false cuando no hay match; el caller decide si
// eso es un error.
func NormalizarSede(raw string) (string, bool) {
	clave := claveSede(raw)
	if clave == "" {
		return "", false
	}
	sede, ok := sedePorClave[clave]
	return sede, ok
}

// EsEspecieValida reports whether the species tag is one of the two supported.
func EsEspecieValida(especie string) bool {
	return especie == EspecieRes || especie == EspecieCerdo
}

// NormalizarTexto colapsa espacios internos y recorta los bordes. Es la
// limpieza minima de cualquier celda de texto importada.
func NormalizarTexto(raw string) string {
	return strings.TrimSpace(espacios.ReplaceAllString(raw, " "))
}

// LimpiarItem limpia una celda de codigo proveniente de un archivo de precios:
// mayusculas, sin tokens "C/..." y sin puntuacion en los bordes.
func LimpiarItem(raw string) string {
	s := espacios.ReplaceAllString(strings.TrimSpace(raw), " ")
	s = strings.ToUpper(s)
	s = tokenCorteRes.ReplaceAllString(s, "")
	s = espacios.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return bordePunct.ReplaceAllString(s, "")
}

// claveSede reduce un nombre de sede a su clave de comparacion: sin tildes,
// minusculas, solo alfanumericos separados por un espacio. Dos variantes
// historicas de escritura se mapean a mano.
func claveSede(raw string) string {
	sinAcentos, _, err := transform.String(quitarAcentos, strings.TrimSpace(raw))
	if err != nil {
		sinAcentos = strings.TrimSpace(raw)
	}
	compact := noAlfanum.ReplaceAllString(strings.ToLower(sinAcentos), " ")
	compact = strings.TrimSpace(compact)
	if strings.HasPrefix(compact, "ciudad jard") {
		return "ciudad jardin"
	}
	if strings.HasPrefix(compact, "bogot") {
		return "bogota"
	}
	return compact
}
