package infra

// pdf.go — server-side rendering of the per-taller calculation report.
// A4 portrait: header with taller metadata, one table row per sub-cut
// (resolved description, price, weight, share, estimated value) and a
// totals line.

import (
	"bytes"
	"fmt"

	"desposte/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// InformePDF renders the calculation rows of one taller and returns the
// document bytes, ready to stream as a download.
func InformePDF(taller *dto.TallerResponse, rows []dto.TallerCalculoRow) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, taller.NombreTaller, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Sede: %s    Especie: %s", taller.Sede, taller.Especie), "", 1, "L", false, 0, "")
	linea := fmt.Sprintf("Peso inicial: %s kg    Peso final: %s kg",
		taller.PesoInicial.StringFixed(2), taller.PesoFinal.StringFixed(2))
	if taller.PorcentajePerdida != nil {
		linea += fmt.Sprintf("    Merma: %s%%", taller.PorcentajePerdida.StringFixed(2))
	}
	pdf.CellFormat(contentW, 5, linea, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	colCorte := contentW * 0.26
	colCodigo := contentW * 0.10
	colDesc := contentW * 0.24
	colPeso := contentW * 0.10
	colPct := contentW * 0.10
	colValor := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colCorte, 6, "Subcorte", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCodigo, 6, "Codigo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colDesc, 6, "Descripcion", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colPeso, 6, "Peso", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colPct, 6, "% Real", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colValor, 6, "Valor Est.", "B", 1, "R", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	totalValor := decimal.Zero
	totalPeso := decimal.Zero
	for _, r := range rows {
		pdf.CellFormat(colCorte, 5, recortar(r.NombreCorte, 34), "", 0, "L", false, 0, "")
		pdf.CellFormat(colCodigo, 5, r.CodigoProducto, "", 0, "L", false, 0, "")
		pdf.CellFormat(colDesc, 5, recortar(r.Descripcion, 30), "", 0, "L", false, 0, "")
		pdf.CellFormat(colPeso, 5, r.Peso.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colPct, 5, r.PorcentajeReal.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colValor, 5, "$"+r.ValorEstimado.StringFixed(2), "", 1, "R", false, 0, "")
		totalValor = totalValor.Add(r.ValorEstimado)
		totalPeso = totalPeso.Add(r.Peso)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colCorte+colCodigo+colDesc, 6, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(colPeso, 6, totalPeso.StringFixed(2), "T", 0, "R", false, 0, "")
	pdf.CellFormat(colPct, 6, "", "T", 0, "R", false, 0, "")
	pdf.CellFormat(colValor, 6, "$"+totalValor.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render informe: %w", err)
	}
	return buf.Bytes(), nil
}

// recortar corta por runas para no partir caracteres acentuados.
func recortar(s string, max int) string {
	runas := []rune(s)
	if len(runas) <= max {
		return s
	}
	return string(runas[:max-1]) + "…"
}
