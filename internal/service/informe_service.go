package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"desposte/internal/dto"
	"desposte/internal/infra"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// InformeService exporta las filas de calculo de un taller como planilla o
// PDF. Ambos formatos parten de la misma re-derivacion de Calculo, nunca de
// datos cacheados.
type InformeService interface {
	ExportarXlsx(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	ExportarPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type informeService struct {
	talleres TallerService
}

func NewInformeService(talleres TallerService) InformeService {
	return &informeService{talleres: talleres}
}

var encabezadoInforme = []interface{}{
	"Subcorte", "Codigo", "Descripcion", "Precio Venta",
	"Peso", "% Real", "Delta %", "Valor Estimado",
}

func (s *informeService) ExportarXlsx(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	taller, rows, err := s.cargar(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	hoja := f.GetSheetList()[0]

	if err := f.SetSheetRow(hoja, "A1", &[]interface{}{taller.NombreTaller}); err != nil {
		return nil, "", err
	}
	meta := []interface{}{
		"Sede", taller.Sede, "Especie", taller.Especie,
		"Peso inicial", taller.PesoInicial.InexactFloat64(),
		"Peso final", taller.PesoFinal.InexactFloat64(),
	}
	if err := f.SetSheetRow(hoja, "A2", &meta); err != nil {
		return nil, "", err
	}
	if err := f.SetSheetRow(hoja, "A4", &encabezadoInforme); err != nil {
		return nil, "", err
	}
	for i, r := range rows {
		celda, err := excelize.CoordinatesToCellName(1, 5+i)
		if err != nil {
			return nil, "", err
		}
		fila := []interface{}{
			r.NombreCorte,
			r.CodigoProducto,
			r.Descripcion,
			r.PrecioVenta.InexactFloat64(),
			r.Peso.InexactFloat64(),
			r.PorcentajeReal.InexactFloat64(),
			r.DeltaPct.InexactFloat64(),
			r.ValorEstimado.InexactFloat64(),
		}
		if err := f.SetSheetRow(hoja, celda, &fila); err != nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), nombreArchivo(taller.NombreTaller, "xlsx"), nil
}

func (s *informeService) ExportarPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	taller, rows, err := s.cargar(ctx, id)
	if err != nil {
		return nil, "", err
	}
	b, err := infra.InformePDF(taller, rows)
	if err != nil {
		return nil, "", err
	}
	return b, nombreArchivo(taller.NombreTaller, "pdf"), nil
}

func (s *informeService) cargar(ctx context.Context, id uuid.UUID) (*dto.TallerResponse, []dto.TallerCalculoRow, error) {
	taller, err := s.talleres.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.talleres.Calculo(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return taller, rows, nil
}

func nombreArchivo(nombreTaller, extension string) string {
	limpio := strings.ToLower(strings.TrimSpace(nombreTaller))
	limpio = strings.ReplaceAll(limpio, " ", "_")
	if limpio == "" {
		limpio = "taller"
	}
	return fmt.Sprintf("informe_%s.%s", limpio, extension)
}
