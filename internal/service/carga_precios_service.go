package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"desposte/internal/calculo"
	"desposte/internal/dto"
	"desposte/internal/model"
	"desposte/internal/normalizador"
	"desposte/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// columnas requeridas en la planilla, matcheadas por nombre sin distinguir
// mayusculas.
var columnasRequeridas = []string{"item", "descripcion", "precio_venta"}

type CargaPreciosService interface {
	// CargarPlanilla procesa un xlsx de precios: las filas validas se
	// upsertean al catalogo por codigo limpio y las invalidas quedan
	// registradas con motivo. Una fila mala nunca tumba el lote.
	CargarPlanilla(ctx context.Context, archivo io.Reader, fuente string) (*dto.CargaPreciosResponse, error)
}

type cargaPreciosService struct {
	items repository.ItemRepository
}

func NewCargaPreciosService(items repository.ItemRepository) CargaPreciosService {
	return &cargaPreciosService{items: items}
}

type filaPrecio struct {
	item    model.Item
	valida  bool
	rechazo model.PrecioRechazado
}

func (s *cargaPreciosService) CargarPlanilla(ctx context.Context, archivo io.Reader, fuente string) (*dto.CargaPreciosResponse, error) {
	f, err := excelize.OpenReader(archivo)
	if err != nil {
		return nil, errors.New("No se pudo leer el archivo: se espera un xlsx")
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, errors.New("El archivo no tiene hojas")
	}
	rows, err := f.GetRows(hojas[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, errors.New("El archivo esta vacio")
	}

	columnas, err := mapearColumnas(rows[0])
	if err != nil {
		return nil, err
	}

	filas := make([]filaPrecio, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if filaVacia(row) {
			continue
		}
		filas = append(filas, s.procesarFila(row, columnas, fuente))
	}

	resp := &dto.CargaPreciosResponse{}
	err = runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		for i := range filas {
			fila := &filas[i]
			if fila.valida {
				if err := s.items.UpsertPorCodigo(ctx, tx, &fila.item); err != nil {
					return err
				}
				resp.InsertadosActualizados++
				continue
			}
			if err := s.items.CreateRechazado(ctx, tx, &fila.rechazo); err != nil {
				return err
			}
			resp.Rechazados++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// mapearColumnas ubica las columnas requeridas por nombre en la fila de
// encabezado, sin importar el orden ni las mayusculas.
func mapearColumnas(encabezado []string) (map[string]int, error) {
	indices := make(map[string]int, len(columnasRequeridas))
	for i, celda := range encabezado {
		nombre := strings.ToLower(normalizador.NormalizarTexto(celda))
		if _, ya := indices[nombre]; !ya {
			indices[nombre] = i
		}
	}
	for _, requerida := range columnasRequeridas {
		if _, ok := indices[requerida]; !ok {
			return nil, errors.New("Columnas requeridas: " + strings.Join(columnasRequeridas, ", "))
		}
	}
	return indices, nil
}

func (s *cargaPreciosService) procesarFila(row []string, columnas map[string]int, fuente string) filaPrecio {
	rawItem := celda(row, columnas["item"])
	rawDesc := celda(row, columnas["descripcion"])
	rawPrecio := celda(row, columnas["precio_venta"])

	rechazar := func(motivo string) filaPrecio {
		return filaPrecio{rechazo: model.PrecioRechazado{
			RawItem:        rawItem,
			RawDescripcion: rawDesc,
			RawPrecio:      rawPrecio,
			Motivo:         motivo,
			FuenteArchivo:  fuente,
		}}
	}

	codigo := normalizador.LimpiarItem(rawItem)
	if codigo == "" {
		return rechazar("item vacio")
	}
	precio, err := decimal.NewFromString(strings.TrimSpace(rawPrecio))
	if err != nil || precio.LessThan(decimal.Zero) {
		return rechazar("precio_venta invalido")
	}

	return filaPrecio{
		valida: true,
		item: model.Item{
			CodigoProducto: codigo,
			Nombre:         normalizador.NormalizarTexto(strings.ToUpper(rawDesc)),
			Descripcion:    rawDesc,
			Activo:         true,
			PrecioVenta:    calculo.Redondear(precio),
			FuenteArchivo:  fuente,
		},
	}
}

func celda(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func filaVacia(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
