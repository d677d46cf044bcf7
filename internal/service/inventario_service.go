package service

import (
	"context"
	"sort"

	"desposte/internal/calculo"
	"desposte/internal/dto"
	"desposte/internal/normalizador"
	"desposte/internal/repository"

	"github.com/shopspring/decimal"
)

type InventarioService interface {
	// Listar agrega el peso de los subcortes por (codigo normalizado, sede,
	// especie). La base ya agrupa por codigo crudo; la fusion de variantes
	// del mismo codigo ("07" y "7") ocurre aca.
	Listar(ctx context.Context, f dto.InventarioFilter) ([]dto.InventarioItem, error)
}

type inventarioService struct {
	talleres repository.TallerRepository
	items    repository.ItemRepository
}

func NewInventarioService(talleres repository.TallerRepository, items repository.ItemRepository) InventarioService {
	return &inventarioService{talleres: talleres, items: items}
}

type claveInventario struct {
	codigo  string
	sede    string
	especie string
}

func (s *inventarioService) Listar(ctx context.Context, f dto.InventarioFilter) ([]dto.InventarioItem, error) {
	if f.Sede != "" {
		if sede, ok := normalizador.NormalizarSede(f.Sede); ok {
			f.Sede = sede
		}
	}
	rows, err := s.talleres.Inventario(ctx, f)
	if err != nil {
		return nil, err
	}

	agregados := make(map[claveInventario]*dto.InventarioItem)
	var orden []claveInventario
	for _, r := range rows {
		clave := claveInventario{
			codigo:  normalizador.NormalizarCodigo(r.CodigoProducto),
			sede:    r.Sede,
			especie: r.Especie,
		}
		item, ok := agregados[clave]
		if !ok {
			item = &dto.InventarioItem{
				CodigoProducto: clave.codigo,
				Descripcion:    r.Descripcion,
				Sede:           r.Sede,
				Especie:        r.Especie,
			}
			agregados[clave] = item
			orden = append(orden, clave)
		}
		item.TotalPeso = item.TotalPeso.Add(r.TotalPeso)
		if item.Descripcion == "" {
			item.Descripcion = r.Descripcion
		}
	}

	if err := s.completarDescripciones(ctx, agregados); err != nil {
		return nil, err
	}

	salida := make([]dto.InventarioItem, 0, len(orden))
	for _, clave := range orden {
		item := agregados[clave]
		item.TotalPeso = calculo.NormalizarCero(calculo.Redondear(item.TotalPeso))
		// Sin registro de salidas todavia: todo lo producido sigue en planta.
		item.Entradas = item.TotalPeso
		item.SalidasPend = decimal.Zero
		salida = append(salida, *item)
	}
	sort.SliceStable(salida, func(i, j int) bool {
		return salida[i].TotalPeso.GreaterThan(salida[j].TotalPeso)
	})
	return salida, nil
}

// completarDescripciones prefiere el nombre de catalogo cuando el codigo
// existe como item; el texto libre del subcorte queda de respaldo.
func (s *inventarioService) completarDescripciones(ctx context.Context, agregados map[claveInventario]*dto.InventarioItem) error {
	var codigos, normalizados []string
	vistos := make(map[string]bool)
	for clave := range agregados {
		if clave.codigo == "" || vistos[clave.codigo] {
			continue
		}
		vistos[clave.codigo] = true
		codigos = append(codigos, clave.codigo)
		normalizados = append(normalizados, clave.codigo)
	}
	if len(codigos) == 0 {
		return nil
	}
	items, err := s.items.FindByCodigos(ctx, codigos, normalizados)
	if err != nil {
		return err
	}
	nombres := make(map[string]string)
	for _, it := range items {
		norm := normalizador.NormalizarCodigo(it.CodigoProducto)
		if _, ok := nombres[norm]; !ok && it.Nombre != "" {
			nombres[norm] = it.Nombre
		}
	}
	for clave, item := range agregados {
		if nombre, ok := nombres[clave.codigo]; ok {
			item.Descripcion = nombre
		}
	}
	return nil
}
