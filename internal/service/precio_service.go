package service

import (
	"context"
	"strings"

	"desposte/internal/calculo"
	"desposte/internal/model"
	"desposte/internal/normalizador"
	"desposte/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Origen de un precio resuelto, en orden de precedencia.
const (
	OrigenItemVinculado = "item_vinculado"
	OrigenItemCodigo    = "item_codigo"
	OrigenListaCodigo   = "lista_codigo"
	OrigenListaNombre   = "lista_nombre"
	OrigenSinPrecio     = "sin_precio"
)

// PrecioResuelto es el resultado de mapear un subcorte a un precio unitario.
// La ausencia de match nunca es error: degrada a precio cero con la
// descripcion propia del subcorte, porque los talleres historicos pueden
// referenciar codigos retirados del catalogo.
type PrecioResuelto struct {
	Descripcion string
	Precio      decimal.Decimal
	Origen      string
	ItemID      *uuid.UUID
}

type PrecioService interface {
	// ResolverDetalles resuelve en lote los precios de los subcortes de un
	// taller. El slice devuelto queda alineado uno a uno con la entrada.
	ResolverDetalles(ctx context.Context, detalles []model.TallerDetalle) ([]PrecioResuelto, error)
	// ConsultarPorCodigo resuelve un unico codigo contra el catalogo.
	ConsultarPorCodigo(ctx context.Context, codigo string) (*PrecioResuelto, error)
}

type precioService struct {
	items  repository.ItemRepository
	listas repository.ListaPreciosRepository
}

func NewPrecioService(items repository.ItemRepository, listas repository.ListaPreciosRepository) PrecioService {
	return &precioService{items: items, listas: listas}
}

func (s *precioService) ResolverDetalles(ctx context.Context, detalles []model.TallerDetalle) ([]PrecioResuelto, error) {
	// 1. Claves del lote: codigos crudos, codigos normalizados y nombres
	// libres. Todo se busca de una sola vez, nunca fila por fila.
	var (
		codigos      []string
		normalizados []string
		nombres      []string
		itemIDs      []uuid.UUID
	)
	vistosCod := make(map[string]bool)
	vistosNom := make(map[string]bool)
	vistosID := make(map[uuid.UUID]bool)

	for _, d := range detalles {
		if raw := strings.TrimSpace(d.CodigoProducto); raw != "" {
			norm := normalizador.NormalizarCodigo(raw)
			if !vistosCod[norm] {
				vistosCod[norm] = true
				codigos = append(codigos, raw)
				normalizados = append(normalizados, norm)
			}
		}
		if nombre := strings.ToLower(strings.TrimSpace(d.NombreSubcorte)); nombre != "" && !vistosNom[nombre] {
			vistosNom[nombre] = true
			nombres = append(nombres, nombre)
		}
		if d.ItemID != nil && !vistosID[*d.ItemID] {
			vistosID[*d.ItemID] = true
			itemIDs = append(itemIDs, *d.ItemID)
		}
	}

	// 2. Items vinculados por FK y por codigo normalizado.
	itemsPorID := make(map[uuid.UUID]model.Item)
	vinculados, err := s.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	for _, it := range vinculados {
		itemsPorID[it.ID] = it
	}

	itemsPorCodigo := make(map[string]model.Item)
	candidatosItem, err := s.items.FindByCodigos(ctx, codigos, normalizados)
	if err != nil {
		return nil, err
	}
	for _, it := range candidatosItem {
		norm := normalizador.NormalizarCodigo(it.CodigoProducto)
		if _, ok := itemsPorCodigo[norm]; !ok && vistosCod[norm] {
			itemsPorCodigo[norm] = it
		}
	}

	// 3. Lista de precios por referencia normalizada, mas recientes primero.
	listaPorCodigo := make(map[string]*model.ListaPrecio)
	candidatosLista, err := s.listas.FindActivosPorReferencias(ctx, codigos, normalizados)
	if err != nil {
		return nil, err
	}
	for i := range candidatosLista {
		fila := &candidatosLista[i]
		norm := normalizador.NormalizarCodigo(fila.Referencia)
		if !vistosCod[norm] {
			// La consulta SQL puede sobre-traer; el filtro fino es aca.
			continue
		}
		listaPorCodigo[norm] = elegirMejorPrecio(listaPorCodigo[norm], fila)
	}

	// 4. Segundo canal: match exacto case-insensitive de descripcion o
	// referencia contra el nombre libre del subcorte.
	listaPorNombre := make(map[string]*model.ListaPrecio)
	candidatosNombre, err := s.listas.FindActivosPorNombres(ctx, nombres)
	if err != nil {
		return nil, err
	}
	for i := range candidatosNombre {
		fila := &candidatosNombre[i]
		for _, clave := range []string{
			strings.ToLower(strings.TrimSpace(fila.Descripcion)),
			strings.ToLower(strings.TrimSpace(fila.Referencia)),
		} {
			if clave == "" || !vistosNom[clave] {
				continue
			}
			listaPorNombre[clave] = elegirMejorPrecio(listaPorNombre[clave], fila)
		}
	}

	// 5. Precedencia por subcorte.
	resueltos := make([]PrecioResuelto, len(detalles))
	for i, d := range detalles {
		resueltos[i] = s.resolverUno(d, itemsPorID, itemsPorCodigo, listaPorCodigo, listaPorNombre)
	}
	return resueltos, nil
}

func (s *precioService) resolverUno(
	d model.TallerDetalle,
	itemsPorID map[uuid.UUID]model.Item,
	itemsPorCodigo map[string]model.Item,
	listaPorCodigo map[string]*model.ListaPrecio,
	listaPorNombre map[string]*model.ListaPrecio,
) PrecioResuelto {
	if d.ItemID != nil {
		if it, ok := itemsPorID[*d.ItemID]; ok {
			return resueltoDesdeItem(it, OrigenItemVinculado)
		}
	}

	norm := normalizador.NormalizarCodigo(d.CodigoProducto)
	if norm != "" {
		if it, ok := itemsPorCodigo[norm]; ok {
			return resueltoDesdeItem(it, OrigenItemCodigo)
		}
		if fila, ok := listaPorCodigo[norm]; ok {
			return resueltoDesdeLista(fila, OrigenListaCodigo)
		}
	}

	if nombre := strings.ToLower(strings.TrimSpace(d.NombreSubcorte)); nombre != "" {
		if fila, ok := listaPorNombre[nombre]; ok {
			return resueltoDesdeLista(fila, OrigenListaNombre)
		}
	}

	descripcion := strings.TrimSpace(d.NombreSubcorte)
	if descripcion == "" {
		descripcion = strings.TrimSpace(d.CodigoProducto)
	}
	return PrecioResuelto{Descripcion: descripcion, Precio: decimal.Zero, Origen: OrigenSinPrecio}
}

func (s *precioService) ConsultarPorCodigo(ctx context.Context, codigo string) (*PrecioResuelto, error) {
	resueltos, err := s.ResolverDetalles(ctx, []model.TallerDetalle{{CodigoProducto: codigo}})
	if err != nil {
		return nil, err
	}
	return &resueltos[0], nil
}

func resueltoDesdeItem(it model.Item, origen string) PrecioResuelto {
	descripcion := it.Nombre
	if descripcion == "" {
		descripcion = it.Descripcion
	}
	id := it.ID
	return PrecioResuelto{
		Descripcion: descripcion,
		Precio:      calculo.Redondear(it.PrecioVenta),
		Origen:      origen,
		ItemID:      &id,
	}
}

func resueltoDesdeLista(fila *model.ListaPrecio, origen string) PrecioResuelto {
	precio := decimal.Zero
	if fila.Precio != nil {
		precio = calculo.Redondear(*fila.Precio)
	}
	return PrecioResuelto{Descripcion: fila.Descripcion, Precio: precio, Origen: origen}
}

// elegirMejorPrecio decide entre dos filas activas que compiten por la misma
// clave: gana la de menor precio cuando ambas tienen precio, una con precio le
// gana a una sin precio, y ante empate irresoluble queda la primera vista.
// Preferir el precio minimo subestima el valor potencial en lugar de
// inflarlo.
func elegirMejorPrecio(actual, candidato *model.ListaPrecio) *model.ListaPrecio {
	if actual == nil {
		return candidato
	}
	if candidato == nil {
		return actual
	}
	switch {
	case actual.Precio == nil && candidato.Precio != nil:
		return candidato
	case actual.Precio != nil && candidato.Precio != nil && candidato.Precio.LessThan(*actual.Precio):
		return candidato
	default:
		return actual
	}
}
