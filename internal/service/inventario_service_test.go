package service

import (
	"context"
	"testing"

	"desposte/internal/dto"
	"desposte/internal/model"
	"desposte/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventarioFusionaCodigosEquivalentes(t *testing.T) {
	talleres := newStubTallerRepo()
	talleres.inventario = []repository.InventarioRow{
		{CodigoProducto: "07", Descripcion: "Lomo", TotalPeso: dec("4"), Sede: "Palmira", Especie: "res"},
		{CodigoProducto: "7", Descripcion: "Lomo fino", TotalPeso: dec("6"), Sede: "Palmira", Especie: "res"},
		{CodigoProducto: "7", Descripcion: "Lomo cerdo", TotalPeso: dec("3"), Sede: "Palmira", Especie: "cerdo"},
		{CodigoProducto: "20", Descripcion: "Costilla", TotalPeso: dec("50"), Sede: "Bogota", Especie: "res"},
	}
	svc := NewInventarioService(talleres, &stubItemRepo{})

	items, err := svc.Listar(context.Background(), dto.InventarioFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Orden por peso total descendente.
	assert.Equal(t, "20", items[0].CodigoProducto)
	assert.True(t, items[0].TotalPeso.Equal(dec("50")))

	// "07" y "7" de la misma sede y especie son el mismo producto.
	assert.Equal(t, "7", items[1].CodigoProducto)
	assert.Equal(t, "Palmira", items[1].Sede)
	assert.Equal(t, "res", items[1].Especie)
	assert.True(t, items[1].TotalPeso.Equal(dec("10")))

	// La misma referencia en otra especie no se fusiona.
	assert.Equal(t, "7", items[2].CodigoProducto)
	assert.Equal(t, "cerdo", items[2].Especie)
	assert.True(t, items[2].TotalPeso.Equal(dec("3")))

	for _, it := range items {
		assert.True(t, it.Entradas.Equal(it.TotalPeso))
		assert.True(t, it.SalidasPend.IsZero())
	}
}

func TestInventarioPrefiereNombreDeCatalogo(t *testing.T) {
	talleres := newStubTallerRepo()
	talleres.inventario = []repository.InventarioRow{
		{CodigoProducto: "42", Descripcion: "texto libre", TotalPeso: dec("12"), Sede: "Palmira", Especie: "res"},
		{CodigoProducto: "99", Descripcion: "sin catalogo", TotalPeso: dec("8"), Sede: "Palmira", Especie: "res"},
	}
	items := &stubItemRepo{porCodigo: []model.Item{
		{ID: uuid.New(), CodigoProducto: "42", Nombre: "PECHO RES"},
	}}
	svc := NewInventarioService(talleres, items)

	salida, err := svc.Listar(context.Background(), dto.InventarioFilter{})
	require.NoError(t, err)
	require.Len(t, salida, 2)
	assert.Equal(t, "PECHO RES", salida[0].Descripcion)
	assert.Equal(t, "sin catalogo", salida[1].Descripcion)
}
