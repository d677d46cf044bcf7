package service

import (
	"context"
	"testing"
	"time"

	"desposte/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTendencia(t *testing.T) {
	assert.Nil(t, tendencia(0, 0), "sin periodo previo comparable")

	subio := tendencia(3, 0)
	require.NotNil(t, subio)
	assert.Equal(t, 100.0, *subio)

	mitadMas := tendencia(6, 4)
	require.NotNil(t, mitadMas)
	assert.Equal(t, 50.0, *mitadMas)

	mitadMenos := tendencia(2, 4)
	require.NotNil(t, mitadMenos)
	assert.Equal(t, -50.0, *mitadMenos)
}

func TestEstadoTaller(t *testing.T) {
	completado := model.Taller{
		PesoInicial: dec("100"),
		PesoFinal:   dec("70"),
		Detalles: []model.TallerDetalle{
			{Peso: dec("29")},
		},
	}
	assert.Equal(t, estadoCompletado, estadoTaller(&completado))

	enProceso := model.Taller{PesoInicial: dec("100"), PesoFinal: dec("40")}
	assert.Equal(t, estadoEnProceso, estadoTaller(&enProceso))

	pendiente := model.Taller{PesoInicial: dec("100")}
	assert.Equal(t, estadoPendiente, estadoTaller(&pendiente))

	// Peso inicial cero degrada a pendiente en lugar de dividir por cero.
	sinBase := model.Taller{PesoFinal: dec("10")}
	assert.Equal(t, estadoPendiente, estadoTaller(&sinBase))
}

func TestDashboardResumen(t *testing.T) {
	ahora := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	hoy := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	talleres := newStubTallerRepo()
	agregar := func(creado time.Time, pesoInicial, pesoFinal string, detalles []model.TallerDetalle) {
		id := uuid.New()
		talleres.creados = append(talleres.creados, &model.Taller{
			ID:          id,
			PesoInicial: dec(pesoInicial),
			PesoFinal:   dec(pesoFinal),
			Detalles:    detalles,
			CreatedAt:   creado,
		})
	}

	// Completado hoy: 99% recuperado exacto.
	agregar(hoy.Add(9*time.Hour), "100", "99", nil)
	// Activo creado dentro de la ventana actual, con inventario escaso.
	agregar(hoy.AddDate(0, 0, -2), "100", "45", []model.TallerDetalle{
		{CodigoProducto: "A", Peso: dec("5")},
	})
	// Activo de la ventana previa, con inventario holgado.
	agregar(hoy.AddDate(0, 0, -10), "100", "40", []model.TallerDetalle{
		{CodigoProducto: "B", Peso: dec("50")},
	})

	sede := "Palmira"
	usuarios := &stubUsuarioRepo{usuarios: []model.Usuario{
		{ID: uuid.New(), Username: "op1", Activo: true, Sede: &sede},
		{ID: uuid.New(), Username: "ex", Activo: false},
	}}

	svc := NewDashboardService(talleres, usuarios, func() time.Time { return ahora })
	stats, err := svc.Resumen(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TalleresActivos.Value)
	// Un activo en cada ventana: tendencia plana.
	require.NotNil(t, stats.TalleresActivos.Trend)
	assert.Equal(t, 0.0, *stats.TalleresActivos.Trend)

	assert.Equal(t, 1, stats.CompletadosHoy.Value)
	// Ayer no hubo completados: la tendencia reporta 100.
	require.NotNil(t, stats.CompletadosHoy.Trend)
	assert.Equal(t, 100.0, *stats.CompletadosHoy.Trend)

	// Solo el grupo "A" (5 kg) queda por debajo del umbral.
	assert.Equal(t, 1, stats.InventarioBajo.Value)
	require.NotNil(t, stats.InventarioBajo.Trend)
	assert.Equal(t, 100.0, *stats.InventarioBajo.Trend)

	assert.Equal(t, 1, stats.UsuariosActivos.Value)
}
