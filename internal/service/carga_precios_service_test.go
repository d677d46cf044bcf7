package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func planillaDePrueba(t *testing.T, filas [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	hoja := f.GetSheetList()[0]
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(hoja, celda, &fila))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestCargarPlanilla(t *testing.T) {
	items := &stubItemRepo{}
	svc := NewCargaPreciosService(items)

	archivo := planillaDePrueba(t, [][]interface{}{
		{"ITEM", "Descripcion", "PRECIO_VENTA", "extra"},
		{"C/RES 0123", "  Lomo   fino ", "32000.5", "x"},
		{"450", "Punta de anca", "no-numerico", ""},
		{"451", "Costilla", "-10", ""},
		{"", "", "", ""},
		{"452", "Murillo", "9900", ""},
	})

	resp, err := svc.CargarPlanilla(context.Background(), archivo, "precios_marzo.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.InsertadosActualizados)
	assert.Equal(t, 2, resp.Rechazados)

	require.Len(t, items.upserts, 2)
	primero := items.upserts[0]
	// El token "C/RES" se elimina y el codigo queda limpio.
	assert.Equal(t, "0123", primero.CodigoProducto)
	assert.Equal(t, "LOMO FINO", primero.Nombre)
	assert.True(t, primero.PrecioVenta.Equal(dec("32000.5")))
	assert.Equal(t, "precios_marzo.xlsx", primero.FuenteArchivo)
	assert.True(t, primero.Activo)

	require.Len(t, items.rechazados, 2)
	assert.Equal(t, "precio_venta invalido", items.rechazados[0].Motivo)
	assert.Equal(t, "450", items.rechazados[0].RawItem)
	assert.Equal(t, "precio_venta invalido", items.rechazados[1].Motivo)
}

func TestCargarPlanillaSinColumnas(t *testing.T) {
	svc := NewCargaPreciosService(&stubItemRepo{})

	archivo := planillaDePrueba(t, [][]interface{}{
		{"codigo", "nombre", "valor"},
		{"1", "Lomo", "100"},
	})
	_, err := svc.CargarPlanilla(context.Background(), archivo, "otra.xlsx")
	require.Error(t, err)
	assert.Equal(t, "Columnas requeridas: item, descripcion, precio_venta", err.Error())
}

func TestCargarPlanillaArchivoInvalido(t *testing.T) {
	svc := NewCargaPreciosService(&stubItemRepo{})

	_, err := svc.CargarPlanilla(context.Background(), bytes.NewReader([]byte("no es un xlsx")), "basura.bin")
	require.Error(t, err)
}
