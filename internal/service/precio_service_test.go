package service

import (
	"context"
	"testing"

	"desposte/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubItemRepo struct {
	porID      map[uuid.UUID]model.Item
	porCodigo  []model.Item
	upserts    []model.Item
	rechazados []model.PrecioRechazado
}

func (s *stubItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	if it, ok := s.porID[id]; ok {
		return &it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubItemRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	var out []model.Item
	for _, id := range ids {
		if it, ok := s.porID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubItemRepo) FindByCodigos(ctx context.Context, codigos, normalizados []string) ([]model.Item, error) {
	return s.porCodigo, nil
}

func (s *stubItemRepo) UpsertPorCodigo(ctx context.Context, tx *gorm.DB, item *model.Item) error {
	s.upserts = append(s.upserts, *item)
	return nil
}

func (s *stubItemRepo) CreateRechazado(ctx context.Context, tx *gorm.DB, r *model.PrecioRechazado) error {
	s.rechazados = append(s.rechazados, *r)
	return nil
}

func (s *stubItemRepo) DB() *gorm.DB { return nil }

type stubListaRepo struct {
	porReferencia []model.ListaPrecio
	porNombre     []model.ListaPrecio
}

func (s *stubListaRepo) ListActivos(ctx context.Context) ([]model.ListaPrecio, error) {
	return append(s.porReferencia, s.porNombre...), nil
}

func (s *stubListaRepo) FindActivosPorReferencias(ctx context.Context, referencias, normalizadas []string) ([]model.ListaPrecio, error) {
	return s.porReferencia, nil
}

func (s *stubListaRepo) FindActivosPorNombres(ctx context.Context, nombres []string) ([]model.ListaPrecio, error) {
	return s.porNombre, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestResolverDetallesPrecedencia(t *testing.T) {
	itemVinculado := model.Item{
		ID:             uuid.New(),
		CodigoProducto: "900",
		Nombre:         "LOMO FINO",
		PrecioVenta:    dec("32000"),
	}
	itemPorCodigo := model.Item{
		ID:             uuid.New(),
		CodigoProducto: "0123",
		Nombre:         "COSTILLA",
		PrecioVenta:    dec("15500"),
	}
	items := &stubItemRepo{
		porID:     map[uuid.UUID]model.Item{itemVinculado.ID: itemVinculado},
		porCodigo: []model.Item{itemPorCodigo},
	}
	listas := &stubListaRepo{
		porReferencia: []model.ListaPrecio{
			{Referencia: "450", Descripcion: "PUNTA DE ANCA", Precio: decPtr("28000"), Activo: true},
		},
		porNombre: []model.ListaPrecio{
			{Referencia: "777", Descripcion: "Murillo", Precio: decPtr("9900"), Activo: true},
		},
	}
	svc := NewPrecioService(items, listas)

	detalles := []model.TallerDetalle{
		{ItemID: &itemVinculado.ID, CodigoProducto: "otro", NombreSubcorte: "ignorado"},
		{CodigoProducto: "123", NombreSubcorte: "costilla carga"},
		{CodigoProducto: "00450", NombreSubcorte: "punta"},
		{CodigoProducto: "999", NombreSubcorte: "MURILLO"},
		{CodigoProducto: "111", NombreSubcorte: "Hueso blanco"},
	}
	res, err := svc.ResolverDetalles(context.Background(), detalles)
	require.NoError(t, err)
	require.Len(t, res, 5)

	assert.Equal(t, OrigenItemVinculado, res[0].Origen)
	assert.Equal(t, "LOMO FINO", res[0].Descripcion)
	assert.True(t, res[0].Precio.Equal(dec("32000")))
	require.NotNil(t, res[0].ItemID)
	assert.Equal(t, itemVinculado.ID, *res[0].ItemID)

	// "123" matchea el item "0123" por codigo normalizado.
	assert.Equal(t, OrigenItemCodigo, res[1].Origen)
	assert.Equal(t, "COSTILLA", res[1].Descripcion)

	// "00450" normaliza a "450" y cae en la lista de precios.
	assert.Equal(t, OrigenListaCodigo, res[2].Origen)
	assert.True(t, res[2].Precio.Equal(dec("28000")))

	// Sin codigo conocido, el nombre libre matchea la descripcion.
	assert.Equal(t, OrigenListaNombre, res[3].Origen)
	assert.True(t, res[3].Precio.Equal(dec("9900")))

	// Sin match en ningun canal: precio cero, nunca error.
	assert.Equal(t, OrigenSinPrecio, res[4].Origen)
	assert.True(t, res[4].Precio.IsZero())
	assert.Equal(t, "Hueso blanco", res[4].Descripcion)
}

func TestResolverDetallesPrefierePrecioMenor(t *testing.T) {
	listas := &stubListaRepo{
		porReferencia: []model.ListaPrecio{
			{Referencia: "77", Descripcion: "BRAZO A", Precio: decPtr("10.00"), Activo: true},
			{Referencia: "077", Descripcion: "BRAZO B", Precio: decPtr("8.00"), Activo: true},
			{Referencia: "77", Descripcion: "BRAZO C", Precio: nil, Activo: true},
		},
	}
	svc := NewPrecioService(&stubItemRepo{}, listas)

	res, err := svc.ResolverDetalles(context.Background(), []model.TallerDetalle{
		{CodigoProducto: "77", NombreSubcorte: "brazo"},
	})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, OrigenListaCodigo, res[0].Origen)
	assert.True(t, res[0].Precio.Equal(dec("8.00")), "gana el precio menor: %s", res[0].Precio)
	assert.Equal(t, "BRAZO B", res[0].Descripcion)
}

func TestResolverDetallesFilaSinPrecioDegradaACero(t *testing.T) {
	listas := &stubListaRepo{
		porReferencia: []model.ListaPrecio{
			{Referencia: "55", Descripcion: "VISCERAS", Precio: nil, Activo: true},
		},
	}
	svc := NewPrecioService(&stubItemRepo{}, listas)

	res, err := svc.ResolverDetalles(context.Background(), []model.TallerDetalle{
		{CodigoProducto: "55", NombreSubcorte: "visceras"},
	})
	require.NoError(t, err)
	assert.Equal(t, OrigenListaCodigo, res[0].Origen)
	assert.True(t, res[0].Precio.IsZero())
}

func TestConsultarPorCodigo(t *testing.T) {
	items := &stubItemRepo{porCodigo: []model.Item{
		{ID: uuid.New(), CodigoProducto: "42", Nombre: "PECHO", PrecioVenta: dec("12000")},
	}}
	svc := NewPrecioService(items, &stubListaRepo{})

	res, err := svc.ConsultarPorCodigo(context.Background(), " 042 ")
	require.NoError(t, err)
	assert.Equal(t, OrigenItemCodigo, res.Origen)
	assert.Equal(t, "PECHO", res.Descripcion)
	assert.True(t, res.Precio.Equal(dec("12000")))
}
