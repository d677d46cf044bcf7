package service

import (
	"context"
	"testing"
	"time"

	"desposte/internal/dto"
	"desposte/internal/model"
	"desposte/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubTallerRepo struct {
	talleres  map[uuid.UUID]*model.Taller
	grupos    map[uuid.UUID]*model.TallerGrupo
	creados   []*model.Taller
	conteos    map[string]int64
	actividad  []repository.ActividadRow
	inventario []repository.InventarioRow
	borrados   []uuid.UUID

	actividadDesde time.Time
	actividadHasta time.Time
}

func newStubTallerRepo() *stubTallerRepo {
	return &stubTallerRepo{
		talleres: make(map[uuid.UUID]*model.Taller),
		grupos:   make(map[uuid.UUID]*model.TallerGrupo),
		conteos:  make(map[string]int64),
	}
}

func (s *stubTallerRepo) DB() *gorm.DB { return nil }

func (s *stubTallerRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Taller) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Detalles {
		if t.Detalles[i].ID == uuid.Nil {
			t.Detalles[i].ID = uuid.New()
		}
		t.Detalles[i].TallerID = t.ID
	}
	s.talleres[t.ID] = t
	s.creados = append(s.creados, t)
	return nil
}

func (s *stubTallerRepo) CreateGrupo(ctx context.Context, tx *gorm.DB, g *model.TallerGrupo) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	s.grupos[g.ID] = g
	return nil
}

func (s *stubTallerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Taller, error) {
	if t, ok := s.talleres[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTallerRepo) FindGrupoByID(ctx context.Context, id uuid.UUID) (*model.TallerGrupo, error) {
	if g, ok := s.grupos[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTallerRepo) List(ctx context.Context) ([]model.Taller, error) {
	var out []model.Taller
	for _, t := range s.creados {
		out = append(out, *t)
	}
	return out, nil
}

func (s *stubTallerRepo) ListConDetalles(ctx context.Context) ([]model.Taller, error) {
	return s.List(ctx)
}

func (s *stubTallerRepo) Update(ctx context.Context, tx *gorm.DB, t *model.Taller) error {
	s.talleres[t.ID] = t
	return nil
}

func (s *stubTallerRepo) ReplaceDetallesTx(tx *gorm.DB, tallerID uuid.UUID, detalles []model.TallerDetalle) error {
	return nil
}

func (s *stubTallerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.talleres, id)
	s.borrados = append(s.borrados, id)
	return nil
}

func (s *stubTallerRepo) DeleteGrupo(ctx context.Context, id uuid.UUID) error {
	delete(s.grupos, id)
	s.borrados = append(s.borrados, id)
	return nil
}

func (s *stubTallerRepo) CountPorSedeEspecie(ctx context.Context, sede, especie string) (int64, error) {
	return s.conteos[sede+"|"+especie], nil
}

func (s *stubTallerRepo) Historial(ctx context.Context, f dto.HistorialFilter, desde, hasta *time.Time) ([]model.Taller, int64, error) {
	talleres, _ := s.List(ctx)
	return talleres, int64(len(talleres)), nil
}

func (s *stubTallerRepo) Actividad(ctx context.Context, desde, hasta time.Time) ([]repository.ActividadRow, error) {
	s.actividadDesde = desde
	s.actividadHasta = hasta
	return s.actividad, nil
}

func (s *stubTallerRepo) Inventario(ctx context.Context, f dto.InventarioFilter) ([]repository.InventarioRow, error) {
	return s.inventario, nil
}

type stubUsuarioRepo struct {
	usuarios []model.Usuario
	errCrear error
}

func (s *stubUsuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	if s.errCrear != nil {
		return s.errCrear
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.usuarios = append(s.usuarios, *u)
	return nil
}

func (s *stubUsuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	for i := range s.usuarios {
		if s.usuarios[i].Username == username {
			return &s.usuarios[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	for i := range s.usuarios {
		if s.usuarios[i].Email != nil && *s.usuarios[i].Email == email {
			return &s.usuarios[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	for i := range s.usuarios {
		if s.usuarios[i].ID == id {
			return &s.usuarios[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	return s.usuarios, nil
}

func (s *stubUsuarioRepo) ListActivosConSede(ctx context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range s.usuarios {
		if u.Activo && u.Sede != nil && *u.Sede != "" {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUsuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	for i := range s.usuarios {
		if s.usuarios[i].ID == u.ID {
			s.usuarios[i] = *u
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubUsuarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range s.usuarios {
		if s.usuarios[i].ID == id {
			s.usuarios = append(s.usuarios[:i], s.usuarios[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubUsuarioRepo) CountActivos(ctx context.Context, desde, hasta *time.Time) (int64, error) {
	var n int64
	for _, u := range s.usuarios {
		if u.Activo {
			n++
		}
	}
	return n, nil
}

type stubAlertaRepo struct {
	creadas []model.AlertaSubcorte
}

func (s *stubAlertaRepo) CreateTx(tx *gorm.DB, a *model.AlertaSubcorte) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.creadas = append(s.creadas, *a)
	return nil
}

func (s *stubAlertaRepo) List(ctx context.Context, sede *string) ([]model.AlertaSubcorte, error) {
	if sede == nil {
		return s.creadas, nil
	}
	var out []model.AlertaSubcorte
	for _, a := range s.creadas {
		if a.Sede == *sede {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAlertaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AlertaSubcorte, error) {
	for i := range s.creadas {
		if s.creadas[i].ID == id {
			return &s.creadas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAlertaRepo) Update(ctx context.Context, a *model.AlertaSubcorte) error {
	for i := range s.creadas {
		if s.creadas[i].ID == a.ID {
			s.creadas[i] = *a
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newTallerServiceForTest() (*stubTallerRepo, *stubAlertaRepo, TallerService) {
	talleres := newStubTallerRepo()
	alertas := &stubAlertaRepo{}
	items := &stubItemRepo{}
	listas := &stubListaRepo{}
	svc := NewTallerService(talleres, items, &stubUsuarioRepo{}, alertas, NewPrecioService(items, listas))
	return talleres, alertas, svc
}

func reqTallerBasica() dto.CrearTallerRequest {
	return dto.CrearTallerRequest{
		NombreTaller: "Desposte manual",
		Sede:         "Palmira",
		Especie:      "res",
		PesoInicial:  dec("100"),
		PesoFinal:    dec("70"),
		Cortes: []dto.SubcorteRequest{
			{CodigoProducto: "10", NombreSubcorte: "Lomo", Peso: dec("20")},
			{CodigoProducto: "11", NombreSubcorte: "Costilla", Peso: dec("5")},
		},
	}
}

func TestCrearTallerValidaciones(t *testing.T) {
	_, _, svc := newTallerServiceForTest()
	ctx := context.Background()

	casos := []struct {
		nombre  string
		mutar   func(*dto.CrearTallerRequest)
		mensaje string
	}{
		{
			nombre:  "sede desconocida",
			mutar:   func(r *dto.CrearTallerRequest) { r.Sede = "Medellin" },
			mensaje: "Sede invalida: Medellin",
		},
		{
			nombre:  "especie desconocida",
			mutar:   func(r *dto.CrearTallerRequest) { r.Especie = "pollo" },
			mensaje: "Especie invalida: use res o cerdo",
		},
		{
			nombre:  "peso inicial cero",
			mutar:   func(r *dto.CrearTallerRequest) { r.PesoInicial = decimal.Zero },
			mensaje: "El peso inicial debe ser mayor a cero",
		},
		{
			nombre:  "peso final negativo",
			mutar:   func(r *dto.CrearTallerRequest) { r.PesoFinal = dec("-1") },
			mensaje: "El peso final no puede ser negativo",
		},
		{
			nombre: "peso de subcorte negativo",
			mutar: func(r *dto.CrearTallerRequest) {
				r.Cortes[0].Peso = dec("-0.5")
			},
			mensaje: "El peso del subcorte Lomo no puede ser negativo",
		},
		{
			nombre: "codigos duplicados tras normalizar",
			mutar: func(r *dto.CrearTallerRequest) {
				r.Cortes[1].CodigoProducto = "010"
			},
			mensaje: "Codigo de subcorte duplicado: 010 equivale a 10",
		},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			req := reqTallerBasica()
			c.mutar(&req)
			_, err := svc.Crear(ctx, nil, req)
			require.Error(t, err)
			assert.Equal(t, c.mensaje, err.Error())
		})
	}
}

func TestCrearTallerDerivaPerdida(t *testing.T) {
	talleres, alertas, svc := newTallerServiceForTest()

	resp, err := svc.Crear(context.Background(), nil, reqTallerBasica())
	require.NoError(t, err)
	require.NotNil(t, resp.PorcentajePerdida)
	// 100 - (70 + 20 + 5) = 5 de merma, 5% del peso inicial.
	assert.True(t, resp.PorcentajePerdida.Equal(dec("5")), "porcentaje: %s", resp.PorcentajePerdida)
	assert.Len(t, talleres.creados, 1)
	assert.Empty(t, alertas.creadas, "ningun subcorte supera el umbral")
}

func TestCrearTallerNormalizaSede(t *testing.T) {
	_, _, svc := newTallerServiceForTest()

	req := reqTallerBasica()
	req.Sede = "ciudad jardín"
	resp, err := svc.Crear(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, "Ciudad Jardin", resp.Sede)
}

func TestCrearTallerGeneraAlertaPorSubcorteDominante(t *testing.T) {
	_, alertas, svc := newTallerServiceForTest()
	creador := uuid.New()

	req := reqTallerBasica()
	req.Cortes = []dto.SubcorteRequest{
		{CodigoProducto: "10", NombreSubcorte: "Canal entera", Peso: dec("60")},
		{CodigoProducto: "11", NombreSubcorte: "Recorte", Peso: dec("10")},
	}
	req.PesoFinal = dec("25")
	_, err := svc.Crear(context.Background(), &creador, req)
	require.NoError(t, err)

	require.Len(t, alertas.creadas, 1)
	a := alertas.creadas[0]
	assert.Equal(t, "Canal entera", a.NombreSubcorte)
	assert.True(t, a.Porcentaje.Equal(dec("60")))
	assert.True(t, a.PorcentajeUmbral.Equal(dec("50")))
	assert.Equal(t, "Palmira", a.Sede)
	require.NotNil(t, a.CreadoPorID)
	assert.Equal(t, creador, *a.CreadoPorID)
}

func TestCrearCompletoNombresSecuenciales(t *testing.T) {
	talleres, _, svc := newTallerServiceForTest()
	talleres.conteos["Palmira|res"] = 4

	req := dto.CrearTallerCompletoRequest{
		Sede: "palmira",
		Materiales: []dto.MaterialRequest{
			{
				Especie:     "res",
				PesoInicial: dec("100"),
				PesoFinal:   dec("60"),
				Cortes:      []dto.SubcorteRequest{{NombreSubcorte: "Lomo", Peso: dec("30")}},
			},
			{
				Especie:     "res",
				PesoInicial: dec("80"),
				PesoFinal:   dec("50"),
				Cortes:      []dto.SubcorteRequest{{NombreSubcorte: "Brazo", Peso: dec("25")}},
			},
			{
				Especie:     "cerdo",
				PesoInicial: dec("90"),
				PesoFinal:   dec("70"),
				Cortes:      []dto.SubcorteRequest{{NombreSubcorte: "Pierna", Peso: dec("15")}},
			},
		},
	}
	resp, err := svc.CrearCompleto(context.Background(), nil, req)
	require.NoError(t, err)
	require.Len(t, resp.Materiales, 3)

	assert.Equal(t, "Taller Palmira Res 05", resp.Materiales[0].NombreTaller)
	assert.Equal(t, "Taller Palmira Res 06", resp.Materiales[1].NombreTaller)
	assert.Equal(t, "Taller Palmira Cerdo 01", resp.Materiales[2].NombreTaller)
	// El grupo hereda el nombre del primer material.
	assert.Equal(t, "Taller Palmira Res 05", resp.NombreTaller)

	for _, mat := range resp.Materiales {
		assert.Equal(t, resp.ID, *mat.TallerGrupoID)
	}
}

func TestCrearCompletoRechazaMaterialInvalido(t *testing.T) {
	talleres, _, svc := newTallerServiceForTest()

	req := dto.CrearTallerCompletoRequest{
		Sede: "Palmira",
		Materiales: []dto.MaterialRequest{
			{
				Especie:     "res",
				PesoInicial: dec("100"),
				PesoFinal:   dec("60"),
				Cortes:      []dto.SubcorteRequest{{NombreSubcorte: "Lomo", Peso: dec("30")}},
			},
			{
				Especie:     "res",
				PesoInicial: decimal.Zero,
				PesoFinal:   dec("50"),
				Cortes:      []dto.SubcorteRequest{{NombreSubcorte: "Brazo", Peso: dec("25")}},
			},
		},
	}
	_, err := svc.CrearCompleto(context.Background(), nil, req)
	require.Error(t, err)
	assert.Equal(t, "Material 2: El peso inicial debe ser mayor a cero", err.Error())
	// El pre-vuelo falla antes de tocar la base: nada quedo creado.
	assert.Empty(t, talleres.creados)
	assert.Empty(t, talleres.grupos)
}

func TestCalculoIdempotente(t *testing.T) {
	talleres := newStubTallerRepo()
	items := &stubItemRepo{porCodigo: []model.Item{
		{ID: uuid.New(), CodigoProducto: "10", Nombre: "LOMO", PrecioVenta: dec("30000")},
	}}
	svc := NewTallerService(talleres, items, &stubUsuarioRepo{}, &stubAlertaRepo{}, NewPrecioService(items, &stubListaRepo{}))

	resp, err := svc.Crear(context.Background(), nil, reqTallerBasica())
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	primera, err := svc.Calculo(context.Background(), id)
	require.NoError(t, err)
	segunda, err := svc.Calculo(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, primera, segunda)

	require.Len(t, primera, 2)
	lomo := primera[0]
	assert.Equal(t, "Lomo", lomo.NombreCorte)
	assert.Equal(t, "LOMO", lomo.Descripcion)
	assert.True(t, lomo.PorcentajeReal.Equal(dec("20")))
	assert.True(t, lomo.DeltaPct.Equal(dec("20")), "sin default configurado el delta es el real")
	assert.True(t, lomo.ValorEstimado.Equal(dec("600000")))
	// El peso base reportado es el peso inicial, no la suma de subcortes.
	assert.True(t, lomo.PesoTotal.Equal(dec("100")))

	// El subcorte sin item en catalogo degrada a precio cero.
	costilla := primera[1]
	assert.True(t, costilla.PrecioVenta.IsZero())
	assert.Equal(t, "Costilla", costilla.Descripcion)
}

func TestCalculoSinPesoInicialUsaSumaDeSubcortes(t *testing.T) {
	talleres := newStubTallerRepo()
	items := &stubItemRepo{}
	svc := NewTallerService(talleres, items, &stubUsuarioRepo{}, &stubAlertaRepo{}, NewPrecioService(items, &stubListaRepo{}))

	// Fila historica sin peso inicial registrado.
	taller := &model.Taller{
		NombreTaller: "Taller legado",
		Sede:         "Palmira",
		Especie:      "res",
		Detalles: []model.TallerDetalle{
			{CodigoProducto: "10", NombreSubcorte: "Lomo", Peso: dec("20")},
			{CodigoProducto: "11", NombreSubcorte: "Costilla", Peso: dec("5")},
		},
	}
	require.NoError(t, talleres.Create(context.Background(), nil, taller))

	rows, err := svc.Calculo(context.Background(), taller.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.True(t, row.PesoTotal.Equal(dec("25")))
		assert.True(t, row.PorcentajeReal.IsZero())
	}
}

func TestActividadMatrizDensa(t *testing.T) {
	talleres := newStubTallerRepo()
	sede := "Palmira"
	conActividad := model.Usuario{ID: uuid.New(), Username: "operario1", Activo: true, Sede: &sede}
	sinActividad := model.Usuario{ID: uuid.New(), Username: "operario2", Activo: true, Sede: &sede}
	inactivo := model.Usuario{ID: uuid.New(), Username: "exoperario", Activo: false, Sede: &sede}
	usuarios := &stubUsuarioRepo{usuarios: []model.Usuario{conActividad, sinActividad, inactivo}}

	dia := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	talleres.actividad = []repository.ActividadRow{
		{UserID: conActividad.ID, Fecha: dia.AddDate(0, 0, 1), Cantidad: 3},
	}
	items := &stubItemRepo{}
	svc := NewTallerService(talleres, items, usuarios, &stubAlertaRepo{}, NewPrecioService(items, &stubListaRepo{}))

	matriz, err := svc.Actividad(context.Background(), dia, dia.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, matriz, 2, "los usuarios inactivos no aparecen")

	require.Len(t, matriz[0].Dias, 3)
	assert.Equal(t, 0, matriz[0].Dias[0].Cantidad)
	assert.Equal(t, 3, matriz[0].Dias[1].Cantidad)
	assert.Equal(t, 0, matriz[0].Dias[2].Cantidad)
	assert.Equal(t, "2025-03-11", matriz[0].Dias[1].Fecha)

	for _, d := range matriz[1].Dias {
		assert.Equal(t, 0, d.Cantidad)
	}

	// El limite superior llega al repo como la medianoche del dia siguiente,
	// asi el ultimo dia entra completo en el filtro exclusivo.
	assert.True(t, talleres.actividadDesde.Equal(dia))
	assert.True(t, talleres.actividadHasta.Equal(dia.AddDate(0, 0, 3)))
}

func TestEliminarTallerInexistente(t *testing.T) {
	_, _, svc := newTallerServiceForTest()

	err := svc.Eliminar(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, "Taller no encontrado", err.Error())
}

func TestActualizarReemplazaSubcortes(t *testing.T) {
	_, _, svc := newTallerServiceForTest()

	creado, err := svc.Crear(context.Background(), nil, reqTallerBasica())
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	resp, err := svc.Actualizar(context.Background(), id, dto.ActualizarTallerRequest{
		NombreTaller: "Desposte corregido",
		Especie:      "res",
		PesoInicial:  dec("100"),
		PesoFinal:    dec("80"),
		Cortes: []dto.SubcorteRequest{
			{CodigoProducto: "12", NombreSubcorte: "Murillo", Peso: dec("15")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Desposte corregido", resp.NombreTaller)
	require.Len(t, resp.Cortes, 1)
	assert.Equal(t, "Murillo", resp.Cortes[0].NombreSubcorte)
	require.NotNil(t, resp.PorcentajePerdida)
	// 100 - (80 + 15) = 5% de merma.
	assert.True(t, resp.PorcentajePerdida.Equal(dec("5")))
	// La sede original se conserva aunque el payload no la traiga.
	assert.Equal(t, "Palmira", resp.Sede)
}
