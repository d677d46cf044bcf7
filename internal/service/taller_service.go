package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"desposte/internal/calculo"
	"desposte/internal/dto"
	"desposte/internal/model"
	"desposte/internal/normalizador"
	"desposte/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// umbralAlertaPct: un subcorte que pesa mas de este porcentaje del peso
// inicial genera una alerta de revision en la misma transaccion del alta.
var umbralAlertaPct = decimal.NewFromInt(50)

type TallerService interface {
	Crear(ctx context.Context, creadoPor *uuid.UUID, req dto.CrearTallerRequest) (*dto.TallerResponse, error)
	// CrearCompleto da de alta un grupo de talleres en una sola transaccion,
	// con nombre secuencial autogenerado por (sede, especie).
	CrearCompleto(ctx context.Context, creadoPor *uuid.UUID, req dto.CrearTallerCompletoRequest) (*dto.TallerGrupoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TallerResponse, error)
	ObtenerGrupo(ctx context.Context, id uuid.UUID) (*dto.TallerGrupoResponse, error)
	Listar(ctx context.Context) ([]dto.TallerListItem, error)
	// Calculo re-deriva las filas de rendimiento contra el catalogo vigente.
	// Nunca se cachea: dos lecturas con el mismo catalogo dan lo mismo.
	Calculo(ctx context.Context, id uuid.UUID) ([]dto.TallerCalculoRow, error)
	Historial(ctx context.Context, f dto.HistorialFilter) (*dto.HistorialResponse, error)
	Actividad(ctx context.Context, desde, hasta time.Time) ([]dto.ActividadUsuario, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTallerRequest) (*dto.TallerResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	EliminarGrupo(ctx context.Context, id uuid.UUID) error
}

type tallerService struct {
	talleres repository.TallerRepository
	items    repository.ItemRepository
	usuarios repository.UsuarioRepository
	alertas  repository.AlertaRepository
	precios  PrecioService
}

func NewTallerService(
	talleres repository.TallerRepository,
	items repository.ItemRepository,
	usuarios repository.UsuarioRepository,
	alertas repository.AlertaRepository,
	precios PrecioService,
) TallerService {
	return &tallerService{
		talleres: talleres,
		items:    items,
		usuarios: usuarios,
		alertas:  alertas,
		precios:  precios,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Validaciones ─────────────────────────────────────────────────────────────

func validarSede(raw string) (string, error) {
	sede, ok := normalizador.NormalizarSede(raw)
	if !ok {
		return "", fmt.Errorf("Sede invalida: %s", strings.TrimSpace(raw))
	}
	return sede, nil
}

func validarEspecie(raw string) (string, error) {
	especie := strings.ToLower(strings.TrimSpace(raw))
	if !normalizador.EsEspecieValida(especie) {
		return "", errors.New("Especie invalida: use res o cerdo")
	}
	return especie, nil
}

func validarPesosYCortes(pesoInicial, pesoFinal decimal.Decimal, cortes []dto.SubcorteRequest) error {
	if pesoInicial.LessThanOrEqual(decimal.Zero) {
		return errors.New("El peso inicial debe ser mayor a cero")
	}
	if pesoFinal.LessThan(decimal.Zero) {
		return errors.New("El peso final no puede ser negativo")
	}
	if len(cortes) == 0 {
		return errors.New("El taller debe tener al menos un subcorte")
	}
	vistos := make(map[string]string, len(cortes))
	for _, c := range cortes {
		if strings.TrimSpace(c.NombreSubcorte) == "" {
			return errors.New("Todos los subcortes deben tener nombre")
		}
		if c.Peso.LessThan(decimal.Zero) {
			return fmt.Errorf("El peso del subcorte %s no puede ser negativo", c.NombreSubcorte)
		}
		raw := strings.TrimSpace(c.CodigoProducto)
		if raw == "" {
			continue
		}
		norm := normalizador.NormalizarCodigo(raw)
		if previo, dup := vistos[norm]; dup {
			return fmt.Errorf("Codigo de subcorte duplicado: %s equivale a %s", raw, previo)
		}
		vistos[norm] = raw
	}
	return nil
}

// ── Crear ────────────────────────────────────────────────────────────────────

func (s *tallerService) Crear(ctx context.Context, creadoPor *uuid.UUID, req dto.CrearTallerRequest) (*dto.TallerResponse, error) {
	sede, err := validarSede(req.Sede)
	if err != nil {
		return nil, err
	}
	especie, err := validarEspecie(req.Especie)
	if err != nil {
		return nil, err
	}
	if err := validarPesosYCortes(req.PesoInicial, req.PesoFinal, req.Cortes); err != nil {
		return nil, err
	}

	taller, err := s.armarTaller(ctx, armarTallerInput{
		nombre:          strings.TrimSpace(req.NombreTaller),
		descripcion:     req.Descripcion,
		sede:            sede,
		especie:         especie,
		pesoInicial:     req.PesoInicial,
		pesoFinal:       req.PesoFinal,
		codigoPrincipal: req.CodigoPrincipal,
		cortes:          req.Cortes,
		creadoPor:       creadoPor,
	})
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.talleres.DB(), func(tx *gorm.DB) error {
		if err := s.talleres.Create(ctx, tx, taller); err != nil {
			return err
		}
		return s.crearAlertasTx(tx, taller, creadoPor)
	})
	if err != nil {
		return nil, err
	}
	resp := mapTaller(taller)
	return &resp, nil
}

type armarTallerInput struct {
	nombre          string
	descripcion     *string
	sede            string
	especie         string
	pesoInicial     decimal.Decimal
	pesoFinal       decimal.Decimal
	codigoPrincipal *string
	cortes          []dto.SubcorteRequest
	creadoPor       *uuid.UUID
}

// armarTaller construye el modelo completo: pesos a escala canonica,
// porcentaje de merma pre-derivado y subcortes vinculados al catalogo por
// codigo normalizado cuando existe el item.
func (s *tallerService) armarTaller(ctx context.Context, in armarTallerInput) (*model.Taller, error) {
	itemsPorCodigo, err := s.vincularItems(ctx, in.codigoPrincipal, in.cortes)
	if err != nil {
		return nil, err
	}

	detalles := make([]model.TallerDetalle, 0, len(in.cortes))
	pesos := make([]decimal.Decimal, 0, len(in.cortes))
	for _, c := range in.cortes {
		peso := calculo.Redondear(c.Peso)
		pesos = append(pesos, peso)
		d := model.TallerDetalle{
			CodigoProducto: strings.TrimSpace(c.CodigoProducto),
			NombreSubcorte: strings.TrimSpace(c.NombreSubcorte),
			Peso:           peso,
		}
		if it, ok := itemsPorCodigo[normalizador.NormalizarCodigo(d.CodigoProducto)]; ok {
			id := it.ID
			d.ItemID = &id
		}
		detalles = append(detalles, d)
	}

	pesoInicial := calculo.Redondear(in.pesoInicial)
	pesoFinal := calculo.Redondear(in.pesoFinal)
	porcentaje := calculo.PorcentajePerdida(pesoInicial, pesoFinal, pesos)

	taller := &model.Taller{
		NombreTaller:      in.nombre,
		Descripcion:       in.descripcion,
		Sede:              in.sede,
		Especie:           in.especie,
		PesoInicial:       pesoInicial,
		PesoFinal:         pesoFinal,
		PorcentajePerdida: &porcentaje,
		CodigoPrincipal:   in.codigoPrincipal,
		CreadoPorID:       in.creadoPor,
		Detalles:          detalles,
	}
	if in.codigoPrincipal != nil {
		if it, ok := itemsPorCodigo[normalizador.NormalizarCodigo(*in.codigoPrincipal)]; ok {
			id := it.ID
			taller.ItemPrincipalID = &id
		}
	}
	return taller, nil
}

func (s *tallerService) vincularItems(ctx context.Context, codigoPrincipal *string, cortes []dto.SubcorteRequest) (map[string]model.Item, error) {
	var codigos, normalizados []string
	vistos := make(map[string]bool)
	agregar := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		norm := normalizador.NormalizarCodigo(raw)
		if !vistos[norm] {
			vistos[norm] = true
			codigos = append(codigos, raw)
			normalizados = append(normalizados, norm)
		}
	}
	for _, c := range cortes {
		agregar(c.CodigoProducto)
	}
	if codigoPrincipal != nil {
		agregar(*codigoPrincipal)
	}

	porCodigo := make(map[string]model.Item)
	encontrados, err := s.items.FindByCodigos(ctx, codigos, normalizados)
	if err != nil {
		return nil, err
	}
	for _, it := range encontrados {
		norm := normalizador.NormalizarCodigo(it.CodigoProducto)
		if _, ok := porCodigo[norm]; !ok && vistos[norm] {
			porCodigo[norm] = it
		}
	}
	return porCodigo, nil
}

func (s *tallerService) crearAlertasTx(tx *gorm.DB, taller *model.Taller, creadoPor *uuid.UUID) error {
	for _, d := range taller.Detalles {
		pct := calculo.PorcentajeReal(d.Peso, taller.PesoInicial)
		if pct.LessThanOrEqual(umbralAlertaPct) {
			continue
		}
		alerta := &model.AlertaSubcorte{
			TallerID:         taller.ID,
			Sede:             taller.Sede,
			CreadoPorID:      creadoPor,
			NombreSubcorte:   d.NombreSubcorte,
			CodigoProducto:   d.CodigoProducto,
			Peso:             d.Peso,
			Porcentaje:       pct,
			PorcentajeUmbral: umbralAlertaPct,
		}
		if err := s.alertas.CreateTx(tx, alerta); err != nil {
			return err
		}
	}
	return nil
}

// ── CrearCompleto ────────────────────────────────────────────────────────────

func tituloEspecie(especie string) string {
	if especie == normalizador.EspecieCerdo {
		return "Cerdo"
	}
	return "Res"
}

// nombreSecuencial deriva el nombre de un material nuevo a partir del conteo
// vigente por (sede, especie). El conteo y el insert posterior no comparten
// lock: dos altas simultaneas para la misma sede y especie pueden repetir
// numero. Tolerado, el nombre es presentacional y no tiene unique.
func nombreSecuencial(sede, especie string, existentes int64) string {
	return fmt.Sprintf("Taller %s %s %02d", sede, tituloEspecie(especie), existentes+1)
}

func (s *tallerService) CrearCompleto(ctx context.Context, creadoPor *uuid.UUID, req dto.CrearTallerCompletoRequest) (*dto.TallerGrupoResponse, error) {
	sede, err := validarSede(req.Sede)
	if err != nil {
		return nil, err
	}
	if len(req.Materiales) == 0 {
		return nil, errors.New("El grupo debe tener al menos un material")
	}

	// Pre-vuelo fuera de la transaccion: validar todo y armar los modelos.
	// El conteo por especie avanza en memoria para materiales repetidos de la
	// misma especie dentro del mismo grupo.
	conteos := make(map[string]int64)
	materiales := make([]*model.Taller, 0, len(req.Materiales))
	for i, m := range req.Materiales {
		especie, err := validarEspecie(m.Especie)
		if err != nil {
			return nil, fmt.Errorf("Material %d: %s", i+1, err.Error())
		}
		if err := validarPesosYCortes(m.PesoInicial, m.PesoFinal, m.Cortes); err != nil {
			return nil, fmt.Errorf("Material %d: %s", i+1, err.Error())
		}
		if _, ok := conteos[especie]; !ok {
			n, err := s.talleres.CountPorSedeEspecie(ctx, sede, especie)
			if err != nil {
				return nil, err
			}
			conteos[especie] = n
		}
		taller, err := s.armarTaller(ctx, armarTallerInput{
			nombre:          nombreSecuencial(sede, especie, conteos[especie]),
			descripcion:     m.Descripcion,
			sede:            sede,
			especie:         especie,
			pesoInicial:     m.PesoInicial,
			pesoFinal:       m.PesoFinal,
			codigoPrincipal: m.CodigoPrincipal,
			cortes:          m.Cortes,
			creadoPor:       creadoPor,
		})
		if err != nil {
			return nil, err
		}
		conteos[especie]++
		materiales = append(materiales, taller)
	}

	grupo := &model.TallerGrupo{
		// El grupo hereda el nombre del primer material generado.
		NombreTaller: materiales[0].NombreTaller,
		Descripcion:  req.Descripcion,
		Sede:         sede,
		Especie:      materiales[0].Especie,
		CreadoPorID:  creadoPor,
	}

	err = runTx(ctx, s.talleres.DB(), func(tx *gorm.DB) error {
		if err := s.talleres.CreateGrupo(ctx, tx, grupo); err != nil {
			return err
		}
		for _, taller := range materiales {
			id := grupo.ID
			taller.TallerGrupoID = &id
			if err := s.talleres.Create(ctx, tx, taller); err != nil {
				return err
			}
			if err := s.crearAlertasTx(tx, taller, creadoPor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.TallerGrupoResponse{
		ID:           grupo.ID.String(),
		NombreTaller: grupo.NombreTaller,
		Descripcion:  grupo.Descripcion,
		Sede:         grupo.Sede,
		CreadoEn:     grupo.CreatedAt.Format(time.RFC3339),
	}
	for _, taller := range materiales {
		resp.Materiales = append(resp.Materiales, mapTaller(taller))
	}
	return &resp, nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *tallerService) ObtenerGrupo(ctx context.Context, id uuid.UUID) (*dto.TallerGrupoResponse, error) {
	grupo, err := s.talleres.FindGrupoByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Grupo de talleres no encontrado")
		}
		return nil, err
	}
	resp := dto.TallerGrupoResponse{
		ID:           grupo.ID.String(),
		NombreTaller: grupo.NombreTaller,
		Descripcion:  grupo.Descripcion,
		Sede:         grupo.Sede,
		CreadoEn:     grupo.CreatedAt.Format(time.RFC3339),
	}
	for i := range grupo.Materiales {
		resp.Materiales = append(resp.Materiales, mapTaller(&grupo.Materiales[i]))
	}
	return &resp, nil
}

func (s *tallerService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TallerResponse, error) {
	taller, err := s.talleres.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Taller no encontrado")
		}
		return nil, err
	}
	resp := mapTaller(taller)
	return &resp, nil
}

func (s *tallerService) Listar(ctx context.Context) ([]dto.TallerListItem, error) {
	talleres, err := s.talleres.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TallerListItem, 0, len(talleres))
	for i := range talleres {
		items = append(items, mapTallerListItem(&talleres[i]))
	}
	return items, nil
}

func (s *tallerService) Calculo(ctx context.Context, id uuid.UUID) ([]dto.TallerCalculoRow, error) {
	taller, err := s.talleres.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Taller no encontrado")
		}
		return nil, err
	}
	return s.calculoDeTaller(ctx, taller)
}

// calculoDeTaller re-resuelve precios y re-deriva cada fila. El peso base de
// los porcentajes es el peso inicial del taller; sin peso inicial el peso base
// cae a la suma de los subcortes y los porcentajes degradan a cero.
func (s *tallerService) calculoDeTaller(ctx context.Context, taller *model.Taller) ([]dto.TallerCalculoRow, error) {
	resueltos, err := s.precios.ResolverDetalles(ctx, taller.Detalles)
	if err != nil {
		return nil, err
	}

	pesoBase := taller.PesoInicial
	if !pesoBase.IsPositive() {
		pesoBase = decimal.Zero
		for _, d := range taller.Detalles {
			pesoBase = pesoBase.Add(d.Peso)
		}
	}
	pesoBase = calculo.NormalizarCero(calculo.Redondear(pesoBase))

	rows := make([]dto.TallerCalculoRow, 0, len(taller.Detalles))
	for i, d := range taller.Detalles {
		pct := calculo.PorcentajeReal(d.Peso, taller.PesoInicial)
		rows = append(rows, dto.TallerCalculoRow{
			TallerID:          taller.ID.String(),
			NombreCorte:       d.NombreSubcorte,
			CodigoProducto:    d.CodigoProducto,
			Descripcion:       resueltos[i].Descripcion,
			PrecioVenta:       resueltos[i].Precio,
			Peso:              d.Peso,
			PesoTotal:         pesoBase,
			PorcentajeDefault: decimal.Zero,
			PorcentajeReal:    pct,
			DeltaPct:          pct,
			ValorEstimado:     calculo.ValorEstimado(d.Peso, resueltos[i].Precio),
		})
	}
	return rows, nil
}

func (s *tallerService) Historial(ctx context.Context, f dto.HistorialFilter) (*dto.HistorialResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	desde, err := parseFecha(f.Desde, false)
	if err != nil {
		return nil, errors.New("Fecha 'desde' invalida: use YYYY-MM-DD")
	}
	hasta, err := parseFecha(f.Hasta, true)
	if err != nil {
		return nil, errors.New("Fecha 'hasta' invalida: use YYYY-MM-DD")
	}

	talleres, total, err := s.talleres.Historial(ctx, f, desde, hasta)
	if err != nil {
		return nil, err
	}
	resp := &dto.HistorialResponse{
		Data:  make([]dto.TallerListItem, 0, len(talleres)),
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	}
	for i := range talleres {
		resp.Data = append(resp.Data, mapTallerListItem(&talleres[i]))
	}
	return resp, nil
}

// parseFecha interpreta YYYY-MM-DD; con finDeDia devuelve el ultimo instante
// del dia para que el rango sea inclusivo.
func parseFecha(raw string, finDeDia bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if finDeDia {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func (s *tallerService) Actividad(ctx context.Context, desde, hasta time.Time) ([]dto.ActividadUsuario, error) {
	if hasta.Before(desde) {
		return nil, errors.New("El rango de fechas es invalido")
	}
	usuarios, err := s.usuarios.ListActivosConSede(ctx)
	if err != nil {
		return nil, err
	}
	// El repo filtra con created_at < fin, asi que el limite superior es la
	// medianoche del dia siguiente.
	finDeHasta := hasta.Add(24 * time.Hour)
	rows, err := s.talleres.Actividad(ctx, desde, finDeHasta)
	if err != nil {
		return nil, err
	}

	const dia = "2006-01-02"
	porUsuario := make(map[uuid.UUID]map[string]int)
	for _, r := range rows {
		if porUsuario[r.UserID] == nil {
			porUsuario[r.UserID] = make(map[string]int)
		}
		porUsuario[r.UserID][r.Fecha.Format(dia)] = int(r.Cantidad)
	}

	// Matriz densa: cada usuario activo con sede aparece con todos los dias
	// del rango, en cero cuando no hubo actividad.
	salida := make([]dto.ActividadUsuario, 0, len(usuarios))
	for _, u := range usuarios {
		au := dto.ActividadUsuario{
			UserID:   u.ID.String(),
			Username: u.Username,
			FullName: u.FullName,
			Sede:     derefSede(u.Sede),
		}
		for d := desde; !d.After(hasta); d = d.AddDate(0, 0, 1) {
			clave := d.Format(dia)
			au.Dias = append(au.Dias, dto.ActividadDia{
				Fecha:    clave,
				Cantidad: porUsuario[u.ID][clave],
			})
		}
		salida = append(salida, au)
	}
	return salida, nil
}

func derefSede(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ── Actualizar / Eliminar ────────────────────────────────────────────────────

func (s *tallerService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTallerRequest) (*dto.TallerResponse, error) {
	existente, err := s.talleres.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Taller no encontrado")
		}
		return nil, err
	}
	especie, err := validarEspecie(req.Especie)
	if err != nil {
		return nil, err
	}
	if err := validarPesosYCortes(req.PesoInicial, req.PesoFinal, req.Cortes); err != nil {
		return nil, err
	}

	// La sede no cambia en una edicion: el taller pertenece a donde se peso.
	armado, err := s.armarTaller(ctx, armarTallerInput{
		nombre:          strings.TrimSpace(req.NombreTaller),
		descripcion:     req.Descripcion,
		sede:            existente.Sede,
		especie:         especie,
		pesoInicial:     req.PesoInicial,
		pesoFinal:       req.PesoFinal,
		codigoPrincipal: req.CodigoPrincipal,
		cortes:          req.Cortes,
		creadoPor:       existente.CreadoPorID,
	})
	if err != nil {
		return nil, err
	}

	existente.NombreTaller = armado.NombreTaller
	existente.Descripcion = armado.Descripcion
	existente.Especie = armado.Especie
	existente.PesoInicial = armado.PesoInicial
	existente.PesoFinal = armado.PesoFinal
	existente.PorcentajePerdida = armado.PorcentajePerdida
	existente.CodigoPrincipal = armado.CodigoPrincipal
	existente.ItemPrincipalID = armado.ItemPrincipalID

	detallesNuevos := armado.Detalles
	err = runTx(ctx, s.talleres.DB(), func(tx *gorm.DB) error {
		if err := s.talleres.Update(ctx, tx, existente); err != nil {
			return err
		}
		if tx == nil {
			existente.Detalles = detallesNuevos
			return nil
		}
		if err := s.talleres.ReplaceDetallesTx(tx, existente.ID, detallesNuevos); err != nil {
			return err
		}
		existente.Detalles = detallesNuevos
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := mapTaller(existente)
	return &resp, nil
}

func (s *tallerService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.talleres.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("Taller no encontrado")
		}
		return err
	}
	return s.talleres.Delete(ctx, id)
}

func (s *tallerService) EliminarGrupo(ctx context.Context, id uuid.UUID) error {
	if _, err := s.talleres.FindGrupoByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("Grupo de talleres no encontrado")
		}
		return err
	}
	return s.talleres.DeleteGrupo(ctx, id)
}

// ── Mapeos ───────────────────────────────────────────────────────────────────

func mapTaller(t *model.Taller) dto.TallerResponse {
	resp := dto.TallerResponse{
		ID:                t.ID.String(),
		NombreTaller:      t.NombreTaller,
		Descripcion:       t.Descripcion,
		Sede:              t.Sede,
		Especie:           t.Especie,
		PesoInicial:       t.PesoInicial,
		PesoFinal:         t.PesoFinal,
		PorcentajePerdida: t.PorcentajePerdida,
		CodigoPrincipal:   t.CodigoPrincipal,
		CreadoEn:          t.CreatedAt.Format(time.RFC3339),
		Cortes:            make([]dto.SubcorteResponse, 0, len(t.Detalles)),
	}
	if t.TallerGrupoID != nil {
		id := t.TallerGrupoID.String()
		resp.TallerGrupoID = &id
	}
	for _, d := range t.Detalles {
		resp.Cortes = append(resp.Cortes, dto.SubcorteResponse{
			ID:             d.ID.String(),
			CodigoProducto: d.CodigoProducto,
			NombreSubcorte: d.NombreSubcorte,
			Peso:           d.Peso,
		})
	}
	return resp
}

func mapTallerListItem(t *model.Taller) dto.TallerListItem {
	total := decimal.Zero
	for _, d := range t.Detalles {
		total = total.Add(d.Peso)
	}
	item := dto.TallerListItem{
		ID:                t.ID.String(),
		NombreTaller:      t.NombreTaller,
		Descripcion:       t.Descripcion,
		Sede:              t.Sede,
		Especie:           t.Especie,
		PesoInicial:       t.PesoInicial,
		PesoFinal:         t.PesoFinal,
		PorcentajePerdida: t.PorcentajePerdida,
		TotalPeso:         calculo.NormalizarCero(calculo.Redondear(total)),
		DetallesCount:     len(t.Detalles),
		CreadoEn:          t.CreatedAt.Format(time.RFC3339),
	}
	if t.TallerGrupoID != nil {
		id := t.TallerGrupoID.String()
		item.TallerGrupoID = &id
	}
	return item
}
