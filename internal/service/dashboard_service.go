package service

import (
	"context"
	"time"

	"desposte/internal/dto"
	"desposte/internal/model"
	"desposte/internal/normalizador"
	"desposte/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	estadoCompletado = "completado"
	estadoEnProceso  = "en-proceso"
	estadoPendiente  = "pendiente"

	// ventanaTendenciaDias: las tendencias comparan la ventana movil actual
	// contra la inmediatamente anterior del mismo largo.
	ventanaTendenciaDias = 7
)

// umbralCompletado: un taller cuyo peso recuperado alcanza el 99% del peso
// inicial se considera completado; la merma esperada impide exigir el 100%.
var umbralCompletado = decimal.RequireFromString("0.99")

// umbralInventarioBajo corta los grupos de inventario considerados escasos.
var umbralInventarioBajo = decimal.NewFromInt(10)

type DashboardService interface {
	Resumen(ctx context.Context) (*dto.DashboardStats, error)
}

type dashboardService struct {
	talleres repository.TallerRepository
	usuarios repository.UsuarioRepository
	ahora    func() time.Time
}

func NewDashboardService(talleres repository.TallerRepository, usuarios repository.UsuarioRepository, ahora func() time.Time) DashboardService {
	if ahora == nil {
		ahora = time.Now
	}
	return &dashboardService{talleres: talleres, usuarios: usuarios, ahora: ahora}
}

// estadoTaller clasifica por peso recuperado sobre peso inicial. Con peso
// inicial cero el ratio degrada a cero y el taller queda pendiente.
func estadoTaller(t *model.Taller) string {
	total := t.PesoFinal
	for _, d := range t.Detalles {
		total = total.Add(d.Peso)
	}
	if t.PesoInicial.LessThanOrEqual(decimal.Zero) {
		return estadoPendiente
	}
	ratio := total.Div(t.PesoInicial)
	switch {
	case ratio.GreaterThanOrEqual(umbralCompletado):
		return estadoCompletado
	case ratio.GreaterThan(decimal.Zero):
		return estadoEnProceso
	default:
		return estadoPendiente
	}
}

// tendencia compara el periodo actual contra el previo. Previo cero y actual
// cero no es comparable (nil); previo cero con actividad nueva reporta 100.
func tendencia(actual, previo int) *float64 {
	if previo == 0 {
		if actual == 0 {
			return nil
		}
		cien := 100.0
		return &cien
	}
	v := float64(actual-previo) / float64(previo) * 100
	return &v
}

func (s *dashboardService) Resumen(ctx context.Context) (*dto.DashboardStats, error) {
	ahora := s.ahora()
	hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	manana := hoy.AddDate(0, 0, 1)
	ayer := hoy.AddDate(0, 0, -1)
	inicioVentana := hoy.AddDate(0, 0, -(ventanaTendenciaDias - 1))
	inicioVentanaPrevia := inicioVentana.AddDate(0, 0, -ventanaTendenciaDias)

	talleres, err := s.talleres.ListConDetalles(ctx)
	if err != nil {
		return nil, err
	}

	var (
		activosTotal    int
		activosActuales int
		activosPrevios  int
		completadosHoy  int
		completadosAyer int
	)
	for i := range talleres {
		t := &talleres[i]
		estado := estadoTaller(t)
		creado := t.CreatedAt

		if estado != estadoCompletado {
			activosTotal++
			switch {
			case !creado.Before(inicioVentana):
				activosActuales++
			case !creado.Before(inicioVentanaPrevia) && creado.Before(inicioVentana):
				activosPrevios++
			}
		}

		if estado == estadoCompletado {
			switch {
			case !creado.Before(hoy) && creado.Before(manana):
				completadosHoy++
			case !creado.Before(ayer) && creado.Before(hoy):
				completadosAyer++
			}
		}
	}

	invBajoTotal := contarInventarioBajo(talleres, nil, nil)
	invBajoActual := contarInventarioBajo(talleres, &inicioVentana, &manana)
	invBajoPrevio := contarInventarioBajo(talleres, &inicioVentanaPrevia, &inicioVentana)

	usuariosTotal, err := s.usuarios.CountActivos(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	usuariosActuales, err := s.usuarios.CountActivos(ctx, &inicioVentana, &manana)
	if err != nil {
		return nil, err
	}
	usuariosPrevios, err := s.usuarios.CountActivos(ctx, &inicioVentanaPrevia, &inicioVentana)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		TalleresActivos: dto.DashboardMetric{
			Value: activosTotal,
			Trend: tendencia(activosActuales, activosPrevios),
		},
		CompletadosHoy: dto.DashboardMetric{
			Value: completadosHoy,
			Trend: tendencia(completadosHoy, completadosAyer),
		},
		InventarioBajo: dto.DashboardMetric{
			Value: invBajoTotal,
			Trend: tendencia(invBajoActual, invBajoPrevio),
		},
		UsuariosActivos: dto.DashboardMetric{
			Value: int(usuariosTotal),
			Trend: tendencia(int(usuariosActuales), int(usuariosPrevios)),
		},
	}, nil
}

// contarInventarioBajo agrupa los subcortes por codigo normalizado dentro del
// rango medio-abierto [desde, hasta) y cuenta los grupos cuyo peso acumulado
// no supera el umbral.
func contarInventarioBajo(talleres []model.Taller, desde, hasta *time.Time) int {
	totales := make(map[string]decimal.Decimal)
	for i := range talleres {
		t := &talleres[i]
		if desde != nil && t.CreatedAt.Before(*desde) {
			continue
		}
		if hasta != nil && !t.CreatedAt.Before(*hasta) {
			continue
		}
		for _, d := range t.Detalles {
			clave := normalizador.NormalizarCodigo(d.CodigoProducto)
			totales[clave] = totales[clave].Add(d.Peso)
		}
	}
	bajos := 0
	for _, total := range totales {
		if total.LessThanOrEqual(umbralInventarioBajo) {
			bajos++
		}
	}
	return bajos
}
