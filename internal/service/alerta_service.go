package service

import (
	"context"
	"errors"
	"time"

	"desposte/internal/autorizacion"
	"desposte/internal/dto"
	"desposte/internal/model"
	"desposte/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertaService interface {
	// Listar devuelve las alertas visibles para el actor: todas para un
	// admin global, solo las de su sede para un admin de sede.
	Listar(ctx context.Context, actor autorizacion.Actor) ([]dto.AlertaSubcorteResponse, error)
	Revisar(ctx context.Context, actor autorizacion.Actor, id uuid.UUID, revisada bool) (*dto.AlertaSubcorteResponse, error)
}

type alertaService struct {
	repo repository.AlertaRepository
}

func NewAlertaService(repo repository.AlertaRepository) AlertaService {
	return &alertaService{repo: repo}
}

func (s *alertaService) Listar(ctx context.Context, actor autorizacion.Actor) ([]dto.AlertaSubcorteResponse, error) {
	if d := autorizacion.Evaluar(actor, autorizacion.AccionVerAlertas, autorizacion.Recurso{Sede: actor.Sede}); !d.Permitido {
		return nil, prohibido(d)
	}
	var sede *string
	if !actor.IsAdmin {
		sede = &actor.Sede
	}
	alertas, err := s.repo.List(ctx, sede)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AlertaSubcorteResponse, 0, len(alertas))
	for i := range alertas {
		resp = append(resp, mapAlerta(&alertas[i]))
	}
	return resp, nil
}

func (s *alertaService) Revisar(ctx context.Context, actor autorizacion.Actor, id uuid.UUID, revisada bool) (*dto.AlertaSubcorteResponse, error) {
	alerta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Alerta no encontrada")
		}
		return nil, err
	}
	if d := autorizacion.Evaluar(actor, autorizacion.AccionRevisarAlerta, autorizacion.Recurso{Sede: alerta.Sede}); !d.Permitido {
		return nil, prohibido(d)
	}
	alerta.Revisada = revisada
	if err := s.repo.Update(ctx, alerta); err != nil {
		return nil, err
	}
	resp := mapAlerta(alerta)
	return &resp, nil
}

func mapAlerta(a *model.AlertaSubcorte) dto.AlertaSubcorteResponse {
	resp := dto.AlertaSubcorteResponse{
		ID:               a.ID.String(),
		TallerID:         a.TallerID.String(),
		Sede:             a.Sede,
		NombreSubcorte:   a.NombreSubcorte,
		CodigoProducto:   a.CodigoProducto,
		Peso:             a.Peso,
		Porcentaje:       a.Porcentaje,
		PorcentajeUmbral: a.PorcentajeUmbral,
		Revisada:         a.Revisada,
		CreadoEn:         a.CreatedAt.Format(time.RFC3339),
	}
	if a.CreadoPorID != nil {
		id := a.CreadoPorID.String()
		resp.CreadoPor = &id
	}
	return resp
}
