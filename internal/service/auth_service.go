package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"desposte/internal/autorizacion"
	"desposte/internal/config"
	"desposte/internal/dto"
	"desposte/internal/model"
	"desposte/internal/normalizador"
	"desposte/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// Registrar da de alta un operador sin roles; los roles se asignan luego
	// por un admin via ActualizarUsuario.
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error)
	Me(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)

	CrearUsuario(ctx context.Context, actor autorizacion.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, actor autorizacion.Actor) ([]dto.UsuarioResponse, error)
	ObtenerUsuario(ctx context.Context, actor autorizacion.Actor, id uuid.UUID) (*dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, actor autorizacion.Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	EliminarUsuario(ctx context.Context, actor autorizacion.Actor, id uuid.UUID) error
}

// ErrProhibido distingue un rechazo de permisos de un error de negocio para
// que el handler responda 403 en lugar de 400.
var ErrProhibido = errors.New("permiso denegado")

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	if !user.Activo {
		return nil, errors.New("usuario inactivo")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales invalidas")
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        mapUsuario(user),
	}, nil
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error) {
	username := strings.TrimSpace(req.Username)
	if err := s.verificarDuplicados(ctx, username, req.Email, uuid.Nil); err != nil {
		return nil, err
	}
	sede, err := normalizarSedeOpcional(req.Sede)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Activo:       true,
		Sede:         sede,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, errGuardarUsuario(err)
	}
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) Me(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}
	resp := mapUsuario(user)
	return &resp, nil
}

// ── Administracion de usuarios ───────────────────────────────────────────────

func (s *authService) CrearUsuario(ctx context.Context, actor autorizacion.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	sede, err := normalizarSedeOpcional(req.Sede)
	if err != nil {
		return nil, err
	}
	recurso := autorizacion.Recurso{
		UsuarioEsPrivilegiado: req.IsAdmin || req.IsGerente || req.IsSedeAdmin,
	}
	if sede != nil {
		recurso.Sede = *sede
	}
	if d := autorizacion.Evaluar(actor, autorizacion.AccionGestionarUsuario, recurso); !d.Permitido {
		return nil, prohibido(d)
	}

	username := strings.TrimSpace(req.Username)
	if err := s.verificarDuplicados(ctx, username, req.Email, uuid.Nil); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}
	user := &model.Usuario{
		Username:     username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		IsAdmin:      req.IsAdmin,
		IsGerente:    req.IsGerente,
		IsSedeAdmin:  req.IsSedeAdmin,
		Activo:       activo,
		Sede:         sede,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, errGuardarUsuario(err)
	}
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, actor autorizacion.Actor) ([]dto.UsuarioResponse, error) {
	if d := autorizacion.Evaluar(actor, autorizacion.AccionGestionarUsuario, autorizacion.Recurso{Sede: actor.Sede}); !d.Permitido {
		return nil, prohibido(d)
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		// Un admin de sede solo ve operadores no privilegiados de su sede.
		if !actor.IsAdmin {
			d := autorizacion.Evaluar(actor, autorizacion.AccionGestionarUsuario, recursoDeUsuario(u, false))
			if !d.Permitido {
				continue
			}
		}
		resp = append(resp, mapUsuario(u))
	}
	return resp, nil
}

func (s *authService) ObtenerUsuario(ctx context.Context, actor autorizacion.Actor, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}
	if d := autorizacion.Evaluar(actor, autorizacion.AccionGestionarUsuario, recursoDeUsuario(user, false)); !d.Permitido {
		return nil, prohibido(d)
	}
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, actor autorizacion.Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}

	degrada := degradaPermisos(user, req)
	if d := autorizacion.Evaluar(actor, autorizacion.AccionGestionarUsuario, recursoDeUsuario(user, degrada)); !d.Permitido {
		return nil, prohibido(d)
	}

	if req.Username != nil || req.Email != nil {
		username := user.Username
		if req.Username != nil {
			username = strings.TrimSpace(*req.Username)
		}
		if err := s.verificarDuplicados(ctx, username, req.Email, user.ID); err != nil {
			return nil, err
		}
		user.Username = username
		if req.Email != nil {
			user.Email = req.Email
		}
	}
	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsGerente != nil {
		user.IsGerente = *req.IsGerente
	}
	if req.IsSedeAdmin != nil {
		user.IsSedeAdmin = *req.IsSedeAdmin
	}
	if req.Activo != nil {
		user.Activo = *req.Activo
	}
	if req.Sede != nil {
		sede, err := normalizarSedeOpcional(req.Sede)
		if err != nil {
			return nil, err
		}
		user.Sede = sede
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, errGuardarUsuario(err)
	}
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) EliminarUsuario(ctx context.Context, actor autorizacion.Actor, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("usuario no encontrado")
	}
	// Borrar es la degradacion maxima: nadie se elimina a si mismo.
	if d := autorizacion.Evaluar(actor, autorizacion.AccionGestionarUsuario, recursoDeUsuario(user, true)); !d.Permitido {
		return prohibido(d)
	}
	return s.repo.Delete(ctx, id)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       user.ID.String(),
		"username":      user.Username,
		"is_admin":      user.IsAdmin,
		"is_gerente":    user.IsGerente,
		"is_sede_admin": user.IsSedeAdmin,
		"sede":          derefSede(user.Sede),
		"exp":           time.Now().Add(duration).Unix(),
		"iat":           time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// errGuardarUsuario cubre la ventana entre el pre-chequeo de duplicados y el
// commit: una violacion residual de constraint unico no debe filtrar el
// detalle del driver al cliente.
func errGuardarUsuario(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "SQLSTATE 23505") {
		return errors.New("No se pudo guardar el usuario")
	}
	return err
}

// verificarDuplicados pre-chequea username y email para responder un 400
// legible en lugar del error de constraint de la base.
func (s *authService) verificarDuplicados(ctx context.Context, username string, email *string, propio uuid.UUID) error {
	if username == "" {
		return errors.New("El username es obligatorio")
	}
	if existente, err := s.repo.FindByUsername(ctx, username); err == nil && existente.ID != propio {
		return fmt.Errorf("El username %s ya esta en uso", username)
	}
	if email != nil && strings.TrimSpace(*email) != "" {
		if existente, err := s.repo.FindByEmail(ctx, *email); err == nil && existente.ID != propio {
			return fmt.Errorf("El email %s ya esta en uso", *email)
		}
	}
	return nil
}

func normalizarSedeOpcional(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	sede, ok := normalizador.NormalizarSede(*raw)
	if !ok {
		return nil, fmt.Errorf("Sede invalida: %s", strings.TrimSpace(*raw))
	}
	return &sede, nil
}

func recursoDeUsuario(u *model.Usuario, degrada bool) autorizacion.Recurso {
	return autorizacion.Recurso{
		Sede:                  derefSede(u.Sede),
		UsuarioID:             u.ID,
		UsuarioEsPrivilegiado: u.IsAdmin || u.IsGerente || u.IsSedeAdmin,
		Degrada:               degrada,
	}
}

// degradaPermisos detecta si la edicion le quita un rol o desactiva la cuenta.
func degradaPermisos(u *model.Usuario, req dto.ActualizarUsuarioRequest) bool {
	if req.IsAdmin != nil && u.IsAdmin && !*req.IsAdmin {
		return true
	}
	if req.IsGerente != nil && u.IsGerente && !*req.IsGerente {
		return true
	}
	if req.IsSedeAdmin != nil && u.IsSedeAdmin && !*req.IsSedeAdmin {
		return true
	}
	if req.Activo != nil && u.Activo && !*req.Activo {
		return true
	}
	return false
}

func prohibido(d autorizacion.Decision) error {
	return fmt.Errorf("%w: %s", ErrProhibido, d.Motivo)
}

func mapUsuario(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		IsAdmin:     u.IsAdmin,
		IsGerente:   u.IsGerente,
		IsSedeAdmin: u.IsSedeAdmin,
		Activo:      u.Activo,
		Sede:        u.Sede,
	}
}
