package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RegistroRequest struct {
	Username string  `json:"username"  validate:"required,min=3,max=60"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	FullName *string `json:"full_name"`
	Password string  `json:"password"  validate:"required,min=6"`
	Sede     *string `json:"sede"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        UsuarioResponse `json:"user"`
}

type UsuarioResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       *string `json:"email"`
	FullName    *string `json:"full_name"`
	IsAdmin     bool    `json:"is_admin"`
	IsGerente   bool    `json:"is_gerente"`
	IsSedeAdmin bool    `json:"is_sede_admin"`
	Activo      bool    `json:"activo"`
	Sede        *string `json:"sede"`
}
