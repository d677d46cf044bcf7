package dto

// ─── Admin user management ───────────────────────────────────────────────────

type CrearUsuarioRequest struct {
	Username    string  `json:"username"  validate:"required,min=3,max=60"`
	Email       *string `json:"email"     validate:"omitempty,email"`
	FullName    *string `json:"full_name"`
	Password    string  `json:"password"  validate:"required,min=6"`
	IsAdmin     bool    `json:"is_admin"`
	IsGerente   bool    `json:"is_gerente"`
	IsSedeAdmin bool    `json:"is_sede_admin"`
	Activo      *bool   `json:"activo"`
	Sede        *string `json:"sede"`
}

// ActualizarUsuarioRequest usa punteros: solo los campos presentes se tocan.
type ActualizarUsuarioRequest struct {
	Username    *string `json:"username"  validate:"omitempty,min=3,max=60"`
	Email       *string `json:"email"     validate:"omitempty,email"`
	FullName    *string `json:"full_name"`
	Password    *string `json:"password"  validate:"omitempty,min=6"`
	IsAdmin     *bool   `json:"is_admin"`
	IsGerente   *bool   `json:"is_gerente"`
	IsSedeAdmin *bool   `json:"is_sede_admin"`
	Activo      *bool   `json:"activo"`
	Sede        *string `json:"sede"`
}
