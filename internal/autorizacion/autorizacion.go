// Package autorizacion concentra todas las decisiones de permisos en una sola
// funcion de politica. Los handlers y servicios consultan Evaluar en lugar de
// chequear flags de rol por su cuenta, de modo que las reglas viven en un
// unico lugar auditable.
package autorizacion

import "github.com/google/uuid"

// Actor is the authenticated principal, as carried by the JWT claims.
type Actor struct {
	ID          uuid.UUID
	Username    string
	IsAdmin     bool
	IsGerente   bool
	IsSedeAdmin bool
	Sede        string
}

// Accion enumerates the privileged operations the policy knows about.
type Accion string

const (
	AccionCrearTaller      Accion = "taller:crear"
	AccionEliminarTaller   Accion = "taller:eliminar"
	AccionVerActividad     Accion = "taller:actividad"
	AccionGestionarUsuario Accion = "usuario:gestionar"
	AccionVerAlertas       Accion = "alerta:ver"
	AccionRevisarAlerta    Accion = "alerta:revisar"
	AccionCargarPrecios    Accion = "precios:cargar"
	AccionElegirSede       Accion = "sede:elegir"
)

// Recurso describes what the action targets. Zero values mean "not relevant
// for this action".
type Recurso struct {
	Sede string
	// UsuarioID es el usuario afectado por una accion de administracion.
	UsuarioID uuid.UUID
	// UsuarioEsPrivilegiado marca que el usuario afectado tiene algun rol
	// administrativo (admin, gerente o admin de sede).
	UsuarioEsPrivilegiado bool
	// Degrada indica que la accion le quita permisos o desactiva la cuenta.
	Degrada bool
}

// Decision carries the allow/deny outcome plus a stable reason code for logs
// and error messages.
type Decision struct {
	Permitido bool
	Motivo    string
}

func permitir() Decision           { return Decision{Permitido: true} }
func negar(motivo string) Decision { return Decision{Permitido: false, Motivo: motivo} }

// Reason codes surfaced in forbidden responses.
const (
	MotivoRequiereAdmin       = "requiere_admin"
	MotivoRequiereGerente     = "requiere_gerente"
	MotivoSedeAjena           = "sede_ajena"
	MotivoAutoDegradacion     = "auto_degradacion"
	MotivoUsuarioPrivilegiado = "usuario_privilegiado"
)

// Evaluar aplica la politica de permisos: devuelve si el actor puede ejecutar
// la accion sobre el recurso y, al negar, un codigo de motivo estable.
func Evaluar(actor Actor, accion Accion, recurso Recurso) Decision {
	switch accion {
	case AccionCrearTaller:
		// Todo usuario activo puede registrar talleres.
		return permitir()

	case AccionEliminarTaller:
		if actor.IsAdmin {
			return permitir()
		}
		if actor.IsSedeAdmin && actor.Sede != "" && actor.Sede == recurso.Sede {
			return permitir()
		}
		return negar(MotivoRequiereAdmin)

	case AccionVerActividad:
		if actor.IsAdmin || actor.IsGerente {
			return permitir()
		}
		return negar(MotivoRequiereGerente)

	case AccionGestionarUsuario:
		if actor.ID != uuid.Nil && actor.ID == recurso.UsuarioID && recurso.Degrada {
			// Un admin nunca puede quitarse permisos ni desactivarse a si mismo.
			return negar(MotivoAutoDegradacion)
		}
		if actor.IsAdmin {
			return permitir()
		}
		if actor.IsSedeAdmin {
			if recurso.UsuarioEsPrivilegiado {
				return negar(MotivoUsuarioPrivilegiado)
			}
			if actor.Sede == "" || actor.Sede != recurso.Sede {
				return negar(MotivoSedeAjena)
			}
			return permitir()
		}
		return negar(MotivoRequiereAdmin)

	case AccionVerAlertas, AccionRevisarAlerta:
		if actor.IsAdmin {
			return permitir()
		}
		if actor.IsSedeAdmin {
			if recurso.Sede == "" || (actor.Sede != "" && actor.Sede == recurso.Sede) {
				return permitir()
			}
			return negar(MotivoSedeAjena)
		}
		return negar(MotivoRequiereAdmin)

	case AccionCargarPrecios:
		if actor.IsAdmin {
			return permitir()
		}
		return negar(MotivoRequiereAdmin)

	case AccionElegirSede:
		// Solo un admin global puede crear talleres en una sede distinta a la
		// propia; el resto siempre opera sobre su sede asignada.
		if actor.IsAdmin {
			return permitir()
		}
		return negar(MotivoSedeAjena)
	}

	return negar(MotivoRequiereAdmin)
}
