package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers HTTP los
// traducen a códigos de estado; los mensajes hacia el cliente son siempre
// genéricos para no filtrar detalle interno (ver taxonomía de auth).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrValidation         = errors.New("entrada inválida")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrPhoneAlreadyExists = errors.New("el teléfono ya está registrado en esta empresa")

	// ErrUnauthenticated cubre credenciales inválidas, sesión inválida o token
	// de credencial inválido. Nunca se distingue "email desconocido" de
	// "password incorrecto" para evitar enumeración de cuentas.
	ErrUnauthenticated = errors.New("no autenticado")

	// ErrForbidden: autenticado pero fuera de alcance (rol/jerarquía/empresa).
	ErrForbidden = errors.New("acceso denegado")

	// ErrPendingActivation: la cuenta existe pero aún no definió password.
	// Señal distinta de ErrUnauthenticated solo en login, para que el front
	// pueda sugerir "revisa tu correo de invitación".
	ErrPendingActivation = errors.New("cuenta pendiente de activación")

	// ErrInvalidOrExpiredToken: token de activación/reset inexistente, usado o
	// vencido. Una sola señal para las tres causas.
	ErrInvalidOrExpiredToken = errors.New("token inválido o expirado")
)
