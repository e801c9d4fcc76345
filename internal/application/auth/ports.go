package auth

import "context"

// Notifier envía los correos transaccionales de credenciales. Se invoca
// siempre después del commit: un fallo de SMTP nunca revierte la operación
// (el token queda emitido y se puede reenviar).
type Notifier interface {
	SendActivationInvite(ctx context.Context, email, name, token string) error
	SendPasswordReset(ctx context.Context, email, name, token string) error
}
