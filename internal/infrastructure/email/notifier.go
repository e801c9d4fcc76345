// Package email implementa el envío de correos transaccionales de
// credenciales vía SMTP (gomail). El token en claro solo existe dentro del
// enlace enviado.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/PanelVentas-api/internal/application/auth"
	"github.com/jhoicas/PanelVentas-api/pkg/config"
)

var _ auth.Notifier = (*Notifier)(nil)

// Notifier envía invitaciones de activación y correos de reset.
type Notifier struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

// NewNotifier construye el notificador SMTP.
func NewNotifier(smtp config.SMTPConfig, app config.AppConfig) *Notifier {
	return &Notifier{
		dialer:  gomail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Password),
		from:    smtp.From,
		baseURL: app.BaseURL,
	}
}

// SendActivationInvite envía el enlace de activación de cuenta.
func (n *Notifier) SendActivationInvite(_ context.Context, email, name, token string) error {
	link := fmt.Sprintf("%s/activar?token=%s", n.baseURL, token)
	body := fmt.Sprintf(`<p>Hola %s,</p>
<p>Te invitaron al panel comercial. Para activar tu cuenta y definir tu contraseña, entrá acá:</p>
<p><a href="%s">Activar mi cuenta</a></p>
<p>El enlace vence en 72 horas. Si no esperabas esta invitación, ignorá este correo.</p>`, name, link)
	return n.send(email, "Activá tu cuenta", body)
}

// SendPasswordReset envía el enlace de restablecimiento de contraseña.
func (n *Notifier) SendPasswordReset(_ context.Context, email, name, token string) error {
	link := fmt.Sprintf("%s/restablecer?token=%s", n.baseURL, token)
	body := fmt.Sprintf(`<p>Hola %s,</p>
<p>Pediste restablecer tu contraseña. Entrá acá para definir una nueva:</p>
<p><a href="%s">Restablecer contraseña</a></p>
<p>El enlace vence en 30 minutos. Si no fuiste vos, ignorá este correo: tu contraseña actual sigue vigente.</p>`, name, link)
	return n.send(email, "Restablecer contraseña", body)
}

func (n *Notifier) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}
