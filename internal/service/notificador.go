// notificador.go — SMTP-уведомления отделу кадров о новых отсутствиях.
// Уведомления best-effort: ошибка отправки логируется и не влияет на
// результат запроса.
package service

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/domain/model"
)

// Notificador — отправитель почтовых уведомлений.
// nil-получатель безопасен: все методы становятся no-op.
type Notificador struct {
	dialer *gomail.Dialer
	from   string
	to     []string
	logger *slog.Logger
}

// NewNotificador создаёт отправитель уведомлений.
func NewNotificador(host string, port int, user, pass, from string, to []string, logger *slog.Logger) *Notificador {
	return &Notificador{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		to:     to,
		logger: logger.With(slog.String("component", "notificador")),
	}
}

// NotificarVacaciones отправляет уведомление о новой заявке на отпуск.
func (n *Notificador) NotificarVacaciones(v *model.Vacacion) {
	if n == nil {
		return
	}

	subject := fmt.Sprintf("Nueva solicitud de vacaciones: %s", v.UserID)
	body := fmt.Sprintf(
		"<p>El usuario <b>%s</b> ha solicitado vacaciones del %s al %s (%d días).</p><p>%s</p>",
		v.UserID, v.FechaInicio, v.FechaFin, v.Dias, v.Comentario,
	)
	n.enviar(subject, body)
}

// NotificarBaja отправляет уведомление о новом больничном.
func (n *Notificador) NotificarBaja(b *model.Baja) {
	if n == nil {
		return
	}

	fin := "abierta"
	if b.FechaFin != nil {
		fin = *b.FechaFin
	}
	subject := fmt.Sprintf("Nueva baja notificada: %s", b.UserID)
	body := fmt.Sprintf(
		"<p>El usuario <b>%s</b> ha notificado una baja (%s) desde %s hasta %s.</p><p>%s</p>",
		b.UserID, b.Tipo, b.FechaInicio, fin, b.Descripcion,
	)
	n.enviar(subject, body)
}

// enviar собирает и отправляет письмо.
func (n *Notificador) enviar(subject, htmlBody string) {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		n.logger.Error("Отправка уведомления не удалась",
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
	}
}
