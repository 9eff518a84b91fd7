package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"

	"maitred/pkg/logger"
	"maitred/pkg/model"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends reservation notification emails over SMTP.
// Disabled when no SMTP host is configured; Send calls become no-ops.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
	log  *logger.Logger
}

func New(host string, port int, user, pass, from string, log *logger.Logger) *Mailer {
	return &Mailer{
		host: host,
		port: port,
		user: user,
		pass: pass,
		from: from,
		log:  log,
	}
}

// Enabled reports whether the mailer has a configured SMTP endpoint.
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.from != ""
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<p>Dear {{.CustomerName}},</p>
<p>Your reservation has been received.</p>
<ul>
  <li>Table: {{.TableNumber}}</li>
  <li>Date: {{.BookingDate}}</li>
  <li>Time: {{.BookingTime}}</li>
  <li>Guests: {{.Guests}}</li>
  <li>Total: {{.TotalAmount}}</li>
</ul>
<p>We look forward to welcoming you.</p>
`))

var statusTmpl = template.Must(template.New("status").Parse(`
<p>Dear {{.Reservation.CustomerName}},</p>
<p>Your reservation for table {{.Reservation.TableNumber}} on {{.Reservation.BookingDate}} at {{.Reservation.BookingTime}}
is now <strong>{{.Reservation.Status}}</strong>{{if .PreviousStatus}} (was {{.PreviousStatus}}){{end}}.</p>
`))

var paymentTmpl = template.Must(template.New("payment").Parse(`
<p>Dear {{.CustomerName}},</p>
<p>The payment for your reservation on {{.BookingDate}} at {{.BookingTime}} is now
<strong>{{.PaymentStatus}}</strong>. Amount: {{.TotalAmount}}.</p>
`))

// SendConfirmation emails the customer after a reservation is created.
func (m *Mailer) SendConfirmation(res *model.Reservation) error {
	return m.send(res.CustomerEmail, "Reservation received", confirmationTmpl, res)
}

// SendStatusChange emails the customer when a reservation changes status.
func (m *Mailer) SendStatusChange(res *model.Reservation, previousStatus string) error {
	data := struct {
		Reservation    *model.Reservation
		PreviousStatus string
	}{res, previousStatus}
	subject := fmt.Sprintf("Reservation %s", res.Status)
	return m.send(res.CustomerEmail, subject, statusTmpl, data)
}

// SendPaymentChange emails the customer when the payment status changes.
func (m *Mailer) SendPaymentChange(res *model.Reservation) error {
	subject := fmt.Sprintf("Payment %s", res.PaymentStatus)
	return m.send(res.CustomerEmail, subject, paymentTmpl, res)
}

func (m *Mailer) send(to, subject string, tmpl *template.Template, data any) error {
	if !m.Enabled() {
		m.log.Debug("mailer disabled, skipping email", "to", to, "subject", subject)
		return nil
	}
	if to == "" {
		return fmt.Errorf("recipient email cannot be empty")
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	dialer.TLSConfig = &tls.Config{ServerName: m.host}

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	m.log.Info("email sent", "to", to, "subject", subject)
	return nil
}
