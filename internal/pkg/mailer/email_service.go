// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendStatusUpdate(toEmail, protocol, statusLabel, message string) error
	SendProtocol(toEmail, protocol string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	portalURL   string // public tracking page base
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	portalURL := os.Getenv("PORTAL_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		portalURL:   portalURL,
	}
}

// SendProtocol confirms a public submission with the tracking code.
func (s *emailService) SendProtocol(toEmail, protocol string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Recebemos sua solicitação")

	trackLink := fmt.Sprintf("%s/acompanhar?protocolo=%s", s.portalURL, protocol)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Solicitação registrada!</h2>
			<p>Seu protocolo de acompanhamento é:</p>
			<h1 style="color: #4CAF50; letter-spacing: 3px;">%s</h1>
			<p>Acompanhe o andamento por este link:</p>
			<p><a href="%s">%s</a></p>
		</div>
	`, protocol, trackLink, trackLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send protocol to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Protocol sent to %s\n", toEmail)
	return nil
}

// SendStatusUpdate tells the customer their request moved.
func (s *emailService) SendStatusUpdate(toEmail, protocol, statusLabel, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Atualização da solicitação %s", protocol))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Sua solicitação foi atualizada</h2>
			<p>Protocolo: <strong>%s</strong></p>
			<p>Novo status: <strong style="color: #007BFF;">%s</strong></p>
			<p>%s</p>
		</div>
	`, protocol, statusLabel, message)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send status update to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Status update sent to %s\n", toEmail)
	return nil
}
