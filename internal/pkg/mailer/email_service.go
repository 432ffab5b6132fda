package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendRefundCompleted(toEmail string, amountCents int64, reference string) error
	SendRefundRejected(toEmail, reason string) error
	SendPayoutProcessed(toEmail string, netAmountCents int64, reference string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] %q sent to %s\n", subject, toEmail)
	return nil
}

func (s *emailService) SendRefundCompleted(toEmail string, amountCents int64, reference string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your refund is on its way</h2>
			<p>We have processed your refund of:</p>
			<h1 style="color: #4CAF50;">$%s</h1>
			<p>Reference: %s</p>
			<p>Depending on your bank, it may take 5-10 business days to appear.</p>
		</div>
	`, formatCents(amountCents), reference)

	return s.send(toEmail, "Your refund has been processed", body)
}

func (s *emailService) SendRefundRejected(toEmail, reason string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>About your refund request</h2>
			<p>Your refund request was reviewed and could not be approved.</p>
			<p><strong>Reason:</strong> %s</p>
			<p>If you believe this is a mistake, please contact support.</p>
		</div>
	`, reason)

	return s.send(toEmail, "Your refund request was declined", body)
}

func (s *emailService) SendPayoutProcessed(toEmail string, netAmountCents int64, reference string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your earnings are on their way</h2>
			<p>We have transferred your coaching earnings:</p>
			<h1 style="color: #4CAF50;">$%s</h1>
			<p>Transfer reference: %s</p>
			<p>Depending on your bank, it may take 1-3 business days to arrive.</p>
		</div>
	`, formatCents(netAmountCents), reference)

	return s.send(toEmail, "Your payout has been sent", body)
}
