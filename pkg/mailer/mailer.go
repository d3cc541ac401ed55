package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/tarekkmohamed/ecommerce-backend/config"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
)

// Mailer sends transactional email over SMTP. When no SMTP host is
// configured it runs in dev mode and only logs the message content.
type Mailer struct {
	cfg     config.SMTPConfig
	baseURL string
}

func New(cfg config.SMTPConfig, baseURL string) *Mailer {
	return &Mailer{cfg: cfg, baseURL: baseURL}
}

func (m *Mailer) devMode() bool {
	return m.cfg.Host == "" || m.cfg.Username == "" || m.cfg.Password == ""
}

// SendActivationEmail sends the account activation link for a new registration
func (m *Mailer) SendActivationEmail(toEmail, token string) error {
	activationLink := fmt.Sprintf("%s/api/v1/auth/activate/%s", m.baseURL, token)

	if m.devMode() {
		logger.Info("Dev mode: activation email not sent", map[string]interface{}{
			"email": toEmail,
			"link":  activationLink,
		})
		return nil
	}

	subject := "Activate your account"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h1 style="color: #333;">Welcome!</h1>
	<p style="color: #666; line-height: 1.6;">
		Thanks for signing up. Click the link below to activate your account.
	</p>
	<p><a href="%s">Activate account</a></p>
	<p style="color: #999; font-size: 14px;">This link is valid for 24 hours.</p>
	<p style="color: #999; font-size: 14px;">If you did not create an account, you can ignore this email.</p>
</body>
</html>
`, activationLink)

	return m.send(toEmail, subject, body)
}

// SendPasswordResetEmail sends a password reset link
func (m *Mailer) SendPasswordResetEmail(toEmail, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token)

	if m.devMode() {
		logger.Info("Dev mode: password reset email not sent", map[string]interface{}{
			"email": toEmail,
			"link":  resetLink,
		})
		return nil
	}

	subject := "Reset your password"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h1 style="color: #333;">Password reset</h1>
	<p style="color: #666; line-height: 1.6;">
		A password reset was requested for your account.
		Click the link below to choose a new password.
	</p>
	<p><a href="%s">Reset password</a></p>
	<p style="color: #999; font-size: 14px;">This link is valid for 1 hour and can be used once.</p>
	<p style="color: #999; font-size: 14px;">If you did not request this, you can ignore this email.</p>
</body>
</html>
`, resetLink)

	return m.send(toEmail, subject, body)
}

// SendOrderConfirmation sends an order placed notification. Failures are
// reported to the caller but should not fail the checkout itself.
func (m *Mailer) SendOrderConfirmation(toEmail, orderNumber string, totalAmount float64) error {
	if m.devMode() {
		logger.Info("Dev mode: order confirmation email not sent", map[string]interface{}{
			"email":        toEmail,
			"order_number": orderNumber,
			"total_amount": totalAmount,
		})
		return nil
	}

	subject := fmt.Sprintf("Order %s confirmed", orderNumber)
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h1 style="color: #333;">Thank you for your order</h1>
	<p style="color: #666; line-height: 1.6;">
		Your order <strong>%s</strong> has been received.
	</p>
	<p style="color: #666;">Order total: <strong>%.2f</strong></p>
	<p style="color: #999; font-size: 14px;">We will let you know when it ships.</p>
</body>
</html>
`, orderNumber, totalAmount)

	return m.send(toEmail, subject, body)
}

func (m *Mailer) send(toEmail, subject, body string) error {
	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.From, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{toEmail}, message); err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"email":   toEmail,
			"subject": subject,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"email":   toEmail,
		"subject": subject,
	})
	return nil
}
