// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/models"
)

// NotificationService is the outbound mail port: registration links, reset
// passwords and the blog view milestone all go through here.
type NotificationService struct {
	cfg *config.Config
}

type emailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{cfg: cfg}
}

func (s *NotificationService) SendVerificationEmail(user *models.User, token string) error {
	tmpl := s.getEmailTemplate("verification")

	data := map[string]interface{}{
		"Email":           user.Email,
		"VerificationURL": fmt.Sprintf("%s/v1/auth/verify/%s/%s", s.cfg.App.BaseURL, user.ID, token),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, newPassword string) error {
	tmpl := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Email":       user.Email,
		"NewPassword": newPassword,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendViewMilestoneEmail(blog *models.Blog) error {
	tmpl := s.getEmailTemplate("view_milestone")

	data := map[string]interface{}{
		"Title":     blog.Title,
		"ViewCount": blog.ViewCount,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(blog.Email, tmpl.Subject, body)
}

// Helper methods

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.cfg.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.cfg.Email.SMTPUsername, s.cfg.Email.SMTPPassword, s.cfg.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.cfg.Email.SMTPHost, s.cfg.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.cfg.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) emailTemplate {
	templates := map[string]emailTemplate{
		"verification": {
			Subject: "Подтверждение регистрации на портале Catalogue",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<p>Здравствуйте, {{.Email}}!</p>
	<p>Для завершения регистрации, пожалуйста, перейдите по ссылке:</p>
	<a href="{{.VerificationURL}}">Подтвердить регистрацию</a>
	<p>С уважением, администрация портала Catalogue.</p>
</body>
</html>`,
		},
		"password_reset": {
			Subject: "Сброс пароля на портале Catalogue",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<p>Здравствуйте!</p>
	<p>С вашей учетной записи поступил запрос на отправку нового пароля.</p>
	<p>Ваш новый пароль: <b>{{.NewPassword}}</b></p>
	<p>Если это не ваш запрос, просто войдите на сайт с новым паролем и смените его.</p>
	<p>С уважением, администрация портала Catalogue.</p>
</body>
</html>`,
		},
		"view_milestone": {
			Subject: "Поздравление от сайта Catalogue",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<p>Поздравляем!</p>
	<p>Ваша публикация "{{.Title}}" на сайте Catalogue набрала {{.ViewCount}} просмотров!</p>
	<p>С уважением, администрация сайта!</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return emailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
