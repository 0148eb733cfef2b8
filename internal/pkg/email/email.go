package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Template names understood by the sender
const (
	TemplateConnectionRequest  = "connection_request"
	TemplateConnectionAccepted = "connection_accepted"
)

// EmailService sends templated notification mail
type EmailService interface {
	Send(ctx context.Context, to, templateName string, data map[string]interface{}) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool          // implicit TLS; otherwise STARTTLS when offered
	AppURL    string        // Frontend URL used for links in mail bodies
	Timeout   time.Duration // whole-exchange limit, DefaultSendTimeout when zero
}

// DefaultSendTimeout bounds one delivery, dial included
const DefaultSendTimeout = 10 * time.Second

type mailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[string]mailTemplate{
	TemplateConnectionRequest: {
		subject: "{{.SenderName}} wants to connect with you",
		body: template.Must(template.New(TemplateConnectionRequest).Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">New connection request</h2>
		<p>Hello {{.RecipientName}},</p>
		<p><strong>{{.SenderName}}</strong> would like to connect with you on the alumni network.</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.AppURL}}/connections" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Review request</a>
		</div>
		<p>Best regards,<br>The Alumni Network Team</p>
	</div>
</body>
</html>`)),
	},
	TemplateConnectionAccepted: {
		subject: "{{.AccepterName}} accepted your connection request",
		body: template.Must(template.New(TemplateConnectionAccepted).Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">You are now connected</h2>
		<p>Hello {{.RecipientName}},</p>
		<p><strong>{{.AccepterName}}</strong> accepted your connection request. You can now send each other messages.</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.AppURL}}/messages" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Say hello</a>
		</div>
		<p>Best regards,<br>The Alumni Network Team</p>
	</div>
</body>
</html>`)),
	},
}

// EmailServiceImpl implements EmailService over SMTP
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	return &EmailServiceImpl{
		config: config,
		logger: logger.With().Str("component", "email").Logger(),
	}
}

// Render produces the subject and HTML body for a template
func (s *EmailServiceImpl) Render(templateName string, data map[string]interface{}) (string, string, error) {
	tpl, ok := templates[templateName]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", templateName)
	}

	vars := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		vars[k] = v
	}
	if _, ok := vars["AppURL"]; !ok {
		vars["AppURL"] = strings.TrimRight(s.config.AppURL, "/")
	}

	var subject bytes.Buffer
	if err := template.Must(template.New("subject").Parse(tpl.subject)).Execute(&subject, vars); err != nil {
		return "", "", fmt.Errorf("failed to render subject: %w", err)
	}

	var body bytes.Buffer
	if err := tpl.body.Execute(&body, vars); err != nil {
		return "", "", fmt.Errorf("failed to render body: %w", err)
	}

	return subject.String(), body.String(), nil
}

// Send renders a template and delivers it. Without SMTP credentials the mail
// is logged and dropped.
func (s *EmailServiceImpl) Send(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	subject, body, err := s.Render(templateName, data)
	if err != nil {
		return err
	}

	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("to", to).
			Str("template", templateName).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	timeout := s.config.Timeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.sendHTMLEmail(ctx, to, subject, body); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("email to %s abandoned: %w", to, err)
		}
		return err
	}
	return nil
}

// buildMessage assembles headers and body in a stable order
func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msg strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, headers[k])
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return []byte(msg.String())
}

func (s *EmailServiceImpl) dial(ctx context.Context, addr string) (net.Conn, error) {
	d := &net.Dialer{}
	if s.config.UseTLS {
		td := &tls.Dialer{NetDialer: d, Config: &tls.Config{ServerName: s.config.Host}}
		return td.DialContext(ctx, "tcp", addr)
	}
	return d.DialContext(ctx, "tcp", addr)
}

// sendHTMLEmail runs the whole SMTP exchange under ctx: every read and write
// fails once ctx is done.
func (s *EmailServiceImpl) sendHTMLEmail(ctx context.Context, toEmail, subject, htmlBody string) error {
	message := s.buildMessage(toEmail, subject, htmlBody)
	serverAddress := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	conn, err := s.dial(ctx, serverAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("failed to set SMTP deadline: %w", err)
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if !s.config.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
				return fmt.Errorf("STARTTLS failed: %w", err)
			}
		}
	}
	if ok, _ := client.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
