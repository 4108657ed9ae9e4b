package service

import (
	"bytes"
	"context"
	"embed"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"
	"time"

	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/common"

	"github.com/wneessen/go-mail"
)

const (
	OrderConfirmationSubject = "Neue Bestellung bei Greenchild bestätigt"
	PasswordResetSubject     = "Passwort zurücksetzen - Greenchild"

	mailTimeout = 15 * time.Second
)

//go:embed mail/*
var mailFS embed.FS

var (
	textTemplates = texttemplate.Must(texttemplate.ParseFS(mailFS, "mail/*.txt"))
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(mailFS, "mail/*.html"))
)

// MailSender delivers composed messages.
type MailSender interface {
	Send(ctx context.Context, msgs ...*mail.Msg) error
	Verify(ctx context.Context) error
}

var (
	senderMu   sync.RWMutex
	mailSender MailSender
)

// SetMailSender overrides the SMTP sender; nil restores it.
func SetMailSender(s MailSender) {
	senderMu.Lock()
	defer senderMu.Unlock()
	mailSender = s
}

func getMailSender() MailSender {
	senderMu.RLock()
	defer senderMu.RUnlock()
	if mailSender != nil {
		return mailSender
	}
	return &smtpSender{cfg: config.GetMailConfig()}
}

type smtpSender struct {
	cfg config.MailConfig
}

func (s *smtpSender) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(mailTimeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if s.cfg.HasAuth() {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

func (s *smtpSender) Send(ctx context.Context, msgs ...*mail.Msg) error {
	c, err := s.client()
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, msgs...)
}

func (s *smtpSender) Verify(ctx context.Context) error {
	c, err := s.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return err
	}
	return c.Close()
}

// OrderEmailData is everything the order confirmation mail shows.
type OrderEmailData struct {
	UserEmail         string
	UserName          string
	FirstName         string
	LastName          string
	Street            *string
	HouseNumber       *string
	Zip               *string
	City              *string
	Phone             *string
	Amount            int
	BoughtAt          time.Time
	ResetPasswordLink string
}

type PasswordResetEmailData struct {
	UserEmail         string
	UserName          string
	ResetPasswordLink string
}

type orderEmailView struct {
	UserName          string
	UserEmail         string
	FirstName         string
	LastName          string
	Phone             string
	Address           string
	Amount            string
	Hectares          string
	BoughtAt          string
	ResetPasswordLink string
}

// MailService renders and sends the transactional e-mails.
type MailService struct{}

func (s *MailService) SendOrderConfirmation(ctx context.Context, data OrderEmailData) error {
	text, html, err := renderOrderEmail(data)
	if err != nil {
		return err
	}
	return s.send(ctx, data.UserEmail, OrderConfirmationSubject, text, html)
}

func (s *MailService) SendPasswordReset(ctx context.Context, data PasswordResetEmailData) error {
	text, html, err := render("reset", data)
	if err != nil {
		return err
	}
	return s.send(ctx, data.UserEmail, PasswordResetSubject, text, html)
}

// TestConfiguration dials the SMTP server without sending anything.
func (s *MailService) TestConfiguration(ctx context.Context) error {
	if err := getMailSender().Verify(ctx); err != nil {
		logger.Error("email server connection failed:", err)
		return err
	}
	return nil
}

func (s *MailService) send(ctx context.Context, to, subject, text, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(config.GetMailConfig().From); err != nil {
		return common.NewErrorf("invalid sender address: %v", err)
	}
	if err := msg.To(to); err != nil {
		return common.NewErrorf("invalid recipient address %q: %v", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()
	if err := getMailSender().Send(ctx, msg); err != nil {
		logger.Warningf("sending %q to %s failed: %v", subject, to, err)
		return err
	}
	return nil
}

func renderOrderEmail(data OrderEmailData) (string, string, error) {
	addressLine := joinPresent(" ", data.Street, data.HouseNumber)
	cityLine := joinPresent(" ", data.Zip, data.City)
	view := orderEmailView{
		UserName:          data.UserName,
		UserEmail:         data.UserEmail,
		FirstName:         data.FirstName,
		LastName:          data.LastName,
		Phone:             deref(data.Phone),
		Address:           joinPresent(", ", &addressLine, &cityLine),
		Amount:            common.FormatNumberDE(data.Amount),
		Hectares:          FormatHectares(CalculateHectares(data.Amount)),
		BoughtAt:          common.FormatDateDE(data.BoughtAt),
		ResetPasswordLink: data.ResetPasswordLink,
	}
	return render("order", view)
}

func render(name string, data any) (string, string, error) {
	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return "", "", err
	}
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return "", "", err
	}
	return text.String(), html.String(), nil
}

func joinPresent(sep string, parts ...*string) string {
	present := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != nil && *p != "" {
			present = append(present, *p)
		}
	}
	return strings.Join(present, sep)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
