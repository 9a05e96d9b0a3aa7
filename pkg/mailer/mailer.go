package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"zinbook/pkg/logger"
	"zinbook/pkg/model"

	"github.com/wneessen/go-mail"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // e.g. "Zinthiya Trust <noreply@zinthiyatrust.org>"
}

// Mailer sends transactional booking emails over SMTP.
type Mailer struct {
	client *mail.Client
	from   string
	loc    *time.Location
	log    *logger.Logger
}

func New(cfg Config, loc *time.Location, log *logger.Logger) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host cannot be empty")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("sender address cannot be empty")
	}
	if loc == nil {
		loc = time.UTC
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &Mailer{
		client: client,
		from:   cfg.From,
		loc:    loc,
		log:    log,
	}, nil
}

// SendBookingConfirmation emails the client their appointment details.
func (m *Mailer) SendBookingConfirmation(ctx context.Context, booking *model.Booking) error {
	body, err := renderTemplate(confirmationTmpl, m.templateData(booking, ""))
	if err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	subject := fmt.Sprintf("Appointment Confirmed - %s", booking.BookingReference)
	return m.send(ctx, booking.ClientEmail, subject, body)
}

// SendVolunteerNotification emails the volunteer about a newly assigned
// booking.
func (m *Mailer) SendVolunteerNotification(ctx context.Context, volunteer *model.Volunteer, booking *model.Booking) error {
	body, err := renderTemplate(volunteerTmpl, m.templateData(booking, volunteer.FullName))
	if err != nil {
		return fmt.Errorf("failed to render volunteer notification: %w", err)
	}

	subject := fmt.Sprintf("New Booking - %s", booking.BookingReference)
	return m.send(ctx, volunteer.Email, subject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Info("email sent", "to", to, "subject", subject)
	return nil
}

type emailData struct {
	ClientName       string
	VolunteerName    string
	BookingReference string
	Date             string // dd/mm/yyyy
	Time             string // HH:MM
	ConsultationType string
}

func (m *Mailer) templateData(booking *model.Booking, volunteerName string) emailData {
	start := booking.StartTime.In(m.loc)
	consultation := "In-Person"
	if booking.ConsultationType == model.ConsultationPhone {
		consultation = "Phone Call"
	}
	return emailData{
		ClientName:       booking.ClientName,
		VolunteerName:    volunteerName,
		BookingReference: booking.BookingReference,
		Date:             start.Format("02/01/2006"),
		Time:             start.Format("15:04"),
		ConsultationType: consultation,
	}
}

func renderTemplate(tmpl *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Your Appointment is Confirmed!</h2>
  <p>Dear {{.ClientName}},</p>
  <p>Your appointment with Zinthiya Ganeshpanchan Trust has been confirmed.</p>

  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Booking Details</h3>
    <p><strong>Reference:</strong> {{.BookingReference}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Time:</strong> {{.Time}}</p>
    <p><strong>Type:</strong> {{.ConsultationType}}</p>
  </div>

  <p>We look forward to supporting you.</p>
  <p style="color: #6b7280; font-size: 14px;">
    If you need to reschedule or cancel, please contact us at bookings@zinthiyatrust.org
  </p>

  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">
  <p style="color: #6b7280; font-size: 12px;">
    Zinthiya Ganeshpanchan Trust<br>
    12 Bishop Street, Leicester LE1 6AF<br>
    0116 254 5168
  </p>
</div>
`))

var volunteerTmpl = template.Must(template.New("volunteer").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">New Booking Assigned</h2>
  <p>Hello {{.VolunteerName}},</p>
  <p>You have a new booking:</p>

  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Reference:</strong> {{.BookingReference}}</p>
    <p><strong>Client:</strong> {{.ClientName}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Time:</strong> {{.Time}}</p>
    <p><strong>Type:</strong> {{.ConsultationType}}</p>
  </div>

  <p>Please log in to your volunteer portal for full details.</p>
</div>
`))
