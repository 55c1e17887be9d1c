package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"lashbook/models"

	"go.uber.org/zap"
)

// SMTPSender implements Sender over plain SMTP with AUTH.
type SMTPSender struct {
	Host   string
	Port   string
	User   string
	Pass   string
	From   string
	Logger *zap.Logger
}

func NewSMTPSender(host, port, user, pass, from string, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, User: user, Pass: pass, From: from, Logger: logger}
}

func (s *SMTPSender) Send(ctx context.Context, msg models.EmailMessage) error {
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.From, msg.To, msg.Subject, msg.Body)

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	if err := smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("notification: send mail to %s: %w", msg.To, err)
	}
	s.Logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (s *SMTPSender) SendBookingConfirmation(ctx context.Context, booking *models.Booking) error {
	msg := models.EmailMessage{
		To:      booking.Payload.ClientEmail,
		Subject: "Your booking is confirmed",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s appointment on %s at %s is confirmed.\nBooking reference: %s\n\nSee you soon!",
			booking.Payload.ClientName,
			booking.Payload.Service,
			booking.Date,
			booking.TimeSlot,
			booking.BookingReference,
		),
	}
	return s.Send(ctx, msg)
}
