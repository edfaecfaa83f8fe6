package services

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"sync"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/config"

	"github.com/google/uuid"
)

// EventType identifies what happened for notification purposes
type EventType string

const (
	EventSubmitted       EventType = "submitted"
	EventApproved        EventType = "approved"
	EventRejected        EventType = "rejected"
	EventPaid            EventType = "paid"
	EventTicketRaised    EventType = "ticket_raised"
	EventTicketReplied   EventType = "ticket_replied"
	EventTicketResolved  EventType = "ticket_resolved"
	EventPasswordReset   EventType = "password_reset"
	EventPasswordChanged EventType = "password_changed"
)

// Notification is one outbound email job
type Notification struct {
	ID        string
	Event     EventType
	Recipient string
	Subject   string
	Body      string
}

// Mailer delivers a single message
type Mailer interface {
	Send(to, subject, body string) error
}

// smtpMailer sends mail over SMTP with optional plain auth
type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a mailer from SMTP config
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body,
	))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}

// NotificationService dispatches emails on workflow transitions. Dispatch is
// fire-and-forget: Notify enqueues to a buffered channel and a single worker
// drains it, so a slow or failing mail server never blocks or fails the
// triggering request. Delivery failures are logged only.
type NotificationService struct {
	mailer   Mailer
	userRepo repositories.UserRepository
	enabled  bool

	jobs   chan Notification
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewNotificationService creates a new notification service. The service is
// disabled (all sends dropped) when the SMTP host is not configured.
func NewNotificationService(cfg config.SMTPConfig, userRepo repositories.UserRepository, bufferSize int) *NotificationService {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &NotificationService{
		mailer:   NewSMTPMailer(cfg),
		userRepo: userRepo,
		enabled:  cfg.Host != "",
		jobs:     make(chan Notification, bufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// Start launches the dispatch worker
func (s *NotificationService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.ctx.Done():
				// Drain whatever is already queued before exiting
				for {
					select {
					case job := <-s.jobs:
						s.deliver(job)
					default:
						return
					}
				}
			case job := <-s.jobs:
				s.deliver(job)
			}
		}
	}()
}

// Stop drains queued notifications and stops the worker
func (s *NotificationService) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *NotificationService) deliver(job Notification) {
	if err := s.mailer.Send(job.Recipient, job.Subject, job.Body); err != nil {
		log.Printf("⚠️ Notification %s (%s) to %s failed: %v", job.ID, job.Event, job.Recipient, err)
		return
	}
	log.Printf("📧 Notification %s (%s) sent to %s", job.ID, job.Event, job.Recipient)
}

// Notify enqueues a notification. It never blocks: when the buffer is full
// the event is dropped with a warning.
func (s *NotificationService) Notify(event EventType, recipient, subject, body string) {
	if !s.enabled || recipient == "" {
		return
	}

	job := Notification{
		ID:        uuid.NewString(),
		Event:     event,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	}

	select {
	case s.jobs <- job:
	default:
		log.Printf("⚠️ Notification queue full, dropping %s event for %s", event, recipient)
	}
}

// adminEmails resolves recipients for admin-facing events via the
// role-indexed user directory
func (s *NotificationService) adminEmails() []string {
	if s.userRepo == nil {
		return nil
	}
	admins, err := s.userRepo.ListByRole(s.ctx, "admin")
	if err != nil {
		log.Printf("⚠️ Admin lookup for notification failed: %v", err)
		return nil
	}
	emails := make([]string, 0, len(admins))
	for _, a := range admins {
		emails = append(emails, a.Email)
	}
	return emails
}

// NotifyExpenseSubmitted informs every admin about a new claim
func (s *NotificationService) NotifyExpenseSubmitted(expense *models.Expense, employeeName string) {
	subject := fmt.Sprintf("New expense %s submitted", expense.ExpenseID)
	body := fmt.Sprintf(
		"A new expense claim has been submitted.\n\nClaim: %s\nEmployee: %s\nVendor: %s\nAmount: %.2f\nStatus: %s\n\nPlease review it in the approvals queue.",
		expense.ExpenseID, employeeName, expense.Vendor, expense.Amount, expense.Status,
	)
	for _, email := range s.adminEmails() {
		s.Notify(EventSubmitted, email, subject, body)
	}
}

// NotifyExpenseApproved informs the employee their claim cleared every level
func (s *NotificationService) NotifyExpenseApproved(expense *models.Expense, recipient, employeeName string) {
	subject := fmt.Sprintf("Expense %s approved", expense.ExpenseID)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour expense claim %s for %.2f (%s) has been fully approved.\nPayment will be processed shortly.",
		employeeName, expense.ExpenseID, expense.Amount, expense.Vendor,
	)
	s.Notify(EventApproved, recipient, subject, body)
}

// NotifyExpenseRejected informs the employee with the rejection reason
func (s *NotificationService) NotifyExpenseRejected(expense *models.Expense, recipient, reason string) {
	subject := fmt.Sprintf("Expense %s rejected", expense.ExpenseID)
	body := fmt.Sprintf(
		"Your expense claim %s for %.2f (%s) has been rejected.\n\nReason: %s\n\nYou can raise a support ticket to dispute this decision.",
		expense.ExpenseID, expense.Amount, expense.Vendor, reason,
	)
	s.Notify(EventRejected, recipient, subject, body)
}

// NotifyPaymentProcessed informs the employee their claim was settled
func (s *NotificationService) NotifyPaymentProcessed(expense *models.Expense, recipient string) {
	subject := fmt.Sprintf("Expense %s paid", expense.ExpenseID)
	body := fmt.Sprintf(
		"Your expense claim %s has been paid.\n\nAmount: %.2f\nMethod: %s\nReference: %s",
		expense.ExpenseID, expense.Amount, expense.PaymentMethod, expense.PaymentReference,
	)
	s.Notify(EventPaid, recipient, subject, body)
}

// NotifyTicketRaised informs every admin about a new support ticket
func (s *NotificationService) NotifyTicketRaised(ticket *models.Ticket, employeeName string) {
	subject := fmt.Sprintf("New support ticket %s", ticket.TicketID)
	body := fmt.Sprintf(
		"A new support ticket has been raised.\n\nTicket: %s\nEmployee: %s\nCategory: %s\nSubject: %s\n\n%s",
		ticket.TicketID, employeeName, ticket.Category, ticket.Subject, ticket.Description,
	)
	for _, email := range s.adminEmails() {
		s.Notify(EventTicketRaised, email, subject, body)
	}
}

// NotifyTicketReply informs the employee about a staff reply
func (s *NotificationService) NotifyTicketReply(ticket *models.Ticket, recipient, message string) {
	subject := fmt.Sprintf("Reply on ticket %s", ticket.TicketID)
	body := fmt.Sprintf(
		"There is a new reply on your ticket %s (%s):\n\n%s",
		ticket.TicketID, ticket.Subject, message,
	)
	s.Notify(EventTicketReplied, recipient, subject, body)
}

// NotifyTicketResolved informs the employee their ticket was resolved
func (s *NotificationService) NotifyTicketResolved(ticket *models.Ticket, recipient string) {
	subject := fmt.Sprintf("Ticket %s resolved", ticket.TicketID)
	body := fmt.Sprintf(
		"Your support ticket %s (%s) has been resolved.\nReply to the ticket if the issue persists.",
		ticket.TicketID, ticket.Subject,
	)
	s.Notify(EventTicketResolved, recipient, subject, body)
}

// NotifyPasswordReset sends the reset link
func (s *NotificationService) NotifyPasswordReset(recipient, resetURL string) {
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\nReset link (valid for 1 hour):\n%s\n\nIf you did not request this, ignore this email.",
		resetURL,
	)
	s.Notify(EventPasswordReset, recipient, "Password reset request", body)
}

// NotifyPasswordChanged confirms a completed password change
func (s *NotificationService) NotifyPasswordChanged(recipient string) {
	body := "Your password has been changed.\nIf this wasn't you, contact your administrator immediately."
	s.Notify(EventPasswordChanged, recipient, "Password changed", body)
}
