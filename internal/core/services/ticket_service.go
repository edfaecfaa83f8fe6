package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/core/domain"

	"gorm.io/gorm"
)

// TicketService manages support tickets raised by employees, typically to
// dispute a rejection or chase a missing payment
type TicketService struct {
	ticketRepo   *repositories.TicketRepository
	notification *NotificationService
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo *repositories.TicketRepository, notification *NotificationService) *TicketService {
	return &TicketService{
		ticketRepo:   ticketRepo,
		notification: notification,
	}
}

// CreateTicketInput for raising a ticket
type CreateTicketInput struct {
	EmployeeID  uint
	ExpenseID   string
	Subject     string
	Category    string
	Description string
	Priority    string
}

// Create raises a new support ticket with a generated TKT ID
func (s *TicketService) Create(ctx context.Context, input *CreateTicketInput) (*models.Ticket, error) {
	if strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !models.ValidTicketCategory(input.Category) {
		return nil, domain.ErrInvalidInput
	}
	if input.Priority == "" {
		input.Priority = "medium"
	}

	count, err := s.ticketRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		TicketID:    fmt.Sprintf("TKT%03d", count+1),
		EmployeeID:  input.EmployeeID,
		ExpenseID:   input.ExpenseID,
		Subject:     input.Subject,
		Category:    input.Category,
		Description: input.Description,
		Status:      models.TicketStatusOpen,
		Priority:    input.Priority,
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	log.Printf("🎫 Ticket %s raised by employee %d (%s)", ticket.TicketID, input.EmployeeID, input.Category)

	if s.notification != nil {
		employeeName := fmt.Sprintf("employee %d", input.EmployeeID)
		s.notification.NotifyTicketRaised(ticket, employeeName)
	}

	return ticket, nil
}

// GetByID gets a ticket. Employees may only see their own tickets.
func (s *TicketService) GetByID(ctx context.Context, id, requesterID uint, role domain.Role) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if role == domain.RoleEmployee && ticket.EmployeeID != requesterID {
		return nil, domain.ErrForbidden
	}

	return ticket, nil
}

// List lists tickets. Employees see their own; staff roles see everything.
func (s *TicketService) List(ctx context.Context, requesterID uint, role domain.Role, offset, limit int) ([]*models.Ticket, int64, error) {
	if role == domain.RoleEmployee {
		tickets, err := s.ticketRepo.ListByEmployee(ctx, requesterID)
		return tickets, int64(len(tickets)), err
	}
	return s.ticketRepo.List(ctx, offset, limit)
}

// Reply appends a message to a ticket thread. A staff reply moves an open
// ticket to in_progress and notifies the employee.
func (s *TicketService) Reply(ctx context.Context, ticketID, userID uint, role domain.Role, message string) (*models.Ticket, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrInvalidInput
	}

	ticket, err := s.GetByID(ctx, ticketID, userID, role)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, domain.ErrInvalidState
	}

	reply := &models.TicketReply{
		TicketRef: ticket.ID,
		UserID:    userID,
		Message:   message,
	}
	if err := s.ticketRepo.AddReply(ctx, reply); err != nil {
		return nil, err
	}

	if role != domain.RoleEmployee {
		if ticket.Status == models.TicketStatusOpen {
			ticket.Status = models.TicketStatusInProgress
			if err := s.ticketRepo.Update(ctx, ticket); err != nil {
				return nil, err
			}
		}
		if s.notification != nil && ticket.Employee != nil {
			s.notification.NotifyTicketReply(ticket, ticket.Employee.Email, message)
		}
	}

	return s.ticketRepo.GetByID(ctx, ticket.ID)
}

// UpdateStatus moves a ticket through its lifecycle. Resolution records who
// resolved it and when, and notifies the employee.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID, userID uint, status string) (*models.Ticket, error) {
	if !models.ValidTicketStatus(status) {
		return nil, domain.ErrInvalidInput
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	ticket.Status = status
	if status == models.TicketStatusResolved {
		now := time.Now()
		ticket.ResolvedBy = &userID
		ticket.ResolvedAt = &now
	}

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if status == models.TicketStatusResolved && s.notification != nil && ticket.Employee != nil {
		s.notification.NotifyTicketResolved(ticket, ticket.Employee.Email)
	}

	return ticket, nil
}
