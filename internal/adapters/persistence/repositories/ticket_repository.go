package repositories

import (
	"context"

	"expensehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// TicketRepository handles support ticket data access
type TicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create creates a new ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// GetByID gets a ticket by ID with its thread
func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// List lists all tickets with pagination
func (r *TicketRepository) List(ctx context.Context, offset, limit int) ([]*models.Ticket, int64, error) {
	var tickets []*models.Ticket
	var total int64

	r.db.WithContext(ctx).Model(&models.Ticket{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&tickets).Error

	return tickets, total, err
}

// ListByEmployee lists tickets raised by one employee
func (r *TicketRepository) ListByEmployee(ctx context.Context, employeeID uint) ([]*models.Ticket, error) {
	var tickets []*models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

// Update updates a ticket
func (r *TicketRepository) Update(ctx context.Context, ticket *models.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

// AddReply appends a reply to a ticket thread
func (r *TicketRepository) AddReply(ctx context.Context, reply *models.TicketReply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

// Count counts all tickets including soft-deleted ones, for ID generation
func (r *TicketRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Ticket{}).Count(&total).Error
	return total, err
}
