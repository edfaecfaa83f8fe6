package services

import (
	"context"
	"errors"
	"log"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/core/domain"
	"expensehub/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user management business logic (admin surface)
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List lists users with pagination
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// UpdateUserInput for admin updates. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
	IsActive   *bool   `json:"is_active"`
}

// Update updates a user's profile, role, or active flag
func (s *UserService) Update(ctx context.Context, id uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Role != nil {
		if !domain.ValidRole(domain.Role(*input.Role)) {
			return nil, domain.ErrInvalidInput
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User %d updated (role: %s, active: %t)", user.ID, user.Role, user.IsActive)
	return user, nil
}

// ResetUserPassword sets a new password for a user without knowing the old
// one. Admin escape hatch for locked-out accounts.
func (s *UserService) ResetUserPassword(ctx context.Context, id uint, newPassword string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !password.Validate(newPassword) {
		return ErrWeakPassword
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

// Deactivate soft deletes a user account
func (s *UserService) Deactivate(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// UserStats holds aggregate counts over the user directory
type UserStats struct {
	Total        int64            `json:"total"`
	ByRole       map[string]int64 `json:"by_role"`
	ByDepartment map[string]int64 `json:"by_department"`
}

// GetStats returns the user directory breakdown by role and department
func (s *UserService) GetStats(ctx context.Context) (*UserStats, error) {
	byRole, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	byDept, err := s.userRepo.CountByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		ByRole:       byRole,
		ByDepartment: byDept,
	}
	for _, count := range byRole {
		stats.Total += count
	}
	return stats, nil
}
