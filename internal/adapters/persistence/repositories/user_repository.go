package repositories

import (
	"context"

	"expensehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmployeeNo gets a user by employee number
func (r *userRepository) GetByEmployeeNo(ctx context.Context, employeeNo string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("employee_no = ?", employeeNo).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByRole lists active users holding the given role
func (r *userRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("is_active = ?", true).
		Find(&users).Error
	return users, err
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete soft deletes a user
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// List lists users with pagination
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	r.db.WithContext(ctx).Model(&models.User{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error

	return users, total, err
}

// ExistsByEmail checks if a user exists by email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// ExistsByEmployeeNo checks if a user exists by employee number
func (r *userRepository) ExistsByEmployeeNo(ctx context.Context, employeeNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("employee_no = ?", employeeNo).
		Count(&count).Error
	return count > 0, err
}

// roleCount is a scan target for grouped counts
type roleCount struct {
	Key   string
	Count int64
}

// CountByRole counts users grouped by role
func (r *userRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	var rows []roleCount
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role AS key, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// CountByDepartment counts users grouped by department
func (r *userRepository) CountByDepartment(ctx context.Context) (map[string]int64, error) {
	var rows []roleCount
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("department AS key, COUNT(*) AS count").
		Group("department").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}
