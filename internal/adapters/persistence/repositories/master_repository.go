package repositories

import (
	"context"

	"expensehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ============================================================
// Category Repository (Master)
// ============================================================

// CategoryRepository handles expense category data access
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetByID gets a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByName gets a category by name
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List lists all categories
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// ListActive lists active categories
func (r *CategoryRepository) ListActive(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

// Update updates a category
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete soft deletes a category
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

// Count counts all categories
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&total).Error
	return total, err
}

// ============================================================
// Policy Repository (Master)
// ============================================================

// PolicyRepository handles spending policy data access
type PolicyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// Create creates a new policy
func (r *PolicyRepository) Create(ctx context.Context, policy *models.Policy) error {
	return r.db.WithContext(ctx).Create(policy).Error
}

// GetByID gets a policy by ID
func (r *PolicyRepository) GetByID(ctx context.Context, id uint) (*models.Policy, error) {
	var policy models.Policy
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&policy, id).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// List lists all policies
func (r *PolicyRepository) List(ctx context.Context) ([]*models.Policy, error) {
	var policies []*models.Policy
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Creator").
		Order("created_at DESC").
		Find(&policies).Error
	return policies, err
}

// ListActive lists active policies
func (r *PolicyRepository) ListActive(ctx context.Context) ([]*models.Policy, error) {
	var policies []*models.Policy
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true).
		Find(&policies).Error
	return policies, err
}

// ListActiveForCategory lists active policies scoped to the category plus
// global policies (no category)
func (r *PolicyRepository) ListActiveForCategory(ctx context.Context, categoryID uint) ([]*models.Policy, error) {
	var policies []*models.Policy
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("category_id = ? OR category_id IS NULL", categoryID).
		Find(&policies).Error
	return policies, err
}

// Update updates a policy
func (r *PolicyRepository) Update(ctx context.Context, policy *models.Policy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}

// Delete soft deletes a policy
func (r *PolicyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Policy{}, id).Error
}

// Count counts all policies including soft-deleted ones, for ID generation
func (r *PolicyRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Policy{}).Count(&total).Error
	return total, err
}
