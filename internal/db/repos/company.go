package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/models"
)

// CompanyRepository handles database operations for companies
type CompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new instance of CompanyRepository
func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{
		db: db,
	}
}

// Create creates a new company in the database
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// GetByID retrieves a company owned by ownerID
func (r *CompanyRepository) GetByID(ctx context.Context, ownerID string, id uint) (*models.Company, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Exists reports whether a company with the given id is owned by ownerID
func (r *CompanyRepository) Exists(ctx context.Context, ownerID string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Count(&count).Error
	return count > 0, err
}

// List retrieves an owner's companies by name with pagination
func (r *CompanyRepository) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.Company, error) {
	var companies []models.Company
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if opts != nil {
		query = paginate(query, opts)
	}
	err := query.Order("name ASC").Find(&companies).Error
	return companies, err
}

// Delete removes a company owned by ownerID and reports rows affected
func (r *CompanyRepository) Delete(ctx context.Context, ownerID string, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Company{})
	return result.RowsAffected, result.Error
}
