package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/applytrack/applytrack/internal/db"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/db/repos"
	"github.com/applytrack/applytrack/internal/logger"
)

// Company manages the employers applications are filed against
type Company struct {
	store *repos.Store
}

var _ CompanyChecker = (*Company)(nil)

// NewCompanyService creates a new Company service
func NewCompanyService(store *repos.Store) *Company {
	return &Company{store: store}
}

// Create registers a company for the owner. Names are unique per owner.
func (s *Company) Create(ctx context.Context, ownerID string, company *models.Company) error {
	company.OwnerID = ownerID
	company.Name = strings.TrimSpace(company.Name)
	if err := company.Validate(); err != nil {
		return invalidArgument("%v", err)
	}
	if err := s.store.Companies.Create(ctx, company); err != nil {
		if db.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: company %q already exists", ErrConflict, company.Name)
		}
		return fmt.Errorf("failed to create company: %w", err)
	}
	logger.InfoWithFields("company created", map[string]interface{}{
		"company_id": company.ID,
		"owner_id":   ownerID,
	})
	return nil
}

// Get retrieves a single company
func (s *Company) Get(ctx context.Context, ownerID string, id uint) (*models.Company, error) {
	company, err := s.store.Companies.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateNotFound(err, "company %d", id)
	}
	return company, nil
}

// List retrieves the owner's companies
func (s *Company) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.Company, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, invalidArgument("%v", err)
	}
	return s.store.Companies.List(ctx, ownerID, opts)
}

// Delete removes a company that no application references
func (s *Company) Delete(ctx context.Context, ownerID string, id uint) error {
	return s.store.InTx(ctx, func(tx *repos.Store) error {
		inUse, err := tx.Applications.CountByCompany(ctx, ownerID, id)
		if err != nil {
			return fmt.Errorf("failed to count applications: %w", err)
		}
		if inUse > 0 {
			return fmt.Errorf("%w: company %d is referenced by %d application(s)", ErrConflict, id, inUse)
		}
		n, err := tx.Companies.Delete(ctx, ownerID, id)
		if err != nil {
			return fmt.Errorf("failed to delete company: %w", err)
		}
		if n == 0 {
			return notFound("company %d", id)
		}
		return nil
	})
}

// CompanyExists reports whether the owner has a company with the given id
func (s *Company) CompanyExists(ctx context.Context, companyID uint, ownerID string) (bool, error) {
	if companyID == 0 {
		return false, nil
	}
	return s.store.Companies.Exists(ctx, ownerID, companyID)
}
