package repos

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/models"
)

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
	}
}

// Create creates a new application in the database
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Omit("Company", "Transitions").Create(app).Error
}

// GetByID retrieves an application owned by ownerID
func (r *ApplicationRepository) GetByID(ctx context.Context, ownerID string, id uint) (*models.Application, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var app models.Application
	if err := r.db.WithContext(ctx).
		Preload("Company").
		Where(models.ApplicationIDField+" = ?", id).
		Where(models.ApplicationOwnerIDField+" = ?", ownerID).
		First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// Exists reports whether an application with the given id is owned by ownerID
func (r *ApplicationRepository) Exists(ctx context.Context, ownerID string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where(models.ApplicationIDField+" = ?", id).
		Where(models.ApplicationOwnerIDField+" = ?", ownerID).
		Count(&count).Error
	return count > 0, err
}

// List retrieves applications for an owner with pagination and filters, newest first
func (r *ApplicationRepository) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.Application, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var apps []models.Application
	query := r.db.WithContext(ctx).Preload("Company").
		Where(models.ApplicationOwnerIDField+" = ?", ownerID)
	if opts != nil {
		if opts.State != nil {
			query = query.Where(models.ApplicationCurrentStateField+" = ?", *opts.State)
		}
		if opts.CompanyID != 0 {
			query = query.Where("company_id = ?", opts.CompanyID)
		}
		if opts.HotOnly {
			query = query.Where(models.ApplicationHotField+" = ?", true)
		}
		query = paginate(query, opts)
	}
	err := query.Order("created_at DESC, id DESC").Find(&apps).Error
	return apps, err
}

// ListAll retrieves every application for an owner, oldest first
func (r *ApplicationRepository) ListAll(ctx context.Context, ownerID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).Preload("Company").
		Where(models.ApplicationOwnerIDField+" = ?", ownerID).
		Order("id ASC").
		Find(&apps).Error
	return apps, err
}

// CompareAndSwapState moves the cached state from observed to next, but only if
// neither the state nor the version changed since they were read. appliedAt is
// written only when non-nil. It reports whether the row was updated.
func (r *ApplicationRepository) CompareAndSwapState(
	ctx context.Context,
	ownerID string,
	id uint,
	observed models.State,
	version uint,
	next models.State,
	appliedAt *time.Time,
) (bool, error) {
	updates := map[string]interface{}{
		models.ApplicationCurrentStateField: next,
		models.ApplicationVersionField:      version + 1,
	}
	if appliedAt != nil {
		updates[models.ApplicationAppliedAtField] = *appliedAt
	}
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where(models.ApplicationIDField+" = ?", id).
		Where(models.ApplicationOwnerIDField+" = ?", ownerID).
		Where(models.ApplicationCurrentStateField+" = ?", observed).
		Where(models.ApplicationVersionField+" = ?", version).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateColumns writes the named columns of app for the application owned by
// ownerID. The state and version columns can only change through
// CompareAndSwapState. It reports the number of rows matched.
func (r *ApplicationRepository) UpdateColumns(ctx context.Context, ownerID string, app *models.Application, columns ...string) (int64, error) {
	for _, c := range columns {
		if c == models.ApplicationCurrentStateField || c == models.ApplicationVersionField {
			return 0, fmt.Errorf("%s can only change through a move", c)
		}
	}
	if len(columns) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where(models.ApplicationIDField+" = ?", app.ID).
		Where(models.ApplicationOwnerIDField+" = ?", ownerID).
		Select(columns).
		Updates(app)
	return result.RowsAffected, result.Error
}

// Delete removes an application owned by ownerID and reports rows affected
func (r *ApplicationRepository) Delete(ctx context.Context, ownerID string, id uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where(models.ApplicationIDField+" = ?", id).
		Where(models.ApplicationOwnerIDField+" = ?", ownerID).
		Delete(&models.Application{})
	return result.RowsAffected, result.Error
}

// CountByCompany counts applications that reference a company
func (r *ApplicationRepository) CountByCompany(ctx context.Context, ownerID string, companyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where(models.ApplicationOwnerIDField+" = ?", ownerID).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

// ClearStaleHot clears the hot flag of an owner's applications marked hot before cutoff
func (r *ApplicationRepository) ClearStaleHot(ctx context.Context, ownerID string, cutoff time.Time) (int64, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return 0, fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.clearStaleHot(r.db.WithContext(ctx).Where(models.ApplicationOwnerIDField+" = ?", ownerID), cutoff)
}

// ClearStaleHotAll clears stale hot flags across every owner
func (r *ApplicationRepository) ClearStaleHotAll(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.clearStaleHot(r.db.WithContext(ctx), cutoff)
}

func (r *ApplicationRepository) clearStaleHot(query *gorm.DB, cutoff time.Time) (int64, error) {
	result := query.Model(&models.Application{}).
		Where(models.ApplicationHotField+" = ?", true).
		Where(models.ApplicationHotDateField+" IS NOT NULL").
		Where(models.ApplicationHotDateField+" < ?", cutoff).
		Updates(map[string]interface{}{
			models.ApplicationHotField:     false,
			models.ApplicationHotDateField: nil,
		})
	return result.RowsAffected, result.Error
}
