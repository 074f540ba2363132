package repos

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/models"
)

// TransitionRepository handles database operations for the transition ledger.
// Entries are insert-only apart from their timestamp and note.
type TransitionRepository struct {
	db *gorm.DB
}

// NewTransitionRepository creates a new instance of TransitionRepository
func NewTransitionRepository(db *gorm.DB) *TransitionRepository {
	return &TransitionRepository{
		db: db,
	}
}

// Append inserts a new ledger entry, assigning the next sequence number for its application
func (r *TransitionRepository) Append(ctx context.Context, t *models.Transition) error {
	seq, err := r.nextSequence(ctx, t.ApplicationID)
	if err != nil {
		return fmt.Errorf("failed to compute transition sequence: %w", err)
	}
	t.Sequence = seq
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransitionRepository) nextSequence(ctx context.Context, applicationID uint) (uint, error) {
	var last int64
	err := r.db.WithContext(ctx).Model(&models.Transition{}).
		Where(models.TransitionApplicationIDField+" = ?", applicationID).
		Select("COALESCE(MAX(" + models.TransitionSequenceField + "), 0)").
		Row().Scan(&last)
	if err != nil {
		return 0, err
	}
	return uint(last) + 1, nil
}

// ownedBy scopes a transition query to entries whose parent application belongs to ownerID
func (r *TransitionRepository) ownedBy(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Where(models.TransitionApplicationIDField+" IN (?)",
			r.db.Model(&models.Application{}).Select(models.ApplicationIDField).
				Where(models.ApplicationOwnerIDField+" = ?", ownerID))
}

// GetByID retrieves a ledger entry whose application belongs to ownerID
func (r *TransitionRepository) GetByID(ctx context.Context, ownerID string, id uint) (*models.Transition, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var t models.Transition
	if err := r.ownedBy(ctx, ownerID).
		Where("id = ?", id).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByApplication retrieves an application's ledger in write order
func (r *TransitionRepository) ListByApplication(ctx context.Context, ownerID string, applicationID uint) ([]models.Transition, error) {
	var transitions []models.Transition
	err := r.ownedBy(ctx, ownerID).
		Where(models.TransitionApplicationIDField+" = ?", applicationID).
		Order(models.TransitionSequenceField + " ASC").
		Find(&transitions).Error
	return transitions, err
}

// ListByOwner retrieves every ledger entry of an owner, grouped by application in write order
func (r *TransitionRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Transition, error) {
	var transitions []models.Transition
	err := r.ownedBy(ctx, ownerID).
		Order(models.TransitionApplicationIDField + " ASC").
		Order(models.TransitionSequenceField + " ASC").
		Find(&transitions).Error
	return transitions, err
}

// CountByOwner counts the ledger entries of an owner
func (r *TransitionRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.ownedBy(ctx, ownerID).Model(&models.Transition{}).Count(&count).Error
	return count, err
}

// UpdateMeta corrects the timestamp and/or note of an entry. State columns are
// never touched. It reports the number of rows matched.
func (r *TransitionRepository) UpdateMeta(ctx context.Context, ownerID string, id uint, transitionedAt *time.Time, note *string) (int64, error) {
	updates := map[string]interface{}{}
	if transitionedAt != nil {
		updates[models.TransitionTransitionedAtField] = *transitionedAt
	}
	if note != nil {
		updates[models.TransitionNoteField] = *note
	}
	if len(updates) == 0 {
		var count int64
		err := r.ownedBy(ctx, ownerID).Model(&models.Transition{}).Where("id = ?", id).Count(&count).Error
		return count, err
	}
	result := r.ownedBy(ctx, ownerID).Model(&models.Transition{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// DeleteByApplication removes the whole ledger of an application
func (r *TransitionRepository) DeleteByApplication(ctx context.Context, applicationID uint) error {
	return r.db.WithContext(ctx).
		Where(models.TransitionApplicationIDField+" = ?", applicationID).
		Delete(&models.Transition{}).Error
}
