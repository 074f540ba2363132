// Package repos provides database repository implementations
package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/models"
)

// Store bundles the repositories that must be written together.
// An application record and its ledger are the unit of atomicity.
type Store struct {
	db           *gorm.DB
	Applications *ApplicationRepository
	Transitions  *TransitionRepository
	Companies    *CompanyRepository
}

// NewStore creates a Store over the given connection
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Applications: NewApplicationRepository(db),
		Transitions:  NewTransitionRepository(db),
		Companies:    NewCompanyRepository(db),
	}
}

// InTx runs fn inside a single database transaction. The Store passed to fn is
// bound to the transaction; returning an error rolls everything back.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// paginate applies limit and offset, leaving the query unbounded for a zero limit
func paginate(query *gorm.DB, opts *models.ListOptions) *gorm.DB {
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	return query
}
