package models

import (
	"fmt"
	"strings"
	"time"
)

// Company is an employer an owner tracks applications against
type Company struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   string    `json:"owner_id" gorm:"not null;uniqueIndex:idx_company_owner_name,priority:1"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_company_owner_name,priority:2"`
	Website   string    `json:"website,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate ensures that the company data is valid
func (c *Company) Validate() error {
	if err := ValidateOwnerID(c.OwnerID); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("company name cannot be empty")
	}
	return nil
}
