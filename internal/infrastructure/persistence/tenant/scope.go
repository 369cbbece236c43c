// Package tenant provides the company-scoping building block for
// repositories. Every tenant-owned query filters by an explicit company
// ID; there is deliberately no ambient company-from-context fallback.
package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyScope returns a GORM scope that filters by the owning company
func CompanyScope(companyID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
