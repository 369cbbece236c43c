package persistence

import (
	"context"
	"strings"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository. Listing queries
// exclude soft-deleted users; ID lookups return them so historical
// references still resolve.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByIDForCompany finds a user by ID within a company
func (r *GormUserRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByEmailForCompany finds a non-deleted user by email within a company
func (r *GormUserRepository) FindByEmailForCompany(ctx context.Context, companyID uuid.UUID, email string) (*identity.User, error) {
	var user identity.User
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("email = ? AND soft_deleted = ?", strings.ToLower(email), false).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindAllByEmail resolves a login email across companies. Email is unique
// per company only, so this can return one user per company holding the
// address. Soft-deleted users cannot authenticate and are excluded here;
// ordering is fixed so authentication behaves deterministically.
func (r *GormUserRepository) FindAllByEmail(ctx context.Context, email string) ([]identity.User, error) {
	var users []identity.User
	err := dbFromContext(ctx, r.db).
		Where("email = ? AND soft_deleted = ?", strings.ToLower(email), false).
		Order("created_at").
		Find(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

// FindActiveForCompany lists non-deleted users of a company
func (r *GormUserRepository) FindActiveForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	db := r.activeQuery(ctx, companyID, filter)
	if err := applyFilter(db, filter).Find(&users).Error; err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

// CountActiveForCompany counts non-deleted users of a company
func (r *GormUserRepository) CountActiveForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.activeQuery(ctx, companyID, filter).Model(&identity.User{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// ExistsByEmailForCompany checks whether a non-deleted user with the email exists
func (r *GormUserRepository) ExistsByEmailForCompany(ctx context.Context, companyID uuid.UUID, email string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&identity.User{}).
		Scopes(tenant.CompanyScope(companyID)).
		Where("email = ? AND soft_deleted = ?", strings.ToLower(email), false).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Save persists a user. Soft deletion is a Save of the flagged aggregate;
// rows are never physically removed.
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return translateError(dbFromContext(ctx, r.db).Save(user).Error)
}

func (r *GormUserRepository) activeQuery(ctx context.Context, companyID uuid.UUID, filter shared.Filter) *gorm.DB {
	db := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("soft_deleted = ?", false)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	return db
}

// Ensure GormUserRepository implements the interface
var _ identity.UserRepository = (*GormUserRepository)(nil)
