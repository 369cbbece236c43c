package identity

import (
	"context"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages the users of a company
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create adds a user to the company
func (s *UserService) Create(ctx context.Context, companyID uuid.UUID, input CreateUserInput) (*UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmailForCompany(ctx, companyID, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}

	user, err := identity.NewUser(companyID, input.Email, input.Name, passwordHash, input.Role)
	if err != nil {
		return nil, err
	}
	if input.Permissions != nil {
		user.SetPermissions(input.Permissions)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", companyID.String()))

	info := NewUserInfo(user)
	return &info, nil
}

// Get returns one user of the company
func (s *UserService) Get(ctx context.Context, companyID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	info := NewUserInfo(user)
	return &info, nil
}

// List returns the company's users. Soft-deleted users never appear.
func (s *UserService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]UserInfo, int64, error) {
	users, err := s.userRepo.FindActiveForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountActiveForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, NewUserInfo(&users[i]))
	}
	return infos, total, nil
}

// Update modifies a user's profile and permissions
func (s *UserService) Update(ctx context.Context, companyID, userID uuid.UUID, input UpdateUserInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	if user.Deleted {
		return nil, shared.ErrNotFound
	}

	if err := user.UpdateProfile(input.Name, input.Role); err != nil {
		return nil, err
	}
	if input.Permissions != nil {
		user.SetPermissions(input.Permissions)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	info := NewUserInfo(user)
	return &info, nil
}

// Delete soft-deletes a user. The row survives so financial history keeps
// resolving; the user just disappears from listings and loses login.
func (s *UserService) Delete(ctx context.Context, companyID, userID uuid.UUID) error {
	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if user.Deleted {
		return shared.ErrNotFound
	}
	if user.Role == identity.RoleOwner {
		return shared.NewDomainError("INVALID_STATE", "The company owner cannot be deleted")
	}

	if err := user.SoftDelete(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User soft-deleted",
		zap.String("user_id", userID.String()),
		zap.String("company_id", companyID.String()))
	return nil
}

// ChangePassword sets a new password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, companyID, userID uuid.UUID, current, next string) error {
	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(current, user.PasswordHash) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}
	if err := user.ChangePassword(hash); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}
