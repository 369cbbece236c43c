package partner

import (
	"context"
	"strings"

	"github.com/finvoice/backend/internal/domain/partner"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VendorService manages a company's vendors
type VendorService struct {
	vendorRepo partner.VendorRepository
	logger     *zap.Logger
}

// NewVendorService creates a new vendor service
func NewVendorService(vendorRepo partner.VendorRepository, logger *zap.Logger) *VendorService {
	return &VendorService{
		vendorRepo: vendorRepo,
		logger:     logger,
	}
}

// Create adds a vendor to the company. Codes are unique per company.
func (s *VendorService) Create(ctx context.Context, companyID uuid.UUID, input CreateVendorInput) (*partner.Vendor, error) {
	exists, err := s.vendorRepo.ExistsByCode(ctx, companyID, strings.ToUpper(input.Code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "A vendor with this code already exists")
	}

	vendor, err := partner.NewVendor(companyID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if err := vendor.Update(input.Name, input.Email, input.Phone, input.Address, input.Notes); err != nil {
		return nil, err
	}

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	s.logger.Info("Vendor created",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("company_id", companyID.String()))
	return vendor, nil
}

// Get returns one vendor of the company
func (s *VendorService) Get(ctx context.Context, companyID, vendorID uuid.UUID) (*partner.Vendor, error) {
	return s.vendorRepo.FindByIDForCompany(ctx, companyID, vendorID)
}

// List returns the company's vendors with a total count
func (s *VendorService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Vendor, int64, error) {
	vendors, err := s.vendorRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.vendorRepo.CountForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// Update modifies a vendor's mutable fields
func (s *VendorService) Update(ctx context.Context, companyID, vendorID uuid.UUID, input UpdateVendorInput) (*partner.Vendor, error) {
	vendor, err := s.vendorRepo.FindByIDForCompany(ctx, companyID, vendorID)
	if err != nil {
		return nil, err
	}
	if err := vendor.Update(input.Name, input.Email, input.Phone, input.Address, input.Notes); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Deactivate marks a vendor inactive without deleting it
func (s *VendorService) Deactivate(ctx context.Context, companyID, vendorID uuid.UUID) (*partner.Vendor, error) {
	vendor, err := s.vendorRepo.FindByIDForCompany(ctx, companyID, vendorID)
	if err != nil {
		return nil, err
	}
	if err := vendor.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Delete removes a vendor
func (s *VendorService) Delete(ctx context.Context, companyID, vendorID uuid.UUID) error {
	return s.vendorRepo.DeleteForCompany(ctx, companyID, vendorID)
}
