package partner

// CreateClientInput carries data for creating a client
type CreateClientInput struct {
	Code    string
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

// UpdateClientInput carries a client's mutable fields
type UpdateClientInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

// CreateVendorInput carries data for creating a vendor
type CreateVendorInput struct {
	Code    string
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

// UpdateVendorInput carries a vendor's mutable fields
type UpdateVendorInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}
