package partner

import (
	"strings"

	"github.com/exonyb/backoffice/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// IsValid reports whether the status is a known value
func (s SupplierStatus) IsValid() bool {
	return s == SupplierStatusActive || s == SupplierStatusInactive
}

// Supplier (fournisseur) provides products to the catalog
type Supplier struct {
	shared.BaseEntity
	Name        string         `gorm:"type:varchar(200);not null;uniqueIndex"`
	ContactName string         `gorm:"type:varchar(100)"`
	Email       string         `gorm:"type:varchar(200);index"`
	Phone       string         `gorm:"type:varchar(30)"`
	Address     string         `gorm:"type:varchar(500)"`
	Status      SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes       string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(name string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	return &Supplier{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Status:     SupplierStatusActive,
	}, nil
}

// Rename changes the supplier name
func (s *Supplier) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateSupplierName(name); err != nil {
		return err
	}
	s.Name = name
	s.Touch()
	return nil
}

// SetContact sets the contact details. Empty email is allowed.
func (s *Supplier) SetContact(contactName, email, phone, address string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if len(contactName) > 100 {
		return shared.NewBadRequestError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if err := validatePhone(phone); err != nil {
		return err
	}
	if err := validateAddress(address); err != nil {
		return err
	}

	s.ContactName = strings.TrimSpace(contactName)
	s.Email = email
	s.Phone = phone
	s.Address = strings.TrimSpace(address)
	s.Touch()
	return nil
}

// SetNotes sets free-form notes
func (s *Supplier) SetNotes(notes string) {
	s.Notes = notes
	s.Touch()
}

// SetStatus changes the supplier status
func (s *Supplier) SetStatus(status SupplierStatus) error {
	if !status.IsValid() {
		return shared.NewBadRequestError("INVALID_STATUS", "Invalid supplier status")
	}
	s.Status = status
	s.Touch()
	return nil
}

func validateSupplierName(name string) error {
	if name == "" {
		return shared.NewBadRequestError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewBadRequestError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	return nil
}
