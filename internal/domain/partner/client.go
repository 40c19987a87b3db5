package partner

import (
	"strings"

	"github.com/exonyb/backoffice/internal/domain/shared"
)

// ClientStatus represents the status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// IsValid reports whether the status is a known value
func (s ClientStatus) IsValid() bool {
	return s == ClientStatusActive || s == ClientStatusInactive
}

// Client is a customer of the shop
type Client struct {
	shared.BaseEntity
	FirstName string       `gorm:"type:varchar(100);not null"`
	LastName  string       `gorm:"type:varchar(100);not null"`
	Email     string       `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone     string       `gorm:"type:varchar(30);index"`
	Address   string       `gorm:"type:varchar(500)"`
	Status    ClientStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes     string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new active client
func NewClient(firstName, lastName, email string) (*Client, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validatePersonName("first name", firstName); err != nil {
		return nil, err
	}
	if err := validatePersonName("last name", lastName); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		Status:     ClientStatusActive,
	}, nil
}

// FullName returns "First Last"
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Rename updates the client's names
func (c *Client) Rename(firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if err := validatePersonName("first name", firstName); err != nil {
		return err
	}
	if err := validatePersonName("last name", lastName); err != nil {
		return err
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.Touch()
	return nil
}

// SetEmail changes the client's email
func (c *Client) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	c.Email = email
	c.Touch()
	return nil
}

// SetContact sets phone and address
func (c *Client) SetContact(phone, address string) error {
	phone = strings.TrimSpace(phone)
	if err := validatePhone(phone); err != nil {
		return err
	}
	if err := validateAddress(address); err != nil {
		return err
	}
	c.Phone = phone
	c.Address = strings.TrimSpace(address)
	c.Touch()
	return nil
}

// SetNotes sets free-form notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.Touch()
}

// SetStatus changes the client status
func (c *Client) SetStatus(status ClientStatus) error {
	if !status.IsValid() {
		return shared.NewBadRequestError("INVALID_STATUS", "Invalid client status")
	}
	c.Status = status
	c.Touch()
	return nil
}

// IsActive returns true if the client can place orders
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

func validatePersonName(field, name string) error {
	if name == "" {
		return shared.NewBadRequestError("INVALID_NAME", "Client "+field+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewBadRequestError("INVALID_NAME", "Client "+field+" cannot exceed 100 characters")
	}
	return nil
}
