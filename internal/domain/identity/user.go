package identity

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// IsValid reports whether the status is known
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusDisabled
}

// Password cost for bcrypt
const bcryptCost = 12

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetterRegex = regexp.MustCompile(`[a-zA-Z]`)
	hasNumberRegex = regexp.MustCompile(`[0-9]`)
)

// User is a back-office staff account
type User struct {
	shared.BaseEntity
	Email          string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"`
	FirstName      string     `gorm:"type:varchar(100);not null"`
	LastName       string     `gorm:"type:varchar(100);not null"`
	Role           Role       `gorm:"type:varchar(20);not null;default:'employee'"`
	Permissions    []string   `gorm:"type:text;serializer:json"`
	Status         UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user with a hashed password
func NewUser(email, password, firstName, lastName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewBadRequestError("INVALID_ROLE", "Invalid role")
	}

	u := &User{
		BaseEntity:  shared.NewBaseEntity(),
		Email:       email,
		Role:        role,
		Permissions: make([]string, 0),
		Status:      UserStatusActive,
	}
	if err := u.SetName(firstName, lastName); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SetName updates first and last name
func (u *User) SetName(firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return shared.NewBadRequestError("INVALID_NAME", "First and last name are required")
	}
	if len(firstName) > 100 || len(lastName) > 100 {
		return shared.NewBadRequestError("INVALID_NAME", "Names cannot exceed 100 characters")
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Touch()
	return nil
}

// SetRole changes the role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewBadRequestError("INVALID_ROLE", "Invalid role")
	}
	u.Role = role
	u.Touch()
	return nil
}

// SetStatus enables or disables the account
func (u *User) SetStatus(status UserStatus) error {
	if !status.IsValid() {
		return shared.NewBadRequestError("INVALID_STATUS", "Invalid user status")
	}
	u.Status = status
	if status == UserStatusActive {
		u.FailedAttempts = 0
		u.LockedUntil = nil
	}
	u.Touch()
	return nil
}

// SetPermissions replaces the extra grants. Codes are validated and deduplicated.
func (u *User) SetPermissions(codes []string) error {
	perms := make([]string, 0, len(codes))
	for _, code := range codes {
		p, err := ParsePermission(code)
		if err != nil {
			return err
		}
		if !slices.Contains(perms, p.String()) {
			perms = append(perms, p.String())
		}
	}
	u.Permissions = perms
	u.Touch()
	return nil
}

// EffectivePermissions returns role defaults plus extra grants
func (u *User) EffectivePermissions() []string {
	return EffectivePermissions(u.Role, u.Permissions)
}

// HasPermission checks a "resource:action" code
func (u *User) HasPermission(code string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return slices.Contains(u.EffectivePermissions(), code)
}

// ChangePassword changes the password after checking the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewBadRequestError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewDomainError(shared.KindInternal, "PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
}

// RecordLoginFailure records a failed login attempt.
// Returns true if the account got locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.Touch()
	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.LockedUntil = &until
		return true
	}
	return false
}

// IsActive returns true if user is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsLocked returns true while a failed-login lock is in effect
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin returns true if user can login
func (u *User) CanLogin() bool {
	return u.IsActive() && !u.IsLocked()
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewBadRequestError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewBadRequestError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !hasLetterRegex.MatchString(password) || !hasNumberRegex.MatchString(password) {
		return shared.NewBadRequestError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewBadRequestError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewBadRequestError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
