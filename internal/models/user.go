package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// User represents a registered account. TaxID (CPF or CNPJ) is the stable
// identity key used for purchase-limit enforcement, independent of the
// login credential.
type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	TaxID        string    `json:"tax_id" db:"tax_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Organizer    bool      `json:"organizer" db:"organizer"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserCreateRequest represents the data needed to register a new user
type UserCreateRequest struct {
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Organizer bool   `json:"organizer"`
}

var (
	// Email validation regex
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Tax id: 11 digits (CPF) or 14 digits (CNPJ), punctuation stripped
	taxIDRegex = regexp.MustCompile(`^(\d{11}|\d{14})$`)
)

// Validate validates user registration data
func (req *UserCreateRequest) Validate() error {
	if err := validateUserName(req.Name); err != nil {
		return err
	}

	if err := ValidateTaxID(req.TaxID); err != nil {
		return err
	}

	if err := validateUserEmail(req.Email); err != nil {
		return err
	}

	if err := validateUserPassword(req.Password); err != nil {
		return err
	}

	return nil
}

// NormalizeTaxID strips the usual CPF/CNPJ punctuation
func NormalizeTaxID(taxID string) string {
	replacer := strings.NewReplacer(".", "", "-", "", "/", "", " ", "")
	return replacer.Replace(taxID)
}

// ValidateTaxID validates a CPF/CNPJ after normalization
func ValidateTaxID(taxID string) error {
	normalized := NormalizeTaxID(taxID)
	if normalized == "" {
		return errors.New("tax id is required")
	}

	if !taxIDRegex.MatchString(normalized) {
		return errors.New("tax id must be a valid CPF or CNPJ")
	}

	return nil
}

// validateUserName validates a user name
func validateUserName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required")
	}

	if len(name) > 255 {
		return errors.New("name must be less than 255 characters")
	}

	return nil
}

// validateUserEmail validates a user email
func validateUserEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}

	if len(email) > 255 {
		return errors.New("email must be less than 255 characters")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("email format is invalid")
	}

	return nil
}

// validateUserPassword validates a user password
func validateUserPassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if len(password) > 72 {
		return errors.New("password must be less than 72 characters")
	}

	return nil
}

// IsOrganizer returns true if the user can manage events
func (u *User) IsOrganizer() bool {
	return u.Organizer
}
