package models

import (
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	NameMinLen = 2
	NameMaxLen = 50
)

// Contact represents an address-book entry owned by a single user
type Contact struct {
	ID          int64      `json:"id" db:"id"`
	UserID      string     `json:"userId" db:"user_id"`
	FirstName   string     `json:"firstName" db:"first_name"`
	LastName    string     `json:"lastName" db:"last_name"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Address1    *string    `json:"address1,omitempty" db:"address1"`
	Address2    *string    `json:"address2,omitempty" db:"address2"`
	City        *string    `json:"city,omitempty" db:"city"`
	State       *State     `json:"state,omitempty" db:"state"`
	ZipCode     *int       `json:"zipCode,omitempty" db:"zip_code"`
	Email       string     `json:"email" db:"email"`
	Phone       *string    `json:"phone,omitempty" db:"phone"`
	ImageData   []byte     `json:"-" db:"image_data"`
	ImageType   *string    `json:"imageType,omitempty" db:"image_type"`
	Version     int64      `json:"version" db:"version"`

	Categories []Category `json:"categories"`
}

// FullName is derived, never persisted
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// NormalizeTimes converts boundary timestamps to UTC for storage.
func (c *Contact) NormalizeTimes() {
	c.CreatedAt = c.CreatedAt.UTC()
	if c.DateOfBirth != nil {
		utc := c.DateOfBirth.UTC()
		c.DateOfBirth = &utc
	}
}

// LocalizeTimes converts stored UTC timestamps back to local time.
// Round-tripping through NormalizeTimes and back yields the original value.
func (c *Contact) LocalizeTimes() {
	c.CreatedAt = c.CreatedAt.Local()
	if c.DateOfBirth != nil {
		local := c.DateOfBirth.Local()
		c.DateOfBirth = &local
	}
}

// Validate checks required fields and formats. An empty map means valid.
func (c *Contact) Validate() map[string]string {
	errs := map[string]string{}

	if n := utf8.RuneCountInString(c.FirstName); n < NameMinLen || n > NameMaxLen {
		errs["firstName"] = fmt.Sprintf("First name must be between %d and %d characters", NameMinLen, NameMaxLen)
	}
	if n := utf8.RuneCountInString(c.LastName); n < NameMinLen || n > NameMaxLen {
		errs["lastName"] = fmt.Sprintf("Last name must be between %d and %d characters", NameMinLen, NameMaxLen)
	}
	if c.Email == "" {
		errs["email"] = "Email address is required"
	}
	if c.State != nil && !c.State.Valid() {
		errs["state"] = "Unknown state"
	}

	// An image without a declared type is invalid, and vice versa
	if (len(c.ImageData) > 0) != (c.ImageType != nil && *c.ImageType != "") {
		errs["image"] = "Image data and image type must be set together"
	}

	return errs
}
