package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullNameIsDerived(t *testing.T) {
	contact := Contact{FirstName: "Alice", LastName: "Smith"}
	assert.Equal(t, "Alice Smith", contact.FullName())
}

func TestValidateAcceptsCompleteContact(t *testing.T) {
	state := State("NC")
	imageType := "image/png"
	contact := Contact{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@x.com",
		State:     &state,
		ImageData: []byte{0x89, 0x50},
		ImageType: &imageType,
	}
	assert.Empty(t, contact.Validate())
}

func TestValidateFieldRules(t *testing.T) {
	imageType := "image/png"
	badState := State("XX")

	cases := []struct {
		name   string
		mutate func(*Contact)
		field  string
	}{
		{"first name too short", func(c *Contact) { c.FirstName = "A" }, "firstName"},
		{"first name too long", func(c *Contact) { c.FirstName = strings.Repeat("a", 51) }, "firstName"},
		{"last name too short", func(c *Contact) { c.LastName = "B" }, "lastName"},
		{"email required", func(c *Contact) { c.Email = "" }, "email"},
		{"unknown state", func(c *Contact) { c.State = &badState }, "state"},
		{"image without type", func(c *Contact) { c.ImageData = []byte{1} }, "image"},
		{"type without image", func(c *Contact) { c.ImageType = &imageType }, "image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			contact := Contact{FirstName: "Alice", LastName: "Smith", Email: "alice@x.com"}
			tc.mutate(&contact)
			errs := contact.Validate()
			require.NotEmpty(t, errs)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestTimestampsRoundTripThroughStorage(t *testing.T) {
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.Local)
	created := time.Date(2023, 8, 14, 15, 16, 53, 0, time.Local)
	contact := Contact{CreatedAt: created, DateOfBirth: &dob}

	contact.NormalizeTimes()
	assert.Equal(t, time.UTC, contact.CreatedAt.Location())
	assert.Equal(t, time.UTC, contact.DateOfBirth.Location())

	contact.LocalizeTimes()
	assert.True(t, contact.CreatedAt.Equal(created))
	require.NotNil(t, contact.DateOfBirth)
	assert.True(t, contact.DateOfBirth.Equal(dob))
	assert.Equal(t, "1990-05-01", contact.DateOfBirth.Format("2006-01-02"))
}

func TestNormalizeTimesHandlesNilBirthDate(t *testing.T) {
	contact := Contact{CreatedAt: time.Now()}
	contact.NormalizeTimes()
	contact.LocalizeTimes()
	assert.Nil(t, contact.DateOfBirth)
}
