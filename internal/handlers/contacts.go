package handlers

import (
	"io"
	"strconv"
	"strings"
	"time"

	"contactpro/server/internal/middleware"
	"contactpro/server/internal/models"

	"github.com/gofiber/fiber/v2"
)

const MaxImageSize = 5 * 1024 * 1024 // 5MB

// contactFromForm builds a contact from multipart form fields. The second
// return value is the selected category ids.
func contactFromForm(c *fiber.Ctx) (*models.Contact, []int64, error) {
	contact := &models.Contact{
		FirstName: strings.TrimSpace(c.FormValue("firstName")),
		LastName:  strings.TrimSpace(c.FormValue("lastName")),
		Email:     strings.TrimSpace(c.FormValue("email")),
	}

	if v := c.FormValue("phone"); v != "" {
		contact.Phone = &v
	}
	if v := c.FormValue("address1"); v != "" {
		contact.Address1 = &v
	}
	if v := c.FormValue("address2"); v != "" {
		contact.Address2 = &v
	}
	if v := c.FormValue("city"); v != "" {
		contact.City = &v
	}
	if v := c.FormValue("state"); v != "" {
		state := models.State(strings.ToUpper(v))
		contact.State = &state
	}
	if v := c.FormValue("zipCode"); v != "" {
		zip, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid zip code")
		}
		contact.ZipCode = &zip
	}
	if v := c.FormValue("dateOfBirth"); v != "" {
		dob, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid date of birth, expected YYYY-MM-DD")
		}
		contact.DateOfBirth = &dob
	}

	// Optional image: bytes and declared type travel together
	if file, err := c.FormFile("image"); err == nil {
		if file.Size > MaxImageSize {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Image size exceeds limit of 5MB")
		}
		f, err := file.Open()
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Failed to read image")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Failed to read image")
		}
		contentType := file.Header.Get("Content-Type")

		contact.ImageData = data
		contact.ImageType = &contentType
	}

	var categoryIDs []int64
	if form, err := c.MultipartForm(); err == nil {
		for _, raw := range form.Value["categoryIds"] {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid category id")
			}
			categoryIDs = append(categoryIDs, id)
		}
	}

	return contact, categoryIDs, nil
}

// ListContacts returns the user's contacts with the category list alongside.
// Supports ?categoryId= filtering and ?q= free-text name search.
func ListContacts(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid category id",
			})
		}

		view, err := book.ListContactsByCategory(c.Context(), userID, categoryID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "data": view})
	}

	// Empty q falls through to the unfiltered list
	view, err := book.SearchContacts(c.Context(), userID, c.Query("q", ""))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": view})
}

// GetContact returns a single contact with its category set
func GetContact(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	contactID, err := strconv.ParseInt(c.Params("contactId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid contact id",
		})
	}

	contact, err := book.GetContact(c.Context(), userID, contactID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": contact})
}

// CreateContact creates a contact from a multipart form with an optional
// image and category selection
func CreateContact(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	contact, categoryIDs, err := contactFromForm(c)
	if err != nil {
		ferr := err.(*fiber.Error)
		return c.Status(ferr.Code).JSON(fiber.Map{
			"success": false,
			"error":   ferr.Message,
		})
	}

	if err := book.CreateContact(c.Context(), userID, contact, categoryIDs); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    contact,
	})
}

// UpdateContact is a full-field edit that replaces the category selection.
// The form must carry the version the client last read.
func UpdateContact(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	contactID, err := strconv.ParseInt(c.Params("contactId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid contact id",
		})
	}

	existing, err := book.GetContact(c.Context(), userID, contactID)
	if err != nil {
		return respondServiceError(c, err)
	}

	contact, categoryIDs, err := contactFromForm(c)
	if err != nil {
		ferr := err.(*fiber.Error)
		return c.Status(ferr.Code).JSON(fiber.Map{
			"success": false,
			"error":   ferr.Message,
		})
	}

	rawVersion := c.FormValue("version")
	if rawVersion == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Version is required",
		})
	}
	version, err := strconv.ParseInt(rawVersion, 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid version",
		})
	}

	contact.ID = contactID
	contact.Version = version
	contact.CreatedAt = existing.CreatedAt

	// No new image keeps the stored one
	if contact.ImageData == nil {
		contact.ImageData = existing.ImageData
		contact.ImageType = existing.ImageType
	}

	if err := book.UpdateContact(c.Context(), userID, contact, categoryIDs); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    contact,
	})
}

// DeleteContact removes a contact; its associations go with it, its
// categories do not
func DeleteContact(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	contactID, err := strconv.ParseInt(c.Params("contactId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid contact id",
		})
	}

	if err := book.DeleteContact(c.Context(), userID, contactID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Contact deleted successfully",
	})
}

// GetContactImage serves the stored image bytes with their declared type
func GetContactImage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	contactID, err := strconv.ParseInt(c.Params("contactId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid contact id",
		})
	}

	contact, err := book.GetContact(c.Context(), userID, contactID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if len(contact.ImageData) == 0 || contact.ImageType == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Contact has no image",
		})
	}

	c.Set(fiber.HeaderContentType, *contact.ImageType)
	return c.Send(contact.ImageData)
}
