package handlers

import (
	"strconv"

	"contactpro/server/internal/email"
	"contactpro/server/internal/middleware"
	"contactpro/server/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CategoryRequest represents create/update category request body
type CategoryRequest struct {
	Name    string `json:"name"`
	Version int64  `json:"version,omitempty"`
}

// EmailRequest represents the bulk mail request body
type EmailRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func paramCategoryID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("categoryId"), 10, 64)
}

// ListCategories returns all of the user's categories
func ListCategories(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	categories, err := book.ListCategories(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

// CreateCategory creates a category owned by the current user
func CreateCategory(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	category := models.Category{Name: req.Name}
	if err := book.CreateCategory(c.Context(), userID, &category); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    category,
	})
}

// GetCategory returns a single category
func GetCategory(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	categoryID, err := paramCategoryID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid category id",
		})
	}

	category, err := book.GetCategory(c.Context(), userID, categoryID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// UpdateCategory renames a category under the version check
func UpdateCategory(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	categoryID, err := paramCategoryID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid category id",
		})
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	category := models.Category{ID: categoryID, Name: req.Name, Version: req.Version}
	if err := book.UpdateCategory(c.Context(), userID, &category); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    category,
	})
}

// DeleteCategory removes a category; member contacts lose the association
// but stay intact
func DeleteCategory(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	categoryID, err := paramCategoryID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid category id",
		})
	}

	if err := book.DeleteCategory(c.Context(), userID, categoryID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Category deleted successfully",
	})
}

// EmailCategoryPreview returns the roster: group name, member list, and the
// joined recipient string for the compose screen
func EmailCategoryPreview(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	categoryID, err := paramCategoryID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid category id",
		})
	}

	emailData, members, err := book.Roster(c.Context(), userID, categoryID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"email":    emailData,
			"contacts": members,
		},
	})
}

// SendCategoryEmail resolves the roster and delivers the message to every
// member with an email address
func SendCategoryEmail(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	categoryID, err := paramCategoryID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid category id",
		})
	}

	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.Subject == "" || req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Subject and body are required",
		})
	}

	if mailer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Mail is not configured",
		})
	}

	emailData, _, err := book.Roster(c.Context(), userID, categoryID)
	if err != nil {
		return respondServiceError(c, err)
	}

	recipients := email.SplitRecipients(emailData.EmailAddress)
	if len(recipients) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Category has no contacts with an email address",
		})
	}

	if err := mailer.Send(recipients, req.Subject, req.Body); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send email",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email sent successfully",
	})
}
