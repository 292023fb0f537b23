package handlers_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"contactpro/server/internal/addressbook"
	"contactpro/server/internal/handlers"
	"contactpro/server/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rosterStore serves only the roster lookups the mail endpoint needs.
type rosterStore struct {
	addressbook.Store
	category *models.Category
	members  []models.Contact
}

func (s *rosterStore) GetCategory(ctx context.Context, userID string, categoryID int64) (*models.Category, error) {
	if s.category == nil || s.category.UserID != userID || s.category.ID != categoryID {
		return nil, addressbook.ErrNotFound
	}
	return s.category, nil
}

func (s *rosterStore) ListContactsByCategory(ctx context.Context, userID string, categoryID int64) ([]models.Contact, error) {
	return s.members, nil
}

type recordingMailer struct {
	recipients []string
	subject    string
	body       string
}

func (m *recordingMailer) Send(recipients []string, subject, htmlBody string) error {
	m.recipients = recipients
	m.subject = subject
	m.body = htmlBody
	return nil
}

func newMailApp() *fiber.App {
	app := fiber.New()
	app.Post("/categories/:categoryId/email", func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		return c.Next()
	}, handlers.SendCategoryEmail)
	return app
}

func TestSendCategoryEmailWithoutMailer(t *testing.T) {
	store := &rosterStore{category: &models.Category{ID: 7, UserID: "user-1", Name: "Friends"}}
	handlers.Init(addressbook.NewService(store, nil), nil)

	app := newMailApp()
	req := httptest.NewRequest("POST", "/categories/7/email",
		bytes.NewReader([]byte(`{"subject":"Hi","body":"<p>Hello</p>"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestSendCategoryEmailDeliversToRoster(t *testing.T) {
	store := &rosterStore{
		category: &models.Category{ID: 7, UserID: "user-1", Name: "Friends"},
		members: []models.Contact{
			{ID: 1, UserID: "user-1", FirstName: "Alice", LastName: "Smith", Email: "alice@x.com"},
			{ID: 2, UserID: "user-1", FirstName: "Bob", LastName: "Jones", Email: "bob@y.com"},
		},
	}
	mailer := &recordingMailer{}
	handlers.Init(addressbook.NewService(store, nil), mailer)

	app := newMailApp()
	req := httptest.NewRequest("POST", "/categories/7/email",
		bytes.NewReader([]byte(`{"subject":"Hi","body":"<p>Hello</p>"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"alice@x.com", "bob@y.com"}, mailer.recipients)
	assert.Equal(t, "Hi", mailer.subject)
}
