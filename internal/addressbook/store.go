package addressbook

import (
	"context"

	"contactpro/server/internal/models"
)

// Store is the persistence boundary for contacts, categories, and their
// association. Every method takes the owning user's id and must apply it as
// part of the query itself, never as a fetch-then-check.
type Store interface {
	CreateContact(ctx context.Context, contact *models.Contact) error
	GetContact(ctx context.Context, userID string, contactID int64) (*models.Contact, error)
	UpdateContact(ctx context.Context, contact *models.Contact) error
	DeleteContact(ctx context.Context, userID string, contactID int64) error

	// ListContacts returns the owner's contacts ordered by last name then
	// first name, each hydrated with its category set.
	ListContacts(ctx context.Context, userID string) ([]models.Contact, error)

	// ListContactsByCategory returns the category's members in association
	// order. A category owned by someone else yields an empty result.
	ListContactsByCategory(ctx context.Context, userID string, categoryID int64) ([]models.Contact, error)

	// SearchContacts matches text case-insensitively against full names,
	// ordered by last name then first name.
	SearchContacts(ctx context.Context, userID, text string) ([]models.Contact, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, userID string, categoryID int64) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, userID string, categoryID int64) error
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)

	// AddCategoriesToContact attaches the given categories atomically.
	// Missing contact: no-op. Unknown or cross-owner category ids: skipped.
	// Re-adding an existing pair: no-op.
	AddCategoriesToContact(ctx context.Context, userID string, contactID int64, categoryIDs []int64) error

	// ClearCategoriesFromContact removes every association for the contact,
	// leaving the categories themselves untouched. Missing contact: no-op.
	ClearCategoriesFromContact(ctx context.Context, userID string, contactID int64) error

	// ReplaceCategoriesOnContact clears then re-adds in a single transaction.
	ReplaceCategoriesOnContact(ctx context.Context, userID string, contactID int64, categoryIDs []int64) error
}
