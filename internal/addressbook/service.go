package addressbook

import (
	"context"
	"strings"
	"time"

	"contactpro/server/internal/models"

	"go.uber.org/zap"
)

// Service owns the contact/category lifecycle for authenticated users:
// scoped CRUD, the many-to-many association workflow, the derived list views,
// and roster resolution for bulk mail.
type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, log: logger}
}

// CreateContact validates, stamps ownership and creation time, persists the
// contact, then attaches the selected categories.
func (s *Service) CreateContact(ctx context.Context, userID string, contact *models.Contact, categoryIDs []int64) error {
	contact.UserID = userID
	contact.CreatedAt = time.Now()

	if errs := contact.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	if err := s.store.CreateContact(ctx, contact); err != nil {
		s.log.Error("create contact failed", zap.String("userId", userID), zap.Error(err))
		return err
	}

	if len(categoryIDs) > 0 {
		if err := s.store.AddCategoriesToContact(ctx, userID, contact.ID, categoryIDs); err != nil {
			s.log.Error("attach categories failed", zap.Int64("contactId", contact.ID), zap.Error(err))
			return err
		}
	}

	refreshed, err := s.store.GetContact(ctx, userID, contact.ID)
	if err != nil {
		return err
	}
	contact.Categories = refreshed.Categories

	return nil
}

func (s *Service) GetContact(ctx context.Context, userID string, contactID int64) (*models.Contact, error) {
	return s.store.GetContact(ctx, userID, contactID)
}

// UpdateContact is a full-field edit: it validates, writes the row under the
// version check, and replaces the association set with the new selection in
// one transaction.
func (s *Service) UpdateContact(ctx context.Context, userID string, contact *models.Contact, categoryIDs []int64) error {
	contact.UserID = userID

	if errs := contact.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	if err := s.store.UpdateContact(ctx, contact); err != nil {
		return err
	}

	if err := s.store.ReplaceCategoriesOnContact(ctx, userID, contact.ID, categoryIDs); err != nil {
		s.log.Error("replace categories failed", zap.Int64("contactId", contact.ID), zap.Error(err))
		return err
	}

	refreshed, err := s.store.GetContact(ctx, userID, contact.ID)
	if err != nil {
		return err
	}
	contact.Categories = refreshed.Categories

	return nil
}

// DeleteContact removes the contact and its association rows only.
func (s *Service) DeleteContact(ctx context.Context, userID string, contactID int64) error {
	return s.store.DeleteContact(ctx, userID, contactID)
}

// AddCategories attaches a set of categories to a contact. Missing contact is
// a no-op, unknown and cross-owner category ids are skipped, duplicates are
// absorbed by set semantics.
func (s *Service) AddCategories(ctx context.Context, userID string, contactID int64, categoryIDs []int64) error {
	return s.store.AddCategoriesToContact(ctx, userID, contactID, categoryIDs)
}

// ClearCategories removes every association for the contact.
func (s *Service) ClearCategories(ctx context.Context, userID string, contactID int64) error {
	return s.store.ClearCategoriesFromContact(ctx, userID, contactID)
}

// ReplaceCategories runs the clear-then-add workflow as one transaction.
func (s *Service) ReplaceCategories(ctx context.Context, userID string, contactID int64, categoryIDs []int64) error {
	return s.store.ReplaceCategoriesOnContact(ctx, userID, contactID, categoryIDs)
}

// ContactListView is a contact list plus the caller's full category set,
// which every list screen needs for its filter controls.
type ContactListView struct {
	Contacts   []models.Contact  `json:"contacts"`
	Categories []models.Category `json:"categories"`
}

// ListContacts returns all of the user's contacts ordered by last then first
// name, with the category list alongside.
func (s *Service) ListContacts(ctx context.Context, userID string) (*ContactListView, error) {
	contacts, err := s.store.ListContacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withCategories(ctx, userID, contacts)
}

// ListContactsByCategory returns the category's members in association order.
// A category id belonging to another user yields an empty list, never their
// contacts.
func (s *Service) ListContactsByCategory(ctx context.Context, userID string, categoryID int64) (*ContactListView, error) {
	contacts, err := s.store.ListContactsByCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	return s.withCategories(ctx, userID, contacts)
}

// SearchContacts filters by case-insensitive substring match on the full
// name. Empty search text is the unfiltered list, not an error.
func (s *Service) SearchContacts(ctx context.Context, userID, text string) (*ContactListView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.ListContacts(ctx, userID)
	}

	contacts, err := s.store.SearchContacts(ctx, userID, text)
	if err != nil {
		return nil, err
	}
	return s.withCategories(ctx, userID, contacts)
}

func (s *Service) withCategories(ctx context.Context, userID string, contacts []models.Contact) (*ContactListView, error) {
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ContactListView{Contacts: contacts, Categories: categories}, nil
}

func (s *Service) CreateCategory(ctx context.Context, userID string, category *models.Category) error {
	category.UserID = userID
	if errs := category.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		s.log.Error("create category failed", zap.String("userId", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) GetCategory(ctx context.Context, userID string, categoryID int64) (*models.Category, error) {
	return s.store.GetCategory(ctx, userID, categoryID)
}

func (s *Service) UpdateCategory(ctx context.Context, userID string, category *models.Category) error {
	category.UserID = userID
	if errs := category.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return s.store.UpdateCategory(ctx, category)
}

// DeleteCategory removes the category and its association rows; member
// contacts are left intact.
func (s *Service) DeleteCategory(ctx context.Context, userID string, categoryID int64) error {
	return s.store.DeleteCategory(ctx, userID, categoryID)
}

func (s *Service) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

// Roster resolves a category to its display name, ordered member list, and
// the "; "-joined recipient string. A contact without an email keeps its
// slot, so positions line up with the member list.
func (s *Service) Roster(ctx context.Context, userID string, categoryID int64) (*models.EmailData, []models.Contact, error) {
	category, err := s.store.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.store.ListContactsByCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, nil, err
	}

	emails := make([]string, len(members))
	for i, member := range members {
		emails[i] = member.Email
	}

	data := &models.EmailData{
		GroupName:    category.Name,
		EmailAddress: strings.Join(emails, "; "),
	}
	return data, members, nil
}
