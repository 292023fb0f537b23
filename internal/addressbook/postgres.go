package addressbook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contactpro/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contactColumns = `id, user_id, first_name, last_name, created_at, date_of_birth,
	address1, address2, city, state, zip_code, email, phone, image_data, image_type, version`

// PostgresStore implements Store on top of a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanContact(row scannable) (*models.Contact, error) {
	var c models.Contact
	var state *string

	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.CreatedAt, &c.DateOfBirth,
		&c.Address1, &c.Address2, &c.City, &state, &c.ZipCode, &c.Email, &c.Phone,
		&c.ImageData, &c.ImageType, &c.Version)
	if err != nil {
		return nil, err
	}

	if state != nil {
		s := models.State(*state)
		c.State = &s
	}
	c.Categories = []models.Category{}
	c.LocalizeTimes()

	return &c, nil
}

func stateParam(c *models.Contact) *string {
	if c.State == nil {
		return nil
	}
	s := string(*c.State)
	return &s
}

// CreateContact inserts the contact and assigns its store-generated id.
// Timestamps are normalized to UTC on the way in.
func (s *PostgresStore) CreateContact(ctx context.Context, contact *models.Contact) error {
	contact.NormalizeTimes()
	defer contact.LocalizeTimes()

	err := s.pool.QueryRow(ctx, `
		INSERT INTO contacts (user_id, first_name, last_name, created_at, date_of_birth,
			address1, address2, city, state, zip_code, email, phone, image_data, image_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, version
	`, contact.UserID, contact.FirstName, contact.LastName, contact.CreatedAt, contact.DateOfBirth,
		contact.Address1, contact.Address2, contact.City, stateParam(contact), contact.ZipCode,
		contact.Email, contact.Phone, contact.ImageData, contact.ImageType).
		Scan(&contact.ID, &contact.Version)

	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	if contact.Categories == nil {
		contact.Categories = []models.Category{}
	}
	return nil
}

// GetContact looks up a contact with id and owner combined as one filter.
func (s *PostgresStore) GetContact(ctx context.Context, userID string, contactID int64) (*models.Contact, error) {
	contact, err := scanContact(s.pool.QueryRow(ctx, `
		SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND user_id = $2
	`, contactID, userID))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}

	categories, err := s.contactCategories(ctx, contactID)
	if err != nil {
		return nil, err
	}
	contact.Categories = categories

	return contact, nil
}

// UpdateContact writes every editable field, guarded by the version check.
// Zero rows updated means the row either vanished or changed underneath us.
func (s *PostgresStore) UpdateContact(ctx context.Context, contact *models.Contact) error {
	contact.NormalizeTimes()
	defer contact.LocalizeTimes()

	tag, err := s.pool.Exec(ctx, `
		UPDATE contacts
		SET first_name = $1, last_name = $2, date_of_birth = $3, address1 = $4, address2 = $5,
			city = $6, state = $7, zip_code = $8, email = $9, phone = $10,
			image_data = $11, image_type = $12, version = version + 1
		WHERE id = $13 AND user_id = $14 AND version = $15
	`, contact.FirstName, contact.LastName, contact.DateOfBirth, contact.Address1, contact.Address2,
		contact.City, stateParam(contact), contact.ZipCode, contact.Email, contact.Phone,
		contact.ImageData, contact.ImageType, contact.ID, contact.UserID, contact.Version)

	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		err := s.pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM contacts WHERE id = $1 AND user_id = $2)
		`, contact.ID, contact.UserID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("update contact: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}

	contact.Version++
	return nil
}

// DeleteContact removes the contact; association rows cascade, categories stay.
func (s *PostgresStore) DeleteContact(ctx context.Context, userID string, contactID int64) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM contacts WHERE id = $1 AND user_id = $2
	`, contactID, userID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	return s.queryContacts(ctx, userID, `
		SELECT `+contactColumns+` FROM contacts
		WHERE user_id = $1
		ORDER BY last_name, first_name, id
	`, userID)
}

// likeEscaper keeps %, _ and \ in the needle literal inside ILIKE patterns.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *PostgresStore) SearchContacts(ctx context.Context, userID, text string) ([]models.Contact, error) {
	return s.queryContacts(ctx, userID, `
		SELECT `+contactColumns+` FROM contacts
		WHERE user_id = $1 AND (first_name || ' ' || last_name) ILIKE $2
		ORDER BY last_name, first_name, id
	`, userID, "%"+likeEscaper.Replace(text)+"%")
}

// ListContactsByCategory keeps association insertion order, not name order.
func (s *PostgresStore) ListContactsByCategory(ctx context.Context, userID string, categoryID int64) ([]models.Contact, error) {
	return s.queryContacts(ctx, userID, `
		SELECT `+prefixColumns("ct")+` FROM contacts ct
		INNER JOIN contact_categories cc ON cc.contact_id = ct.id
		INNER JOIN categories c ON c.id = cc.category_id
		WHERE c.id = $2 AND c.user_id = $1
		ORDER BY cc.added_at, ct.id
	`, userID, categoryID)
}

func (s *PostgresStore) queryContacts(ctx context.Context, userID, sql string, args ...any) ([]models.Contact, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	index := map[int64]int{}

	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		index[contact.ID] = len(contacts)
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}

	if len(contacts) == 0 {
		return contacts, nil
	}

	// Hydrate every contact's category set in one pass
	catRows, err := s.pool.Query(ctx, `
		SELECT cc.contact_id, c.id, c.user_id, c.name, c.version
		FROM contact_categories cc
		INNER JOIN categories c ON c.id = cc.category_id
		INNER JOIN contacts ct ON ct.id = cc.contact_id
		WHERE ct.user_id = $1
		ORDER BY cc.added_at, c.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query contact categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var contactID int64
		var category models.Category
		if err := catRows.Scan(&contactID, &category.ID, &category.UserID, &category.Name, &category.Version); err != nil {
			return nil, fmt.Errorf("scan contact category: %w", err)
		}
		if i, ok := index[contactID]; ok {
			contacts[i].Categories = append(contacts[i].Categories, category)
		}
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("query contact categories: %w", err)
	}

	return contacts, nil
}

func (s *PostgresStore) contactCategories(ctx context.Context, contactID int64) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.user_id, c.name, c.version
		FROM categories c
		INNER JOIN contact_categories cc ON cc.category_id = c.id
		WHERE cc.contact_id = $1
		ORDER BY cc.added_at, c.id
	`, contactID)
	if err != nil {
		return nil, fmt.Errorf("query contact categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Version); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *PostgresStore) CreateCategory(ctx context.Context, category *models.Category) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id, version
	`, category.UserID, category.Name).Scan(&category.ID, &category.Version)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, userID string, categoryID int64) (*models.Category, error) {
	var category models.Category
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, name, version FROM categories WHERE id = $1 AND user_id = $2
	`, categoryID, userID).Scan(&category.ID, &category.UserID, &category.Name, &category.Version)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE categories SET name = $1, version = version + 1
		WHERE id = $2 AND user_id = $3 AND version = $4
	`, category.Name, category.ID, category.UserID, category.Version)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		err := s.pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)
		`, category.ID, category.UserID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}

	category.Version++
	return nil
}

// DeleteCategory removes the category; association rows cascade, contacts stay.
func (s *PostgresStore) DeleteCategory(ctx context.Context, userID string, categoryID int64) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM categories WHERE id = $1 AND user_id = $2
	`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, version FROM categories WHERE user_id = $1 ORDER BY name, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Version); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// AddCategoriesToContact attaches categories inside one transaction. The
// insert resolves each category id scoped to the contact's owner, so unknown
// and cross-owner ids resolve to zero rows and are skipped silently.
func (s *PostgresStore) AddCategoriesToContact(ctx context.Context, userID string, contactID int64, categoryIDs []int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := addCategoriesTx(ctx, tx, userID, contactID, categoryIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func addCategoriesTx(ctx context.Context, tx pgx.Tx, userID string, contactID int64, categoryIDs []int64) error {
	// Nothing to attach to
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM contacts WHERE id = $1 AND user_id = $2)
	`, contactID, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check contact: %w", err)
	}
	if !exists {
		return nil
	}

	for _, categoryID := range categoryIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO contact_categories (contact_id, category_id)
			SELECT $1, c.id FROM categories c WHERE c.id = $2 AND c.user_id = $3
			ON CONFLICT DO NOTHING
		`, contactID, categoryID, userID)
		if err != nil {
			return fmt.Errorf("add category %d: %w", categoryID, err)
		}
	}

	return nil
}

// ClearCategoriesFromContact is a single scoped statement, atomic on its own.
func (s *PostgresStore) ClearCategoriesFromContact(ctx context.Context, userID string, contactID int64) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM contact_categories cc
		USING contacts ct
		WHERE cc.contact_id = ct.id AND ct.id = $1 AND ct.user_id = $2
	`, contactID, userID)
	if err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	return nil
}

// ReplaceCategoriesOnContact runs clear and add in one transaction, a
// stronger guarantee than calling the two operations back to back.
func (s *PostgresStore) ReplaceCategoriesOnContact(ctx context.Context, userID string, contactID int64, categoryIDs []int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM contact_categories cc
		USING contacts ct
		WHERE cc.contact_id = ct.id AND ct.id = $1 AND ct.user_id = $2
	`, contactID, userID)
	if err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	if err := addCategoriesTx(ctx, tx, userID, contactID, categoryIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func prefixColumns(prefix string) string {
	return prefix + ".id, " + prefix + ".user_id, " + prefix + ".first_name, " + prefix + ".last_name, " +
		prefix + ".created_at, " + prefix + ".date_of_birth, " + prefix + ".address1, " + prefix + ".address2, " +
		prefix + ".city, " + prefix + ".state, " + prefix + ".zip_code, " + prefix + ".email, " +
		prefix + ".phone, " + prefix + ".image_data, " + prefix + ".image_type, " + prefix + ".version"
}
