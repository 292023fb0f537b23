package models

// Category is a user-owned label; contacts and categories are many-to-many
type Category struct {
	ID      int64  `json:"id" db:"id"`
	UserID  string `json:"userId" db:"user_id"`
	Name    string `json:"name" db:"name"`
	Version int64  `json:"version" db:"version"`
}

// Validate checks required fields. An empty map means valid.
func (c *Category) Validate() map[string]string {
	errs := map[string]string{}
	if c.Name == "" {
		errs["name"] = "Category name is required"
	}
	return errs
}

// EmailData is the prepared input for a bulk mail to a category's members.
// EmailAddress keeps one slot per member, so a contact without an email
// contributes an empty slot rather than being dropped.
type EmailData struct {
	GroupName    string `json:"groupName"`
	EmailAddress string `json:"emailAddress"`
	EmailSubject string `json:"emailSubject,omitempty"`
	EmailBody    string `json:"emailBody,omitempty"`
}
