// File: internal/data/contacts.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contactsapi/internal/validator"
)

// ----------------------------------------------------------------------
//
//	Definitions
//
// ----------------------------------------------------------------------

// Contact represents a single address-book entry owned by a user.
type Contact struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Birthday       time.Time `json:"birthday"`
	AdditionalData string    `json:"additional_data,omitempty"`
	UserID         int64     `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"-"`
}

// ContactModel wraps a sql.DB connection pool.
type ContactModel struct {
	DB *sql.DB
}

// ContactFilter represents filtering criteria for listing contacts.
type ContactFilter struct {
	Filter    Filter
	Search    string
	FirstName string
	LastName  string
	Email     string
}

// ----------------------------------------------------------------------
//
//	Methods
//
// ----------------------------------------------------------------------

// ValidateContact checks the fields of a Contact struct to ensure they meet the required criteria.
func ValidateContact(v *validator.Validator, contact *Contact) {
	v.Check(contact.FirstName != "", "first_name", "must be provided")
	v.Check(len(contact.FirstName) >= 2, "first_name", "must be at least 2 characters long")
	v.Check(len(contact.FirstName) <= 50, "first_name", "must not be more than 50 characters long")

	v.Check(contact.LastName != "", "last_name", "must be provided")
	v.Check(len(contact.LastName) >= 2, "last_name", "must be at least 2 characters long")
	v.Check(len(contact.LastName) <= 50, "last_name", "must not be more than 50 characters long")

	v.Check(contact.Email != "", "email", "must be provided")
	v.Check(len(contact.Email) <= 100, "email", "must not be more than 100 characters long")
	v.Check(v.Matches(contact.Email, validator.EmailRX), "email", "must be a valid email address")

	v.Check(contact.PhoneNumber != "", "phone_number", "must be provided")
	v.Check(v.Matches(contact.PhoneNumber, validator.PhoneRX), "phone_number", "must be between 6 and 20 digits")

	v.Check(!contact.Birthday.IsZero(), "birthday", "must be provided")
	v.Check(!contact.Birthday.After(time.Now()), "birthday", "must not be in the future")

	v.Check(len(contact.AdditionalData) <= 150, "additional_data", "must not be more than 150 characters long")
}

// ValidateBirthdayWindow checks the number of days used for the upcoming-birthdays lookup.
func ValidateBirthdayWindow(v *validator.Validator, days int) {
	v.Check(days >= 0, "days", "must be zero or greater")
	v.Check(days <= 366, "days", "must be a maximum of 366")
}

// ----------------------------------------------------------------------
//
//	Database interaction methods
//
// ----------------------------------------------------------------------

// Insert adds a new contact owned by the given user.
func (m *ContactModel) Insert(contact *Contact) error {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_data, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.DB.QueryRowContext(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday,
		contact.AdditionalData,
		contact.UserID,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt, &contact.Version)
}

// Get retrieves a single contact by ID, scoped to its owner.
func (m *ContactModel) Get(id, userID int64) (*Contact, error) {
	query := `
		SELECT id, first_name, last_name, email, phone_number, birthday, additional_data, user_id, created_at, updated_at, version
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	contact := &Contact{}

	err := m.DB.QueryRowContext(ctx, query, id, userID).Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.PhoneNumber,
		&contact.Birthday,
		&contact.AdditionalData,
		&contact.UserID,
		&contact.CreatedAt,
		&contact.UpdatedAt,
		&contact.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return contact, nil
}

// Update modifies an existing contact guarded by its version, scoped to its owner.
func (m *ContactModel) Update(contact *Contact) error {
	query := `
		UPDATE contacts
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4, birthday = $5, additional_data = $6, updated_at = NOW(), version = version + 1
		WHERE id = $7 AND user_id = $8 AND version = $9
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday,
		contact.AdditionalData,
		contact.ID,
		contact.UserID,
		contact.Version,
	).Scan(&contact.UpdatedAt, &contact.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEditConflict
		}
		return err
	}
	return nil
}

// Delete removes a contact by ID, scoped to its owner.
func (m *ContactModel) Delete(id, userID int64) error {
	query := `
		DELETE FROM contacts
		WHERE id = $1 AND user_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetAll retrieves a page of the user's contacts matching the filter criteria.
// Search matches across names, email, phone number and notes.
func (m *ContactModel) GetAll(userID int64, filter ContactFilter) ([]*Contact, MetaData, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER(), id, first_name, last_name, email, phone_number, birthday, additional_data, user_id, created_at, updated_at, version
		FROM contacts
		WHERE user_id = $1
		  AND (first_name ILIKE '%%' || $2 || '%%')
		  AND (last_name ILIKE '%%' || $3 || '%%')
		  AND (email ILIKE '%%' || $4 || '%%')
		  AND ($5 = '' OR first_name ILIKE '%%' || $5 || '%%' OR last_name ILIKE '%%' || $5 || '%%'
		       OR email ILIKE '%%' || $5 || '%%' OR phone_number ILIKE '%%' || $5 || '%%'
		       OR additional_data ILIKE '%%' || $5 || '%%')
		ORDER BY %s %s, id ASC
		LIMIT $6 OFFSET $7
	`, filter.Filter.SortColumn(), filter.Filter.SortDirection())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	args := []any{
		userID,
		filter.FirstName,
		filter.LastName,
		filter.Email,
		filter.Search,
		filter.Filter.Limit(),
		filter.Filter.Offset(),
	}

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MetaData{}, err
	}
	defer rows.Close()

	contacts := []*Contact{}
	totalRecords := int64(0)

	for rows.Next() {
		contact := &Contact{}
		err := rows.Scan(
			&totalRecords,
			&contact.ID,
			&contact.FirstName,
			&contact.LastName,
			&contact.Email,
			&contact.PhoneNumber,
			&contact.Birthday,
			&contact.AdditionalData,
			&contact.UserID,
			&contact.CreatedAt,
			&contact.UpdatedAt,
			&contact.Version,
		)
		if err != nil {
			return nil, MetaData{}, err
		}
		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, MetaData{}, err
	}

	metadata := CalculateMetaData(totalRecords, filter.Filter.Page, filter.Filter.PageSize)

	return contacts, metadata, nil
}

// GetUpcomingBirthdays retrieves the user's contacts whose MM-DD birthday falls
// within [today, today+days]. The OR branch handles the year-end wraparound,
// where the window end sorts before its start.
func (m *ContactModel) GetUpcomingBirthdays(userID int64, days int) ([]*Contact, error) {
	query := `
		SELECT id, first_name, last_name, email, phone_number, birthday, additional_data, user_id, created_at, updated_at, version
		FROM contacts
		WHERE user_id = $1
		  AND (
			(to_char(CURRENT_DATE, 'MM-DD') <= to_char(CURRENT_DATE + $2::int, 'MM-DD')
			 AND to_char(birthday, 'MM-DD') >= to_char(CURRENT_DATE, 'MM-DD')
			 AND to_char(birthday, 'MM-DD') <= to_char(CURRENT_DATE + $2::int, 'MM-DD'))
			OR
			(to_char(CURRENT_DATE, 'MM-DD') > to_char(CURRENT_DATE + $2::int, 'MM-DD')
			 AND (to_char(birthday, 'MM-DD') >= to_char(CURRENT_DATE, 'MM-DD')
			      OR to_char(birthday, 'MM-DD') <= to_char(CURRENT_DATE + $2::int, 'MM-DD')))
		  )
		ORDER BY to_char(birthday, 'MM-DD'), id
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, userID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*Contact{}

	for rows.Next() {
		contact := &Contact{}
		err := rows.Scan(
			&contact.ID,
			&contact.FirstName,
			&contact.LastName,
			&contact.Email,
			&contact.PhoneNumber,
			&contact.Birthday,
			&contact.AdditionalData,
			&contact.UserID,
			&contact.CreatedAt,
			&contact.UpdatedAt,
			&contact.Version,
		)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}

// GetForExport retrieves all of the user's contacts ordered for spreadsheet export.
func (m *ContactModel) GetForExport(userID int64) ([]*Contact, error) {
	query := `
		SELECT id, first_name, last_name, email, phone_number, birthday, additional_data, user_id, created_at, updated_at, version
		FROM contacts
		WHERE user_id = $1
		ORDER BY last_name, first_name, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*Contact{}

	for rows.Next() {
		contact := &Contact{}
		err := rows.Scan(
			&contact.ID,
			&contact.FirstName,
			&contact.LastName,
			&contact.Email,
			&contact.PhoneNumber,
			&contact.Birthday,
			&contact.AdditionalData,
			&contact.UserID,
			&contact.CreatedAt,
			&contact.UpdatedAt,
			&contact.Version,
		)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}
