// File: internal/data/contacts_test.go
package data

import (
	"testing"
	"time"

	"contactsapi/internal/validator"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactColumns = []string{"id", "first_name", "last_name", "email", "phone_number", "birthday", "additional_data", "user_id", "created_at", "updated_at", "version"}

func validTestContact() *Contact {
	return &Contact{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john.doe@example.com",
		PhoneNumber: "+501 605-1234",
		Birthday:    time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		UserID:      1,
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Contact)
		valid  bool
	}{
		{"Valid contact", func(c *Contact) {}, true},
		{"Missing first name", func(c *Contact) { c.FirstName = "" }, false},
		{"First name too short", func(c *Contact) { c.FirstName = "J" }, false},
		{"Missing last name", func(c *Contact) { c.LastName = "" }, false},
		{"Invalid email", func(c *Contact) { c.Email = "not-an-email" }, false},
		{"Invalid phone number", func(c *Contact) { c.PhoneNumber = "abc" }, false},
		{"Missing birthday", func(c *Contact) { c.Birthday = time.Time{} }, false},
		{"Future birthday", func(c *Contact) { c.Birthday = time.Now().Add(48 * time.Hour) }, false},
		{"Notes too long", func(c *Contact) {
			for len(c.AdditionalData) <= 150 {
				c.AdditionalData += "notes "
			}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact := validTestContact()
			tt.modify(contact)

			v := validator.New()
			ValidateContact(v, contact)
			assert.Equal(t, tt.valid, v.IsValid(), "errors: %v", v.Errors)
		})
	}
}

func TestValidateBirthdayWindow(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		valid bool
	}{
		{"Week ahead", 7, true},
		{"Zero days", 0, true},
		{"Full year", 366, true},
		{"Negative", -1, false},
		{"Beyond a year", 367, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateBirthdayWindow(v, tt.days)
			assert.Equal(t, tt.valid, v.IsValid())
		})
	}
}

func TestContactModelInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := ContactModel{DB: db}

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version"}).
		AddRow(10, now, now, 1)

	mock.ExpectQuery("INSERT INTO contacts").
		WillReturnRows(rows)

	contact := validTestContact()
	err = m.Insert(contact)
	require.NoError(t, err)
	assert.Equal(t, int64(10), contact.ID)
	assert.Equal(t, 1, contact.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactModelGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := ContactModel{DB: db}

	t.Run("found for owner", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(contactColumns).
			AddRow(10, "John", "Doe", "john.doe@example.com", "+501 605-1234", now, "", 1, now, now, 1)

		mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id").
			WithArgs(int64(10), int64(1)).
			WillReturnRows(rows)

		contact, err := m.Get(10, 1)
		require.NoError(t, err)
		assert.Equal(t, "John", contact.FirstName)
	})

	t.Run("not found for another user", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id").
			WithArgs(int64(10), int64(2)).
			WillReturnRows(sqlmock.NewRows(contactColumns))

		_, err := m.Get(10, 2)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactModelUpdateEditConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := ContactModel{DB: db}

	mock.ExpectQuery("UPDATE contacts").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at", "version"}))

	contact := validTestContact()
	contact.ID = 10
	contact.Version = 1

	err = m.Update(contact)
	assert.ErrorIs(t, err, ErrEditConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactModelDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := ContactModel{DB: db}

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM contacts").
			WithArgs(int64(10), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, m.Delete(10, 1))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM contacts").
			WithArgs(int64(99), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, m.Delete(99, 1), ErrRecordNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactModelGetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := ContactModel{DB: db}

	now := time.Now()
	columns := append([]string{"count"}, contactColumns...)
	rows := sqlmock.NewRows(columns).
		AddRow(2, 10, "John", "Doe", "john.doe@example.com", "+501 605-1234", now, "", 1, now, now, 1).
		AddRow(2, 11, "Jane", "Smith", "jane.smith@example.com", "+501 605-5678", now, "old friend", 1, now, now, 1)

	mock.ExpectQuery("SELECT COUNT(.+) FROM contacts").
		WillReturnRows(rows)

	filter := ContactFilter{
		Filter: Filter{Page: 1, PageSize: 20, SortBy: "id", SortSafeList: []string{"id"}},
	}

	contacts, metadata, err := m.GetAll(1, filter)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
	assert.Equal(t, int64(2), metadata.TotalRecords)
	assert.Equal(t, int64(1), metadata.CurrentPage)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactModelGetUpcomingBirthdays(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := ContactModel{DB: db}

	now := time.Now()
	rows := sqlmock.NewRows(contactColumns).
		AddRow(10, "John", "Doe", "john.doe@example.com", "+501 605-1234", now, "", 1, now, now, 1)

	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE user_id").
		WithArgs(int64(1), 7).
		WillReturnRows(rows)

	contacts, err := m.GetUpcomingBirthdays(1, 7)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}
