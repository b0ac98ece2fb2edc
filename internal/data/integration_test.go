// File: internal/data/integration_test.go
// Description: Integration tests against a real Postgres, enabled via TEST_DB_DSN

package data

import (
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newIntegrationDB connects to the database named by TEST_DB_DSN, skipping the
// test when it is not set. The schema must already be migrated.
func newIntegrationDB(t *testing.T) (*sql.DB, *TestUtils) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("Integration test - set TEST_DB_DSN to run")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })

	testUtils := NewTestUtils(db)
	require.NoError(t, testUtils.CleanDatabase())
	require.NoError(t, testUtils.SeedTestPermissions())

	return db, testUtils
}

func TestContactLifecycleIntegration(t *testing.T) {
	db, testUtils := newIntegrationDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	userID, err := testUtils.SeedTestUser("john_doe", "john@example.com", hash, RoleUser, true)
	require.NoError(t, err)
	require.NoError(t, testUtils.AssignPermissionsToUser(userID, PermissionsForRole(RoleUser)))

	models := NewModels(db)

	contact := &Contact{
		FirstName:   "Jane",
		LastName:    "Smith",
		Email:       "jane.smith@example.com",
		PhoneNumber: "+501 605-5678",
		Birthday:    time.Date(1985, 3, 20, 0, 0, 0, 0, time.UTC),
		UserID:      userID,
	}
	require.NoError(t, models.Contacts.Insert(contact))
	assert.NotZero(t, contact.ID)

	got, err := models.Contacts.Get(contact.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)

	// Another user must not see the contact.
	_, err = models.Contacts.Get(contact.ID, userID+1)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	got.AdditionalData = "met at a conference"
	require.NoError(t, models.Contacts.Update(got))
	assert.Equal(t, 2, got.Version)

	filter := ContactFilter{
		Search: "conference",
		Filter: Filter{Page: 1, PageSize: 20, SortBy: "id", SortSafeList: []string{"id"}},
	}
	contacts, metadata, err := models.Contacts.GetAll(userID, filter)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.Equal(t, int64(1), metadata.TotalRecords)

	require.NoError(t, models.Contacts.Delete(contact.ID, userID))
	assert.ErrorIs(t, models.Contacts.Delete(contact.ID, userID), ErrRecordNotFound)

	testUtils.CleanDatabase()
}

func TestTokenLifecycleIntegration(t *testing.T) {
	db, testUtils := newIntegrationDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	userID, err := testUtils.SeedTestUser("jane_doe", "jane@example.com", hash, RoleUser, true)
	require.NoError(t, err)

	models := NewModels(db)

	token, err := models.Tokens.New(userID, time.Hour, ScopeAuthentication)
	require.NoError(t, err)

	user, err := models.Users.GetForToken(ScopeAuthentication, token.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	// Wrong scope must not resolve.
	_, err = models.Users.GetForToken(ScopeActivation, token.Plaintext)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	require.NoError(t, models.Tokens.DeleteAllForUser(ScopeAuthentication, userID))
	_, err = models.Users.GetForToken(ScopeAuthentication, token.Plaintext)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	testUtils.CleanDatabase()
}

func TestUpcomingBirthdaysIntegration(t *testing.T) {
	db, testUtils := newIntegrationDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	userID, err := testUtils.SeedTestUser("john_doe", "john@example.com", hash, RoleUser, true)
	require.NoError(t, err)

	soon := time.Now().AddDate(-30, 0, 3).Format("2006-01-02")
	far := time.Now().AddDate(-25, 6, 0).Format("2006-01-02")

	_, err = testUtils.SeedTestContact(userID, "Soon", "Birthday", "soon@example.com", "6051234", soon)
	require.NoError(t, err)
	_, err = testUtils.SeedTestContact(userID, "Far", "Birthday", "far@example.com", "6055678", far)
	require.NoError(t, err)

	models := NewModels(db)

	contacts, err := models.Contacts.GetUpcomingBirthdays(userID, 7)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Soon", contacts[0].FirstName)

	testUtils.CleanDatabase()
}
