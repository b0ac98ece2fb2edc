// File: internal/data/testutils.go
// Description: Database testing utilities for integration tests

package data

import (
	"database/sql"
	"fmt"
)

// TestUtils provides utility functions for testing database operations.
type TestUtils struct {
	DB *sql.DB
}

// NewTestUtils creates a new TestUtils instance.
func NewTestUtils(db *sql.DB) *TestUtils {
	return &TestUtils{DB: db}
}

// TruncateAllTables removes all data from all tables in the correct order to avoid foreign key constraints.
func (tu *TestUtils) TruncateAllTables() error {
	tables := []string{
		"export_history",
		"users_permissions",
		"tokens",
		"contacts",
		"permissions",
		"users",
	}

	for _, table := range tables {
		query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)
		_, err := tu.DB.Exec(query)
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// ResetIdentitySequences resets all identity sequences to start from 1.
func (tu *TestUtils) ResetIdentitySequences() error {
	sequences := []string{
		"users_id_seq",
		"permissions_id_seq",
		"contacts_id_seq",
		"export_history_id_seq",
	}

	for _, seq := range sequences {
		query := fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH 1", seq)
		_, err := tu.DB.Exec(query)
		if err != nil {
			return fmt.Errorf("failed to reset sequence %s: %w", seq, err)
		}
	}

	return nil
}

// CleanDatabase truncates all tables and resets sequences for a clean test environment.
func (tu *TestUtils) CleanDatabase() error {
	if err := tu.TruncateAllTables(); err != nil {
		return err
	}
	return tu.ResetIdentitySequences()
}

// SeedTestPermissions creates the standard permission codes.
func (tu *TestUtils) SeedTestPermissions() error {
	codes := []string{
		PermContactsRead, PermContactsWrite, PermContactsDelete, PermContactsExport,
		PermSelfView, PermSelfUpdate,
		PermUsersView, PermAdminAccess,
	}

	for _, code := range codes {
		_, err := tu.DB.Exec("INSERT INTO permissions (code) VALUES ($1) ON CONFLICT (code) DO NOTHING", code)
		if err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", code, err)
		}
	}

	return nil
}

// SeedTestUser inserts a user row directly and returns its ID.
func (tu *TestUtils) SeedTestUser(username, email string, passwordHash []byte, role string, confirmed bool) (int64, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role, avatar, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, '', $5, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := tu.DB.QueryRow(query, username, email, passwordHash, role, confirmed).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	return id, nil
}

// AssignPermissionsToUser links existing permission codes to a user.
func (tu *TestUtils) AssignPermissionsToUser(userID int64, codes []string) error {
	for _, code := range codes {
		_, err := tu.DB.Exec(`
			INSERT INTO users_permissions (user_id, permission_id)
			SELECT $1, id FROM permissions WHERE code = $2`, userID, code)
		if err != nil {
			return fmt.Errorf("failed to assign permission %s: %w", code, err)
		}
	}
	return nil
}

// SeedTestContact inserts a contact row directly and returns its ID.
func (tu *TestUtils) SeedTestContact(userID int64, firstName, lastName, email, phone, birthday string) (int64, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_data, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::date, '', $6, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := tu.DB.QueryRow(query, firstName, lastName, email, phone, birthday, userID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to seed contact %s: %w", email, err)
	}
	return id, nil
}
