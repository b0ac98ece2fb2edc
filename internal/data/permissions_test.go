// File: internal/data/permissions_test.go
package data

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionsIncludes(t *testing.T) {
	perms := Permissions{PermContactsRead, PermSelfView}

	assert.True(t, perms.Includes(PermContactsRead))
	assert.False(t, perms.Includes(PermAdminAccess))
}

func TestPermissionsForRole(t *testing.T) {
	userPerms := PermissionsForRole(RoleUser)
	assert.True(t, userPerms.Includes(PermContactsRead))
	assert.True(t, userPerms.Includes(PermContactsWrite))
	assert.True(t, userPerms.Includes(PermSelfUpdate))
	assert.False(t, userPerms.Includes(PermContactsExport))
	assert.False(t, userPerms.Includes(PermAdminAccess))

	adminPerms := PermissionsForRole(RoleAdmin)
	assert.True(t, adminPerms.Includes(PermContactsExport))
	assert.True(t, adminPerms.Includes(PermAdminAccess))
	assert.True(t, adminPerms.Includes(PermUsersView))
}

func TestPermissionModelGetAllForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := PermissionModel{DB: db}

	rows := sqlmock.NewRows([]string{"code"}).
		AddRow(PermContactsRead).
		AddRow(PermSelfView)

	mock.ExpectQuery("SELECT p.code FROM permissions").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	perms, err := m.GetAllForUser(1)
	require.NoError(t, err)
	assert.Len(t, perms, 2)
	assert.True(t, perms.Includes(PermContactsRead))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionModelAssignPermissions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := PermissionModel{DB: db}

	mock.ExpectExec("INSERT INTO users_permissions").
		WillReturnResult(sqlmock.NewResult(0, 5))

	err = m.AssignPermissions(1, PermissionsForRole(RoleUser))
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionModelClearPermissions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := PermissionModel{DB: db}

	t.Run("cleared", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users_permissions").
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 5))

		assert.NoError(t, m.ClearPermissions(1))
	})

	t.Run("nothing to clear", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users_permissions").
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, m.ClearPermissions(2), ErrNoRecords)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
