// File: internal/data/permissions.go
package data

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/lib/pq"
)

// ----------------------------------------------------------------------
//
//	Definitions
//
// ----------------------------------------------------------------------

// Permission codes known to the system.
const (
	PermContactsRead   = "contacts:read"
	PermContactsWrite  = "contacts:write"
	PermContactsDelete = "contacts:delete"
	PermContactsExport = "contacts:export"
	PermSelfView       = "self:view"
	PermSelfUpdate     = "self:update"
	PermUsersView      = "users:view"
	PermAdminAccess    = "admin:access"
)

// Permissions type to represent a list of permission codes.
type Permissions []string

// PermissionModel wraps a sql.DB connection pool.
type PermissionModel struct {
	DB *sql.DB
}

// Includes checks if a specific permission code exists in the Permissions slice.
func (p Permissions) Includes(code string) bool {
	return slices.Contains(p, code)
}

// PermissionsForRole returns the permission set assigned to accounts of the given role.
func PermissionsForRole(role string) Permissions {
	switch role {
	case RoleAdmin:
		return Permissions{
			PermContactsRead, PermContactsWrite, PermContactsDelete, PermContactsExport,
			PermSelfView, PermSelfUpdate,
			PermUsersView, PermAdminAccess,
		}
	default:
		return Permissions{
			PermContactsRead, PermContactsWrite, PermContactsDelete,
			PermSelfView, PermSelfUpdate,
		}
	}
}

// ----------------------------------------------------------------------
//
//	Methods
//
// ----------------------------------------------------------------------

// GetAllForUser retrieves all permission codes assigned to a user.
func (m *PermissionModel) GetAllForUser(userID int64) (Permissions, error) {
	query := `
		SELECT p.code
		FROM permissions p
		INNER JOIN users_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions Permissions
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		permissions = append(permissions, code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return permissions, nil
}

// AssignPermissions assigns a list of permission codes to a user.
func (m *PermissionModel) AssignPermissions(userID int64, codes Permissions) error {
	cleanCodes := slices.Compact(codes)

	query := `
		INSERT INTO users_permissions (user_id, permission_id)
		SELECT $1, p.id
		FROM permissions p
		WHERE p.code = ANY($2)`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, userID, pq.Array(cleanCodes))
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoRecords
	}

	return nil
}

// ClearPermissions removes all permissions associated with a user.
func (m *PermissionModel) ClearPermissions(userID int64) error {
	query := `
		DELETE FROM users_permissions
		WHERE user_id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoRecords
	}

	return nil
}
