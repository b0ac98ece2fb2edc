// File: internal/data/models.go
package data

import "database/sql"

// Models wraps all data models for use with the shared connection pool.
type Models struct {
	Contacts      ContactModel
	ExportHistory ExportHistoryModel
	Permissions   PermissionModel
	Tokens        TokenModel
	Users         UserModel
}

// NewModels initializes the Models struct with a given database connection.
func NewModels(db *sql.DB) Models {
	return Models{
		Contacts:      ContactModel{DB: db},
		ExportHistory: ExportHistoryModel{DB: db},
		Permissions:   PermissionModel{DB: db},
		Tokens:        TokenModel{DB: db},
		Users:         UserModel{DB: db},
	}
}
