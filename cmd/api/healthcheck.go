// File: cmd/api/healthcheck.go
package main

import (
	"context"
	"net/http"
	"time"
)

// healthcheckHandler reports server status and verifies the database connection
// with a round trip.
func (app *app) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var result int
	err := app.models.Users.DB.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		app.logError(r, err)
		app.errorResponseJSON(w, r, http.StatusInternalServerError, "error connecting to the database")
		return
	}

	data := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.env,
			"version":     version,
		},
		"message": "Welcome to the Contacts API. The database is healthy.",
	}

	if err := app.writeJSON(w, http.StatusOK, data, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
