// File: cmd/api/exports.go
package main

import (
	"errors"
	"net/http"
	"time"

	"contactsapi/internal/data"
	"contactsapi/internal/sheets"
	"contactsapi/internal/validator"
)

// exportContactsHandler pushes every contact the caller owns into a new tab
// of the configured Google spreadsheet and records the run in export history.
func (app *app) exportContactsHandler(w http.ResponseWriter, r *http.Request) {
	if app.sheetsService == nil {
		app.errorResponseJSON(w, r, http.StatusServiceUnavailable, "spreadsheet export is not configured")
		return
	}

	user := app.contextGetUser(r)

	contacts, err := app.models.Contacts.GetForExport(user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(contacts) == 0 {
		app.errorResponseJSON(w, r, http.StatusUnprocessableEntity, "you have no contacts to export")
		return
	}

	sheetName := sheets.GenerateSheetName(user.Username, time.Now())

	export := &data.ExportHistory{
		UserID:        user.ID,
		SpreadsheetID: app.config.sheets.spreadsheetID,
		SheetName:     sheetName,
		Status:        data.ExportStatusPending,
	}

	if err := app.models.ExportHistory.Insert(export); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	rowCount, err := app.sheetsService.ExportContacts(sheetName, contacts, user.Username)
	if err != nil {
		export.Status = data.ExportStatusFailed
		export.ErrorMessage = err.Error()
		if updateErr := app.models.ExportHistory.Update(export); updateErr != nil {
			app.logger.Error("failed to record export failure", "export_id", export.ID, "error", updateErr)
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	export.Status = data.ExportStatusCompleted
	export.RowCount = int64(rowCount)
	if err := app.models.ExportHistory.Update(export); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"export": export}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showExportHandler returns a single export run owned by the caller.
func (app *app) showExportHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	export, err := app.models.ExportHistory.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Export history is scoped to its owner like every other resource.
	if export.UserID != user.ID {
		app.notFoundResponse(w, r)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"export": export}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listExportHistoryHandler lists the caller's past export runs.
func (app *app) listExportHistoryHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	queryParameters := r.URL.Query()
	v := validator.New()

	exportFilter := data.ExportFilter{
		UserID: user.ID,
		Status: app.getSingleQueryParameter(queryParameters, "status", ""),
	}

	if exportFilter.Status != "" {
		v.Check(v.Permitted(exportFilter.Status,
			data.ExportStatusPending, data.ExportStatusCompleted, data.ExportStatusFailed),
			"status", "must be one of pending, completed or failed")
	}

	safelist := []string{"id", "created_at", "-id", "-created_at"}
	exportFilter.Filter = app.readFilters(queryParameters, "-created_at", 20, safelist, v)

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	exports, metadata, err := app.models.ExportHistory.GetAll(exportFilter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"exports": exports, "metadata": metadata}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// sheetsInfoHandler reports the configured spreadsheet's title and tabs.
func (app *app) sheetsInfoHandler(w http.ResponseWriter, r *http.Request) {
	if app.sheetsService == nil {
		app.errorResponseJSON(w, r, http.StatusServiceUnavailable, "spreadsheet export is not configured")
		return
	}

	info, err := app.sheetsService.GetSpreadsheetInfo()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"spreadsheet": info}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
