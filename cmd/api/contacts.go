// File: cmd/api/contacts.go
package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"contactsapi/internal/data"
	"contactsapi/internal/validator"
)

func (app *app) createContactHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	var contactPayload struct {
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Email          string `json:"email"`
		PhoneNumber    string `json:"phone_number"`
		Birthday       string `json:"birthday"`
		AdditionalData string `json:"additional_data"`
	}

	if err := app.readJSON(w, r, &contactPayload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()

	birthday, err := time.Parse("2006-01-02", contactPayload.Birthday)
	if err != nil {
		v.AddError("birthday", "must be a valid date in YYYY-MM-DD format")
	}

	contact := &data.Contact{
		FirstName:      contactPayload.FirstName,
		LastName:       contactPayload.LastName,
		Email:          contactPayload.Email,
		PhoneNumber:    contactPayload.PhoneNumber,
		Birthday:       birthday,
		AdditionalData: contactPayload.AdditionalData,
		UserID:         user.ID,
	}

	if data.ValidateContact(v, contact); !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := app.models.Contacts.Insert(contact); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/contacts/%d", contact.ID))

	if err := app.writeJSON(w, http.StatusCreated, envelope{"contact": contact}, headers); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *app) showContactHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	contact, err := app.models.Contacts.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"contact": contact}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listContactsHandler lists the caller's contacts with optional per field
// filters, a free text search across every field, sorting and pagination.
func (app *app) listContactsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	queryParameters := r.URL.Query()
	v := validator.New()

	contactFilter := data.ContactFilter{
		Search:    app.getSingleQueryParameter(queryParameters, "search", ""),
		FirstName: app.getSingleQueryParameter(queryParameters, "first_name", ""),
		LastName:  app.getSingleQueryParameter(queryParameters, "last_name", ""),
		Email:     app.getSingleQueryParameter(queryParameters, "email", ""),
	}

	safelist := []string{"id", "first_name", "last_name", "email", "birthday",
		"-id", "-first_name", "-last_name", "-email", "-birthday"}
	contactFilter.Filter = app.readFilters(queryParameters, "id", 20, safelist, v)

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	contacts, metadata, err := app.models.Contacts.GetAll(user.ID, contactFilter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"contacts": contacts, "metadata": metadata}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *app) updateContactHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	contact, err := app.models.Contacts.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var contactPayload struct {
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Email          string `json:"email"`
		PhoneNumber    string `json:"phone_number"`
		Birthday       string `json:"birthday"`
		AdditionalData string `json:"additional_data"`
	}

	if err := app.readJSON(w, r, &contactPayload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()

	birthday, err := time.Parse("2006-01-02", contactPayload.Birthday)
	if err != nil {
		v.AddError("birthday", "must be a valid date in YYYY-MM-DD format")
	}

	contact.FirstName = contactPayload.FirstName
	contact.LastName = contactPayload.LastName
	contact.Email = contactPayload.Email
	contact.PhoneNumber = contactPayload.PhoneNumber
	contact.Birthday = birthday
	contact.AdditionalData = contactPayload.AdditionalData

	if data.ValidateContact(v, contact); !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := app.models.Contacts.Update(contact); err != nil {
		switch {
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"contact": contact}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *app) deleteContactHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	if err := app.models.Contacts.Delete(id, user.ID); err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// upcomingBirthdaysHandler lists contacts whose birthday falls within the
// next N days, with year end wraparound handled by the query.
func (app *app) upcomingBirthdaysHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	var windowPayload struct {
		Days int `json:"days"`
	}

	if err := app.readJSON(w, r, &windowPayload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateBirthdayWindow(v, windowPayload.Days); !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	contacts, err := app.models.Contacts.GetUpcomingBirthdays(user.ID, windowPayload.Days)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"contacts": contacts, "days": windowPayload.Days}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
