// File: cmd/api/tokens.go
package main

import (
	"errors"
	"net/http"
	"time"

	"contactsapi/internal/data"
	"contactsapi/internal/validator"
)

// createAuthenticationTokenHandler exchanges email and password credentials
// for a 24 hour bearer token. Unconfirmed accounts are rejected.
func (app *app) createAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	var loginPayload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := app.readJSON(w, r, &loginPayload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateEmail(v, loginPayload.Email)
	data.ValidatePasswordPlaintext(v, loginPayload.Password)
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.models.Users.GetByEmail(loginPayload.Email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.Password.Matches(loginPayload.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	if !user.Confirmed {
		app.unconfirmedAccountResponse(w, r)
		return
	}

	token, err := app.models.Tokens.New(user.ID, 24*time.Hour, data.ScopeAuthentication)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"authentication_token": token}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteAuthenticationTokenHandler logs the user out by revoking every
// authentication token they hold.
func (app *app) deleteAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	if err := app.models.Tokens.DeleteAllForUser(data.ScopeAuthentication, user.ID); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.userCache.RemoveUser(user.ID)

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "you have been logged out"}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createPasswordResetTokenHandler emails a short lived password reset token.
// The response never reveals whether the email address has an account.
func (app *app) createPasswordResetTokenHandler(w http.ResponseWriter, r *http.Request) {
	var requestPayload struct {
		Email string `json:"email"`
	}

	if err := app.readJSON(w, r, &requestPayload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateEmail(v, requestPayload.Email); !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.models.Users.GetByEmail(requestPayload.Email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			// Fall through to the generic response below.
		default:
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	if user != nil && user.Confirmed {
		token, err := app.models.Tokens.New(user.ID, 45*time.Minute, data.ScopePasswordReset)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		app.background(func() {
			emailData := map[string]any{
				"username":   user.Username,
				"resetToken": token.Plaintext,
			}
			if err := app.mailer.Send(user.Email, "password_reset.tmpl", emailData); err != nil {
				app.logger.Error("failed to send password reset email", "user_id", user.ID, "error", err)
			}
		})
	}

	message := "if a matching account was found, an email with reset instructions was sent"
	if err := app.writeJSON(w, http.StatusOK, envelope{"message": message}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
