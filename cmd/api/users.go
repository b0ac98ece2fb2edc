// File: cmd/api/users.go
package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"contactsapi/internal/data"
	"contactsapi/internal/validator"
)

// registerUserHandler handles new account registration. New accounts start
// unconfirmed and receive an activation email in the background.
func (app *app) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var registerPayload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := app.readJSON(w, r, &registerPayload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &data.User{
		Username:  registerPayload.Username,
		Email:     registerPayload.Email,
		Role:      data.RoleUser,
		Avatar:    data.GravatarURL(registerPayload.Email),
		Confirmed: false,
	}

	if err := user.Password.Set(registerPayload.Password); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateUser(v, user); !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := app.models.Users.Insert(user); err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			v.AddError("email", "a user with this email address already exists")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrDuplicateUsername):
			v.AddError("username", "a user with this username already exists")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := app.models.Permissions.AssignPermissions(user.ID, data.PermissionsForRole(user.Role)); err != nil {
		// Registration still succeeds; permissions can be assigned later.
		app.logger.Error("failed to assign permissions", "user_id", user.ID, "error", err)
	}

	token, err := app.models.Tokens.New(user.ID, 3*24*time.Hour, data.ScopeActivation)
	if err != nil {
		app.logger.Error("failed to generate activation token", "user_id", user.ID, "error", err)
	}

	if token != nil {
		app.background(func() {
			emailData := map[string]any{
				"username":        user.Username,
				"baseURL":         app.config.baseURL,
				"activationToken": token.Plaintext,
			}
			if err := app.mailer.Send(user.Email, "user_welcome.tmpl", emailData); err != nil {
				app.logger.Error("failed to send activation email", "user_id", user.ID, "error", err)
			}
		})
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/users/%d", user.ID))

	if err := app.writeJSON(w, http.StatusCreated, envelope{"user": user}, headers); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// confirmEmailHandler marks an account as confirmed given a valid activation
// token from the emailed link. Confirming twice is harmless.
func (app *app) confirmEmailHandler(w http.ResponseWriter, r *http.Request) {
	tokenPlaintext := app.readStringParam(r, "token")

	v := validator.New()
	if data.ValidateTokenPlaintext(v, tokenPlaintext); !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.models.Users.GetForToken(data.ScopeActivation, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			v.AddError("token", "invalid or expired activation token")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if user.Confirmed {
		if err := app.writeJSON(w, http.StatusOK, envelope{"message": "your email is already confirmed"}, nil); err != nil {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := app.models.Users.ConfirmEmail(user.Email); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.models.Tokens.DeleteAllForUser(data.ScopeActivation, user.ID); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.userCache.RemoveUser(user.ID)

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "email successfully confirmed"}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// resendActivationHandler re-sends the activation email for an unconfirmed
// account. The response never reveals whether the email address exists.
func (app *app) resendActivationHandler(w http.ResponseWriter, r *http.Request) {
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
		if err := app.writeJSON(w, http.StatusOK, envelope{"message": "your email is already confirmed"}, nil); err != nil {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if user != nil {
		if err := app.models.Tokens.DeleteAllForUser(data.ScopeActivation, user.ID); err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		token, err := app.models.Tokens.New(user.ID, 3*24*time.Hour, data.ScopeActivation)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		app.background(func() {
			emailData := map[string]any{
				"username":        user.Username,
				"baseURL":         app.config.baseURL,
				"activationToken": token.Plaintext,
			}
			if err := app.mailer.Send(user.Email, "user_welcome.tmpl", emailData); err != nil {
				app.logger.Error("failed to send activation email", "user_id", user.ID, "error", err)
			}
		})
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "check your email for confirmation"}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showCurrentUserHandler returns the authenticated user's profile.
func (app *app) showCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	if err := app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateAvatarHandler sets a new avatar URL on the authenticated user.
func (app *app) updateAvatarHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	var avatarPayload struct {
		Avatar string `json:"avatar"`
	}

	if err := app.readJSON(w, r, &avatarPayload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(avatarPayload.Avatar != "", "avatar", "must be provided")
	v.Check(len(avatarPayload.Avatar) <= 255, "avatar", "must not be more than 255 characters long")
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	updated, err := app.models.Users.UpdateAvatar(user.Email, avatarPayload.Avatar)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.userCache.RemoveUser(user.ID)

	if err := app.writeJSON(w, http.StatusOK, envelope{"user": updated}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// adminHandler greets administrators; everyone else is rejected by the
// permission middleware.
func (app *app) adminHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	message := fmt.Sprintf("Welcome, %s! This is the administrative route.", user.Username)
	if err := app.writeJSON(w, http.StatusOK, envelope{"message": message}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// resetPasswordHandler sets a new password given a valid password-reset token
// and revokes every outstanding token for the user.
func (app *app) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var resetPayload struct {
		TokenPlaintext string `json:"token"`
		Password       string `json:"password"`
	}

	if err := app.readJSON(w, r, &resetPayload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateTokenPlaintext(v, resetPayload.TokenPlaintext)
	data.ValidatePasswordPlaintext(v, resetPayload.Password)
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.models.Users.GetForToken(data.ScopePasswordReset, resetPayload.TokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			v.AddError("token", "invalid or expired password reset token")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := user.Password.Set(resetPayload.Password); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.models.Users.Update(user); err != nil {
		switch {
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	for _, scope := range []string{data.ScopePasswordReset, data.ScopeAuthentication} {
		if err := app.models.Tokens.DeleteAllForUser(scope, user.ID); err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	app.userCache.RemoveUser(user.ID)

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "your password was successfully reset"}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
