// Filename: /cmd/api/routes.go
// Description: connects the routes with the api handlers

package main

import (
	"net/http"

	"contactsapi/internal/data"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *app) routes() http.Handler {

	router := httprouter.New()

	// Handle 404 errors
	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	// Handle 405 errors
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Operational endpoints
	router.HandlerFunc(http.MethodGet, "/api/healthchecker", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	// Registration and email confirmation
	router.HandlerFunc(http.MethodPost, "/api/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/api/auth/confirmed_email/:token", app.confirmEmailHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/request_email", app.resendActivationHandler)

	// Sessions
	router.HandlerFunc(http.MethodPost, "/api/auth/login", app.createAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/logout", app.requireAuthenticatedUser(app.deleteAuthenticationTokenHandler))

	// Password reset
	router.HandlerFunc(http.MethodPost, "/api/password/request-reset", app.createPasswordResetTokenHandler)
	router.HandlerFunc(http.MethodPost, "/api/password/reset", app.resetPasswordHandler)

	// Users
	router.HandlerFunc(http.MethodGet, "/api/users/me", app.requirePermission(data.PermSelfView, app.showCurrentUserHandler))
	router.HandlerFunc(http.MethodPatch, "/api/users/avatar", app.requirePermission(data.PermSelfUpdate, app.updateAvatarHandler))
	router.HandlerFunc(http.MethodGet, "/api/admin", app.requirePermission(data.PermAdminAccess, app.adminHandler))

	// Contacts
	router.HandlerFunc(http.MethodGet, "/api/contacts", app.requirePermission(data.PermContactsRead, app.listContactsHandler))
	router.HandlerFunc(http.MethodPost, "/api/contacts", app.requirePermission(data.PermContactsWrite, app.createContactHandler))
	router.HandlerFunc(http.MethodGet, "/api/contacts/:id", app.requirePermission(data.PermContactsRead, app.showContactHandler))
	router.HandlerFunc(http.MethodPut, "/api/contacts/:id", app.requirePermission(data.PermContactsWrite, app.updateContactHandler))
	router.HandlerFunc(http.MethodDelete, "/api/contacts/:id", app.requirePermission(data.PermContactsDelete, app.deleteContactHandler))
	router.HandlerFunc(http.MethodPost, "/api/contacts/upcoming-birthdays", app.requirePermission(data.PermContactsRead, app.upcomingBirthdaysHandler))

	// Exports
	router.HandlerFunc(http.MethodPost, "/api/contacts/export", app.requirePermission(data.PermContactsExport, app.exportContactsHandler))
	router.HandlerFunc(http.MethodGet, "/api/exports", app.requirePermission(data.PermContactsExport, app.listExportHistoryHandler))
	router.HandlerFunc(http.MethodGet, "/api/exports/:id", app.requirePermission(data.PermContactsExport, app.showExportHandler))
	router.HandlerFunc(http.MethodGet, "/api/sheets/info", app.requirePermission(data.PermContactsExport, app.sheetsInfoHandler))

	return app.recoverPanic(app.metrics(app.rateLimit(app.enableCORS(app.requestID(app.authenticate(router))))))
}
