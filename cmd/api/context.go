// File: cmd/api/context.go
package main

import (
	"context"
	"net/http"

	"contactsapi/internal/data"
)

type contextKey string

const userContextKey = contextKey("user")

// contextSetUser adds the user information to the request context.
func (app *app) contextSetUser(r *http.Request, user *data.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser retrieves the user information from the request context.
func (app *app) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(userContextKey).(*data.User)
	if !ok {
		panic("missing user value in context")
	}
	return user
}
