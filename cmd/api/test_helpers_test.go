// File: cmd/api/test_helpers_test.go
// Description: Test helper functions for API handler tests

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contactsapi/internal/cache"
	"contactsapi/internal/data"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

// Column sets matching the SELECT lists in internal/data.
var (
	userTestColumns    = []string{"id", "username", "email", "password_hash", "role", "avatar", "confirmed", "created_at", "updated_at", "version"}
	contactTestColumns = []string{"id", "first_name", "last_name", "email", "phone_number", "birthday", "additional_data", "user_id", "created_at", "updated_at", "version"}
)

// duplicateKeyError builds the Postgres unique violation the driver would
// return for the given constraint.
func duplicateKeyError(constraint string) error {
	return &pq.Error{Code: "23505", Constraint: constraint}
}

// newTestApp creates an application instance backed by a sqlmock database, so
// handler tests can run without a live Postgres.
func newTestApp(t *testing.T) (*app, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open stub database connection: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config{
		port: 8000,
		env:  "test",
	}
	cfg.rateLimit.enabled = false

	testApp := &app{
		config:    cfg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		models:    data.NewModels(db),
		userCache: cache.NewUserCache(15 * time.Minute),
	}

	return testApp, mock
}

// seedAuthenticatedUser primes the user cache so a bearer token resolves
// without touching the database, and returns the token to use.
func seedAuthenticatedUser(app *app, user *data.User) string {
	token := "ABCDEFGHIJKLMNOPQRSTUV"
	app.userCache.Set(token, user)
	return token
}

// expectPermissions queues a permissions lookup for the given user returning
// the supplied codes.
func expectPermissions(mock sqlmock.Sqlmock, userID int64, codes ...string) {
	rows := sqlmock.NewRows([]string{"code"})
	for _, code := range codes {
		rows.AddRow(code)
	}
	mock.ExpectQuery("SELECT p.code FROM permissions").
		WithArgs(userID).
		WillReturnRows(rows)
}

// executeRequest executes an HTTP request and returns the response recorder
func executeRequest(app *app, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.routes().ServeHTTP(rr, req)
	return rr
}

// makeRequest creates and executes an HTTP request
func makeRequest(t *testing.T, app *app, method, url string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.RemoteAddr = "127.0.0.1:12345"
	req.Header.Set("Content-Type", "application/json")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return executeRequest(app, req)
}

// checkResponseCode fails the test when the response code differs from expected
func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected response code %d, got %d", expected, actual)
	}
}

// parseJSONResponse parses a JSON response into a destination struct
func parseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dest); err != nil {
		t.Fatalf("Failed to parse JSON response: %v\nBody: %s", err, rr.Body.String())
	}
}

// authHeaders builds an Authorization header map for a bearer token.
func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
